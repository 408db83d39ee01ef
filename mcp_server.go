package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alc6/dbparity/catalog"
)

// StartMCPServer starts the MCP server for catalog comparison
func StartMCPServer() error {
	s := server.NewMCPServer(
		"dbparity",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	compareTool := mcp.NewTool("compare_catalogs",
		mcp.WithDescription("Compare the catalogs of two databases and report structural differences"),
		mcp.WithString("driver",
			mcp.Required(),
			mcp.Description("Database driver used for both sides"),
			mcp.Enum("postgres", "mysql", "sqlite3", "sqlserver"),
		),
		mcp.WithString("source_dsn",
			mcp.Required(),
			mcp.Description("Connection string of the reference database"),
		),
		mcp.WithString("target_dsn",
			mcp.Required(),
			mcp.Description("Connection string of the database to check"),
		),
		mcp.WithString("profile",
			mcp.Description("Comparison profile: 'full' compares everything, 'application' skips indexes, constraints and known system objects (default: full)"),
			mcp.Enum("full", "application"),
		),
	)

	s.AddTool(compareTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCompareCatalogs(ctx, request)
	})

	validateTool := mcp.NewTool("validate_catalog",
		mcp.WithDescription("Read the catalog of one database and return a summary of its objects"),
		mcp.WithString("driver",
			mcp.Required(),
			mcp.Description("Database driver"),
			mcp.Enum("postgres", "mysql", "sqlite3", "sqlserver"),
		),
		mcp.WithString("dsn",
			mcp.Required(),
			mcp.Description("Connection string of the database"),
		),
	)

	s.AddTool(validateTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleValidateCatalog(ctx, request)
	})

	slog.Info("starting dbparity mcp server")
	return server.ServeStdio(s)
}

// handleCompareCatalogs processes the compare_catalogs tool request
func handleCompareCatalogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	driver, err := request.RequireString("driver")
	if err != nil {
		return mcp.NewToolResultError("driver parameter is required"), nil
	}

	sourceDSN, err := request.RequireString("source_dsn")
	if err != nil {
		return mcp.NewToolResultError("source_dsn parameter is required"), nil
	}

	targetDSN, err := request.RequireString("target_dsn")
	if err != nil {
		return mcp.NewToolResultError("target_dsn parameter is required"), nil
	}

	profileName := request.GetString("profile", "full")

	output, err := compareCatalogsCore(ctx, driver, sourceDSN, targetDSN, profileName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("catalog comparison completed:\n\n%s", output)), nil
}

// compareCatalogsCore contains the core logic for the compare_catalogs tool,
// separated for testing
func compareCatalogsCore(ctx context.Context, driver, sourceDSN, targetDSN, profileName string) (string, error) {
	profile, err := resolveProfile(profileName, "", NewFilePolicyLoader())
	if err != nil {
		return "", err
	}

	source := NewSQLCatalogSource(driver, sourceDSN, 0)
	target := NewSQLCatalogSource(driver, targetDSN, 0)

	verdict, err := compareCore(ctx, source, target, profile)
	if err != nil {
		return "", err
	}

	return catalog.FormatVerdict(verdict), nil
}

// handleValidateCatalog processes the validate_catalog tool request
func handleValidateCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	driver, err := request.RequireString("driver")
	if err != nil {
		return mcp.NewToolResultError("driver parameter is required"), nil
	}

	dsn, err := request.RequireString("dsn")
	if err != nil {
		return mcp.NewToolResultError("dsn parameter is required"), nil
	}

	output, err := validateCatalogCore(ctx, driver, dsn)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("catalog validation completed:\n\n%s", output)), nil
}

// validateCatalogCore contains the core logic for the validate_catalog tool,
// separated for testing. A degraded catalog (missing row counts) is still a
// successful tool call, the summary already spells out what was unavailable.
func validateCatalogCore(ctx context.Context, driver, dsn string) (string, error) {
	summary, _, err := validateCore(ctx, NewSQLCatalogSource(driver, dsn, 0))
	return summary, err
}
