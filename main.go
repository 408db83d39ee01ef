package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alc6/dbparity/catalog"
)

const (
	exitPass  = 0
	exitFail  = 1
	exitFatal = 2
)

var (
	mcpMode      bool
	driverName   string
	profileName  string
	policyPath   string
	countWorkers int
)

var rootCmd = &cobra.Command{
	Use:   "dbparity",
	Short: "Compare database catalogs for structural parity",
	Long: `dbparity reads the catalog of a database (tables, views, procedures,
functions, indexes, constraints and table row counts) and compares it
against a second database, reporting every structural difference.

Commands:
  compare:  diff the catalogs of two databases and report PASS or FAIL
  validate: read the catalog of one database and print a summary
  mcp mode (--mcp): run as Model Context Protocol server

Exit codes: 0 when the catalogs match, 1 when differences were found
(or a validated catalog is degraded), 2 when a catalog could not be
read at all.`,
	Run: runRoot,
}

var compareCmd = &cobra.Command{
	Use:   "compare [source-dsn] [target-dsn]",
	Short: "Diff the catalogs of two databases",
	Args:  cobra.ExactArgs(2),
	Run:   runCompare,
}

var validateCmd = &cobra.Command{
	Use:   "validate [dsn]",
	Short: "Read one database catalog and print a summary",
	Args:  cobra.ExactArgs(1),
	Run:   runValidate,
}

func main() {
	if err := run(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(exitFatal)
	}
}

func run() error {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	registerCommands()

	return rootCmd.Execute()
}

func registerCommands() {
	if rootCmd.Flags().Lookup("mcp") == nil {
		rootCmd.Flags().BoolVar(&mcpMode, "mcp", false, "Run as Model Context Protocol server")
	}
	if compareCmd.Flags().Lookup("driver") == nil {
		compareCmd.Flags().StringVarP(&driverName, "driver", "d", "postgres", "Database driver for both sides (postgres, mysql, sqlite3, sqlserver)")
		compareCmd.Flags().StringVarP(&profileName, "profile", "p", "full", "Comparison profile (full, application)")
		compareCmd.Flags().StringVar(&policyPath, "policy-file", "", "YAML file with additional exclusions")
		compareCmd.Flags().IntVar(&countWorkers, "count-workers", 4, "Concurrent row count queries per database")
	}
	if validateCmd.Flags().Lookup("driver") == nil {
		validateCmd.Flags().StringVarP(&driverName, "driver", "d", "postgres", "Database driver (postgres, mysql, sqlite3, sqlserver)")
		validateCmd.Flags().IntVar(&countWorkers, "count-workers", 4, "Concurrent row count queries")
	}
	if !compareCmd.HasParent() {
		rootCmd.AddCommand(compareCmd, validateCmd)
	}
}

func runRoot(cmd *cobra.Command, _ []string) {
	if mcpMode {
		slog.Info("starting mcp server")
		if err := StartMCPServer(); err != nil {
			slog.Error("failed to start mcp server", "error", err)
			os.Exit(exitFatal)
		}
		return
	}

	if err := cmd.Help(); err != nil {
		slog.Error("failed to print help", "error", err)
		os.Exit(exitFatal)
	}
}

func runCompare(_ *cobra.Command, args []string) {
	sourceDSN, targetDSN := args[0], args[1]

	profile, err := resolveProfile(profileName, policyPath, NewFilePolicyLoader())
	if err != nil {
		slog.Error("failed to resolve comparison profile", "error", err)
		os.Exit(exitFatal)
	}

	source := NewSQLCatalogSource(driverName, sourceDSN, countWorkers)
	target := NewSQLCatalogSource(driverName, targetDSN, countWorkers)

	verdict, err := compareCore(context.Background(), source, target, profile)
	if err != nil {
		slog.Error("failed to compare catalogs", "error", err)
		os.Exit(exitFatal)
	}

	fmt.Print(catalog.FormatVerdict(verdict))

	if !verdict.Pass {
		os.Exit(exitFail)
	}
}

func runValidate(_ *cobra.Command, args []string) {
	source := NewSQLCatalogSource(driverName, args[0], countWorkers)

	summary, healthy, err := validateCore(context.Background(), source)
	if err != nil {
		slog.Error("failed to validate catalog", "error", err)
		os.Exit(exitFatal)
	}

	fmt.Print(summary)

	if !healthy {
		os.Exit(exitFail)
	}
}
