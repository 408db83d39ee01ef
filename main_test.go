package main

import (
	"context"
	"database/sql"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alc6/dbparity/catalog"
)

func TestComparePostgresCatalogs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	if !isDockerAvailable() {
		t.Skip("docker not available, skipping postgres integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("source_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute)),
	)
	require.NoError(t, err)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	sourceDSN, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	ddl := []string{
		`create table users (
			id serial primary key,
			email varchar(255) not null unique,
			created_at timestamp default current_timestamp
		)`,
		`create table posts (
			id serial primary key,
			title varchar(255) not null,
			user_id integer not null references users(id)
		)`,
		`create index idx_posts_user_id on posts(user_id)`,
		`create view recent_posts as select id, title from posts`,
		`create function post_count() returns bigint language sql as $$ select count(*) from posts $$`,
		`create procedure prune_posts() language sql as $$ delete from posts where title = '' $$`,
		`insert into users (email) values ('ada@example.com'), ('grace@example.com')`,
		`insert into posts (title, user_id) values ('hello', 1), ('again', 1)`,
	}

	sourceDB, err := sql.Open("postgres", sourceDSN)
	require.NoError(t, err)
	defer sourceDB.Close()

	for _, stmt := range ddl {
		_, err := sourceDB.Exec(stmt)
		require.NoError(t, err)
	}

	_, err = sourceDB.Exec("create database target_db")
	require.NoError(t, err)

	targetDSN := strings.Replace(sourceDSN, "source_db", "target_db", 1)
	targetDB, err := sql.Open("postgres", targetDSN)
	require.NoError(t, err)
	defer targetDB.Close()

	for _, stmt := range ddl {
		_, err := targetDB.Exec(stmt)
		require.NoError(t, err)
	}

	t.Run("identical_databases_pass", func(t *testing.T) {
		verdict, err := compareCore(ctx,
			NewSQLCatalogSource("postgres", sourceDSN, 2),
			NewSQLCatalogSource("postgres", targetDSN, 2),
			catalog.FullProfile())

		require.NoError(t, err)
		assert.True(t, verdict.Pass, catalog.FormatVerdict(verdict))
	})

	t.Run("drifted_target_fails", func(t *testing.T) {
		_, err := targetDB.Exec("create table audit_log (id serial primary key)")
		require.NoError(t, err)

		verdict, err := compareCore(ctx,
			NewSQLCatalogSource("postgres", sourceDSN, 2),
			NewSQLCatalogSource("postgres", targetDSN, 2),
			catalog.FullProfile())

		require.NoError(t, err)
		require.False(t, verdict.Pass)

		// the extra table brings its primary key index and constraint along
		require.Len(t, verdict.Findings, 3)
		assert.Equal(t, catalog.FindingExtra, verdict.Findings[0].Kind)
		assert.Equal(t, catalog.Tables, verdict.Findings[0].Category)
		assert.Equal(t, "public.audit_log", verdict.Findings[0].Object.String())
	})

	t.Run("row_count_drift_fails", func(t *testing.T) {
		_, err := targetDB.Exec("drop table audit_log")
		require.NoError(t, err)
		_, err = targetDB.Exec("insert into users (email) values ('eve@example.com')")
		require.NoError(t, err)

		verdict, err := compareCore(ctx,
			NewSQLCatalogSource("postgres", sourceDSN, 2),
			NewSQLCatalogSource("postgres", targetDSN, 2),
			catalog.FullProfile())

		require.NoError(t, err)
		require.False(t, verdict.Pass)
		require.Len(t, verdict.Findings, 1)

		finding := verdict.Findings[0]
		assert.Equal(t, catalog.FindingRowCount, finding.Kind)
		assert.Equal(t, "public.users", finding.Object.String())
		assert.Equal(t, int64(2), finding.Source.Int64)
		assert.Equal(t, int64(3), finding.Target.Int64)
	})

	t.Run("validate_summary", func(t *testing.T) {
		summary, healthy, err := validateCore(ctx, NewSQLCatalogSource("postgres", sourceDSN, 2))

		require.NoError(t, err)
		assert.True(t, healthy)
		assert.Contains(t, summary, "tables: 2")
		assert.Contains(t, summary, "views: 1")
		assert.Contains(t, summary, "procedures: 1")
		assert.Contains(t, summary, "functions: 1")
	})
}

func TestRun(t *testing.T) {
	t.Run("help_flag", func(t *testing.T) {
		resetCommand()
		rootCmd.SetArgs([]string{"--help"})
		err := rootCmd.Execute()
		t.Logf("help command result: %v", err)
	})

	t.Run("no_arguments_shows_help", func(t *testing.T) {
		resetCommand()
		rootCmd.SetArgs([]string{})
		err := rootCmd.Execute()
		assert.NoError(t, err)
	})
}

func resetCommand() {
	mcpMode = false
	driverName = "postgres"
	profileName = "full"
	policyPath = ""
	countWorkers = 4

	rootCmd.ResetFlags()
	compareCmd.ResetFlags()
	validateCmd.ResetFlags()
	registerCommands()
}

func isDockerAvailable() bool {
	_, err := exec.LookPath("docker")
	return err == nil
}
