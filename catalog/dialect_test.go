package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectRegistry(t *testing.T) {
	registry := NewDialectRegistry()
	registry.Register(NewPostgresDialect())
	registry.Register(NewMySQLDialect())
	registry.Register(NewSQLiteDialect())
	registry.Register(NewSQLServerDialect())

	t.Run("get_registered_dialect", func(t *testing.T) {
		d, ok := registry.Get("postgres")
		require.True(t, ok)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("get_unknown_dialect", func(t *testing.T) {
		d, ok := registry.Get("oracle")
		assert.False(t, ok)
		assert.Nil(t, d)
	})

	t.Run("names_are_sorted", func(t *testing.T) {
		assert.Equal(t, []string{"mysql", "postgres", "sqlite3", "sqlserver"}, registry.Names())
	})

	t.Run("empty_registry", func(t *testing.T) {
		empty := NewDialectRegistry()
		assert.Empty(t, empty.Names())
	})
}

func TestQuoteHelpers(t *testing.T) {
	t.Run("double_quotes", func(t *testing.T) {
		assert.Equal(t, `"users"`, quoteDouble("users"))
		assert.Equal(t, `"we""ird"`, quoteDouble(`we"ird`))
	})

	t.Run("backticks", func(t *testing.T) {
		assert.Equal(t, "`users`", quoteBacktick("users"))
		assert.Equal(t, "`we``ird`", quoteBacktick("we`ird"))
	})

	t.Run("brackets", func(t *testing.T) {
		assert.Equal(t, "[users]", quoteBracket("users"))
		assert.Equal(t, "[we]]ird]", quoteBracket("we]ird"))
	})
}
