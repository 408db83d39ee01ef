package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityString(t *testing.T) {
	assert.Equal(t, "public.users", Identity{Schema: "public", Name: "users"}.String())
	assert.Equal(t, "users", Identity{Name: "users"}.String())
}

func TestCategoryString(t *testing.T) {
	var names []string
	for _, c := range AllCategories() {
		names = append(names, c.String())
	}

	assert.Equal(t, []string{"tables", "views", "procedures", "functions", "indexes", "constraints"}, names)
	assert.Equal(t, "unknown", Category(99).String())
}

func TestSnapshotCount(t *testing.T) {
	snap := baselineSnapshot()

	assert.Equal(t, 2, snap.Count(Tables))
	assert.Equal(t, 1, snap.Count(Views))
	assert.Equal(t, 1, snap.Count(Procedures))
	assert.Equal(t, 1, snap.Count(Functions))
	assert.Equal(t, 2, snap.Count(Indexes))
	assert.Equal(t, 2, snap.Count(Constraints))
	assert.Equal(t, 0, snap.Count(Category(99)))
}

func TestIndexKey(t *testing.T) {
	ix := Index{Schema: "public", Table: "users", Name: "users_pkey", Type: "btree", Unique: true, Primary: true}

	assert.Equal(t, IndexIdentity{Schema: "public", Table: "users", Name: "users_pkey"}, ix.Key())
}

func TestProfiles(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		profile := FullProfile()

		assert.Equal(t, "full", profile.Name)
		assert.Equal(t, AllCategories(), profile.Categories)
		assert.True(t, profile.Policy.Empty())
	})

	t.Run("application", func(t *testing.T) {
		profile := ApplicationProfile()

		assert.Equal(t, "application", profile.Name)
		assert.Equal(t, []Category{Tables, Views, Procedures, Functions}, profile.Categories)
		assert.NotContains(t, profile.Categories, Indexes)
		assert.NotContains(t, profile.Categories, Constraints)
		assert.True(t, profile.Policy.Excludes(Tables, Identity{Schema: "dbo", Name: "sysdiagrams"}))
	})
}
