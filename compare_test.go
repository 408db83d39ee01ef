package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alc6/dbparity/catalog"
	"github.com/alc6/dbparity/mocks"
)

func TestCompareCore(t *testing.T) {
	t.Run("identical_catalogs_pass", func(t *testing.T) {
		snapshot := func() *catalog.Snapshot {
			return SnapshotFromLists(
				[]string{"public.users", "public.orders"},
				[]string{"public.active_users"},
			)
		}
		source := &MockCatalogSource{
			ReadSnapshotFunc: func(context.Context) (*catalog.Snapshot, error) { return snapshot(), nil },
		}
		target := &MockCatalogSource{
			ReadSnapshotFunc: func(context.Context) (*catalog.Snapshot, error) { return snapshot(), nil },
		}

		verdict, err := compareCore(context.Background(), source, target, catalog.FullProfile())

		require.NoError(t, err)
		assert.True(t, verdict.Pass)
		assert.Empty(t, verdict.Findings)
		assert.True(t, source.ConnectCalled)
		assert.True(t, target.ConnectCalled)
		assert.True(t, source.CloseCalled)
		assert.True(t, target.CloseCalled)
	})

	t.Run("structural_drift_fails", func(t *testing.T) {
		source := &MockCatalogSource{
			ReadSnapshotFunc: func(context.Context) (*catalog.Snapshot, error) {
				return SnapshotFromLists([]string{"public.users", "public.orders"}, nil), nil
			},
		}
		target := &MockCatalogSource{
			ReadSnapshotFunc: func(context.Context) (*catalog.Snapshot, error) {
				return SnapshotFromLists([]string{"public.users"}, nil), nil
			},
		}

		verdict, err := compareCore(context.Background(), source, target, catalog.FullProfile())

		require.NoError(t, err)
		assert.False(t, verdict.Pass)
		require.Len(t, verdict.Findings, 1)
		assert.Equal(t, catalog.FindingMissing, verdict.Findings[0].Kind)
		assert.Equal(t, "public.orders", verdict.Findings[0].Object.String())
	})

	t.Run("source_connect_error_is_fatal", func(t *testing.T) {
		source := &MockCatalogSource{
			ConnectFunc: func(context.Context) error { return SimulateError("connection") },
		}
		target := &MockCatalogSource{}

		_, err := compareCore(context.Background(), source, target, catalog.FullProfile())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect source database")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("target_read_error_is_fatal", func(t *testing.T) {
		source := &MockCatalogSource{}
		target := &MockCatalogSource{
			ReadSnapshotFunc: func(context.Context) (*catalog.Snapshot, error) {
				return nil, SimulateError("permission")
			},
		}

		_, err := compareCore(context.Background(), source, target, catalog.FullProfile())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read target catalog")
		assert.True(t, target.CloseCalled, "a failed read must still close the connection")
	})

	t.Run("profile_policy_hides_system_objects", func(t *testing.T) {
		source := &MockCatalogSource{
			ReadSnapshotFunc: func(context.Context) (*catalog.Snapshot, error) {
				return SnapshotFromLists([]string{"public.users", "dbo.sysdiagrams"}, nil), nil
			},
		}
		target := &MockCatalogSource{
			ReadSnapshotFunc: func(context.Context) (*catalog.Snapshot, error) {
				return SnapshotFromLists([]string{"public.users"}, nil), nil
			},
		}

		verdict, err := compareCore(context.Background(), source, target, catalog.ApplicationProfile())

		require.NoError(t, err)
		assert.True(t, verdict.Pass, "excluded objects must not count as drift")
	})

	t.Run("generated_mocks", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		source := mocks.NewMockCatalogSource(ctrl)
		target := mocks.NewMockCatalogSource(ctrl)
		for _, m := range []*mocks.MockCatalogSource{source, target} {
			m.EXPECT().Connect(gomock.Any()).Return(nil)
			m.EXPECT().ReadSnapshot(gomock.Any()).Return(SnapshotFromLists([]string{"public.users"}, nil), nil)
			m.EXPECT().Close().Return(nil)
		}

		verdict, err := compareCore(context.Background(), source, target, catalog.FullProfile())

		require.NoError(t, err)
		assert.True(t, verdict.Pass)
	})
}

func TestResolveProfile(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		profile, err := resolveProfile("full", "", NewFilePolicyLoader())

		require.NoError(t, err)
		assert.Equal(t, "full", profile.Name)
		assert.Equal(t, catalog.AllCategories(), profile.Categories)
		assert.True(t, profile.Policy.Empty())
	})

	t.Run("application", func(t *testing.T) {
		profile, err := resolveProfile("application", "", NewFilePolicyLoader())

		require.NoError(t, err)
		assert.Equal(t, "application", profile.Name)
		assert.Equal(t, []catalog.Category{catalog.Tables, catalog.Views, catalog.Procedures, catalog.Functions}, profile.Categories)
		assert.True(t, profile.Policy.Excludes(catalog.Tables, catalog.Identity{Schema: "dbo", Name: "sysdiagrams"}))
	})

	t.Run("unknown_profile", func(t *testing.T) {
		_, err := resolveProfile("staging", "", NewFilePolicyLoader())

		require.Error(t, err)
		assert.Equal(t, "unknown profile: staging (supported: full, application)", err.Error())
	})

	t.Run("policy_file_merged_into_profile", func(t *testing.T) {
		loader := &MockPolicyLoader{
			LoadPolicyFunc: func(path string) (catalog.Policy, error) {
				assert.Equal(t, "exclusions.yaml", path)
				return catalog.NewPolicy([]string{"flyway_schema_history"}, nil, nil), nil
			},
		}

		profile, err := resolveProfile("application", "exclusions.yaml", loader)

		require.NoError(t, err)
		assert.True(t, loader.LoadPolicyCalled)
		assert.True(t, profile.Policy.Excludes(catalog.Tables, catalog.Identity{Schema: "public", Name: "flyway_schema_history"}))
		assert.True(t, profile.Policy.Excludes(catalog.Tables, catalog.Identity{Schema: "dbo", Name: "sysdiagrams"}),
			"built-in exclusions survive the merge")
	})

	t.Run("policy_file_error", func(t *testing.T) {
		loader := &MockPolicyLoader{
			LoadPolicyFunc: func(string) (catalog.Policy, error) {
				return catalog.Policy{}, errors.New("no such file")
			},
		}

		_, err := resolveProfile("full", "missing.yaml", loader)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load policy file")
	})
}
