package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/alc6/dbparity/catalog"
)

// compareCore reads both catalogs in parallel, applies the profile policy
// to each side and produces the verdict. Separated from the CLI for testing.
func compareCore(ctx context.Context, source, target CatalogSource, profile catalog.Profile) (catalog.Verdict, error) {
	slog.Info("comparing catalogs", "profile", profile.Name)

	var sourceSnap, targetSnap *catalog.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := readSide(gctx, "source", source)
		if err != nil {
			return err
		}
		sourceSnap = snap
		return nil
	})
	g.Go(func() error {
		snap, err := readSide(gctx, "target", target)
		if err != nil {
			return err
		}
		targetSnap = snap
		return nil
	})
	if err := g.Wait(); err != nil {
		return catalog.Verdict{}, err
	}

	sourceSnap = profile.Policy.Apply(sourceSnap)
	targetSnap = profile.Policy.Apply(targetSnap)

	report := catalog.Diff(sourceSnap, targetSnap, profile.Categories...)
	verdict := catalog.Summarize(report)

	slog.Info("catalog comparison finished", "pass", verdict.Pass, "findings", len(verdict.Findings))
	return verdict, nil
}

// readSide connects one side of the comparison, reads its snapshot and
// closes the connection again.
func readSide(ctx context.Context, side string, src CatalogSource) (*catalog.Snapshot, error) {
	slog.Info("reading catalog", "side", side)

	if err := src.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect %s database: %w", side, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			slog.Error("failed to close catalog source", "side", side, "error", err)
		}
	}()

	snap, err := src.ReadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s catalog: %w", side, err)
	}

	return snap, nil
}

// resolveProfile maps the profile flag to a comparison profile, folding in
// exclusions from a policy file when one is given.
func resolveProfile(name, policyFile string, loader PolicyLoader) (catalog.Profile, error) {
	var profile catalog.Profile
	switch name {
	case "full":
		profile = catalog.FullProfile()
	case "application":
		profile = catalog.ApplicationProfile()
	default:
		return catalog.Profile{}, fmt.Errorf("unknown profile: %s (supported: full, application)", name)
	}

	if policyFile == "" {
		return profile, nil
	}

	policy, err := loader.LoadPolicy(policyFile)
	if err != nil {
		return catalog.Profile{}, fmt.Errorf("failed to load policy file: %w", err)
	}

	profile.Policy = profile.Policy.Merge(policy)
	return profile, nil
}
