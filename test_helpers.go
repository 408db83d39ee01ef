package main

import (
	"context"
	"fmt"

	"github.com/alc6/dbparity/catalog"
)

// MockCatalogSource is a mock implementation of CatalogSource for testing
type MockCatalogSource struct {
	ConnectFunc      func(ctx context.Context) error
	CloseFunc        func() error
	ReadSnapshotFunc func(ctx context.Context) (*catalog.Snapshot, error)

	// Track calls for verification
	ConnectCalled      bool
	CloseCalled        bool
	ReadSnapshotCalled bool
}

func (m *MockCatalogSource) Connect(ctx context.Context) error {
	m.ConnectCalled = true
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return nil
}

func (m *MockCatalogSource) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockCatalogSource) ReadSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	m.ReadSnapshotCalled = true
	if m.ReadSnapshotFunc != nil {
		return m.ReadSnapshotFunc(ctx)
	}
	return catalog.NewSnapshot(), nil
}

// MockPolicyLoader is a mock implementation of PolicyLoader for testing
type MockPolicyLoader struct {
	LoadPolicyFunc func(path string) (catalog.Policy, error)

	LoadPolicyCalled bool
}

func (m *MockPolicyLoader) LoadPolicy(path string) (catalog.Policy, error) {
	m.LoadPolicyCalled = true
	if m.LoadPolicyFunc != nil {
		return m.LoadPolicyFunc(path)
	}
	return catalog.NoExclusions(), nil
}

// SnapshotFromLists builds a snapshot out of dotted "schema.name" strings,
// a shorthand for tests that only care about identity sets.
func SnapshotFromLists(tables, views []string) *catalog.Snapshot {
	snap := catalog.NewSnapshot()
	for _, t := range tables {
		schema, name := splitDotted(t)
		snap.AddTable(schema, name)
	}
	for _, v := range views {
		schema, name := splitDotted(v)
		snap.AddView(schema, name)
	}
	return snap
}

func splitDotted(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i], s[i+1:]
		}
	}
	return "public", s
}

// SimulateError simulates various database errors for testing
func SimulateError(errType string) error {
	switch errType {
	case "connection":
		return fmt.Errorf("connection refused")
	case "timeout":
		return fmt.Errorf("context deadline exceeded")
	case "permission":
		return fmt.Errorf("permission denied")
	default:
		return fmt.Errorf("simulated error: %s", errType)
	}
}
