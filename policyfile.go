package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alc6/dbparity/catalog"
)

// policyFile is the on-disk shape of an exclusion policy:
//
//	tables:
//	  - sysdiagrams
//	procedures:
//	  - sp_helpdiagrams
//	functions:
//	  - fn_diagramobjects
type policyFile struct {
	Tables     []string `yaml:"tables"`
	Procedures []string `yaml:"procedures"`
	Functions  []string `yaml:"functions"`
}

// LoadPolicyFile reads an exclusion policy from a YAML file. Names are
// matched the way built-in policies match them: exact, case-sensitive and
// across all schemas.
func LoadPolicyFile(path string) (catalog.Policy, error) {
	slog.Debug("loading policy file", "path", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return catalog.Policy{}, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	var file policyFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return catalog.Policy{}, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}

	slog.Info("loaded policy file", "path", path,
		"tables", len(file.Tables), "procedures", len(file.Procedures), "functions", len(file.Functions))

	return catalog.NewPolicy(file.Tables, file.Procedures, file.Functions), nil
}
