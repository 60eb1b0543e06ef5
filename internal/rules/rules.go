// Package rules loads the static rule configuration: the non-algorithmic
// section templates carried verbatim into generated documents, plus the
// document tree knobs. Defaults are embedded; a YAML file overrides them
// field by field.
package rules

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Ruleset holds the document generator configuration.
type Ruleset struct {
	// MinEntities is the subtree entity count at which a subdirectory
	// earns its own document node; smaller directories fold into the
	// nearest ancestor's node.
	MinEntities int `yaml:"minEntities"`
	// RootBudgetWords is stricter than ChildBudgetWords.
	RootBudgetWords  int `yaml:"rootBudgetWords"`
	ChildBudgetWords int `yaml:"childBudgetWords"`
	// QuickFindLimit caps the quick-find entity listing per node.
	QuickFindLimit int `yaml:"quickFindLimit"`
	// Sections maps section name to template text emitted verbatim
	// (setup, conventions, key-files, gotchas).
	Sections map[string]string `yaml:"sections"`
}

// Default returns the embedded ruleset.
func Default() *Ruleset {
	var rs Ruleset
	// The embedded document is compiled in; a decode failure is a bug.
	if err := yaml.Unmarshal(defaultYAML, &rs); err != nil {
		panic(fmt.Sprintf("rules: embedded default.yaml: %v", err))
	}
	return &rs
}

// Load reads a ruleset file, overriding defaults field by field.
func Load(path string) (*Ruleset, error) {
	rs := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset: %w", err)
	}
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("parsing ruleset %s: %w", path, err)
	}
	if err := rs.validate(); err != nil {
		return nil, fmt.Errorf("ruleset %s: %w", path, err)
	}
	return rs, nil
}

func (rs *Ruleset) validate() error {
	if rs.MinEntities < 1 {
		return fmt.Errorf("minEntities must be >= 1, got %d", rs.MinEntities)
	}
	if rs.RootBudgetWords < 1 || rs.ChildBudgetWords < 1 {
		return fmt.Errorf("word budgets must be positive")
	}
	return nil
}
