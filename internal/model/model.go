// Package model defines core data structures for repoadvisor.
package model

// EntityKind classifies a discovered unit of existing functionality.
type EntityKind string

const (
	DataStore      EntityKind = "data-store"
	ReadOperation  EntityKind = "read-operation"
	WriteOperation EntityKind = "write-operation"
	StatefulHook   EntityKind = "stateful-hook"
	UIComponent    EntityKind = "ui-component"
	Route          EntityKind = "route"
)

// Field is a (name, semantic type) pair on an entity or proposal.
type Field struct {
	Name string
	Type string
}

// Entity is a unit of existing functionality discovered in the codebase.
// ID is path + "#" + symbol name and is unique within a catalog. Kind is
// fixed at creation. Consumers holds IDs of entities that reference this
// one; the edge is a back-reference, never ownership.
type Entity struct {
	ID         string
	Name       string
	Kind       EntityKind
	Domain     string
	Fields     []Field
	Consumers  []string
	File       string
	Line       int
	Signature  string
	Centrality float64
}

// SkippedFile records a file the catalog build could not classify.
type SkippedFile struct {
	Path   string
	Reason string
}

// ChangeProposal is the unit of work being evaluated.
type ChangeProposal struct {
	Description          string          `yaml:"description"`
	TargetDomain         string          `yaml:"targetDomain"`
	Kind                 EntityKind      `yaml:"kind"`
	Fields               []string        `yaml:"fields"`
	EstimatedNaiveLines  int             `yaml:"estimatedNaiveLines"`
	EstimatedExtendLines int             `yaml:"estimatedExtendLines"`
	OtherCallSites       int             `yaml:"otherCallSites"`
	Criteria             map[string]bool `yaml:"criteria"`
}

// Action is the engine's final verdict.
type Action string

const (
	UseExisting Action = "use-existing"
	Extend      Action = "extend"
	CreateNew   Action = "create-new"
	Reconsider  Action = "reconsider"
)

// Contribution records one scored criterion for the rationale.
type Contribution struct {
	Criterion    string
	Applies      bool
	Contribution int
}

// Recommendation is the engine's output. Action is a pure function of
// Score and the decision-tree terminal reached: identical inputs always
// yield an identical Recommendation.
type Recommendation struct {
	Action    Action
	Score     int
	Rationale []Contribution
	Terminal  string
}

// Section is one rendered block of an advisory document.
type Section struct {
	Name string
	Body string
}

// DocumentNode is one emitted advisory document. The root node owns the
// tree of child nodes; a child links to its parent's content rather than
// duplicating it. The whole tree is regenerated per run.
type DocumentNode struct {
	Path            string
	SizeBudgetWords int
	Sections        []Section
	Children        []*DocumentNode
	OverBudget      bool
}
