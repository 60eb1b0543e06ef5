// Package docgen generates the tree of nearest-wins advisory documents
// from an entity catalog. The whole tree is regenerated per run; there is
// no partial update.
package docgen

import (
	"path"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/repoadvisor/internal/advisorerr"
	"github.com/phobologic/repoadvisor/internal/catalog"
	"github.com/phobologic/repoadvisor/internal/model"
	"github.com/phobologic/repoadvisor/internal/rules"
)

// DocFileName is the fixed filename emitted under each node's directory.
const DocFileName = "AGENTS.md"

// Warning reports a non-fatal generation problem (a node that could not be
// shrunk below its budget).
type Warning struct {
	Path    string
	Code    advisorerr.Code
	Message string
}

// Generate walks the catalog's directory tree and builds the document
// tree. The root always receives a node; a subdirectory receives one when
// its subtree holds at least MinEntities entities, and smaller directories
// fold into the nearest emitted ancestor. Sibling node content is rendered
// concurrently; tree assembly is sequential and deterministic.
func Generate(cat *catalog.Catalog, rs *rules.Ruleset) (*model.DocumentNode, []Warning, error) {
	if rs == nil {
		rs = rules.Default()
	}

	subtree := subtreeCounts(cat.Entities)

	emitted := map[string]bool{".": true}
	for dir, n := range subtree {
		if dir != "." && n >= rs.MinEntities {
			emitted[dir] = true
		}
	}

	// Assign every entity to the nearest emitted ancestor of its directory.
	assigned := make(map[string][]model.Entity)
	for i := range cat.Entities {
		owner := nearestEmitted(entityDir(cat.Entities[i].File), emitted)
		assigned[owner] = append(assigned[owner], cat.Entities[i])
	}

	dirs := make([]string, 0, len(emitted))
	for dir := range emitted {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	nodes := make(map[string]*model.DocumentNode, len(dirs))
	for _, dir := range dirs {
		budget := rs.ChildBudgetWords
		if dir == "." {
			budget = rs.RootBudgetWords
		}
		nodes[dir] = &model.DocumentNode{Path: dir, SizeBudgetWords: budget}
	}
	for _, dir := range dirs {
		if dir == "." {
			continue
		}
		parent := nearestEmitted(parentDir(dir), emitted)
		nodes[parent].Children = append(nodes[parent].Children, nodes[dir])
	}

	g := new(errgroup.Group)
	for _, dir := range dirs {
		node := nodes[dir]
		ents := assigned[dir]
		g.Go(func() error {
			renderNode(node, ents, subtree, cat.RepoName, rs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for _, dir := range dirs {
		if nodes[dir].OverBudget {
			warnings = append(warnings, Warning{
				Path:    dir,
				Code:    advisorerr.BudgetUnsatisfiable,
				Message: "identity section alone exceeds the word budget; emitted over budget",
			})
		}
	}

	return nodes["."], warnings, nil
}

// Resolve returns the node governing filePath: the one whose path is the
// longest matching prefix (nearest wins). Nodes are never merged.
func Resolve(root *model.DocumentNode, filePath string) *model.DocumentNode {
	p := path.Clean(filepath.ToSlash(filePath))

	best := root
	bestLen := -1

	var walk func(node *model.DocumentNode)
	walk = func(node *model.DocumentNode) {
		if node.Path == "." {
			if bestLen < 0 {
				best, bestLen = node, 0
			}
		} else if p == node.Path || len(p) > len(node.Path) && p[:len(node.Path)+1] == node.Path+"/" {
			if len(node.Path) > bestLen {
				best, bestLen = node, len(node.Path)
			}
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(root)

	return best
}

// subtreeCounts maps each directory to the number of entities at or below
// it. Every ancestor up to the root is counted.
func subtreeCounts(entities []model.Entity) map[string]int {
	counts := make(map[string]int)
	for i := range entities {
		dir := entityDir(entities[i].File)
		for {
			counts[dir]++
			if dir == "." {
				break
			}
			dir = parentDir(dir)
		}
	}
	return counts
}

func entityDir(file string) string {
	return path.Dir(filepath.ToSlash(file))
}

func parentDir(dir string) string {
	return path.Dir(dir)
}

func nearestEmitted(dir string, emitted map[string]bool) string {
	for {
		if emitted[dir] {
			return dir
		}
		dir = parentDir(dir)
	}
}
