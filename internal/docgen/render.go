package docgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phobologic/repoadvisor/internal/model"
	"github.com/phobologic/repoadvisor/internal/rules"
)

// Section order within a document. identity, structure, and quick-find are
// rendered from live catalog data; the rest carry ruleset template text
// verbatim.
var sectionOrder = []string{
	"identity",
	"setup",
	"structure",
	"conventions",
	"key-files",
	"quick-find",
	"gotchas",
}

// truncationOrder lists sections in the order they are dropped when a node
// exceeds its word budget. identity is never dropped.
var truncationOrder = []string{
	"gotchas",
	"conventions",
	"setup",
	"key-files",
	"quick-find",
	"structure",
}

var sectionTitles = map[string]string{
	"identity":    "Identity",
	"setup":       "Setup",
	"structure":   "Structure",
	"conventions": "Conventions",
	"key-files":   "Key files",
	"quick-find":  "Quick find",
	"gotchas":     "Gotchas",
}

var kindOrder = []model.EntityKind{
	model.DataStore,
	model.ReadOperation,
	model.WriteOperation,
	model.StatefulHook,
	model.UIComponent,
	model.Route,
}

// renderNode fills a node's sections from its assigned entities and the
// ruleset templates, then enforces the word budget.
func renderNode(node *model.DocumentNode, entities []model.Entity, subtree map[string]int, repoName string, rs *rules.Ruleset) {
	live := map[string]string{
		"identity":   renderIdentity(node, entities, repoName),
		"structure":  renderStructure(node, entities, subtree),
		"quick-find": renderQuickFind(entities, rs.QuickFindLimit),
	}

	node.Sections = node.Sections[:0]
	for _, name := range sectionOrder {
		body, ok := live[name]
		if !ok {
			body = strings.TrimSpace(rs.Sections[name])
		}
		if body == "" {
			continue
		}
		node.Sections = append(node.Sections, model.Section{Name: name, Body: body})
	}

	enforceBudget(node)
}

func renderIdentity(node *model.DocumentNode, entities []model.Entity, repoName string) string {
	var b strings.Builder

	if node.Path == "." {
		fmt.Fprintf(&b, "Guide for the %s repository.", repoName)
	} else {
		fmt.Fprintf(&b, "Guide for %s/ in %s.", node.Path, repoName)
	}

	if len(entities) > 0 {
		byKind := make(map[model.EntityKind]int)
		domainSet := make(map[string]struct{})
		for i := range entities {
			byKind[entities[i].Kind]++
			domainSet[entities[i].Domain] = struct{}{}
		}

		var kinds []string
		for _, k := range kindOrder {
			if n := byKind[k]; n > 0 {
				kinds = append(kinds, fmt.Sprintf("%d %s", n, k))
			}
		}
		domains := make([]string, 0, len(domainSet))
		for d := range domainSet {
			domains = append(domains, d)
		}
		sort.Strings(domains)

		fmt.Fprintf(&b, " %d entities: %s.", len(entities), strings.Join(kinds, ", "))
		fmt.Fprintf(&b, " Domains: %s.", strings.Join(domains, ", "))
	}

	if node.Path != "." {
		fmt.Fprintf(&b, " Parent guide: %s.", relToParent(node.Path))
	}

	return b.String()
}

// relToParent links a child node up to the repository root's guide without
// duplicating any of its content.
func relToParent(nodePath string) string {
	depth := strings.Count(nodePath, "/") + 1
	return strings.Repeat("../", depth) + DocFileName
}

func renderStructure(node *model.DocumentNode, entities []model.Entity, subtree map[string]int) string {
	var lines []string

	for _, child := range node.Children {
		rel := relWithin(node.Path, child.Path)
		lines = append(lines, fmt.Sprintf("- %s/ — %d entities, see %s/%s", rel, subtree[child.Path], rel, DocFileName))
	}

	// Directories folded into this node rather than given their own guide.
	folded := make(map[string]int)
	for i := range entities {
		dir := entityDir(entities[i].File)
		if dir != node.Path {
			folded[relWithin(node.Path, dir)]++
		}
	}
	foldedDirs := make([]string, 0, len(folded))
	for dir := range folded {
		foldedDirs = append(foldedDirs, dir)
	}
	sort.Strings(foldedDirs)
	for _, dir := range foldedDirs {
		lines = append(lines, fmt.Sprintf("- %s/ — %d entities, covered by this guide", dir, folded[dir]))
	}

	return strings.Join(lines, "\n")
}

func relWithin(base, target string) string {
	if base == "." {
		return target
	}
	return strings.TrimPrefix(target, base+"/")
}

// renderQuickFind lists the most central entities with their locations,
// ties broken by ID.
func renderQuickFind(entities []model.Entity, limit int) string {
	ordered := make([]model.Entity, len(entities))
	copy(ordered, entities)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Centrality != ordered[j].Centrality {
			return ordered[i].Centrality > ordered[j].Centrality
		}
		return ordered[i].ID < ordered[j].ID
	})
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	var lines []string
	for i := range ordered {
		e := &ordered[i]
		lines = append(lines, fmt.Sprintf("- %s (%s) — %s:%d", e.Name, e.Kind, e.File, e.Line))
	}
	return strings.Join(lines, "\n")
}

// enforceBudget drops sections in truncation order until the node fits its
// word budget. identity survives unconditionally; if the node still does
// not fit, it is flagged over budget and emitted anyway.
func enforceBudget(node *model.DocumentNode) {
	for _, name := range truncationOrder {
		if wordCount(node) <= node.SizeBudgetWords {
			return
		}
		removeSection(node, name)
	}
	if wordCount(node) > node.SizeBudgetWords {
		node.OverBudget = true
	}
}

func removeSection(node *model.DocumentNode, name string) {
	for i := range node.Sections {
		if node.Sections[i].Name == name {
			node.Sections = append(node.Sections[:i], node.Sections[i+1:]...)
			return
		}
	}
}

func wordCount(node *model.DocumentNode) int {
	total := 0
	for i := range node.Sections {
		total += len(strings.Fields(node.Sections[i].Body))
	}
	return total
}

// Render produces the markdown document for a single node.
func Render(node *model.DocumentNode) string {
	var b strings.Builder
	b.WriteString("<!-- generated by repoadvisor; do not edit by hand -->\n")
	if node.OverBudget {
		b.WriteString("<!-- over-budget -->\n")
	}
	for i := range node.Sections {
		s := &node.Sections[i]
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", sectionTitles[s.Name], s.Body)
	}
	return b.String()
}
