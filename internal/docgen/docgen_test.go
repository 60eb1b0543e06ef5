package docgen

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/repoadvisor/internal/catalog"
	"github.com/phobologic/repoadvisor/internal/model"
	"github.com/phobologic/repoadvisor/internal/rules"
)

func testCatalog(files ...string) *catalog.Catalog {
	cat := &catalog.Catalog{RepoName: "shop"}
	for i, f := range files {
		name := "entity" + string(rune('A'+i))
		cat.Entities = append(cat.Entities, model.Entity{
			ID:         f + "#" + name,
			Name:       name,
			Kind:       model.ReadOperation,
			Domain:     "orders",
			File:       f,
			Line:       1,
			Centrality: 1.0 / float64(i+1),
		})
	}
	return cat
}

func findNode(root *model.DocumentNode, p string) *model.DocumentNode {
	if root.Path == p {
		return root
	}
	for _, child := range root.Children {
		if n := findNode(child, p); n != nil {
			return n
		}
	}
	return nil
}

func TestGenerateFoldsSmallDirectories(t *testing.T) {
	t.Parallel()

	// convex/ holds 3 entities and earns a node; components/ holds only 1
	// and folds into the root.
	cat := testCatalog(
		"convex/orders.ts",
		"convex/orders.ts",
		"convex/users.ts",
		"components/Cart.tsx",
	)

	root, warnings, err := Generate(cat, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if root.Path != "." {
		t.Fatalf("root path = %s", root.Path)
	}
	if len(root.Children) != 1 || root.Children[0].Path != "convex" {
		t.Fatalf("children = %v, want [convex]", childPaths(root))
	}
	if findNode(root, "components") != nil {
		t.Error("components got its own node, want folded into root")
	}

	structure := sectionBody(root, "structure")
	if !strings.Contains(structure, "convex/ — 3 entities, see convex/AGENTS.md") {
		t.Errorf("structure missing convex link:\n%s", structure)
	}
	if !strings.Contains(structure, "components/ — 1 entities, covered by this guide") {
		t.Errorf("structure missing folded components:\n%s", structure)
	}
}

func TestGenerateRootAlwaysEmitted(t *testing.T) {
	t.Parallel()

	root, _, err := Generate(testCatalog("index.ts"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if root == nil || root.Path != "." {
		t.Fatal("root node missing")
	}
	if root.SizeBudgetWords != rules.Default().RootBudgetWords {
		t.Errorf("root budget = %d", root.SizeBudgetWords)
	}
}

func TestGenerateChildLinksParentWithoutDuplication(t *testing.T) {
	t.Parallel()

	cat := testCatalog(
		"convex/a.ts", "convex/b.ts", "convex/c.ts",
	)
	root, _, err := Generate(cat, nil)
	if err != nil {
		t.Fatal(err)
	}

	child := findNode(root, "convex")
	if child == nil {
		t.Fatal("convex node missing")
	}
	identity := sectionBody(child, "identity")
	if !strings.Contains(identity, "Parent guide: ../AGENTS.md.") {
		t.Errorf("child identity missing parent link:\n%s", identity)
	}
}

func TestGenerateBudgetTruncationOrder(t *testing.T) {
	t.Parallel()

	rs := rules.Default()
	cat := testCatalog("index.ts", "index.ts", "index.ts")

	full, _, err := Generate(cat, rs)
	if err != nil {
		t.Fatal(err)
	}
	if sectionBody(full, "gotchas") == "" {
		t.Fatal("default budget should keep the gotchas section")
	}

	// Shrink the budget until only some sections fit; gotchas must be the
	// first casualty while identity survives.
	tight := *rs
	tight.RootBudgetWords = wordTotal(full) - 1

	truncated, _, err := Generate(cat, &tight)
	if err != nil {
		t.Fatal(err)
	}
	if sectionBody(truncated, "gotchas") != "" {
		t.Error("gotchas should be dropped first when over budget")
	}
	if sectionBody(truncated, "identity") == "" {
		t.Error("identity must never be dropped")
	}
}

func TestGenerateOverBudgetWarning(t *testing.T) {
	t.Parallel()

	rs := rules.Default()
	tight := *rs
	tight.RootBudgetWords = 1
	tight.ChildBudgetWords = 1

	root, warnings, err := Generate(testCatalog("index.ts"), &tight)
	if err != nil {
		t.Fatal(err)
	}
	if !root.OverBudget {
		t.Error("root should be flagged over budget")
	}
	if len(root.Sections) != 1 || root.Sections[0].Name != "identity" {
		t.Errorf("over-budget node should keep only identity, got %v", sectionNames(root))
	}
	if len(warnings) != 1 || warnings[0].Path != "." {
		t.Fatalf("warnings = %v, want one for the root", warnings)
	}
	if !strings.Contains(Render(root), "<!-- over-budget -->") {
		t.Error("rendered document missing over-budget marker")
	}
}

func TestGenerateIdempotent(t *testing.T) {
	t.Parallel()

	cat := testCatalog(
		"convex/a.ts", "convex/b.ts", "convex/c.ts",
		"components/Cart.tsx", "components/List.tsx", "components/Row.tsx",
		"lib/util.ts",
	)

	a, _, err := Generate(cat, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Generate(cat, nil)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(renderAll(a), renderAll(b)); diff != "" {
		t.Errorf("two runs over the same catalog differ (-first +second):\n%s", diff)
	}
}

func TestResolveNearestWins(t *testing.T) {
	t.Parallel()

	cat := testCatalog(
		"convex/a.ts", "convex/b.ts", "convex/c.ts",
		"convex/admin/x.ts", "convex/admin/y.ts", "convex/admin/z.ts",
	)
	root, _, err := Generate(cat, nil)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		file string
		want string
	}{
		{"convex/admin/x.ts", "convex/admin"},
		{"convex/a.ts", "convex"},
		{"convex/deep/unknown.ts", "convex"},
		{"index.ts", "."},
		{"other/file.ts", "."},
	}
	for _, tc := range cases {
		if got := Resolve(root, tc.file); got.Path != tc.want {
			t.Errorf("Resolve(%s) = %s, want %s", tc.file, got.Path, tc.want)
		}
	}
}

func TestRenderHasGeneratedMarker(t *testing.T) {
	t.Parallel()

	root, _, err := Generate(testCatalog("index.ts"), nil)
	if err != nil {
		t.Fatal(err)
	}
	out := Render(root)
	if !strings.HasPrefix(out, "<!-- generated by repoadvisor; do not edit by hand -->\n") {
		t.Errorf("missing generated marker:\n%s", out)
	}
	if !strings.Contains(out, "## Identity") {
		t.Errorf("missing identity heading:\n%s", out)
	}
}

func childPaths(node *model.DocumentNode) []string {
	var paths []string
	for _, c := range node.Children {
		paths = append(paths, c.Path)
	}
	return paths
}

func sectionBody(node *model.DocumentNode, name string) string {
	for i := range node.Sections {
		if node.Sections[i].Name == name {
			return node.Sections[i].Body
		}
	}
	return ""
}

func sectionNames(node *model.DocumentNode) []string {
	var names []string
	for i := range node.Sections {
		names = append(names, node.Sections[i].Name)
	}
	return names
}

func wordTotal(node *model.DocumentNode) int {
	total := 0
	for i := range node.Sections {
		total += len(strings.Fields(node.Sections[i].Body))
	}
	return total
}

func renderAll(node *model.DocumentNode) map[string]string {
	out := map[string]string{node.Path: Render(node)}
	for _, child := range node.Children {
		for p, doc := range renderAll(child) {
			out[p] = doc
		}
	}
	return out
}
