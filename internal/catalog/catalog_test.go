package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/repoadvisor/internal/advisorerr"
	"github.com/phobologic/repoadvisor/internal/model"
)

func writeTestRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func testRepoFiles() map[string]string {
	return map[string]string{
		"convex/schema.ts": `
const orders = defineTable({
  userId: v.id("users"),
  total: v.number(),
});
`,
		"convex/orders.ts": `
export const listOrders = query({
  args: { status: v.string() },
  handler: async (ctx, args) => ctx.db.query("orders").collect(),
});
`,
		"hooks/cart.ts": `
export function useOrders() {
  return { items: [] };
}

export function useCart(userId) {
  return useOrders();
}
`,
		"lib/constants.ts": "const VERSION = 1;\n",
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	root := writeTestRepo(t, testRepoFiles())
	cat, err := Build(root, Options{})
	if err != nil {
		t.Fatal(err)
	}

	wantIDs := []string{
		"convex/orders.ts#listOrders",
		"convex/schema.ts#orders",
		"hooks/cart.ts#useCart",
		"hooks/cart.ts#useOrders",
	}
	var gotIDs []string
	for i := range cat.Entities {
		gotIDs = append(gotIDs, cat.Entities[i].ID)
	}
	if diff := cmp.Diff(wantIDs, gotIDs); diff != "" {
		t.Fatalf("entity IDs (-want +got):\n%s", diff)
	}

	store, _ := cat.ByID("convex/schema.ts#orders")
	if store.Kind != model.DataStore {
		t.Errorf("schema kind = %s, want data-store", store.Kind)
	}
	if len(store.Fields) != 2 || store.Fields[0].Name != "userId" {
		t.Errorf("schema fields = %+v", store.Fields)
	}

	hook, _ := cat.ByID("hooks/cart.ts#useOrders")
	want := []string{"hooks/cart.ts#useCart"}
	if diff := cmp.Diff(want, hook.Consumers); diff != "" {
		t.Errorf("useOrders consumers (-want +got):\n%s", diff)
	}

	for i := range cat.Entities {
		if cat.Entities[i].Centrality <= 0 {
			t.Errorf("%s has non-positive centrality", cat.Entities[i].ID)
		}
	}
}

func TestBuildSkipsUnrecognizedFiles(t *testing.T) {
	t.Parallel()

	root := writeTestRepo(t, testRepoFiles())
	cat, err := Build(root, Options{})
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, s := range cat.Skipped {
		if s.Path == "lib/constants.ts" {
			found = true
			if s.Reason != "no recognized entities" {
				t.Errorf("reason = %q", s.Reason)
			}
		}
	}
	if !found {
		t.Errorf("lib/constants.ts not in skipped: %+v", cat.Skipped)
	}
}

func TestBuildSkipsOversizeFiles(t *testing.T) {
	t.Parallel()

	files := testRepoFiles()
	files["convex/huge.ts"] = strings.Repeat("// padding\n", 100)
	root := writeTestRepo(t, files)

	cat, err := Build(root, Options{MaxFileSize: 500})
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, s := range cat.Skipped {
		if s.Path == "convex/huge.ts" {
			found = true
			if !strings.Contains(s.Reason, "exceeds size limit") {
				t.Errorf("reason = %q", s.Reason)
			}
		}
	}
	if !found {
		t.Errorf("oversize file not skipped: %+v", cat.Skipped)
	}
	if _, ok := cat.ByID("convex/huge.ts#anything"); ok {
		t.Error("oversize file produced entities")
	}
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()

	root := writeTestRepo(t, testRepoFiles())

	a, err := Build(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(root, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(a.Entities, b.Entities); diff != "" {
		t.Errorf("two builds differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(a.Skipped, b.Skipped); diff != "" {
		t.Errorf("skips differ (-first +second):\n%s", diff)
	}
}

func TestBuildMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Build(filepath.Join(t.TempDir(), "absent"), Options{})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if advisorerr.CodeOf(err) != advisorerr.IOFailure {
		t.Errorf("code = %s, want IO_FAILURE", advisorerr.CodeOf(err))
	}
}

func TestInferDomain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want string
	}{
		{"convex/orders.ts", "orders"},
		{"src/features/billing/invoice.ts", "billing"},
		{"components/Cart.tsx", "Cart"},
		{"index.ts", "index"},
	}
	for _, tc := range cases {
		if got := inferDomain(tc.path); got != tc.want {
			t.Errorf("inferDomain(%s) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	cat := &Catalog{
		RepoName: "shop",
		Entities: []model.Entity{
			{ID: "a#one", Centrality: 0.1, Consumers: []string{"c#three"}},
			{ID: "b#two", Centrality: 0.5},
			{ID: "c#three", Centrality: 0.4},
		},
	}

	out := Select(cat, 2)
	if len(out.Entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(out.Entities))
	}
	// Selection keeps catalog (ID) ordering, not centrality ordering.
	if out.Entities[0].ID != "b#two" || out.Entities[1].ID != "c#three" {
		t.Errorf("selected %s, %s", out.Entities[0].ID, out.Entities[1].ID)
	}

	if same := Select(cat, 0); same != cat {
		t.Error("maxEntities 0 should return the input unchanged")
	}
	if same := Select(cat, 10); same != cat {
		t.Error("covering maxEntities should return the input unchanged")
	}
}

func TestSelectDropsOutsideConsumers(t *testing.T) {
	t.Parallel()

	cat := &Catalog{
		Entities: []model.Entity{
			{ID: "a#one", Centrality: 0.6, Consumers: []string{"b#two", "c#three"}},
			{ID: "b#two", Centrality: 0.3},
			{ID: "c#three", Centrality: 0.1},
		},
	}

	out := Select(cat, 2)
	got, _ := out.ByID("a#one")
	if diff := cmp.Diff([]string{"b#two"}, got.Consumers); diff != "" {
		t.Errorf("consumers (-want +got):\n%s", diff)
	}
}
