package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/repoadvisor/internal/catalog"
	"github.com/phobologic/repoadvisor/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"orders", "orders"},
		{"convex/orders.ts#listOrders", "convex/orders.ts#listOrders"},
		{"42", "42"},
		{"-3.5", "-3.5"},
		{"true", `"true"`},
		{"Null", `"Null"`},
		{"a,b", `"a,b"`},
		{"key: value", `"key: value"`},
		{"tab\there", `"tab\there"`},
		{" padded", `" padded"`},
		{"-dash-lead", `"-dash-lead"`},
		{`back\slash`, `"back\\slash"`},
	}
	for _, tc := range cases {
		if got := encodeValue(tc.in); got != tc.want {
			t.Errorf("encodeValue(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestEncodeTables(t *testing.T) {
	t.Parallel()

	cat := &catalog.Catalog{
		RepoName: "shop",
		Entities: []model.Entity{
			{
				ID:         "convex/orders.ts#orders",
				Name:       "orders",
				Kind:       model.DataStore,
				Domain:     "orders",
				Fields:     []model.Field{{Name: "id", Type: "string"}, {Name: "total", Type: "number"}},
				Consumers:  []string{"convex/orders.ts#listOrders"},
				File:       "convex/orders.ts",
				Line:       4,
				Centrality: 0.625,
			},
		},
	}

	out := Encode(cat)
	for _, want := range []string{
		"repo: shop",
		"entities[1]{id,kind,domain,file,line,centrality}:",
		"\n  convex/orders.ts#orders,data-store,orders,convex/orders.ts,4,0.6250",
		"fields[2]{entity,name,type}:",
		"\n  convex/orders.ts#orders,id,string",
		"consumers[1]{entity,consumer}:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "skipped[") {
		t.Error("skipped table emitted for a catalog with no skips")
	}
}

func TestEncodeSkippedTable(t *testing.T) {
	t.Parallel()

	cat := &catalog.Catalog{
		RepoName: "shop",
		Skipped: []model.SkippedFile{
			{Path: "src/huge.ts", Reason: "exceeds max file size"},
		},
	}

	out := Encode(cat)
	if !strings.Contains(out, "skipped[1]{file,reason}:") {
		t.Errorf("missing skipped table:\n%s", out)
	}
	if !strings.Contains(out, "entities[0]{") {
		t.Errorf("empty entities table should still be emitted:\n%s", out)
	}
}
