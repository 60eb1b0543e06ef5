package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("export {};\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func paths(entries []FileEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"src/app.ts",
		"src/Cart.tsx",
		"index.js",
		"README.md",
		"node_modules/pkg/index.js",
		"dist/bundle.js",
		".hidden/secret.ts",
	)

	got, err := Files(root, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"index.js",
		filepath.Join("src", "Cart.tsx"),
		filepath.Join("src", "app.ts"),
	}
	if diff := cmp.Diff(want, paths(got)); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
}

func TestFilesLanguageFilter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "a.ts", "b.tsx", "c.js")

	got, err := Files(root, []string{"typescript"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.ts"}
	if diff := cmp.Diff(want, paths(got)); diff != "" {
		t.Errorf("filtered files (-want +got):\n%s", diff)
	}
}

func TestFilesLanguageTagging(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "a.ts", "b.tsx", "c.jsx", "d.mjs")

	got, err := Files(root, nil)
	if err != nil {
		t.Fatal(err)
	}

	byPath := make(map[string]string)
	for _, e := range got {
		byPath[e.Path] = e.Language
	}
	want := map[string]string{
		"a.ts":  "typescript",
		"b.tsx": "tsx",
		"c.jsx": "javascript",
		"d.mjs": "javascript",
	}
	if diff := cmp.Diff(want, byPath); diff != "" {
		t.Errorf("languages (-want +got):\n%s", diff)
	}
}

func TestFilesGitignore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "kept.ts", "generated/out.ts")
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("generated/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Files(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"kept.ts"}
	if diff := cmp.Diff(want, paths(got)); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
}

func TestFilesMissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := Files(filepath.Join(t.TempDir(), "absent"), nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestFilesRootIsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "file.ts")
	if err := os.WriteFile(path, []byte("export {};\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Files(path, nil); err == nil {
		t.Fatal("expected error for non-directory root")
	}
}
