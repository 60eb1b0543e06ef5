package docgen

import (
	"os"
	"path/filepath"

	"github.com/phobologic/repoadvisor/internal/advisorerr"
	"github.com/phobologic/repoadvisor/internal/model"
)

// WriteTree writes one document per node under outDir, mirroring the node
// paths. Any write failure aborts with an IOFailure: a run either emits
// the complete tree or nothing useful, never a silent partial.
func WriteTree(root *model.DocumentNode, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return advisorerr.Wrap(advisorerr.IOFailure, "creating output directory", err)
	}

	var write func(node *model.DocumentNode) error
	write = func(node *model.DocumentNode) error {
		dir := outDir
		if node.Path != "." {
			dir = filepath.Join(outDir, filepath.FromSlash(node.Path))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return advisorerr.Wrap(advisorerr.IOFailure, "creating "+dir, err)
			}
		}
		target := filepath.Join(dir, DocFileName)
		if err := os.WriteFile(target, []byte(Render(node)), 0o644); err != nil {
			return advisorerr.Wrap(advisorerr.IOFailure, "writing "+target, err)
		}
		for _, child := range node.Children {
			if err := write(child); err != nil {
				return err
			}
		}
		return nil
	}

	return write(root)
}
