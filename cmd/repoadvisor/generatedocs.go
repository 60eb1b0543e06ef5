package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/repoadvisor/internal/advisorerr"
	"github.com/phobologic/repoadvisor/internal/catalog"
	"github.com/phobologic/repoadvisor/internal/docgen"
	"github.com/phobologic/repoadvisor/internal/model"
)

var generateDocsCmd = &cobra.Command{
	Use:   "generate-docs <repoPath> <outDir>",
	Short: "Generate the guidance document tree",
	Args:  cobra.ExactArgs(2),
	RunE:  runGenerateDocs,
}

func init() {
	rootCmd.AddCommand(generateDocsCmd)
}

func runGenerateDocs(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return exitWith(2, advisorerr.Wrap(advisorerr.IOFailure, "reading snapshot root", err))
	}
	outDir := args[1]

	cat, err := catalog.Build(root, catalog.Options{Logger: logger})
	if err != nil {
		if advisorerr.CodeOf(err) == advisorerr.IOFailure {
			return exitWith(2, err)
		}
		return err
	}

	tree, warnings, err := docgen.Generate(cat, ruleset)
	if err != nil {
		return err
	}

	if err := docgen.WriteTree(tree, outDir); err != nil {
		return exitWith(3, err)
	}

	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s: %s\n", w.Path, w.Message)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d documents to %s\n", countNodes(tree), outDir)
	return nil
}

func countNodes(node *model.DocumentNode) int {
	n := 1
	for _, child := range node.Children {
		n += countNodes(child)
	}
	return n
}
