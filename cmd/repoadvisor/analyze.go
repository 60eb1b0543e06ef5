package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/repoadvisor/internal/advisorerr"
	"github.com/phobologic/repoadvisor/internal/catalog"
	"github.com/phobologic/repoadvisor/internal/discover"
	"github.com/phobologic/repoadvisor/internal/lang"
	"github.com/phobologic/repoadvisor/internal/toon"
)

var (
	analyzeLangs       string
	analyzeMaxFileSize int
	analyzeCachePath   string
	analyzeMaxEntities int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repoPath>",
	Short: "Build the entity catalog and print a TOON summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeLangs, "langs", "l", "", "comma-separated languages to include")
	analyzeCmd.Flags().IntVar(&analyzeMaxFileSize, "max-file-size", 0, "skip files larger than this many bytes")
	analyzeCmd.Flags().StringVar(&analyzeCachePath, "cache", "", "cache file path")
	analyzeCmd.Flags().IntVarP(&analyzeMaxEntities, "max-entities", "n", 0, "limit the summary to the most central entities")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return exitWith(2, advisorerr.Wrap(advisorerr.IOFailure, "reading snapshot root", err))
	}

	langFilter, err := parseLangFilter(analyzeLangs)
	if err != nil {
		return err
	}

	if analyzeCachePath != "" {
		files, err := discover.Files(root, langFilter)
		if err != nil {
			return exitWith(2, err)
		}
		if cacheIsFresh(analyzeCachePath, root, files) {
			data, err := os.ReadFile(analyzeCachePath)
			if err == nil {
				_, _ = cmd.OutOrStdout().Write(data)
				return nil
			}
		}
	}

	cat, err := catalog.Build(root, catalog.Options{
		Languages:   langFilter,
		MaxFileSize: analyzeMaxFileSize,
		Logger:      logger,
	})
	if err != nil {
		if advisorerr.CodeOf(err) == advisorerr.IOFailure {
			return exitWith(2, err)
		}
		return err
	}
	if len(cat.Entities) == 0 && len(cat.Skipped) == 0 {
		return fmt.Errorf("no parseable files found")
	}

	output := toon.Encode(catalog.Select(cat, analyzeMaxEntities))

	if analyzeCachePath != "" {
		_ = os.WriteFile(analyzeCachePath, []byte(output+"\n"), 0o644)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

func parseLangFilter(langs string) ([]string, error) {
	if langs == "" {
		return nil, nil
	}
	var filter []string
	for _, name := range strings.Split(langs, ",") {
		name = strings.TrimSpace(name)
		if _, ok := lang.Languages[name]; !ok {
			return nil, fmt.Errorf("unsupported language %q", name)
		}
		filter = append(filter, name)
	}
	return filter, nil
}

func cacheIsFresh(cachePath, root string, files []discover.FileEntry) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}
