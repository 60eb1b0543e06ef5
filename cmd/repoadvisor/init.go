package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	sentinelStart = "<!-- repoadvisor:start -->"
	sentinelEnd   = "<!-- repoadvisor:end -->"
)

var initDryRun bool

var initCmd = &cobra.Command{
	Use:   "init [path-to-instructions-file]",
	Short: "Write a repoadvisor usage section to an agent instructions file",
	Long: `Write a repoadvisor usage section to an agent instructions file
(AGENTS.md by default). The section is wrapped in sentinel comments so it
can be updated in place on subsequent runs without touching surrounding
content. Creates the file if it does not exist.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDryRun, "dry-run", false, "print what would be written without modifying the file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	section := generateSection()

	// --dry-run with no path: just print the section itself.
	if initDryRun && len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), section)
		return nil
	}

	path := "AGENTS.md"
	if len(args) > 0 {
		path = args[0]
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if initDryRun {
		fmt.Fprint(cmd.OutOrStdout(), updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "wrote repoadvisor section to %s\n", path)
	return nil
}

// generateSection returns the full sentinel-wrapped repoadvisor documentation block.
func generateSection() string {
	body := `## repoadvisor — Extend-or-Create Advisor

Before adding a table, operation, hook, or component, check whether an
existing entity already covers it.

**Availability:** Check with ` + "`repoadvisor --version`" + ` first; skip gracefully
if not found.

**Run it:**
` + "```" + `bash
repoadvisor analyze .                        # entity catalog summary
repoadvisor analyze -n 20 .                  # top 20 entities (large repos)
repoadvisor score proposal.yaml              # evaluate without a repo
repoadvisor score --repo . proposal.yaml     # evaluate against this repo
repoadvisor generate-docs . docs/guides      # write the guide tree
` + "```" + `

**How to use the output — follow these rules:**

1. **Check the catalog before writing new code.** The ` + "`entities`" + ` table
   lists every data store, operation, hook, component, and route with its
   file and line. Extend what exists when the domain and fields overlap.

2. **Trust the recommendation bands.** ` + "`use-existing`" + ` and ` + "`extend`" + ` mean
   exactly that; ` + "`reconsider`" + ` means the score landed in the manual-review
   band — do not auto-proceed.

3. **Nearest guide wins.** When guides have been generated, read the
   AGENTS.md closest to the file you are editing; it overrides ancestors
   for its subtree. Never merge guidance from multiple levels.`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
