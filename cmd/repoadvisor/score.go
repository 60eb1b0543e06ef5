package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/repoadvisor/internal/advisorerr"
	"github.com/phobologic/repoadvisor/internal/catalog"
	"github.com/phobologic/repoadvisor/internal/decision"
	"github.com/phobologic/repoadvisor/internal/match"
	"github.com/phobologic/repoadvisor/internal/model"
)

var scoreRepoPath string

var scoreCmd = &cobra.Command{
	Use:   "score <proposalFile>",
	Short: "Evaluate a change proposal and print a recommendation",
	Long: `Evaluate a change proposal (YAML) through the decision tree and the
complexity scorer. With --repo, the proposal is first matched against the
repository's entity catalog so the tree sees real candidates; without it,
the candidate set is empty.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreRepoPath, "repo", "", "repository snapshot to match the proposal against")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	proposal, err := loadProposal(args[0])
	if err != nil {
		return exitWith(1, err)
	}

	var candidates []match.Candidate
	if scoreRepoPath != "" {
		cat, err := catalog.Build(scoreRepoPath, catalog.Options{Logger: logger})
		if err != nil {
			if advisorerr.CodeOf(err) == advisorerr.IOFailure {
				return exitWith(2, err)
			}
			return err
		}
		candidates = match.FindCandidates(cat, proposal)
	}

	rec, err := decision.Decide(proposal, candidates)
	if err != nil {
		if advisorerr.CodeOf(err) == advisorerr.InvalidProposal {
			return exitWith(1, err)
		}
		return err
	}

	printRecommendation(cmd.OutOrStdout(), rec, candidates)
	return nil
}

func loadProposal(path string) (model.ChangeProposal, error) {
	var proposal model.ChangeProposal

	data, err := os.ReadFile(path)
	if err != nil {
		return proposal, advisorerr.Wrap(advisorerr.InvalidProposal, "reading proposal", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&proposal); err != nil && !errors.Is(err, io.EOF) {
		return proposal, advisorerr.Wrap(advisorerr.InvalidProposal, "parsing proposal", err)
	}

	if err := decision.Validate(proposal); err != nil {
		return proposal, err
	}
	return proposal, nil
}

func printRecommendation(w io.Writer, rec model.Recommendation, candidates []match.Candidate) {
	fmt.Fprintf(w, "action: %s\n", rec.Action)
	fmt.Fprintf(w, "terminal: %s\n", rec.Terminal)

	if len(rec.Rationale) > 0 {
		fmt.Fprintf(w, "score: %+d\n", rec.Score)
		fmt.Fprintln(w, "rationale:")
		for _, c := range rec.Rationale {
			applies := "no"
			if c.Applies {
				applies = "yes"
			}
			fmt.Fprintf(w, "  %-24s %-4s %+d\n", c.Criterion, applies, c.Contribution)
		}
	}

	if len(candidates) > 0 {
		fmt.Fprintln(w, "candidates:")
		for _, c := range candidates {
			fmt.Fprintf(w, "  %-48s %.4f\n", c.Entity.ID, c.Overlap)
		}
	}
}
