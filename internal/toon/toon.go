// Package toon implements TOON (Token-Oriented Object Notation) encoding
// of catalog summaries.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/repoadvisor/internal/catalog"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a catalog into TOON format: a repo header followed by
// entities, fields, consumers, and skipped tables.
func Encode(cat *catalog.Catalog) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("repo: %s", encodeValue(cat.RepoName)))

	var entityRows [][]string
	for i := range cat.Entities {
		e := &cat.Entities[i]
		entityRows = append(entityRows, []string{
			e.ID,
			string(e.Kind),
			e.Domain,
			e.File,
			fmt.Sprintf("%d", e.Line),
			fmt.Sprintf("%.4f", e.Centrality),
		})
	}
	parts = append(parts, formatTabular("entities", []string{"id", "kind", "domain", "file", "line", "centrality"}, entityRows))

	var fieldRows [][]string
	for i := range cat.Entities {
		e := &cat.Entities[i]
		for _, f := range e.Fields {
			fieldRows = append(fieldRows, []string{e.ID, f.Name, f.Type})
		}
	}
	parts = append(parts, formatTabular("fields", []string{"entity", "name", "type"}, fieldRows))

	var consumerRows [][]string
	for i := range cat.Entities {
		e := &cat.Entities[i]
		for _, c := range e.Consumers {
			consumerRows = append(consumerRows, []string{e.ID, c})
		}
	}
	parts = append(parts, formatTabular("consumers", []string{"entity", "consumer"}, consumerRows))

	if len(cat.Skipped) > 0 {
		var skipRows [][]string
		for _, s := range cat.Skipped {
			skipRows = append(skipRows, []string{s.Path, s.Reason})
		}
		parts = append(parts, formatTabular("skipped", []string{"file", "reason"}, skipRows))
	}

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
