package catalog

import "sort"

// Select returns a new Catalog containing only the maxEntities most central
// entities. Consumer edges pointing outside the selection are dropped so
// the summary stays self-contained. If maxEntities is <= 0 or covers the
// whole catalog, the input is returned unchanged.
func Select(cat *Catalog, maxEntities int) *Catalog {
	if maxEntities <= 0 || maxEntities >= len(cat.Entities) {
		return cat
	}

	order := make([]int, len(cat.Entities))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ea, eb := &cat.Entities[order[a]], &cat.Entities[order[b]]
		if ea.Centrality != eb.Centrality {
			return ea.Centrality > eb.Centrality
		}
		return ea.ID < eb.ID
	})
	order = order[:maxEntities]

	selectedIDs := make(map[string]struct{}, maxEntities)
	for _, idx := range order {
		selectedIDs[cat.Entities[idx].ID] = struct{}{}
	}

	out := &Catalog{
		RepoName: cat.RepoName,
		Root:     cat.Root,
		Skipped:  cat.Skipped,
	}
	// Preserve catalog ordering (sorted by ID) in the selection.
	for i := range cat.Entities {
		e := cat.Entities[i]
		if _, ok := selectedIDs[e.ID]; !ok {
			continue
		}
		var consumers []string
		for _, c := range e.Consumers {
			if _, ok := selectedIDs[c]; ok {
				consumers = append(consumers, c)
			}
		}
		e.Consumers = consumers
		out.Entities = append(out.Entities, e)
	}
	return out
}
