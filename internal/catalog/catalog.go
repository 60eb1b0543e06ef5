// Package catalog builds a normalized inventory of code entities from a
// repository snapshot. The build is read-only, best-effort per file, and
// deterministic: the same snapshot always yields the same entity list in
// the same order.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/phobologic/repoadvisor/internal/advisorerr"
	"github.com/phobologic/repoadvisor/internal/discover"
	"github.com/phobologic/repoadvisor/internal/extract"
	"github.com/phobologic/repoadvisor/internal/lang"
	"github.com/phobologic/repoadvisor/internal/model"
)

const defaultMaxFileSize = 1_000_000 // 1 MB

// Catalog is the normalized inventory of a snapshot, rebuilt wholesale on
// each analysis run.
type Catalog struct {
	RepoName string
	Root     string
	Entities []model.Entity
	Skipped  []model.SkippedFile
}

// Options configures a catalog build.
type Options struct {
	Languages   []string
	MaxFileSize int
	Logger      *zap.Logger
}

type reference struct {
	File      string
	Name      string
	Enclosing string
}

// Build discovers, parses, and classifies the snapshot under root.
// Per-file failures are recorded in Skipped; only snapshot-level I/O
// failures return an error.
func Build(root string, opts Options) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	files, err := discover.Files(root, opts.Languages)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		RepoName: filepath.Base(root),
		Root:     root,
	}

	files = filterBySize(root, files, maxSize, cat, logger)
	results := extractConcurrent(root, files)

	seen := make(map[string]struct{})
	byFileName := make(map[string]int) // file "#" name → entity index
	var refs []reference

	for i, f := range files {
		r := results[i]
		if r.err != nil {
			cat.Skipped = append(cat.Skipped, model.SkippedFile{
				Path:   f.Path,
				Reason: "parse error: " + r.err.Error(),
			})
			logger.Debug("file skipped",
				zap.String("code", string(advisorerr.ExtractionSkipped)),
				zap.String("path", f.Path),
				zap.Error(r.err))
			continue
		}
		if len(r.res.Definitions) == 0 {
			cat.Skipped = append(cat.Skipped, model.SkippedFile{
				Path:   f.Path,
				Reason: "no recognized entities",
			})
			continue
		}

		for _, def := range r.res.Definitions {
			id := f.Path + "#" + def.Name
			if _, dup := seen[id]; dup {
				id = fmt.Sprintf("%s@%d", id, def.Line)
				if _, dup := seen[id]; dup {
					continue
				}
			}
			seen[id] = struct{}{}

			cat.Entities = append(cat.Entities, model.Entity{
				ID:        id,
				Name:      def.Name,
				Kind:      def.Kind,
				Domain:    inferDomain(f.Path),
				Fields:    def.Fields,
				File:      f.Path,
				Line:      def.Line,
				Signature: def.Signature,
			})
			byFileName[f.Path+"#"+def.Name] = len(cat.Entities) - 1
		}
		for _, ref := range r.res.References {
			refs = append(refs, reference{File: f.Path, Name: ref.Name, Enclosing: ref.Enclosing})
		}
	}

	linkConsumers(cat.Entities, refs, byFileName)
	rank(cat.Entities)

	sort.Slice(cat.Entities, func(i, j int) bool {
		return cat.Entities[i].ID < cat.Entities[j].ID
	})

	logger.Debug("catalog built",
		zap.Int("entities", len(cat.Entities)),
		zap.Int("skipped", len(cat.Skipped)))

	return cat, nil
}

// ByID returns the entity with the given ID, if present.
func (c *Catalog) ByID(id string) (model.Entity, bool) {
	for i := range c.Entities {
		if c.Entities[i].ID == id {
			return c.Entities[i], true
		}
	}
	return model.Entity{}, false
}

func filterBySize(root string, files []discover.FileEntry, maxSize int, cat *Catalog, logger *zap.Logger) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			cat.Skipped = append(cat.Skipped, model.SkippedFile{
				Path:   f.Path,
				Reason: fmt.Sprintf("exceeds size limit (%d bytes)", maxSize),
			})
			logger.Debug("file skipped",
				zap.String("code", string(advisorerr.ExtractionSkipped)),
				zap.String("path", f.Path),
				zap.Int64("size", fi.Size()))
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

type fileResult struct {
	res extract.Result
	err error
}

type parserPair struct {
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
}

// extractConcurrent parses files with one worker per CPU. Results are
// indexed by input position so parallelism never affects output ordering.
func extractConcurrent(root string, files []discover.FileEntry) []fileResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	results := make([]fileResult, len(files))
	work := make(chan int, len(files))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parsers
			parsers := make(map[string]*parserPair)

			for idx := range work {
				f := files[idx]
				pp, ok := parsers[f.Language]
				if !ok {
					l := lang.Languages[f.Language]
					q, err := l.GetTagQuery()
					if err != nil {
						results[idx] = fileResult{err: err}
						continue
					}
					pp = &parserPair{lang: l, parser: l.NewParser(), query: q}
					parsers[f.Language] = pp
				}

				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					results[idx] = fileResult{err: err}
					continue
				}

				res, err := extract.File(pp.lang, pp.parser, pp.query, source)
				results[idx] = fileResult{res: res, err: err}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)
	wg.Wait()

	return results
}

// linkConsumers resolves references against the definition index and adds
// back-reference edges from each referenced entity to the entity containing
// the call site. Self-references are dropped.
func linkConsumers(entities []model.Entity, refs []reference, byFileName map[string]int) {
	defsByName := make(map[string][]int)
	for i := range entities {
		defsByName[entities[i].Name] = append(defsByName[entities[i].Name], i)
	}

	consumerSets := make(map[int]map[string]struct{})
	for _, ref := range refs {
		if ref.Enclosing == "" {
			continue // module-level reference, no owning entity
		}
		srcIdx, ok := byFileName[ref.File+"#"+ref.Enclosing]
		if !ok {
			continue
		}
		for _, tgtIdx := range defsByName[ref.Name] {
			if tgtIdx == srcIdx {
				continue
			}
			if consumerSets[tgtIdx] == nil {
				consumerSets[tgtIdx] = make(map[string]struct{})
			}
			consumerSets[tgtIdx][entities[srcIdx].ID] = struct{}{}
		}
	}

	for idx, set := range consumerSets {
		consumers := make([]string, 0, len(set))
		for id := range set {
			consumers = append(consumers, id)
		}
		sort.Strings(consumers)
		entities[idx].Consumers = consumers
	}
}

// rank applies PageRank over the consumer graph. Rank flows from each
// consumer to the entity it references, so heavily consumed entities score
// highest.
func rank(entities []model.Entity) {
	if len(entities) == 0 {
		return
	}

	nodes := make(map[string]struct{}, len(entities))
	for i := range entities {
		nodes[entities[i].ID] = struct{}{}
	}

	outEdges := make(map[string][]string)
	outDegree := make(map[string]int)
	hasEdges := false
	for i := range entities {
		for _, consumer := range entities[i].Consumers {
			outEdges[consumer] = append(outEdges[consumer], entities[i].ID)
			outDegree[consumer]++
			hasEdges = true
		}
	}

	if !hasEdges {
		uniform := 1.0 / float64(len(entities))
		for i := range entities {
			entities[i].Centrality = uniform
		}
		return
	}

	ranks := pageRank(nodes, outEdges, outDegree, 0.85, 100, 1e-6)
	for i := range entities {
		entities[i].Centrality = ranks[entities[i].ID]
	}
}

var genericSegments = map[string]struct{}{
	".":          {},
	"src":        {},
	"app":        {},
	"lib":        {},
	"pages":      {},
	"components": {},
	"hooks":      {},
	"api":        {},
	"utils":      {},
	"server":     {},
	"client":     {},
	"convex":     {},
	"routes":     {},
}

// inferDomain derives a free-text domain tag from a file's location: the
// nearest non-generic path segment, falling back to the file stem.
func inferDomain(path string) string {
	dir := filepath.Dir(path)
	segments := strings.Split(filepath.ToSlash(dir), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if _, generic := genericSegments[seg]; !generic && seg != "" {
			return seg
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
