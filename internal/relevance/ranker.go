// Package relevance orders visible projects by BM25 score using an
// in-memory bleve index over title, category and description.
package relevance

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/openplayground/catalog/internal/catalog"
)

const (
	// StopFilterName is the registered name of the catalog stop-word filter.
	StopFilterName = "catalog_stop"
	// AnalyzerName is the registered name of the catalog analyzer.
	AnalyzerName = "catalog_analyzer"
)

// Field boosts: a title hit outweighs a category hit, which outweighs a
// description hit.
const (
	TitleBoost       = 3.0
	CategoryBoost    = 2.0
	DescriptionBoost = 1.0
)

// stopWords are too common in project blurbs to carry signal.
var stopWords = []string{"a", "an", "and", "the", "of", "to", "with", "for", "in", "on", "your", "app"}

func init() {
	_ = registry.RegisterTokenFilter(StopFilterName, stopFilterConstructor)
}

func stopFilterConstructor(map[string]interface{}, *registry.Cache) (analysis.TokenFilter, error) {
	words := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		words[w] = struct{}{}
	}
	return &stopFilter{words: words}, nil
}

type stopFilter struct {
	words map[string]struct{}
}

// Filter implements analysis.TokenFilter.
func (f *stopFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	out := make(analysis.TokenStream, 0, len(input))
	for _, tok := range input {
		if _, stop := f.words[string(tok.Term)]; !stop {
			out = append(out, tok)
		}
	}
	return out
}

// document is what gets indexed per project.
type document struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func newIndexMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(AnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name, StopFilterName},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}
	im.DefaultAnalyzer = AnalyzerName
	return im, nil
}

// Ranker scores projects against a query. It is safe for concurrent use.
type Ranker struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
}

// New indexes projects in memory.
func New(projects []*catalog.Project) (*Ranker, error) {
	im, err := newIndexMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, p := range projects {
		doc := document{Title: p.Title, Category: p.Category, Description: p.Description}
		if err := batch.Index(p.ID, doc); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("failed to index project %s: %w", p.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}

	return &Ranker{index: idx}, nil
}

// buildQuery matches the analyzed query against each field with its boost.
// The last word also matches as a prefix so partial input while typing
// still scores.
func buildQuery(q string) query.Query {
	fields := []struct {
		name  string
		boost float64
	}{
		{"title", TitleBoost},
		{"category", CategoryBoost},
		{"description", DescriptionBoost},
	}

	var parts []query.Query
	words := strings.Fields(strings.ToLower(q))
	for _, f := range fields {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(f.name)
		mq.SetBoost(f.boost)
		parts = append(parts, mq)

		if len(words) > 0 {
			pq := bleve.NewPrefixQuery(words[len(words)-1])
			pq.SetField(f.name)
			pq.SetBoost(f.boost / 2)
			parts = append(parts, pq)
		}
	}
	return bleve.NewDisjunctionQuery(parts...)
}

// Scores returns the BM25 score of every matching project id.
func (r *Ranker) Scores(ctx context.Context, q string) (map[string]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("index is closed")
	}
	if strings.TrimSpace(q) == "" {
		return map[string]float64{}, nil
	}

	count, err := r.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	req := bleve.NewSearchRequest(buildQuery(q))
	req.Size = int(count)

	res, err := r.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	scores := make(map[string]float64, len(res.Hits))
	for _, hit := range res.Hits {
		scores[hit.ID] = hit.Score
	}
	return scores, nil
}

// Rank returns visible reordered by descending score. Projects with equal
// scores, and projects without a score, keep their relative order; unscored
// projects come last. The result is always a permutation of visible.
func (r *Ranker) Rank(ctx context.Context, q string, visible []*catalog.Project) ([]*catalog.Project, error) {
	scores, err := r.Scores(ctx, q)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(visible)
	slices.SortStableFunc(out, func(a, b *catalog.Project) int {
		sa, sb := scores[a.ID], scores[b.ID]
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

// Close releases the index.
func (r *Ranker) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.index.Close()
}
