// Package telemetry keeps in-process statistics about catalog searches:
// recent queries, the most frequent ones, queries that found nothing and a
// latency histogram. Nothing is persisted.
package telemetry

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LatencyBucket categorizes render latency.
type LatencyBucket string

const (
	BucketP10   LatencyBucket = "p10"   // <10ms
	BucketP50   LatencyBucket = "p50"   // 10-50ms
	BucketP100  LatencyBucket = "p100"  // 50-100ms
	BucketP500  LatencyBucket = "p500"  // 100-500ms
	BucketP1000 LatencyBucket = "p1000" // >=500ms
)

// LatencyToBucket maps a duration to its bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	ms := d.Milliseconds()
	switch {
	case ms < 10:
		return BucketP10
	case ms < 50:
		return BucketP50
	case ms < 100:
		return BucketP100
	case ms < 500:
		return BucketP500
	default:
		return BucketP1000
	}
}

// Source names the surface a query came from.
type Source string

const (
	SourceCLI  Source = "cli"
	SourceHTTP Source = "http"
	SourceMCP  Source = "mcp"
	SourceTUI  Source = "tui"
)

// QueryEvent is one rendered search.
type QueryEvent struct {
	Query       string        `json:"query"`
	Category    string        `json:"category,omitempty"`
	Sort        string        `json:"sort,omitempty"`
	Source      Source        `json:"source"`
	ResultCount int           `json:"result_count"`
	Latency     time.Duration `json:"latency_ns"`
	Timestamp   time.Time     `json:"timestamp"`
}

// NormalizeQuery trims and lowercases q, matching the visibility engine.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// QueryCount pairs a normalized query with how often it was seen.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Snapshot is a point-in-time copy of the metrics.
type Snapshot struct {
	TotalQueries        int64                   `json:"total_queries"`
	ZeroResultCount     int64                   `json:"zero_result_count"`
	TopQueries          []QueryCount            `json:"top_queries"`
	ZeroResultQueries   []QueryCount            `json:"zero_result_queries"`
	LatencyDistribution map[LatencyBucket]int64 `json:"latency_distribution"`
	Sources             map[Source]int64        `json:"sources"`
	Recent              []QueryEvent            `json:"recent"`
	Since               time.Time               `json:"since"`
}

// ZeroResultPercentage returns the share of searches that matched nothing.
func (s *Snapshot) ZeroResultPercentage() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalQueries) * 100
}

// Config sizes the metric stores.
type Config struct {
	// RecentCapacity is how many events the ring buffer keeps.
	RecentCapacity int
	// QueryCapacity bounds the distinct queries counted (LRU evicted).
	QueryCapacity int
	// TopN is how many queries a snapshot reports.
	TopN int
}

// DefaultConfig returns the default sizes.
func DefaultConfig() Config {
	return Config{RecentCapacity: 256, QueryCapacity: 500, TopN: 10}
}

// QueryMetrics aggregates QueryEvents. It is safe for concurrent use.
type QueryMetrics struct {
	mu sync.Mutex

	recent      *CircularBuffer[QueryEvent]
	queries     *lru.Cache[string, int64]
	zeroResults *lru.Cache[string, int64]
	latencies   map[LatencyBucket]int64
	sources     map[Source]int64
	total       int64
	zeroTotal   int64
	topN        int
	startTime   time.Time
}

// New creates QueryMetrics with cfg, filling in defaults for zero fields.
func New(cfg Config) *QueryMetrics {
	def := DefaultConfig()
	if cfg.RecentCapacity <= 0 {
		cfg.RecentCapacity = def.RecentCapacity
	}
	if cfg.QueryCapacity <= 0 {
		cfg.QueryCapacity = def.QueryCapacity
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}

	queries, _ := lru.New[string, int64](cfg.QueryCapacity)
	zero, _ := lru.New[string, int64](cfg.QueryCapacity)

	return &QueryMetrics{
		recent:      NewCircularBuffer[QueryEvent](cfg.RecentCapacity),
		queries:     queries,
		zeroResults: zero,
		latencies:   make(map[LatencyBucket]int64),
		sources:     make(map[Source]int64),
		topN:        cfg.TopN,
		startTime:   time.Now(),
	}
}

// Record adds one event. Empty queries count toward totals and latency but
// not toward the query rankings.
func (m *QueryMetrics) Record(event QueryEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Query = NormalizeQuery(event.Query)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.latencies[LatencyToBucket(event.Latency)]++
	if event.Source != "" {
		m.sources[event.Source]++
	}

	if event.Query != "" {
		n, _ := m.queries.Get(event.Query)
		m.queries.Add(event.Query, n+1)
	}
	if event.ResultCount == 0 {
		m.zeroTotal++
		if event.Query != "" {
			n, _ := m.zeroResults.Get(event.Query)
			m.zeroResults.Add(event.Query, n+1)
		}
	}

	m.recent.Add(event)
}

func top(c *lru.Cache[string, int64], n int) []QueryCount {
	out := make([]QueryCount, 0, c.Len())
	for _, k := range c.Keys() {
		if v, ok := c.Peek(k); ok {
			out = append(out, QueryCount{Query: k, Count: v})
		}
	}
	slices.SortFunc(out, func(a, b QueryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Query, b.Query)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Snapshot copies the current metrics.
func (m *QueryMetrics) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	lat := make(map[LatencyBucket]int64, len(m.latencies))
	for k, v := range m.latencies {
		lat[k] = v
	}
	src := make(map[Source]int64, len(m.sources))
	for k, v := range m.sources {
		src[k] = v
	}

	return &Snapshot{
		TotalQueries:        m.total,
		ZeroResultCount:     m.zeroTotal,
		TopQueries:          top(m.queries, m.topN),
		ZeroResultQueries:   top(m.zeroResults, m.topN),
		LatencyDistribution: lat,
		Sources:             src,
		Recent:              m.recent.Items(),
		Since:               m.startTime,
	}
}
