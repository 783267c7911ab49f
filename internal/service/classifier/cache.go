package classifier

import (
	"sync"

	"github.com/tgaplan/estimator/internal/domain"
)

// runCache memoizes results by normalized room name within a single run, so
// repeated labels resolve once. Degraded results are never cached.
type runCache struct {
	mu      sync.Mutex
	entries map[string]cachedResult
}

type cachedResult struct {
	TypeCode   string
	Confidence float64
	Method     domain.MatchMethod
	Candidates []domain.Candidate
}

func newRunCache() *runCache {
	return &runCache{entries: make(map[string]cachedResult)}
}

func (c *runCache) get(key string) (cachedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	return entry, ok
}

func (c *runCache) put(key string, res domain.ClassificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cachedResult{
		TypeCode:   res.TypeCode,
		Confidence: res.Confidence,
		Method:     res.Method,
		Candidates: res.Candidates,
	}
}
