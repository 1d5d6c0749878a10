package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedProvider decorates an EmbeddingProvider with a TTL cache keyed by
// content hash. The cache is owned by whoever constructed it, never shared
// module-level state, so two engine instances can carry independent caches.
type CachedProvider struct {
	inner EmbeddingProvider
	cache *gocache.Cache
}

// NewCachedProvider wraps inner with a cache. Entries expire after ttl and
// expired items are purged at twice that interval.
func NewCachedProvider(inner EmbeddingProvider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &CachedProvider{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	key := cacheKey(text, taskType)
	if hit, found := p.cache.Get(key); found {
		return hit.(*EmbeddingResponse), nil
	}

	res, err := p.inner.Generate(text, taskType)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, res, gocache.DefaultExpiration)
	return res, nil
}

// Flush drops all cached embeddings. Used when the embedding model changes.
func (p *CachedProvider) Flush() {
	p.cache.Flush()
}

func cacheKey(text, taskType string) string {
	sum := sha256.Sum256([]byte(taskType + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
