package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// DefaultCacheSize is the number of parsed scripts retained by
// [ParseReader].
const DefaultCacheSize = 128

// cacheKey identifies one parse: the source content and the options that
// change what the parser accepts.
type cacheKey struct {
	sum      uint64
	maxDepth int
}

// scriptCache holds parsed scripts keyed by cacheKey. Cached scripts are
// shared between callers and must not be modified.
var scriptCache = sync.OnceValue(func() *lru.Cache {
	c, err := lru.New(DefaultCacheSize)
	if err != nil {
		panic(err) // only for non-positive size
	}

	return c
})

// ParseReader reads all of r and parses it. Scripts are cached by content
// hash, so rereading unchanged input does not parse it again. The returned
// script is shared with the cache and must be treated as read-only.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Script, error) {
	o := makeOptions(opts...)

	// Wrap reader with async read-ahead so input is fetched while the
	// previous chunk is being copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	src := string(data)
	key := cacheKey{sum: xxh3.HashString(src), maxDepth: o.maxDepth}

	if v, ok := scriptCache().Get(key); ok {
		o.logger.TraceContext(ctx, "cache hit",
			slog.String("source_hash", strconv.FormatUint(key.sum, 16)),
		)

		if s, ok := v.(*Script); ok {
			return s, nil
		}
	}

	o.logger.TraceContext(ctx, "cache miss",
		slog.String("source_hash", strconv.FormatUint(key.sum, 16)),
		slog.Int("source_bytes", len(data)),
	)

	script, err := parse(ctx, src, o)
	if err != nil {
		return nil, err
	}

	scriptCache().Add(key, script)

	return script, nil
}

// ClearCache removes all cached scripts.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	scriptCache().Purge()
}

// cacheLen reports the number of cached scripts.
func cacheLen() int { return scriptCache().Len() }
