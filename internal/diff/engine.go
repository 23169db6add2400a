// Package diff computes line-level differences between two texts and
// aligns them into side-by-side rows.
//
// The pipeline is SplitLines → Algorithm.Diff → Align → ComputeStats, with
// ChangeWindow and Navigator as projections over the finished rows. Every
// stage is pure; results are rebuilt from scratch on each call.
package diff

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/splitdiff/internal/cachemanager"
	"github.com/zjrosen/splitdiff/internal/log"
	"github.com/zjrosen/splitdiff/internal/tracing"
)

// ErrUnknownAlgorithm is returned by AlgorithmByName for unsupported names.
var ErrUnknownAlgorithm = errors.New("unknown diff algorithm")

// AlgorithmNames lists the accepted values for AlgorithmByName.
var AlgorithmNames = []string{"myers", "dmp"}

// AlgorithmByName resolves a configured algorithm name. Empty means myers.
func AlgorithmByName(name string) (Algorithm, error) {
	switch name {
	case "", "myers":
		return Myers{}, nil
	case "dmp":
		return DMP{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Compute runs the full pipeline with the default algorithm.
func Compute(original, modified string) Result {
	return run(Myers{}, original, modified)
}

func run(algo Algorithm, original, modified string) Result {
	spans := algo.Diff(SplitLines(original), SplitLines(modified))
	rows := Align(spans)
	return Result{Rows: rows, Stats: ComputeStats(rows)}
}

type input struct {
	original string
	modified string
}

// CacheEntry is what the engine memoizes: the result together with the
// inputs it was computed from, so a hash collision is detected on read.
type CacheEntry struct {
	Original string
	Modified string
	Result   Result
}

// Engine runs the pipeline with a configured algorithm, an optional result
// cache and a tracer.
type Engine struct {
	algo   Algorithm
	tracer trace.Tracer
	cache  *cachemanager.ReadThroughCache[string, CacheEntry, input]
}

type engineOptions struct {
	algo     Algorithm
	tracer   trace.Tracer
	cache    cachemanager.CacheManager[string, CacheEntry]
	cacheTTL time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

// WithAlgorithm selects the line diff algorithm.
func WithAlgorithm(algo Algorithm) EngineOption {
	return func(o *engineOptions) { o.algo = algo }
}

// WithCache memoizes results keyed by algorithm and input hash.
func WithCache(cache cachemanager.CacheManager[string, CacheEntry], ttl time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.cache = cache
		o.cacheTTL = ttl
	}
}

// WithTracer records a span per computation.
func WithTracer(tracer trace.Tracer) EngineOption {
	return func(o *engineOptions) { o.tracer = tracer }
}

// NewEngine creates an Engine. Without options it behaves like Compute.
func NewEngine(opts ...EngineOption) *Engine {
	o := engineOptions{algo: Myers{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer("splitdiff")
	}

	e := &Engine{algo: o.algo, tracer: o.tracer}
	compute := func(_ context.Context, in input) (CacheEntry, error) {
		return CacheEntry{
			Original: in.original,
			Modified: in.modified,
			Result:   run(e.algo, in.original, in.modified),
		}, nil
	}
	e.cache = cachemanager.NewReadThroughCache(o.cache, o.cacheTTL, compute)
	return e
}

// Algorithm returns the configured algorithm's name.
func (e *Engine) Algorithm() string { return e.algo.Name() }

// Compute diffs original against modified.
func (e *Engine) Compute(ctx context.Context, original, modified string) Result {
	ctx, span := e.tracer.Start(ctx, tracing.SpanCompute,
		trace.WithAttributes(
			attribute.String(tracing.AttrAlgorithm, e.algo.Name()),
			attribute.Int(tracing.AttrOriginalBytes, len(original)),
			attribute.Int(tracing.AttrModifiedBytes, len(modified)),
		),
	)
	defer span.End()

	start := time.Now()
	result, hit := e.lookup(ctx, original, modified)

	span.SetAttributes(
		attribute.Bool(tracing.AttrCacheHit, hit),
		attribute.Int(tracing.AttrRows, len(result.Rows)),
		attribute.Int(tracing.AttrAdded, result.Stats.Added),
		attribute.Int(tracing.AttrRemoved, result.Stats.Removed),
	)
	log.Debug(log.CatDiff, "computed diff",
		"algorithm", e.algo.Name(),
		"rows", len(result.Rows),
		"added", result.Stats.Added,
		"removed", result.Stats.Removed,
		"cache_hit", hit,
		"elapsed", time.Since(start))
	return result
}

// lookup reads through the cache. An entry whose inputs differ from the
// request is a key collision and is recomputed instead of returned.
func (e *Engine) lookup(ctx context.Context, original, modified string) (Result, bool) {
	key := cacheKey(e.algo.Name(), original, modified)
	entry, hit, err := e.cache.Get(ctx, key, input{original, modified})
	if err != nil {
		log.ErrorErr(log.CatCache, "Cache read failed, computing directly", err, "key", key)
		return run(e.algo, original, modified), false
	}
	if hit && (entry.Original != original || entry.Modified != modified) {
		log.Warn(log.CatCache, "Cache key collision, computing directly", "key", key)
		return run(e.algo, original, modified), false
	}
	return entry.Result, hit
}

// cacheKey hashes both inputs; the original's length is part of the key so
// moving a boundary between the two texts changes the hash input.
func cacheKey(algo, original, modified string) string {
	h := xxhash.New()
	_, _ = h.WriteString(original)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(modified)
	return algo + ":" + strconv.Itoa(len(original)) + ":" + strconv.FormatUint(h.Sum64(), 16)
}
