package tracing

// Span names.
const (
	SpanCompute   = "diff.compute"
	SpanRecompute = "session.recompute"
)

// Span attribute keys.
const (
	AttrAlgorithm     = "diff.algorithm"
	AttrOriginalBytes = "diff.original_bytes"
	AttrModifiedBytes = "diff.modified_bytes"
	AttrCacheHit      = "diff.cache_hit"
	AttrRows          = "diff.rows"
	AttrAdded         = "diff.added"
	AttrRemoved       = "diff.removed"

	AttrSessionID = "session.id"
	AttrSeq       = "session.seq"
	AttrStale     = "session.stale"
)
