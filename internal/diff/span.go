package diff

// SpanKind classifies a run of lines in an edit script.
type SpanKind int

const (
	SpanEqual    SpanKind = iota // Lines present in both inputs
	SpanInserted                 // Lines present only in the modified input
	SpanDeleted                  // Lines present only in the original input
)

// String returns the lowercase name of the kind.
func (k SpanKind) String() string {
	switch k {
	case SpanEqual:
		return "equal"
	case SpanInserted:
		return "inserted"
	case SpanDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Span is a maximal run of lines sharing one classification.
type Span struct {
	Kind  SpanKind
	Lines []string
}

// Algorithm computes an edit script between two line sequences.
//
// Implementations must be deterministic and must return spans whose
// projection reconstructs both inputs: equal and deleted spans in order give
// a, equal and inserted spans in order give b. Within any run of changes the
// deleted span comes first.
type Algorithm interface {
	Name() string
	Diff(a, b []string) []Span
}

// spanBuilder accumulates single-line operations into normalized spans.
// Consecutive deletions and insertions between two equal runs are collected
// into one deleted span followed by one inserted span.
type spanBuilder struct {
	out     []Span
	eq      []string
	deleted []string
	added   []string
}

func (sb *spanBuilder) equal(lines ...string) {
	if len(lines) == 0 {
		return
	}
	sb.flushChanges()
	sb.eq = append(sb.eq, lines...)
}

func (sb *spanBuilder) delete(lines ...string) {
	if len(lines) == 0 {
		return
	}
	sb.flushEqual()
	sb.deleted = append(sb.deleted, lines...)
}

func (sb *spanBuilder) insert(lines ...string) {
	if len(lines) == 0 {
		return
	}
	sb.flushEqual()
	sb.added = append(sb.added, lines...)
}

func (sb *spanBuilder) flushEqual() {
	if len(sb.eq) > 0 {
		sb.out = append(sb.out, Span{Kind: SpanEqual, Lines: sb.eq})
		sb.eq = nil
	}
}

func (sb *spanBuilder) flushChanges() {
	if len(sb.deleted) > 0 {
		sb.out = append(sb.out, Span{Kind: SpanDeleted, Lines: sb.deleted})
		sb.deleted = nil
	}
	if len(sb.added) > 0 {
		sb.out = append(sb.out, Span{Kind: SpanInserted, Lines: sb.added})
		sb.added = nil
	}
}

func (sb *spanBuilder) spans() []Span {
	sb.flushEqual()
	sb.flushChanges()
	return sb.out
}
