package diff

// Myers computes a minimal line edit script with the greedy O((N+M)·D)
// algorithm from Myers' "An O(ND) Difference Algorithm and Its Variations".
//
// Common prefix lines are matched before the search. A common suffix is not:
// stripping it would pull matches toward the end when lines repeat. When
// several minimal scripts exist, the search prefers a deletion over an
// insertion at each step, which keeps matches as early as possible in both
// inputs.
type Myers struct{}

// Name identifies the algorithm in config and cache keys.
func (Myers) Name() string { return "myers" }

// Diff returns the normalized span sequence for a → b.
func (Myers) Diff(a, b []string) []Span {
	var sb spanBuilder

	prefix := commonPrefix(a, b)
	sb.equal(a[:prefix]...)

	midA, midB := a[prefix:], b[prefix:]

	ia, ib, shared := intern(midA, midB)
	if !shared {
		sb.delete(midA...)
		sb.insert(midB...)
	} else {
		x, y := 0, 0
		for _, op := range shortestEdit(ia, ib) {
			switch op {
			case opEqual:
				sb.equal(midA[x])
				x++
				y++
			case opDelete:
				sb.delete(midA[x])
				x++
			case opInsert:
				sb.insert(midB[y])
				y++
			}
		}
	}

	return sb.spans()
}

type editOp uint8

const (
	opEqual editOp = iota
	opDelete
	opInsert
)

func commonPrefix(a, b []string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// intern maps lines to small integers so the search compares ints.
// shared reports whether any line occurs in both inputs.
func intern(a, b []string) (ia, ib []int, shared bool) {
	ids := make(map[string]int, len(a)+len(b))
	ia = make([]int, len(a))
	for i, line := range a {
		id, ok := ids[line]
		if !ok {
			id = len(ids)
			ids[line] = id
		}
		ia[i] = id
	}
	fromA := len(ids)
	ib = make([]int, len(b))
	for i, line := range b {
		id, ok := ids[line]
		if !ok {
			id = len(ids)
			ids[line] = id
		}
		if id < fromA {
			shared = true
		}
		ib[i] = id
	}
	return ia, ib, shared
}

// shortestEdit runs the forward greedy search and backtracks through the
// saved frontier of each round. Round d keeps only diagonals -d..d, so the
// trace costs O(D²) instead of O(D·(N+M)).
func shortestEdit(a, b []int) []editOp {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}

	limit := n + m
	offset := limit + 1
	v := make([]int, 2*limit+3)
	var trace [][]int

	for d := 0; d <= limit; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				trace = append(trace, frontier(v, offset, d))
				return backtrack(trace, n, m)
			}
		}
		trace = append(trace, frontier(v, offset, d))
	}
	return nil
}

// frontier copies diagonals -d..d; index k+d holds diagonal k.
func frontier(v []int, offset, d int) []int {
	out := make([]int, 2*d+1)
	copy(out, v[offset-d:offset+d+1])
	return out
}

func backtrack(trace [][]int, n, m int) []editOp {
	x, y := n, m
	ops := make([]editOp, 0, n+m)

	for d := len(trace) - 1; d > 0; d-- {
		prev := trace[d-1]
		at := func(k int) int { return prev[k+d-1] }

		k := x - y
		var prevK int
		if k == -d || (k != d && at(k-1) < at(k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := at(prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, opEqual)
		}
		if prevK == k+1 {
			y--
			ops = append(ops, opInsert)
		} else {
			x--
			ops = append(ops, opDelete)
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		ops = append(ops, opEqual)
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}
