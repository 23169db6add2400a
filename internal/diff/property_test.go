package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// textGen draws texts over a small alphabet so inputs share many lines.
func textGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		ls := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d", ""}), 0, 24).Draw(t, "lines")
		text := strings.Join(ls, "\n")
		if rapid.Bool().Draw(t, "trailingNewline") {
			text += "\n"
		}
		return text
	})
}

func leftColumn(rows []Row) []string {
	var out []string
	for _, r := range rows {
		if r.HasLeft() {
			out = append(out, *r.Left)
		}
	}
	return out
}

func rightColumn(rows []Row) []string {
	var out []string
	for _, r := range rows {
		if r.HasRight() {
			out = append(out, *r.Right)
		}
	}
	return out
}

// lcsLen is the textbook dynamic program, used as a minimality oracle.
func lcsLen(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func TestProperty_RowsReconstructInputs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		original := textGen().Draw(rt, "original")
		modified := textGen().Draw(rt, "modified")

		for _, algo := range algorithms {
			rows := run(algo, original, modified).Rows
			require.Equal(rt, SplitLines(original), leftColumn(rows), algo.Name())
			require.Equal(rt, SplitLines(modified), rightColumn(rows), algo.Name())

			left, right := 0, 0
			for _, r := range rows {
				require.True(rt, r.HasLeft() || r.HasRight(), "row with neither side")
				if r.HasLeft() {
					left++
					require.Equal(rt, left, r.LeftLine)
				} else {
					require.Zero(rt, r.LeftLine)
				}
				if r.HasRight() {
					right++
					require.Equal(rt, right, r.RightLine)
				} else {
					require.Zero(rt, r.RightLine)
				}
				if r.Kind == RowEqual {
					require.Equal(rt, *r.Left, *r.Right)
				}
			}
		}
	})
}

func TestProperty_Minimal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		original := textGen().Draw(rt, "original")
		modified := textGen().Draw(rt, "modified")
		a, b := SplitLines(original), SplitLines(modified)
		common := lcsLen(a, b)

		for _, algo := range algorithms {
			stats := run(algo, original, modified).Stats
			require.Equal(rt, len(a)-common, stats.Removed, algo.Name())
			require.Equal(rt, len(b)-common, stats.Added, algo.Name())
		}
	})
}

func TestProperty_Identity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := textGen().Draw(rt, "text")
		result := Compute(text, text)
		require.True(rt, result.Identical())
		require.Len(rt, result.Rows, len(SplitLines(text)))
		for _, r := range result.Rows {
			require.Equal(rt, RowEqual, r.Kind)
		}
		require.Nil(rt, ChangeWindow(result.Rows, DefaultContextRadius))
	})
}

// Tie-breaking may pick a different but equally short script once the inputs
// are swapped, so the mirror law is checked on counts and matched lines.
func TestProperty_MirrorStats(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		original := textGen().Draw(rt, "original")
		modified := textGen().Draw(rt, "modified")

		forward := Compute(original, modified)
		backward := Compute(modified, original)
		require.Equal(rt, forward.Stats.Added, backward.Stats.Removed)
		require.Equal(rt, forward.Stats.Removed, backward.Stats.Added)

		countEqual := func(rows []Row) int {
			n := 0
			for _, r := range rows {
				if r.Kind == RowEqual {
					n++
				}
			}
			return n
		}
		require.Equal(rt, countEqual(forward.Rows), countEqual(backward.Rows))
	})
}

func TestProperty_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		original := textGen().Draw(rt, "original")
		modified := textGen().Draw(rt, "modified")
		require.Equal(rt, Compute(original, modified), Compute(original, modified))
	})
}

func TestProperty_ChangeWindowCoversChanges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		original := textGen().Draw(rt, "original")
		modified := textGen().Draw(rt, "modified")
		radius := rapid.IntRange(0, 5).Draw(rt, "radius")
		rows := Compute(original, modified).Rows

		window := ChangeWindow(rows, radius)
		kept := make(map[int]bool, len(window))
		for i, idx := range window {
			if i > 0 {
				require.Greater(rt, idx, window[i-1], "indices ascend")
			}
			kept[idx] = true
		}
		for i := range rows {
			near := false
			for j := max(0, i-radius); j <= min(len(rows)-1, i+radius); j++ {
				if rows[j].IsChange() {
					near = true
				}
			}
			require.Equal(rt, near, kept[i], "row %d", i)
		}
	})
}

func TestProperty_NextChangeLandsOnChange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		original := textGen().Draw(rt, "original")
		modified := textGen().Draw(rt, "modified")
		rows := Compute(original, modified).Rows
		current := rapid.IntRange(NoSelection, len(rows)).Draw(rt, "current")

		next := NextChange(rows, current)
		if len(ChangeIndices(rows)) == 0 {
			require.Equal(rt, NoSelection, next)
			return
		}
		require.True(rt, rows[next].IsChange())
	})
}
