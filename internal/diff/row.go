package diff

import (
	"encoding/json"
	"fmt"
)

// RowKind classifies one aligned row.
type RowKind int

const (
	RowEqual   RowKind = iota // Same line on both sides
	RowAdded                  // Right side only
	RowRemoved                // Left side only
	RowChanged                // Part of a replace pair; either side may be absent
)

var rowKindNames = [...]string{"equal", "added", "removed", "changed"}

// String returns the lowercase name of the kind.
func (k RowKind) String() string {
	if k < 0 || int(k) >= len(rowKindNames) {
		return "unknown"
	}
	return rowKindNames[k]
}

// MarshalText encodes the kind by name.
func (k RowKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(rowKindNames) {
		return nil, fmt.Errorf("invalid row kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *RowKind) UnmarshalText(text []byte) error {
	for i, name := range rowKindNames {
		if string(text) == name {
			*k = RowKind(i)
			return nil
		}
	}
	return fmt.Errorf("invalid row kind %q", text)
}

// Row is one side-by-side unit of the aligned view.
//
// A nil Left means the left cell is empty and LeftLine is 0; the same holds
// for Right. Line numbers start at 1 and increase within their column.
type Row struct {
	Left      *string `json:"left"`
	Right     *string `json:"right"`
	LeftLine  int     `json:"leftLineNumber"`
	RightLine int     `json:"rightLineNumber"`
	Kind      RowKind `json:"kind"`
}

// HasLeft reports whether the row carries an original line.
func (r Row) HasLeft() bool { return r.Left != nil }

// HasRight reports whether the row carries a modified line.
func (r Row) HasRight() bool { return r.Right != nil }

// LeftText returns the left line or "" when absent.
func (r Row) LeftText() string {
	if r.Left == nil {
		return ""
	}
	return *r.Left
}

// RightText returns the right line or "" when absent.
func (r Row) RightText() string {
	if r.Right == nil {
		return ""
	}
	return *r.Right
}

// IsChange reports whether the row is anything other than equal.
func (r Row) IsChange() bool { return r.Kind != RowEqual }

// MarshalJSON writes an absent side's line number as null, like its text.
func (r Row) MarshalJSON() ([]byte, error) {
	type jsonRow struct {
		Left      *string `json:"left"`
		Right     *string `json:"right"`
		LeftLine  *int    `json:"leftLineNumber"`
		RightLine *int    `json:"rightLineNumber"`
		Kind      RowKind `json:"kind"`
	}
	out := jsonRow{Left: r.Left, Right: r.Right, Kind: r.Kind}
	if r.Left != nil {
		out.LeftLine = &r.LeftLine
	}
	if r.Right != nil {
		out.RightLine = &r.RightLine
	}
	return json.Marshal(out)
}

// Result is the output of one full recomputation.
type Result struct {
	Rows  []Row `json:"rows"`
	Stats Stats `json:"stats"`
}

// Identical reports whether the inputs had no differing lines.
func (r Result) Identical() bool { return !r.Stats.HasChanges() }

// MarshalJSON keeps an empty row list as [] rather than null.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	if r.Rows == nil {
		r.Rows = []Row{}
	}
	return json.Marshal(plain(r))
}
