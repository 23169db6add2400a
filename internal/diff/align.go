package diff

// Align converts an edit script into side-by-side rows.
//
// Alignment rules:
//   - Equal spans emit one equal row per line.
//   - A deleted span immediately followed by an inserted span is a replace
//     pair: rows are zipped by index and marked changed; once the shorter
//     side runs out its cells are empty.
//   - Any other deleted span emits removed rows, any other inserted span
//     emits added rows.
//
// Pairing only looks one span ahead. Adjacent unrelated delete/insert spans
// are zipped together too; that is the intended layout.
func Align(spans []Span) []Row {
	var rows []Row
	leftLine, rightLine := 1, 1

	for i := 0; i < len(spans); i++ {
		span := spans[i]

		switch span.Kind {
		case SpanEqual:
			for j := range span.Lines {
				line := &span.Lines[j]
				rows = append(rows, Row{
					Left:      line,
					Right:     line,
					LeftLine:  leftLine,
					RightLine: rightLine,
					Kind:      RowEqual,
				})
				leftLine++
				rightLine++
			}

		case SpanDeleted:
			if i+1 < len(spans) && spans[i+1].Kind == SpanInserted {
				rows = append(rows, pairReplace(span.Lines, spans[i+1].Lines, &leftLine, &rightLine)...)
				i++
				continue
			}
			for j := range span.Lines {
				rows = append(rows, Row{
					Left:     &span.Lines[j],
					LeftLine: leftLine,
					Kind:     RowRemoved,
				})
				leftLine++
			}

		case SpanInserted:
			for j := range span.Lines {
				rows = append(rows, Row{
					Right:     &span.Lines[j],
					RightLine: rightLine,
					Kind:      RowAdded,
				})
				rightLine++
			}
		}
	}

	return rows
}

// pairReplace zips a replace pair into changed rows, advancing the counters.
func pairReplace(deleted, inserted []string, leftLine, rightLine *int) []Row {
	n := max(len(deleted), len(inserted))
	rows := make([]Row, n)
	for j := range n {
		row := Row{Kind: RowChanged}
		if j < len(deleted) {
			row.Left = &deleted[j]
			row.LeftLine = *leftLine
			*leftLine++
		}
		if j < len(inserted) {
			row.Right = &inserted[j]
			row.RightLine = *rightLine
			*rightLine++
		}
		rows[j] = row
	}
	return rows
}
