package structure

import (
	"fmt"
	"strings"

	"sleuth/internal/diag"
	"sleuth/internal/record"
	"sleuth/internal/source"
)

// ValidateCSV checks every non-empty line's column count against the header
// line. A delta of exactly one column is tolerated: a single missing or
// extra cell is usually a data problem, not a broken row, and the schema
// stage will see it as a null. Two or more means the row cannot line up
// with the header at all. Unclosed quotes are reported separately because
// they corrupt every count to the right of them.
func ValidateCSV(f *source.File, bag *diag.Bag) {
	var header []record.Cell
	var headerLine uint32

	for line := uint32(1); line <= f.LineCount(); line++ {
		span := f.LineSpan(line)
		if strings.TrimSpace(f.TextAt(span)) == "" {
			continue
		}
		cells := record.SplitCSVLine(f, span)

		for i := range cells {
			if !cells[i].Unclosed {
				continue
			}
			fd, ok := diag.NewError(diag.StrUnclosedQuote, cells[i].Span,
				fmt.Sprintf("unclosed quote in line %d", line),
				diag.Evidence{
					Observed: quoteSnippet(f, cells[i].Span),
					Context:  fmt.Sprintf("column %d", i+1),
				})
			if ok {
				fd = fd.WithWhy("an open quote makes the rest of the line, and often the next lines, parse as one field").
					WithAction("close the quote").
					WithFix(diag.Fix{
						ID:            "csv.close-quote",
						Title:         "add the closing quote at end of field",
						Applicability: diag.FixAlwaysSafe,
						Edits:         []diag.TextEdit{{Span: source.Point(f.ID, cells[i].Span.End), NewText: `"`}},
					})
				bag.Add(fd)
			}
		}

		if header == nil {
			header = cells
			headerLine = line
			continue
		}

		delta := len(cells) - len(header)
		if delta >= -1 && delta <= 1 {
			continue
		}

		fd, ok := diag.NewError(diag.StrColumnCountMismatch, span,
			fmt.Sprintf("line %d has %d columns, header has %d", line, len(cells), len(header)),
			diag.Evidence{
				Observed:      fmt.Sprintf("%d columns", len(cells)),
				ExpectedRange: fmt.Sprintf("%d columns, as in the header at line %d", len(header), headerLine),
				Context:       lineContext(f, span),
			})
		if !ok {
			continue
		}
		fd = fd.WithWhy("rows that disagree with the header this badly shift every value into the wrong column")
		if delta < 0 {
			fd = fd.WithAction("add the missing cells").
				WithFix(diag.Fix{
					ID:            "csv.pad-row",
					Title:         fmt.Sprintf("pad the row with %d empty cells", -delta),
					Applicability: diag.FixAlwaysSafe,
					Edits:         []diag.TextEdit{{Span: source.Point(f.ID, span.End), NewText: strings.Repeat(",", -delta)}},
				})
		} else {
			// удаление лишних ячеек теряет данные, автофикса нет
			fd = fd.WithAction(fmt.Sprintf("remove the %d extra cells or fix the delimiter", delta))
		}
		bag.Add(fd)
	}
}
