package engine

import (
	"strings"
	"unicode"
)

// tableRow is one reconstructed logical record row: cell text keyed by
// column index (marriage tables carry two personName columns, so the
// index, not the type, is the key).
type tableRow map[int]string

// cellsByType concatenates the cells of every column of the given type,
// left to right.
func (r tableRow) cellsByType(columns []ColumnSpec, ct ColumnType) []string {
	var out []string
	for i, col := range columns {
		if col.Type == ct && strings.TrimSpace(r[i]) != "" {
			out = append(out, strings.TrimSpace(r[i]))
		}
	}
	return out
}

func (r tableRow) firstByType(columns []ColumnSpec, ct ColumnType) string {
	cells := r.cellsByType(columns, ct)
	if len(cells) == 0 {
		return ""
	}
	return cells[0]
}

// rowBuilder accumulates continuation lines into one logical row. It is a
// value: append copies, so a finished row can never alias the builder of
// the next one.
type rowBuilder struct {
	cells tableRow
}

func (b rowBuilder) append(cells tableRow) rowBuilder {
	merged := make(tableRow, len(b.cells)+len(cells))
	for i, v := range b.cells {
		merged[i] = v
	}
	for i, v := range cells {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if prev, ok := merged[i]; ok && prev != "" {
			merged[i] = prev + " " + v
		} else {
			merged[i] = v
		}
	}
	return rowBuilder{cells: merged}
}

func (b rowBuilder) empty() bool { return len(b.cells) == 0 }

func (b rowBuilder) finalize() tableRow {
	row := make(tableRow, len(b.cells))
	for i, v := range b.cells {
		row[i] = collapseSpaces(v)
	}
	return row
}

// reconstructRows slices every data line into cells and merges OCR
// line-wrapped continuations: a line opens a new logical row when its
// entry-number slice holds a number (or, in unnumbered registries, when
// its leading name slice is non-empty); otherwise its cells append to the
// row above. Rows that end up without a name cell are dropped — they
// cannot represent a record.
func reconstructRows(lines []string, layout Layout) []tableRow {
	entryIdx, nameIdx := -1, -1
	for i, col := range layout.Columns {
		if entryIdx < 0 && col.Type == ColEntryNumber {
			entryIdx = i
		}
		if nameIdx < 0 && col.Type == ColPersonName {
			nameIdx = i
		}
	}

	var rows []tableRow
	builder := rowBuilder{}
	flush := func() {
		if !builder.empty() {
			if row := builder.finalize(); rowHasName(row, layout.Columns, nameIdx) {
				rows = append(rows, row)
			}
		}
		builder = rowBuilder{}
	}

	for i := layout.HeaderLine + 1; i < len(lines); i++ {
		cells := sliceRow(lines[i], layout)
		if len(cells) == 0 {
			continue
		}
		if startsNewRow(cells, entryIdx, nameIdx) {
			flush()
		}
		builder = builder.append(cells)
	}
	flush()
	return rows
}

func startsNewRow(cells tableRow, entryIdx, nameIdx int) bool {
	if entryIdx >= 0 {
		return leadingNumber(cells[entryIdx]) != ""
	}
	if nameIdx >= 0 {
		return strings.TrimSpace(cells[nameIdx]) != ""
	}
	return strings.TrimSpace(cells[0]) != ""
}

func rowHasName(row tableRow, columns []ColumnSpec, nameIdx int) bool {
	if nameIdx < 0 {
		return len(row) > 0
	}
	return len(row.cellsByType(columns, ColPersonName)) > 0
}

// leadingNumber returns the digit prefix of a cell, tolerating the
// trailing dot registries put after entry numbers.
func leadingNumber(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for _, r := range s {
		if !unicode.IsDigit(r) {
			break
		}
		end++
	}
	if end == 0 {
		return ""
	}
	rest := strings.TrimSpace(s[end:])
	if rest != "" && rest != "." {
		return ""
	}
	return s[:end]
}

// sliceRow cuts a data line into cells following the header geometry.
func sliceRow(line string, layout Layout) tableRow {
	if layout.Pipe {
		return slicePipeRow(line, layout.Columns)
	}
	return sliceFixedRow(line, layout.Columns)
}

// slicePipeRow maps delimiter-separated segments onto columns. OCR often
// drops delimiters from continuation rows; when segments are missing, each
// one lands on the column whose header span is nearest to the segment's
// own position rather than failing the row.
func slicePipeRow(line string, columns []ColumnSpec) tableRow {
	segs := pipeSegments(line)
	if len(segs) == 0 {
		return nil
	}
	cells := make(tableRow, len(segs))
	if len(segs) >= len(columns) {
		for i := range columns {
			cells[i] = segs[i]
		}
		return cells
	}

	// locate each segment's start offset within the original line
	runes := []rune(line)
	offsets := make([]int, 0, len(segs))
	start := 0
	leadingEmpty := true
	for i := 0; i <= len(runes); i++ {
		if i == len(runes) || runes[i] == '|' {
			segment := string(runes[start:i])
			if strings.TrimSpace(segment) == "" && leadingEmpty {
				start = i + 1
				continue
			}
			leadingEmpty = false
			offsets = append(offsets, start)
			start = i + 1
		}
	}
	if len(offsets) > len(segs) {
		offsets = offsets[:len(segs)]
	}
	for i, seg := range segs {
		colIdx := i
		if i < len(offsets) {
			colIdx = nearestColumn(columns, offsets[i])
		}
		if prev, ok := cells[colIdx]; ok && strings.TrimSpace(prev) != "" {
			cells[colIdx] = prev + " " + seg
		} else {
			cells[colIdx] = seg
		}
	}
	return cells
}

func nearestColumn(columns []ColumnSpec, offset int) int {
	best, bestDist := 0, int(^uint(0)>>1)
	for i, col := range columns {
		if offset >= col.Start && offset < col.End {
			return i
		}
		dist := col.Start - offset
		if dist < 0 {
			dist = offset - col.End
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// sliceFixedRow cuts the line at the header's column boundaries.
func sliceFixedRow(line string, columns []ColumnSpec) tableRow {
	runes := []rune(line)
	cells := make(tableRow, len(columns))
	for i, col := range columns {
		start, end := col.Start, col.End
		if i == len(columns)-1 {
			end = len(runes)
		}
		if start >= len(runes) {
			continue
		}
		if end > len(runes) {
			end = len(runes)
		}
		cells[i] = string(runes[start:end])
	}
	return cells
}
