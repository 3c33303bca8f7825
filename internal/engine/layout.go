package engine

import (
	"strings"

	"github.com/orthodoxmetrics/record-extractor/constants"
)

// ColumnType is the semantic role of a registry column.
type ColumnType string

const (
	ColEntryNumber    ColumnType = "entryNumber"
	ColPersonName     ColumnType = "personName"
	ColDate           ColumnType = "date"
	ColParentNames    ColumnType = "parentNames"
	ColGodparentNames ColumnType = "godparentNames"
	ColWitnessNames   ColumnType = "witnessNames"
	ColClergy         ColumnType = "clergy"
	ColLicense        ColumnType = "license"
	ColResidence      ColumnType = "residence"
	ColAge            ColumnType = "age"
	ColFreeText       ColumnType = "freeText"
)

// ColumnSpec is one detected column. Start/End are rune offsets into the
// header line and bound the slice taken from space-separated data rows;
// pipe-separated rows are split on the delimiter instead and the offsets
// only anchor the nearest-column fallback for short rows.
type ColumnSpec struct {
	Header string
	Type   ColumnType
	Start  int
	End    int
}

// Layout is the per-call classification of the input text.
type Layout struct {
	Tabular    bool
	Pipe       bool // pipe-delimited vs fixed-width spacing
	HeaderLine int  // index into the line slice, valid only when Tabular
	Columns    []ColumnSpec
}

const (
	minPipeSegments = 3 // segments per line before a line counts as tabular evidence
	minTabularLines = 2 // qualifying lines required; one noisy line never flips the layout
	alignTolerance  = 2 // rune slack when matching whitespace-run boundaries across lines
)

// classifyLayout decides narrative vs tabular. Tabular needs two structural
// signals: repeated pipe-delimited lines or aligned whitespace columns,
// plus a recognizable header row near the top. The decision is final for
// the call; ambiguity is never surfaced to the caller.
func classifyLayout(lines []string, rt constants.RecordType) Layout {
	if len(lines) < minTabularLines {
		return Layout{}
	}

	pipe := countPipeLines(lines) >= minTabularLines
	fixed := !pipe && hasAlignedColumns(lines)
	if !pipe && !fixed {
		return Layout{}
	}

	headerIdx, columns := detectColumns(lines, rt, pipe)
	if columns == nil {
		return Layout{}
	}
	return Layout{Tabular: true, Pipe: pipe, HeaderLine: headerIdx, Columns: columns}
}

func countPipeLines(lines []string) int {
	n := 0
	for _, line := range lines {
		if len(pipeSegments(line)) >= minPipeSegments {
			n++
		}
	}
	return n
}

// pipeSegments splits a line on the pipe delimiter, dropping empty edge
// segments but keeping interior empties (an empty cell is meaningful).
func pipeSegments(line string) []string {
	if !strings.Contains(line, "|") {
		return nil
	}
	parts := strings.Split(line, "|")
	for len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	for len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// hasAlignedColumns reports whether at least two consecutive lines share
// two or more whitespace-run boundaries within tolerance — the fixed-width
// layout OCR produces when it flattens a ruled ledger page.
func hasAlignedColumns(lines []string) bool {
	prev := spaceRunStarts(lines[0])
	for _, line := range lines[1:] {
		cur := spaceRunStarts(line)
		if alignedCount(prev, cur) >= 2 {
			return true
		}
		prev = cur
	}
	return false
}

// spaceRunStarts returns the rune offsets where runs of >=2 spaces begin.
func spaceRunStarts(line string) []int {
	var starts []int
	runes := []rune(line)
	run := 0
	for i, r := range runes {
		if r == ' ' {
			run++
			continue
		}
		if run >= 2 {
			starts = append(starts, i-run)
		}
		run = 0
	}
	return starts
}

func alignedCount(a, b []int) int {
	n := 0
	for _, x := range a {
		for _, y := range b {
			if diff := x - y; diff >= -alignTolerance && diff <= alignTolerance {
				n++
				break
			}
		}
	}
	return n
}
