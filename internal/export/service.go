package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/orthodoxmetrics/record-extractor/internal/repository"
)

// Service produces XLSX bytes from completed extraction jobs, one sheet
// per record type so parish registries export in their familiar shape.
type Service struct {
	jobs   repository.JobRepository
	logger *slog.Logger
}

func NewService(jobs repository.JobRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobs: jobs, logger: logger}
}

// Per-sheet column layouts. Every sheet leads with the job bookkeeping
// columns, then the fields reviewers care about for that record type.
var sheetFields = map[string][]string{
	"Baptisms": {
		"entryNumber", "firstName", "middleName", "lastName",
		"birthDate", "baptismDate", "fatherName", "motherName",
		"godparents", "clergy",
	},
	"Marriages": {
		"entryNumber", "groomName", "groomAge", "brideName", "brideAge",
		"marriageDate", "witnesses", "license", "residence", "clergy",
	},
	"Funerals": {
		"entryNumber", "firstName", "middleName", "lastName",
		"deathDate", "funeralDate", "ageAtDeath", "placeOfBurial", "clergy",
	},
}

var recordTypeSheets = map[string]string{
	"baptism":  "Baptisms",
	"marriage": "Marriages",
	"funeral":  "Funerals",
	"unknown":  "Unreviewed",
}

// jobResult is the subset of the result payload the export reads back.
type jobResult struct {
	RecordType string         `json:"recordType"`
	Fields     map[string]any `json:"fields"`
	Metadata   struct {
		Language    string `json:"language"`
		NeedsReview bool   `json:"needsReview"`
	} `json:"metadata"`
}

// ExportJobsXLSX returns a workbook of every completed job, routed to the
// sheet of its extracted record type.
func (s *Service) ExportJobsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	jobs, err := s.jobs.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("query completed jobs: %w", err)
	}

	f := excelize.NewFile()
	rowBySheet := map[string]int{}

	for _, job := range jobs {
		var res jobResult
		if err := json.Unmarshal(job.ResultJSON, &res); err != nil {
			s.logger.Warn("export.result.unreadable", "job_id", job.ID, "err", err)
			continue
		}

		sheet := recordTypeSheets[res.RecordType]
		if sheet == "" {
			sheet = "Unreviewed"
		}
		if err := s.appendRow(f, sheet, rowBySheet, job, res); err != nil {
			return nil, err
		}
	}

	// drop excelize's default sheet unless a record landed on it
	if _, used := rowBySheet["Sheet1"]; !used {
		_ = f.DeleteSheet("Sheet1")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("export.xlsx.done", "jobs", len(jobs), "elapsed", time.Since(start))
	return buf.Bytes(), nil
}

func (s *Service) appendRow(f *excelize.File, sheet string, rowBySheet map[string]int, job *repository.Job, res jobResult) error {
	fields := sheetFields[sheet]
	if fields == nil {
		// unknown-type records export their raw text for manual review
		fields = []string{}
	}

	row, ok := rowBySheet[sheet]
	if !ok {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("new sheet %s: %w", sheet, err)
		}
		headers := append([]string{"Job ID", "Language", "Confidence", "Needs Review"}, fieldHeaders(fields)...)
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
		}
		row = 2
	}

	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, job.ID.String())
	write(2, res.Metadata.Language)
	write(3, job.OverallConfidence)
	write(4, job.NeedsReview)
	for i, name := range fields {
		if v, ok := res.Fields[name]; ok && v != nil {
			write(5+i, fmt.Sprintf("%v", v))
		}
	}

	rowBySheet[sheet] = row + 1
	return nil
}

// fieldHeaders turns camelCase field names into spreadsheet headers
// ("ageAtDeath" -> "Age At Death").
func fieldHeaders(fields []string) []string {
	out := make([]string, len(fields))
	for i, name := range fields {
		var h []rune
		for j, r := range name {
			if j == 0 {
				h = append(h, toUpper(r))
				continue
			}
			if r >= 'A' && r <= 'Z' {
				h = append(h, ' ')
			}
			h = append(h, r)
		}
		out[i] = string(h)
	}
	return out
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
