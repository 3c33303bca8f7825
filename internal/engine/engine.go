package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/orthodoxmetrics/record-extractor/constants"
)

// fallbackPenalty scales pattern specificities when the record type could
// not be identified and the baptism pattern set runs as a generic sweep.
const fallbackPenalty = 0.8

// Input is one extraction request. Hints are advisory: the text itself
// wins when it clearly contradicts them. TenantContext is carried through
// untouched for the caller's bookkeeping.
type Input struct {
	Text           string
	RecordTypeHint string
	LanguageHint   string
	TenantContext  string
}

// Extractor turns raw OCR text into a structured, confidence-scored
// record. It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	logger *slog.Logger

	// Now stamps results; tests pin it for reproducible output.
	Now func() time.Time
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		logger: logger,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// Extract runs the full pipeline: normalize, resolve record type and
// language, classify the layout, extract fields through the matching
// path, then score. It never fails: unusable input yields an empty
// result flagged for review.
func (e *Extractor) Extract(input Input) Result {
	text := cleanText(input.Text)
	hint := constants.ParseRecordType(input.RecordTypeHint)

	if strings.TrimSpace(text) == "" {
		return Result{
			RecordType: hint,
			Fields:     map[string]Field{},
			Confidence: Confidence{Overall: 0, PerField: map[string]float64{}},
			Metadata: Metadata{
				Language:       resolveLanguage(input.LanguageHint, ""),
				ExtractionDate: e.Now(),
				NeedsReview:    true,
			},
		}
	}

	rt := resolveRecordType(hint, text)
	lang := resolveLanguage(input.LanguageHint, text)
	lines := splitLines(text)
	layout := classifyLayout(lines, rt)

	cands := e.extractFields(text, lines, rt, layout)
	fields, conf := score(cands)

	e.logger.Debug("engine.extract.done",
		"recordType", string(rt),
		"language", lang,
		"tabular", layout.Tabular,
		"fields", len(fields),
		"overall", conf.Overall,
	)

	return Result{
		RecordType: rt,
		Fields:     fields,
		Confidence: conf,
		Metadata: Metadata{
			Language:       lang,
			ExtractionDate: e.Now(),
			NeedsReview:    conf.Overall < constants.ReviewThreshold,
		},
	}
}

// extractFields routes to the tabular extractor when the layout and record
// type support one, with the narrative extractor as fallback whenever the
// table path comes back empty. Funeral registers and unidentified types
// always take the narrative path.
func (e *Extractor) extractFields(text string, lines []string, rt constants.RecordType, layout Layout) candidateSet {
	if layout.Tabular {
		if cands := e.extractTabular(lines, rt, layout); len(cands) > 0 {
			return cands
		}
		e.logger.Debug("engine.extract.tabular_empty", "recordType", string(rt))
	}
	return extractNarrative(text, rt)
}

func (e *Extractor) extractTabular(lines []string, rt constants.RecordType, layout Layout) candidateSet {
	rows := reconstructRows(lines, layout)
	if len(rows) == 0 {
		return nil
	}
	switch rt {
	case constants.RecordTypeBaptism:
		return extractBaptismTabular(rows[0], layout.Columns)
	case constants.RecordTypeMarriage:
		return extractMarriageTabular(rows[0], layout.Columns)
	default:
		return nil
	}
}

func extractNarrative(text string, rt constants.RecordType) candidateSet {
	switch rt {
	case constants.RecordTypeBaptism:
		return extractBaptismNarrative(text, 1.0)
	case constants.RecordTypeMarriage:
		return extractMarriageNarrative(text, 1.0)
	case constants.RecordTypeFuneral:
		return extractFuneralNarrative(text, 1.0)
	default:
		// no identified type: the baptism set doubles as the generic
		// name/date/parent sweep at reduced specificity
		return extractBaptismNarrative(text, fallbackPenalty)
	}
}
