package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// dateToken matches anything shaped like a date inside running text. The
// actual interpretation happens in parseDate; this only bounds the span.
const dateToken = `(?:\d{4}[-/.]\s?\d{1,2}[-/.]\s?\d{1,2}|\d{1,2}[-/.]\s?\d{1,2}[-/.]\s?\d{2,4}|\p{L}+\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}|\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?\p{L}+\.?,?\s+\d{4})`

var (
	reISODate     = regexp.MustCompile(`^(\d{4})[-/.]\s?(\d{1,2})[-/.]\s?(\d{1,2})$`)
	reNumericDate = regexp.MustCompile(`^(\d{1,2})[-/.]\s?(\d{1,2})[-/.]\s?(\d{2,4})$`)
	reMonthFirst  = regexp.MustCompile(`^(\p{L}+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})$`)
	reDayFirst    = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(\p{L}+)\.?,?\s+(\d{4})$`)
)

// monthNames maps month spellings to month numbers across the scripts the
// registries use: English, Greek, Russian, Romanian, Serbian (Latin and
// Cyrillic), including the genitive forms dates are written in.
var monthNames = map[string]int{
	// English
	"january": 1, "jan": 1, "february": 2, "feb": 2, "march": 3, "mar": 3,
	"april": 4, "apr": 4, "may": 5, "june": 6, "jun": 6, "july": 7, "jul": 7,
	"august": 8, "aug": 8, "september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10, "november": 11, "nov": 11, "december": 12, "dec": 12,
	// Greek (nominative and genitive)
	"ιανουάριος": 1, "ιανουαρίου": 1, "φεβρουάριος": 2, "φεβρουαρίου": 2,
	"μάρτιος": 3, "μαρτίου": 3, "απρίλιος": 4, "απριλίου": 4,
	"μάιος": 5, "μαΐου": 5, "ιούνιος": 6, "ιουνίου": 6,
	"ιούλιος": 7, "ιουλίου": 7, "αύγουστος": 8, "αυγούστου": 8,
	"σεπτέμβριος": 9, "σεπτεμβρίου": 9, "οκτώβριος": 10, "οκτωβρίου": 10,
	"νοέμβριος": 11, "νοεμβρίου": 11, "δεκέμβριος": 12, "δεκεμβρίου": 12,
	// Russian (nominative and genitive)
	"январь": 1, "января": 1, "февраль": 2, "февраля": 2, "март": 3, "марта": 3,
	"апрель": 4, "апреля": 4, "май": 5, "мая": 5, "июнь": 6, "июня": 6,
	"июль": 7, "июля": 7, "август": 8, "августа": 8,
	"сентябрь": 9, "сентября": 9, "октябрь": 10, "октября": 10,
	"ноябрь": 11, "ноября": 11, "декабрь": 12, "декабря": 12,
	// Romanian
	"ianuarie": 1, "februarie": 2, "martie": 3, "aprilie": 4, "mai": 5,
	"iunie": 6, "iulie": 7, "septembrie": 9, "octombrie": 10,
	"noiembrie": 11, "decembrie": 12,
	// Serbian Latin ("april", "jun", "jul" are covered by the English rows)
	"januar": 1, "februar": 2, "mart": 3, "maj": 5,
	"juni": 6, "juli": 7, "avgust": 8,
	"septembar": 9, "oktobar": 10, "novembar": 11, "decembar": 12,
	// Serbian Cyrillic ("март", "август" are covered by the Russian rows)
	"јануар": 1, "фебруар": 2, "април": 4, "мај": 5,
	"јун": 6, "јул": 7, "септембар": 9, "октобар": 10,
	"новембар": 11, "децембар": 12,
}

// parseDate normalizes a date string to ISO YYYY-MM-DD. It tries, in order:
// ISO; numeric M/D/Y vs D/M/Y (day value > 12 forces day-first, otherwise
// month-first is assumed — US parish provenance; a known accuracy limit for
// entries where both values are <= 12); two-digit years (00-29 -> 2000s,
// else 1900s); spelled-out months in any supported language.
// ISO output re-parses to itself.
func parseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if m := reISODate.FindStringSubmatch(s); m != nil {
		return isoDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if m := reNumericDate.FindStringSubmatch(s); m != nil {
		first, second, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if year < 100 {
			if year <= 29 {
				year += 2000
			} else {
				year += 1900
			}
		}
		month, day := first, second
		if first > 12 && second <= 12 {
			day, month = first, second
		}
		return isoDate(year, month, day)
	}

	if m := reMonthFirst.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonth(m[1]); ok {
			return isoDate(atoi(m[3]), month, atoi(m[2]))
		}
	}
	if m := reDayFirst.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonth(m[2]); ok {
			return isoDate(atoi(m[3]), month, atoi(m[1]))
		}
	}

	return "", false
}

// findDate locates and normalizes the first date-shaped span in free text.
func findDate(s string) (string, bool) {
	for _, span := range reDateToken.FindAllString(s, -1) {
		if iso, ok := parseDate(span); ok {
			return iso, true
		}
	}
	return "", false
}

var reDateToken = regexp.MustCompile(dateToken)

func lookupMonth(name string) (int, bool) {
	month, ok := monthNames[strings.ToLower(strings.TrimSuffix(name, "."))]
	return month, ok
}

func isoDate(year, month, day int) (string, bool) {
	if year < 1700 || year > 2100 || month < 1 || month > 12 || day < 1 || day > daysInMonth(year, month) {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
