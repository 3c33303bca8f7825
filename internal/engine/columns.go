package engine

import (
	"strings"

	"github.com/orthodoxmetrics/record-extractor/constants"
)

// Header vocabulary, keyed by column type, as lowercase word tokens across
// EN/GR/RU/RO/SR (Latin and Cyrillic). Matching is token-based so "age"
// inside "Marriage" can never fire.
var columnKeywords = map[ColumnType][]string{
	ColEntryNumber: {
		"entry", "no", "nr", "num", "number",
		"αριθμός", "αρ", "номер", "broj", "број",
	},
	ColDate: {
		"date", "ημερομηνία", "дата", "data", "datum",
		"birth", "born", "baptism", "baptized", "christening",
		"marriage", "married", "death", "funeral", "burial",
		"γέννηση", "γεννήσεως", "βάπτιση", "βαπτίσεως", "γάμος", "γάμου", "θανάτου", "κηδείας",
		"рождения", "крещения", "венчания", "брака", "смерти", "погребения",
		"naștere", "nașterii", "botez", "botezului", "căsătorie", "deces",
		"rođenja", "krštenja", "venčanja", "рођења", "крштења", "венчања",
	},
	ColPersonName: {
		"name", "names", "child", "infant", "groom", "bride", "deceased",
		"όνομα", "ονοματεπώνυμο", "παιδί", "γαμπρός", "νύμφη",
		"имя", "ребенок", "жених", "невеста", "умерший",
		"nume", "copil", "mire", "mireasa", "mireasă",
		"ime", "име", "dete", "mladoženja", "mlada", "младожења", "млада",
	},
	ColParentNames: {
		"parents", "parent", "father", "mother",
		"γονείς", "γονέων", "πατέρας", "μητέρα",
		"родители", "отец", "мать",
		"părinți", "tată", "mamă", "roditelji", "родитељи",
	},
	ColGodparentNames: {
		"godparents", "godparent", "godfather", "godmother", "sponsor", "sponsors",
		"ανάδοχος", "ανάδοχοι", "νονός", "νονά",
		"крестные", "восприемники",
		"naș", "nași", "kum", "kuma", "кум", "кума", "кумови",
	},
	ColWitnessNames: {
		"witness", "witnesses",
		"μάρτυρες", "μάρτυς", "свидетели", "martori", "svedoci", "сведоци",
	},
	ColClergy: {
		"priest", "clergy", "officiating", "officiant", "rev", "celebrant",
		"ιερέας", "ιερεύς", "εφημέριος",
		"священник", "иерей", "preot", "sveštenik", "свештеник",
	},
	ColLicense: {
		"license", "licence",
		"άδεια", "лицензия", "разрешение", "licență", "dozvola", "дозвола",
	},
	ColResidence: {
		"residence", "address", "abode",
		"κατοικία", "διεύθυνση", "адрес", "жительства",
		"domiciliu", "adresa", "адреса", "пребивалиште",
	},
	ColAge: {
		"age", "ηλικία", "возраст", "vârstă", "starost", "узраст",
	},
}

// columnTypePriority resolves headers matching several vocabularies:
// "Marriage License" is a license column even though "marriage" is date
// vocabulary, and "Officiating Priest" beats the generic name set.
var columnTypePriority = []ColumnType{
	ColGodparentNames,
	ColParentNames,
	ColWitnessNames,
	ColClergy,
	ColLicense,
	ColResidence,
	ColAge,
	ColDate,
	ColEntryNumber,
	ColPersonName,
}

// Baptism ledgers write "Witnesses" for the godparent column, and marriage
// ledgers write "Sponsors" for the witness column; remap per record type
// instead of inventing columns the schema does not have.
var remappedColumns = map[constants.RecordType]map[ColumnType]ColumnType{
	constants.RecordTypeBaptism:  {ColWitnessNames: ColGodparentNames},
	constants.RecordTypeMarriage: {ColGodparentNames: ColWitnessNames},
}

// matchColumnType classifies a header cell for the given record type.
func matchColumnType(header string, rt constants.RecordType) ColumnType {
	if strings.ContainsAny(header, "#№") {
		return ColEntryNumber
	}
	tokens := headerTokens(header)
	if len(tokens) == 0 {
		return ColFreeText
	}
	for _, ct := range columnTypePriority {
		for _, kw := range columnKeywords[ct] {
			if tokens[kw] {
				if mapped, ok := remappedColumns[rt][ct]; ok {
					return mapped
				}
				return ct
			}
		}
	}
	return ColFreeText
}

func headerTokens(header string) map[string]bool {
	tokens := map[string]bool{}
	word := []rune{}
	flush := func() {
		if len(word) > 0 {
			tokens[strings.ToLower(string(word))] = true
			word = word[:0]
		}
	}
	for _, r := range header {
		if isLetterOrDigit(r) {
			word = append(word, r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func isLetterOrDigit(r rune) bool {
	return r == '\'' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		r >= 0x00C0 // any non-ASCII letterish rune (Greek, Cyrillic, diacritics)
}

// detectColumns locates the header row near the top of the text and types
// each header cell. Returns nil when no line yields at least two typed
// columns — without that, the "table" is unreadable and the narrative path
// is a better bet.
func detectColumns(lines []string, rt constants.RecordType, pipe bool) (int, []ColumnSpec) {
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	bestIdx, bestTyped := -1, 0
	var bestCols []ColumnSpec
	for i := 0; i < limit; i++ {
		cols := splitHeader(lines[i], rt, pipe)
		typed := 0
		for _, c := range cols {
			if c.Type != ColFreeText {
				typed++
			}
		}
		if typed > bestTyped {
			bestIdx, bestTyped, bestCols = i, typed, cols
		}
	}
	if bestTyped < 2 {
		return -1, nil
	}
	return bestIdx, bestCols
}

// splitHeader cuts a header line into cells — on pipes, or on runs of two
// or more spaces for fixed-width layouts — recording rune offsets.
func splitHeader(line string, rt constants.RecordType, pipe bool) []ColumnSpec {
	var cols []ColumnSpec
	add := func(start, end int, text string) {
		header := collapseSpaces(text)
		if header == "" {
			return
		}
		cols = append(cols, ColumnSpec{
			Header: header,
			Type:   matchColumnType(header, rt),
			Start:  start,
			End:    end,
		})
	}

	runes := []rune(line)
	if pipe {
		start := 0
		for i := 0; i <= len(runes); i++ {
			if i == len(runes) || runes[i] == '|' {
				add(start, i, string(runes[start:i]))
				start = i + 1
			}
		}
		return cols
	}

	cellStart := -1
	spaceRun := 0
	for i, r := range runes {
		if r == ' ' {
			spaceRun++
			if spaceRun >= 2 && cellStart >= 0 {
				add(cellStart, i-spaceRun+1, string(runes[cellStart:i-spaceRun+1]))
				cellStart = -1
			}
			continue
		}
		if cellStart < 0 {
			cellStart = i
		}
		spaceRun = 0
	}
	if cellStart >= 0 {
		add(cellStart, len(runes), string(runes[cellStart:]))
	}
	return cols
}
