package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Row is a single parsed CSV record keyed by normalized column header.
// Headers are trimmed, byte-order-mark stripped, and lower-cased; values are
// trimmed and BOM-stripped. Missing columns read as the empty string.
type Row map[string]string

// Get returns the first non-empty value among the given header aliases.
// Legacy exports use several spellings for the same semantic column
// (e.g. "course", "course_id", "id"), so extraction always goes through
// an alias list.
func (r Row) Get(aliases ...string) string {
	for _, a := range aliases {
		if v := r[a]; v != "" {
			return v
		}
	}
	return ""
}

// NormalizeRow converts raw header→value pairs into a canonical Row.
// It is a pure transform: no failure modes, malformed input simply yields
// an empty mapping.
func NormalizeRow(raw map[string]string) Row {
	out := make(Row, len(raw))
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(k, "\ufeff")))
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
	}
	return out
}

// ReadRows reads CSV data with a header row and returns normalized rows.
// The reader tolerates a leading byte-order mark and ragged records
// (short records leave trailing columns empty). Fully empty records are
// dropped.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		raw := make(map[string]string, len(header))
		empty := true
		for i, h := range header {
			var v string
			if i < len(rec) {
				v = rec[i]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			raw[h] = v
		}
		if empty {
			continue
		}
		rows = append(rows, NormalizeRow(raw))
	}
	return rows, nil
}

// FoldKey canonicalizes a display string for fuzzy matching: NFKC
// normalization, trimming, lower-casing, and whitespace collapsing.
// Used when an import references a course by full name instead of id.
func FoldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
	return strings.Join(strings.Fields(s), " ")
}

// ParseNumber parses a numeric cell accepting either comma or dot as the
// decimal separator. Unparseable or empty input yields 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}
