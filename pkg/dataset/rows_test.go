package dataset

import (
	"strings"
	"testing"
)

func TestNormalizeRow(t *testing.T) {
	raw := map[string]string{
		"\ufeffLabel ": " PLO1 ",
		"CONTENT":      "\ufeffAnalyze systems",
		"  ":           "ignored",
	}
	row := NormalizeRow(raw)

	if got := row["label"]; got != "PLO1" {
		t.Errorf("label = %q, want PLO1", got)
	}
	if got := row["content"]; got != "Analyze systems" {
		t.Errorf("content = %q, want trimmed BOM-free value", got)
	}
	if _, ok := row[""]; ok {
		t.Error("blank headers should be dropped")
	}
}

func TestRowGetAliases(t *testing.T) {
	row := Row{"course_id": "C1", "level": ""}
	if got := row.Get("course", "course_id", "id"); got != "C1" {
		t.Errorf("Get = %q, want C1", got)
	}
	if got := row.Get("level", "lvl"); got != "" {
		t.Errorf("Get on empty columns = %q, want empty", got)
	}
}

func TestReadRows(t *testing.T) {
	csv := "\ufefflabel,content\nPLO1,Analyze systems\n,\nPLO2,Design software\n"
	rows, err := ReadRows(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (empty record dropped)", len(rows))
	}
	if rows[0]["label"] != "PLO1" || rows[1]["content"] != "Design software" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestReadRowsRagged(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("id,label,fullname\nC1,CS101\n"))
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["fullname"] != "" {
		t.Errorf("short record should leave trailing columns empty, got %q", rows[0]["fullname"])
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"3", 3},
		{"1,5", 1.5},
		{"1.5", 1.5},
		{" 2 ", 2},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
