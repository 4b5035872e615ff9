package stats

import "testing"

func TestTableAlignsColumns(t *testing.T) {
	headers := []string{"Item", "Ticked", "Rate"}
	rows := [][]string{
		{"Pace", "1/4", "25%"},
		{"Eye contact", "12/12", "100%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := table{headers: headers, rows: rows, right: rightAlign}.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Item        Ticked Rate" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Pace           1/4  25%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Eye contact  12/12 100%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTableWideRunes(t *testing.T) {
	lines := table{headers: []string{"Topic", "N"}, rows: [][]string{{"演讲", "1"}, {"talk", "2"}}}.lines()
	if lines[1] != "演讲  1" || lines[2] != "talk  2" {
		t.Fatalf("unexpected wide rune alignment: %q %q", lines[1], lines[2])
	}
}

func TestTableTrimsTrailingSpaces(t *testing.T) {
	lines := table{headers: []string{"Date", "Topic"}, rows: [][]string{{"2026-01-02", ""}}}.lines()
	if lines[1] != "2026-01-02" {
		t.Fatalf("expected trailing padding trimmed, got %q", lines[1])
	}
}
