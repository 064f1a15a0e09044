package export

import (
	"strings"
	"testing"
	"time"

	"github.com/fleveque/investor-scout/internal/model"
)

func TestCSV_HeaderAndBOM(t *testing.T) {
	out := CSV(nil)

	if !strings.HasPrefix(out, "\uFEFF") {
		t.Error("expected UTF-8 BOM prefix")
	}
	if !strings.Contains(out, Header) {
		t.Error("expected header row")
	}
	// Empty roster: BOM + header + newline, nothing else.
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 1 line, got %d", strings.Count(out, "\n"))
	}
}

func TestCSV_QuotesFieldsWithCommas(t *testing.T) {
	investors := []model.AggregatedInvestor{
		{
			Name:      "Fondo, Alfa",
			Type:      "PE",
			Country:   "Italy",
			Score:     85,
			Consensus: 2,
			Relevance: `Said "perfect fit", twice`,
			Sources: []model.Provenance{
				{Provider: "anthropic"},
				{Provider: "openai"},
			},
		},
	}

	out := CSV(investors)

	// The comma stays inside the quoted field.
	if !strings.Contains(out, `"Fondo, Alfa"`) {
		t.Error("expected name quoted with its comma intact")
	}
	// Internal quotes are doubled.
	if !strings.Contains(out, `"Said ""perfect fit"", twice"`) {
		t.Errorf("expected doubled quotes, got:\n%s", out)
	}
	// Providers joined with ";" in one field.
	if !strings.Contains(out, `"anthropic;openai"`) {
		t.Error("expected providers joined with semicolon")
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
}

func TestCSV_FirstNewsItemOnly(t *testing.T) {
	investors := []model.AggregatedInvestor{
		{
			Name: "Beta",
			AllNews: []model.NewsItem{
				{Text: "first item", Date: "01/02/2026", Source: "BeBeez"},
				{Text: "second item", Date: "02/02/2026", Source: "Reuters"},
			},
		},
	}

	out := CSV(investors)

	if !strings.Contains(out, `"first item","01/02/2026","BeBeez"`) {
		t.Errorf("expected first news item columns, got:\n%s", out)
	}
	if strings.Contains(out, "second item") {
		t.Error("only the first news item belongs in the CSV")
	}
}

func TestCSV_ColumnCountIsStable(t *testing.T) {
	investors := []model.AggregatedInvestor{{Name: "Minimal"}}
	out := CSV(investors)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Every field is quoted, so `","` separators count the columns.
	wantCols := strings.Count(Header, ",") + 1
	row := lines[1]
	gotCols := strings.Count(row, `","`) + 1
	if gotCols != wantCols {
		t.Errorf("expected %d columns, got %d: %s", wantCols, gotCols, row)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	if got := Filename("Acme Srl", now); got != "investors_Acme Srl_2026-08-30.csv" {
		t.Errorf("unexpected filename: %q", got)
	}
	if got := Filename("", now); got != "investors_target_2026-08-30.csv" {
		t.Errorf("expected fallback name, got %q", got)
	}
}
