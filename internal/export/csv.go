// Package export renders the aggregated roster as delimited text. The column
// order and Italian header names are a fixed contract with the downstream
// spreadsheet consumers — do not reorder.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fleveque/investor-scout/internal/model"
)

// Header is the fixed CSV header row.
const Header = "Nome,Tipo,Paese,Score,Consensus,AUM,Ticket,Focus,Relevance,News,DataNews,FonteNews,LLM"

// CSV serializes the roster with RFC-4180-style quoting: every field is
// wrapped in double quotes with internal quotes doubled, so commas and
// newlines inside provider text never break a row. Multi-valued fields are
// joined with ";" inside their single quoted field. A UTF-8 BOM leads the
// output so spreadsheet tools pick up the encoding.
func CSV(investors []model.AggregatedInvestor) string {
	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString(Header)
	b.WriteByte('\n')

	for i := range investors {
		inv := &investors[i]

		var newsText, newsDate, newsSource string
		if len(inv.AllNews) > 0 {
			newsText = inv.AllNews[0].Text
			newsDate = inv.AllNews[0].Date
			newsSource = inv.AllNews[0].Source
		}

		providers := make([]string, 0, len(inv.Sources))
		for _, src := range inv.Sources {
			providers = append(providers, src.Provider)
		}

		fields := []string{
			inv.Name,
			inv.Type,
			inv.Country,
			strconv.Itoa(inv.Score),
			strconv.Itoa(inv.Consensus),
			inv.AUM,
			inv.TicketSize,
			strings.Join(inv.Focus, ";"),
			inv.Relevance,
			newsText,
			newsDate,
			newsSource,
			strings.Join(providers, ";"),
		}

		for j, f := range fields {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// Filename builds the download name from the company and the current date,
// e.g. "investors_Acme Srl_2026-08-30.csv".
func Filename(companyName string, now time.Time) string {
	if companyName == "" {
		companyName = "target"
	}
	return fmt.Sprintf("investors_%s_%s.csv", companyName, now.Format("2006-01-02"))
}
