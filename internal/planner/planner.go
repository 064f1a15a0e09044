// Package planner renders the investor-search prompts. Plan is a pure
// function of the company profile and deal type: same inputs, same nine
// prompts, no side effects — which is what makes the query layer testable
// without a single provider call.
package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/fleveque/investor-scout/internal/model"
)

// Query is one planned provider call: a category, the provider it routes to,
// and the fully rendered prompt.
type Query struct {
	Category model.Category
	Prompt   string
}

// dealTypeText maps the three-way deal enum to the descriptive text injected
// into every prompt.
var dealTypeText = map[model.DealType]string{
	model.DealMajority: "majority acquisition (51-80%)",
	model.DealFull:     "full acquisition (100%)",
	model.DealMinority: "minority investment (10-49%)",
}

// DealTypeText returns the prompt wording for a deal type, defaulting to the
// majority wording for unknown values.
func DealTypeText(dt model.DealType) string {
	if text, ok := dealTypeText[dt]; ok {
		return text
	}
	return dealTypeText[model.DealMajority]
}

// EVEstimate derives the heuristic enterprise-value range as ±20% around
// reported revenue. This is prompt context for the LLMs, not a finance
// computation — when revenue is unknown there is simply no range.
func EVEstimate(profile *model.CompanyProfile) string {
	if profile.RevenuesNum <= 0 {
		return "EV to be defined"
	}
	low := int(math.Round(profile.RevenuesNum * 0.8))
	high := int(math.Round(profile.RevenuesNum * 1.2))
	return fmt.Sprintf("Estimated EV: €%dM - €%dM", low, high)
}

// categoryInstructions returns the segment-specific search block. The named
// entities are illustrative anchors that keep the providers in the right
// universe; they are suggestions, not an exhaustive list.
func categoryInstructions(id model.CategoryID, sector string) string {
	switch id {
	case model.CategoryPEItaly:
		return `Find 20-30 ITALIAN PRIVATE EQUITY FUNDS that could be interested.
Consider funds such as: Investindustrial, Clessidra, Xenon, Progressio, Alcedo, Green Arrow,
DeA Capital, Ambienta, HAT, NB Renaissance, Consilium, Mandarin, Gradiente, Oltre, Wisequity.
For each one report: AUM, typical ticket, preferred sectors, recent deals, PUBLIC STATEMENTS on strategy.`
	case model.CategoryPEEurope:
		return fmt.Sprintf(`Find 20-30 EUROPEAN PRIVATE EQUITY FUNDS with an interest in Italy / Made in Italy.
Consider funds such as: CVC, Permira, EQT, Ardian, PAI Partners, Cinven, BC Partners, Apax,
Bridgepoint, Equistone, IK Partners, Astorg, Ergon, Waterland, Gimv, Eurazeo, Tikehau.
For each one report: Italian presence, recent Italian deals, STATEMENTS about the %s sector.`, sector)
	case model.CategoryPEGlobal:
		return `Find 15-20 GLOBAL MEGA FUNDS that invest in Europe.
Consider: KKR, Blackstone, Carlyle, Apollo, TPG, Bain Capital, Warburg Pincus, Advent,
General Atlantic, Hellman & Friedman, Silver Lake, Thoma Bravo.
For each one report: recent European deals, interest in Made in Italy, PARTNER STATEMENTS.`
	case model.CategoryFamilyOfficeItaly:
		return `Find 20-25 ITALIAN FAMILY OFFICES that make direct investments.
Consider: Exor (Agnelli), Delfin (Del Vecchio), Ferrero, Armani, 21 Invest (Benetton),
Angelini, Barilla, Lavazza, Italmobiliare (Pesenti), TIP (Tamburi), Fininvest, Caltagirone.
For each one report: sectors of interest, recent deals, STATEMENTS on new investments.`
	case model.CategoryFamilyOfficeEurope:
		return `Find 15-20 EUROPEAN FAMILY OFFICES investing in Italy.
Consider: Quandt (Germany), Henkel (Germany), JAB/Reimann (Germany), Arnault/LVMH (France),
Pinault/Kering (France), Mulliez (France), Wallenberg (Sweden), Grosvenor (UK).
For each one report: interest in Italy, recent deals, STATEMENTS on Made in Italy.`
	case model.CategoryFamilyOfficeGlobal:
		return `Find 15-20 GLOBAL FAMILY OFFICES (USA, Middle East, Asia).
Consider: Koch Industries, Pritzker, Mars, Dell, Walton, Bloomberg,
Al Futtaim (UAE), Olayan (Saudi), Mansour (Egypt), Li Ka-shing (HK), Tata (India), Mittal (India).
For each one report: European investments, interest in manufacturing/design.`
	case model.CategoryCorporate:
		return fmt.Sprintf(`Find 15-20 CORPORATE/STRATEGIC BUYERS in the %s sector.
Look for companies 5-50x larger that run an active M&A program, both Italian and foreign.
For each one report: M&A strategy, recent acquisitions, STATEMENTS on expansion.`, sector)
	case model.CategorySWFInstitutional:
		return `Find 10-15 SOVEREIGN WEALTH FUNDS and INSTITUTIONAL INVESTORS.
Consider: GIC (Singapore), Temasek, ADIA (Abu Dhabi), Mubadala, PIF (Saudi), QIA (Qatar),
CPPIB (Canada), CDPQ (Canada), CDP Italia, BPI France, British Business Bank.
For each one report: direct investment programs in Europe, recent deals.`
	case model.CategoryDebt:
		return `Find 15-20 DEBT FUNDS for acquisition finance.
Consider: Ares, HPS, Blue Owl, Golub, Tikehau, Arcmont, Pemberton, Hayfin, ICG,
Partners Group, Kartesia, Muzinich, Intermediate Capital.
For each one report: ticket, preferred structures (unitranche, senior, mezz), Italian deals.`
	}
	return ""
}

// outputSchema is the JSON-array contract every category prompt demands.
// These field names are the structural contract with model.InvestorMention —
// keep them in sync with its json tags.
const outputSchema = `Reply with a JSON array in this exact shape:
[
  {
    "name": "...",
    "type": "PE/Family Office/Corporate/SWF/Debt",
    "headquarters": "...",
    "country": "...",
    "aum": "€...B",
    "ticketSize": "€...M-€...M",
    "focus": ["sector1", "sector2"],
    "relevance": "Why it fits this target...",
    "news": "Recent statement or news item...",
    "newsDate": "DD/MM/YYYY",
    "newsSource": "Source (e.g. BeBeez, Il Sole 24 Ore, Reuters...)",
    "recentDeals": ["Deal 1", "Deal 2"],
    "contacts": ["Full Name - Role"],
    "italyPresence": "Yes/No",
    "website": "..."
  }
]

IMPORTANT:
- Look for REAL, UP-TO-DATE information
- ALWAYS cite the source and date of news items
- Include PUBLIC STATEMENTS by partners or managing directors
- Do not invent - if you cannot find a field, omit it`

// Plan produces one query per category, in the fixed category order.
func Plan(profile *model.CompanyProfile, dealType model.DealType) []Query {
	queries := make([]Query, 0, len(model.Categories))
	for _, cat := range model.Categories {
		queries = append(queries, Query{
			Category: cat,
			Prompt:   buildPrompt(profile, dealType, cat.ID),
		})
	}
	return queries
}

func buildPrompt(profile *model.CompanyProfile, dealType model.DealType, id model.CategoryID) string {
	var b strings.Builder

	fmt.Fprintf(&b, `YOU ARE AN EXPERT M&A ADVISOR. You are looking for investors for this company:

=== TARGET ===
%s (%s)
Sector: %s - %s
Headquarters: %s, %s
Revenues: %s | EBITDA: %s (%s)
Employees: %d | Export: %s
%s
Deal type: %s

Description: %s
Clients: %s
Strengths: %s

=== SEARCH ===
%s

=== OUTPUT FORMAT ===
For EACH investor found, provide:
- Exact name
- Type (PE, Family Office, Corporate, SWF, Debt)
- Headquarters/Country
- AUM or size
- Typical ticket
- Sector focus
- WHY it is relevant for this target
- RECENT NEWS/STATEMENTS with DATE and SOURCE
- Comparable recent deals
- Key contacts if available

%s`,
		profile.Name, profile.LegalName,
		profile.Sector, profile.SubSector,
		profile.Headquarters, profile.Region,
		profile.Revenues, profile.EBITDA, profile.EBITDAMargin,
		profile.Employees, profile.ExportPct,
		EVEstimate(profile),
		DealTypeText(dealType),
		profile.Description,
		strings.Join(profile.MainClients, ", "),
		strings.Join(profile.Strengths, ", "),
		categoryInstructions(id, profile.Sector),
		outputSchema,
	)

	return b.String()
}
