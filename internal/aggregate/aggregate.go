// Package aggregate merges the category results of one search session into a
// deduplicated, cross-validated, scored investor roster. This is the core of
// the system: five unreliable text generators each report a noisy slice of
// the investor universe, and the value is in resolving those slices onto
// shared identities and measuring how much they agree.
package aggregate

import (
	"sort"
	"strings"

	"github.com/fleveque/investor-scout/internal/model"
)

// ScorePolicy holds the scoring weights and thresholds. These are policy
// constants, not hidden magic numbers: the score starts at Base, grows with
// consensus, and gets fixed boosts for corroborating signals, clamped to
// [MinScore, MaxScore].
type ScorePolicy struct {
	Base               int
	PerConsensus       int
	ItalyPresenceBoost int
	NewsBoost          int
	DealsBoost         int
	ContactsBoost      int
	MinScore           int
	MaxScore           int

	// Fit thresholds, checked in descending order.
	ExcellentAt int
	HighAt      int
	MediumAt    int
}

// DefaultPolicy is the scoring policy used in production.
var DefaultPolicy = ScorePolicy{
	Base:               50,
	PerConsensus:       15,
	ItalyPresenceBoost: 10,
	NewsBoost:          10,
	DealsBoost:         5,
	ContactsBoost:      5,
	MinScore:           30,
	MaxScore:           99,
	ExcellentAt:        85,
	HighAt:             70,
	MediumAt:           55,
}

// Score computes the deterministic score for an investor. Pure function:
// recomputable from the investor's own fields at any time.
func (p ScorePolicy) Score(inv *model.AggregatedInvestor) int {
	score := p.Base + p.PerConsensus*inv.Consensus
	if isAffirmative(inv.ItalyPresence) {
		score += p.ItalyPresenceBoost
	}
	if len(inv.AllNews) > 0 {
		score += p.NewsBoost
	}
	if len(inv.AllDeals) > 0 {
		score += p.DealsBoost
	}
	if len(inv.Contacts) > 0 {
		score += p.ContactsBoost
	}
	if score > p.MaxScore {
		score = p.MaxScore
	}
	if score < p.MinScore {
		score = p.MinScore
	}
	return score
}

// Fit maps a score to its qualitative label.
func (p ScorePolicy) Fit(score int) string {
	switch {
	case score >= p.ExcellentAt:
		return "Excellent"
	case score >= p.HighAt:
		return "High"
	case score >= p.MediumAt:
		return "Medium"
	default:
		return "Low"
	}
}

// isAffirmative interprets the free-text italyPresence flag. Providers answer
// in whatever language the prompt nudged them into, so both Italian and
// English affirmatives count.
func isAffirmative(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sì", "si", "yes", "true":
		return true
	}
	return false
}

// NormalizeKey derives the canonical identity key for a mention name:
// lowercase, ASCII letters and digits only. Deliberately aggressive —
// punctuation and whitespace never split an identity, at the accepted cost
// of occasionally merging similarly-named but distinct entities. Note that
// legal suffixes still matter: "Fondo Alfa" and "Fondo Alfa S.p.A." yield
// different keys because "SpA" contributes letters.
func NormalizeKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Aggregate merges all category results into the scored roster, ordered by
// descending score. The identity map lives only inside this call — the
// returned value is immutable as far as every downstream consumer is
// concerned.
func Aggregate(results []model.CategoryResult, policy ScorePolicy) *model.AggregatedResults {
	byKey := make(map[string]*model.AggregatedInvestor)
	// counted tracks which categories already contributed to a key, so a
	// category that repeats a name can't inflate consensus.
	counted := make(map[string]map[model.CategoryID]bool)
	var order []string // insertion order, for stable ranking on score ties

	for _, result := range results {
		for i := range result.Mentions {
			mention := &result.Mentions[i]
			if mention.Name == "" {
				continue
			}
			key := NormalizeKey(mention.Name)
			if key == "" {
				continue
			}

			inv, seen := byKey[key]
			if !seen {
				inv = seedInvestor(mention)
				byKey[key] = inv
				counted[key] = make(map[model.CategoryID]bool)
				order = append(order, key)
			}

			if !counted[key][result.Category] {
				counted[key][result.Category] = true
				inv.Consensus++
				inv.Sources = append(inv.Sources, model.Provenance{
					Provider: result.Provider,
					Category: result.Category,
				})
			}

			accumulateNews(inv, mention, result.Provider)
			accumulateDeals(inv, mention)
		}
	}

	investors := make([]model.AggregatedInvestor, 0, len(order))
	for i, key := range order {
		inv := byKey[key]
		inv.ID = i + 1
		inv.Score = policy.Score(inv)
		inv.Fit = policy.Fit(inv.Score)
		investors = append(investors, *inv)
	}

	// Descending score; SliceStable keeps earlier-seen investors first on ties.
	sort.SliceStable(investors, func(i, j int) bool {
		return investors[i].Score > investors[j].Score
	})

	return &model.AggregatedResults{
		Investors: investors,
		Summary:   summarize(investors),
	}
}

// seedInvestor copies the first-seen mention's scalar fields. Later mentions
// under the same key never overwrite these — they only contribute consensus,
// news, and deals.
func seedInvestor(m *model.InvestorMention) *model.AggregatedInvestor {
	return &model.AggregatedInvestor{
		Name:          m.Name,
		Type:          m.Type,
		Headquarters:  m.Headquarters,
		Country:       m.Country,
		AUM:           m.AUM,
		TicketSize:    m.TicketSize,
		Focus:         append([]string(nil), m.Focus...),
		Relevance:     m.Relevance,
		ItalyPresence: m.ItalyPresence,
		Website:       m.Website,
		Contacts:      append([]string(nil), m.Contacts...),
	}
}

// accumulateNews appends the mention's news item unless its text is already
// present verbatim — merging the same news twice is a no-op.
func accumulateNews(inv *model.AggregatedInvestor, m *model.InvestorMention, provider string) {
	if m.News == "" {
		return
	}
	for _, item := range inv.AllNews {
		if item.Text == m.News {
			return
		}
	}
	inv.AllNews = append(inv.AllNews, model.NewsItem{
		Text:     m.News,
		Date:     m.NewsDate,
		Source:   m.NewsSource,
		Provider: provider,
	})
}

// accumulateDeals unions recent-deal strings, deduplicated by exact match.
func accumulateDeals(inv *model.AggregatedInvestor, m *model.InvestorMention) {
	for _, deal := range m.RecentDeals {
		if deal == "" {
			continue
		}
		found := false
		for _, existing := range inv.AllDeals {
			if existing == deal {
				found = true
				break
			}
		}
		if !found {
			inv.AllDeals = append(inv.AllDeals, deal)
		}
	}
}

// typeBuckets maps summary bucket names to the keywords matched,
// case-insensitively, against the free-text type field. An investor whose
// type contains several keywords counts in several buckets — there is no
// canonical taxonomy to normalize against, so overlap is accepted.
var typeBuckets = map[string][]string{
	"pe":   {"pe", "private"},
	"fo":   {"family"},
	"corp": {"corporate"},
	"swf":  {"swf", "sovereign"},
	"debt": {"debt", "lending"},
}

// InBucket reports whether an investor type matches a summary bucket.
// Unknown buckets match everything, which lets "all" pass through filters.
func InBucket(investorType, bucket string) bool {
	keywords, ok := typeBuckets[bucket]
	if !ok {
		return true
	}
	t := strings.ToLower(investorType)
	for _, kw := range keywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

func summarize(investors []model.AggregatedInvestor) model.Summary {
	byType := make(map[string]int, len(typeBuckets))
	for bucket := range typeBuckets {
		byType[bucket] = 0
	}

	var tiers model.ConsensusTiers
	scoreSum := 0

	for i := range investors {
		inv := &investors[i]
		for bucket := range typeBuckets {
			if InBucket(inv.Type, bucket) {
				byType[bucket]++
			}
		}
		switch {
		case inv.Consensus >= 3:
			tiers.High++
		case inv.Consensus == 2:
			tiers.Medium++
		default:
			tiers.Low++
		}
		scoreSum += inv.Score
	}

	avg := 0
	if len(investors) > 0 {
		// Integer rounding of the mean; the zero guard keeps an empty roster
		// a valid terminal state.
		avg = (scoreSum + len(investors)/2) / len(investors)
	}

	return model.Summary{
		Total:       len(investors),
		ByType:      byType,
		ByConsensus: tiers,
		AvgScore:    avg,
	}
}
