package aggregate

import "github.com/fleveque/investor-scout/internal/model"

// FilterOptions compose the three roster predicates. Zero values are
// no-ops: MinConsensus <= 1 keeps everything, empty or "all" Type keeps
// every bucket, HasNews false skips the news check.
type FilterOptions struct {
	MinConsensus int
	Type         string
	HasNews      bool
}

// Filter returns the investors matching all predicates. Pure and stateless:
// the input roster is never modified, order is preserved.
func Filter(investors []model.AggregatedInvestor, opts FilterOptions) []model.AggregatedInvestor {
	filtered := make([]model.AggregatedInvestor, 0, len(investors))
	for i := range investors {
		inv := &investors[i]
		if opts.MinConsensus > 1 && inv.Consensus < opts.MinConsensus {
			continue
		}
		if opts.Type != "" && opts.Type != "all" && !InBucket(inv.Type, opts.Type) {
			continue
		}
		if opts.HasNews && !inv.HasNews() {
			continue
		}
		filtered = append(filtered, *inv)
	}
	return filtered
}
