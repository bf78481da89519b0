package model

import "fmt"

// AggregateSummaries folds the source summaries into target. Every
// (query, database, hit) seen in any source gets an AggregateHit recording
// the names of the sources that called it positive, tentative or unlikely.
// The hit is then filed under its aggregate status so the database level
// status follows the same precedence.
func AggregateSummaries(target *Summary, sources ...*Summary) error {
	if target.Mode != ModeAggregate {
		return fmt.Errorf("summary %s is not an aggregate summary", target.ID)
	}

	type pairKey struct{ query, db string }
	aggregates := map[pairKey]map[string]*AggregateHit{}
	hitOrder := map[pairKey][]string{}
	details := map[pairKey]map[string]Hit{}

	for _, src := range sources {
		if src == nil {
			continue
		}
		name := src.Name
		if name == "" {
			name = src.ID
		}
		target.Sources = appendUnique(target.Sources, name)

		src.Walk(func(qid, db string, rs *ResultSummary) {
			key := pairKey{qid, db}
			if _, ok := aggregates[key]; !ok {
				aggregates[key] = map[string]*AggregateHit{}
				details[key] = map[string]Hit{}
				// Register the pair even when this source found nothing.
				target.UpsertResult(qid, db, NewResultSummary())
			}
			for _, status := range []HitStatus{StatusPositive, StatusTentative, StatusUnlikely} {
				for _, hitID := range rs.HitIDs(status) {
					agg, ok := aggregates[key][hitID]
					if !ok {
						agg = &AggregateHit{HitID: hitID, Positive: []string{}, Tentative: []string{}, Unlikely: []string{}}
						aggregates[key][hitID] = agg
						hitOrder[key] = append(hitOrder[key], hitID)
						details[key][hitID] = rs.Hits[hitID]
					}
					agg.add(status, name)
				}
			}
		})
	}

	var err error
	target.Walk(func(qid, db string, rs *ResultSummary) {
		key := pairKey{qid, db}
		rs.Aggregates = aggregates[key]
		for _, hitID := range hitOrder[key] {
			agg := aggregates[key][hitID]
			hit := details[key][hitID]
			hit.Status = agg.Status
			if addErr := rs.AddHit(agg.Status, hitID, hit); addErr != nil && err == nil {
				err = addErr
			}
		}
	})
	return err
}
