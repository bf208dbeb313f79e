// Package popularity aggregates library item usage events into usage counts,
// popularity scores and "commonly paired with" lists.
package popularity

import (
	"math"
	"sort"
	"time"

	"github.com/costbook/backend/internal/model"
	"github.com/shopspring/decimal"
)

const (
	DefaultWindowDays    = 30
	DefaultRetentionDays = 90

	// NormalizationMax is the usage count that maps to a score of 100.
	NormalizationMax = 1000
	// MaxPairedItems caps the commonly-paired-with list per item.
	MaxPairedItems = 5
)

var logNormalization = math.Log10(NormalizationMax + 1)

// Score maps a usage count onto 0–100 on a log scale, rounded to 2 places.
func Score(count int) float64 {
	if count <= 0 {
		return 0
	}
	s := math.Log10(float64(count)+1) / logNormalization * 100
	s = math.Round(s*100) / 100
	return math.Min(100, s)
}

type itemStats struct {
	count    int
	quantity decimal.Decimal
	lastUsed time.Time
	projects map[string]bool
}

// Aggregate builds one update per item seen in events, sorted by item id.
// Pairing counts the projects two items were both used in.
func Aggregate(events []*model.UsageEvent) []*model.PopularityUpdate {
	stats := make(map[string]*itemStats)
	projectItems := make(map[string]map[string]bool)

	for _, e := range events {
		if e == nil || e.ItemID == "" {
			continue
		}
		s, ok := stats[e.ItemID]
		if !ok {
			s = &itemStats{projects: make(map[string]bool)}
			stats[e.ItemID] = s
		}
		s.count++
		s.quantity = s.quantity.Add(e.Quantity)
		if e.OccurredAt.After(s.lastUsed) {
			s.lastUsed = e.OccurredAt
		}
		if e.ProjectID == "" {
			continue
		}
		s.projects[e.ProjectID] = true
		if projectItems[e.ProjectID] == nil {
			projectItems[e.ProjectID] = make(map[string]bool)
		}
		projectItems[e.ProjectID][e.ItemID] = true
	}

	pairs := coOccurrence(projectItems)

	updates := make([]*model.PopularityUpdate, 0, len(stats))
	for id, s := range stats {
		updates = append(updates, &model.PopularityUpdate{
			ItemID:             id,
			UsageCount:         s.count,
			ProjectCount:       len(s.projects),
			TotalQuantity:      s.quantity,
			LastUsedAt:         s.lastUsed,
			PopularityScore:    Score(s.count),
			CommonlyPairedWith: topPairs(pairs[id]),
		})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].ItemID < updates[j].ItemID })
	return updates
}

// coOccurrence counts, for every item, the projects it shares with each other item.
func coOccurrence(projectItems map[string]map[string]bool) map[string]map[string]int {
	pairs := make(map[string]map[string]int)
	for _, items := range projectItems {
		ids := make([]string, 0, len(items))
		for id := range items {
			ids = append(ids, id)
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				bump(pairs, ids[i], ids[j])
				bump(pairs, ids[j], ids[i])
			}
		}
	}
	return pairs
}

func bump(pairs map[string]map[string]int, a, b string) {
	if pairs[a] == nil {
		pairs[a] = make(map[string]int)
	}
	pairs[a][b]++
}

func topPairs(counts map[string]int) []model.PairedItem {
	out := make([]model.PairedItem, 0, len(counts))
	for id, n := range counts {
		out = append(out, model.PairedItem{ItemID: id, SharedProjects: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SharedProjects != out[j].SharedProjects {
			return out[i].SharedProjects > out[j].SharedProjects
		}
		return out[i].ItemID < out[j].ItemID
	})
	if len(out) > MaxPairedItems {
		out = out[:MaxPairedItems]
	}
	return out
}
