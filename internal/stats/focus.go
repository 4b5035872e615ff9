package stats

import (
	"sort"

	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/scoring"
)

// FocusArea is a checklist item with how often it was ticked.
type FocusArea struct {
	ID       string
	Label    string
	Checked  int
	Sessions int
	Rate     int
}

// FocusAreas selects the checklist items ticked least often across sessions.
func FocusAreas(sessions []model.Session, items []model.ChecklistItem, top int) []FocusArea {
	if len(sessions) == 0 || len(items) == 0 {
		return nil
	}
	areas := make([]FocusArea, len(items))
	order := make(map[string]int, len(items))
	for i, item := range items {
		areas[i] = FocusArea{ID: item.ID, Label: item.Label, Sessions: len(sessions)}
		order[item.ID] = i
	}
	for _, s := range sessions {
		for id, checked := range s.Checklist {
			if i, ok := order[id]; ok && checked {
				areas[i].Checked++
			}
		}
	}
	for i := range areas {
		areas[i].Rate = scoring.Percent(areas[i].Checked, areas[i].Sessions)
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Checked < areas[j].Checked
	})
	if top <= 0 || top > len(areas) {
		top = len(areas)
	}
	return areas[:top]
}

// CategoryCoverage counts completed tips in one category.
type CategoryCoverage struct {
	Key   string
	Label string
	Done  int
	Total int
}

// Coverage returns completed/total tips per category in catalog order.
func Coverage(cat *catalog.Catalog, p model.Progress) []CategoryCoverage {
	out := make([]CategoryCoverage, 0, len(cat.Categories))
	index := make(map[string]int, len(cat.Categories))
	for _, c := range cat.Categories {
		index[c.Key] = len(out)
		out = append(out, CategoryCoverage{Key: c.Key, Label: c.Label})
	}
	for _, tip := range cat.Tips {
		i, ok := index[tip.Category]
		if !ok {
			continue
		}
		out[i].Total++
		if p.HasTip(tip.ID) {
			out[i].Done++
		}
	}
	return out
}
