package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"alertdesk/internal/models"
	"alertdesk/internal/repository"
)

// topCategories caps every breakdown, matching the server-computed path.
const topCategories = 10

// Dimensions enumerates the breakdown dimensions served by the dashboard, in
// display order.
var Dimensions = []string{"source", "regulation", "organization", "site", "hazard", "plant-type"}

type DashboardService struct {
	Repo repository.Repository
}

// MetricsSummary adds a percent change against the previous window of equal
// length to the raw counts.
type MetricsSummary struct {
	repository.DashboardMetrics
	ChangePct decimal.Decimal `json:"change_pct"`
}

// FilteredData is the combined payload for the dashboard filter sidebar: the
// flat alert list plus metrics and breakdowns recomputed from it in-process.
type FilteredData struct {
	Metrics    repository.DashboardMetrics             `json:"metrics"`
	Breakdowns map[string][]repository.CategoryCount   `json:"breakdowns"`
	Alerts     []models.Alert                          `json:"alerts"`
}

// Metrics returns counts for the window ending now, with the change percent
// computed against the window immediately before it.
func (s *DashboardService) Metrics(ctx context.Context, window time.Duration) (MetricsSummary, error) {
	var out MetricsSummary
	if s == nil || s.Repo == nil {
		return out, nil
	}
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	now := time.Now().UTC()
	since := now.Add(-window)
	current, err := s.Repo.DashboardMetrics(ctx, &since, nil)
	if err != nil {
		return out, err
	}
	prevSince := since.Add(-window)
	previous, err := s.Repo.DashboardMetrics(ctx, &prevSince, &since)
	if err != nil {
		return out, err
	}
	out.DashboardMetrics = current
	out.ChangePct = changePct(current.TotalAlerts, previous.TotalAlerts)
	return out, nil
}

func changePct(current, previous int64) decimal.Decimal {
	if previous == 0 {
		if current == 0 {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	cur := decimal.NewFromInt(current)
	prev := decimal.NewFromInt(previous)
	return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
}

// FilteredData fetches the flat filtered alert list once and recomputes every
// aggregate from it. Same top-10 and tie-break rules as the server-computed
// path: count descending, ties by first-seen order.
func (s *DashboardService) FilteredData(ctx context.Context, params repository.FilteredAlertsParams) (FilteredData, error) {
	var out FilteredData
	if s == nil || s.Repo == nil {
		return out, nil
	}
	alerts, err := s.Repo.ListFilteredAlerts(ctx, params)
	if err != nil {
		return out, err
	}
	out.Alerts = alerts
	out.Metrics = MetricsFromAlerts(alerts)
	out.Breakdowns = map[string][]repository.CategoryCount{}
	for _, dim := range Dimensions {
		out.Breakdowns[dim] = GroupCount(DimensionLabels(dim, alerts))
	}
	return out, nil
}

// MetricsFromAlerts derives the KPI counts from a flat alert list using the
// same status rules as the persisted path.
func MetricsFromAlerts(alerts []models.Alert) repository.DashboardMetrics {
	out := repository.DashboardMetrics{TotalAlerts: int64(len(alerts))}
	for i := range alerts {
		switch alerts[i].Status() {
		case models.StatusNew:
			out.NewCount++
		case models.StatusIncomplete:
			out.IncompleteCount++
		case models.StatusReviewed:
			out.ReviewedCount++
		}
	}
	return out
}

// DimensionLabels flattens one alert list into the label stream for a
// breakdown dimension. Regulations and hazards contribute one label per
// association; the one-to-one links contribute at most one.
func DimensionLabels(dimension string, alerts []models.Alert) []string {
	var labels []string
	for i := range alerts {
		a := &alerts[i]
		switch dimension {
		case "source":
			if a.Source != nil {
				labels = append(labels, a.Source.Name)
			}
		case "organization":
			if a.Organization != nil {
				labels = append(labels, a.Organization.Name)
			}
		case "site":
			if a.Site != nil {
				labels = append(labels, a.Site.Name)
			}
		case "plant-type":
			if a.PlantType != nil {
				labels = append(labels, a.PlantType.Name)
			}
		case "regulation":
			for _, r := range a.Regulations {
				labels = append(labels, r.Section)
			}
		case "hazard":
			for _, h := range a.Hazards {
				labels = append(labels, h.Name)
			}
		}
	}
	return labels
}

// GroupCount counts label occurrences and returns the top categories sorted
// by count descending, ties broken by first-seen order (stable).
func GroupCount(labels []string) []repository.CategoryCount {
	counts := map[string]int64{}
	var order []string
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}
	out := make([]repository.CategoryCount, 0, len(order))
	for _, label := range order {
		out = append(out, repository.CategoryCount{Label: label, Count: counts[label]})
	}
	// Slice order is first-seen; the stable sort preserves it within ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > topCategories {
		out = out[:topCategories]
	}
	return out
}
