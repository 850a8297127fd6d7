package service

import (
	"fmt"
	"reflect"
	"testing"

	"alertdesk/internal/models"
	"alertdesk/internal/repository"
)

func TestGroupCount(t *testing.T) {
	got := GroupCount([]string{"S1", "S1", "S2", "S3", "S1"})
	want := []repository.CategoryCount{
		{Label: "S1", Count: 3},
		{Label: "S2", Count: 1},
		{Label: "S3", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupCount = %v, want %v", got, want)
	}
}

func TestGroupCountTieBreakIsFirstSeen(t *testing.T) {
	got := GroupCount([]string{"zeta", "alpha", "zeta", "alpha", "mid"})
	if got[0].Label != "zeta" || got[1].Label != "alpha" {
		t.Fatalf("ties must keep first-seen order, got %v", got)
	}
}

func TestGroupCountTopTen(t *testing.T) {
	var labels []string
	for i := 0; i < 15; i++ {
		label := fmt.Sprintf("cat-%02d", i)
		// later categories get more hits so the cut is observable
		for j := 0; j <= i; j++ {
			labels = append(labels, label)
		}
	}
	got := GroupCount(labels)
	if len(got) != 10 {
		t.Fatalf("expected top 10, got %d", len(got))
	}
	if got[0].Label != "cat-14" || got[0].Count != 15 {
		t.Fatalf("head got %v", got[0])
	}
	if got[9].Label != "cat-05" {
		t.Fatalf("tail got %v", got[9])
	}
}

func TestGroupCountSkipsEmptyLabels(t *testing.T) {
	got := GroupCount([]string{"", "A", ""})
	if len(got) != 1 || got[0].Label != "A" {
		t.Fatalf("empty labels must be skipped, got %v", got)
	}
}

func TestMetricsFromAlerts(t *testing.T) {
	reg := []models.Regulation{{ID: "r1"}}
	haz := []models.Hazard{{ID: "h1"}}
	alerts := []models.Alert{
		{IsNew: true},
		{Regulations: reg},                                          // no hazards: incomplete
		{Regulations: reg, Hazards: haz, IsReviewed: true},          // reviewed
		{Regulations: reg, Hazards: haz},                            // complete
		{IsNew: true, Regulations: reg, Hazards: haz, IsReviewed: true}, // new wins
	}
	got := MetricsFromAlerts(alerts)
	want := repository.DashboardMetrics{
		TotalAlerts:     5,
		NewCount:        2,
		ReviewedCount:   1,
		IncompleteCount: 1,
	}
	if got != want {
		t.Fatalf("MetricsFromAlerts = %+v, want %+v", got, want)
	}
}

func TestDimensionLabels(t *testing.T) {
	alerts := []models.Alert{
		{
			Source: &models.Source{Name: "OSHA"},
			Regulations: []models.Regulation{
				{Section: "1926.501"},
				{Section: "1910.28"},
			},
		},
		{Source: &models.Source{Name: "OSHA"}},
		{},
	}
	if got := DimensionLabels("source", alerts); !reflect.DeepEqual(got, []string{"OSHA", "OSHA"}) {
		t.Fatalf("source labels got %v", got)
	}
	if got := DimensionLabels("regulation", alerts); len(got) != 2 {
		t.Fatalf("regulation labels should be one per association, got %v", got)
	}
	if got := DimensionLabels("unknown", alerts); got != nil {
		t.Fatalf("unknown dimension got %v", got)
	}
}

func TestChangePct(t *testing.T) {
	cases := []struct {
		current, previous int64
		want              string
	}{
		{0, 0, "0"},
		{5, 0, "100"},
		{15, 10, "50"},
		{5, 10, "-50"},
		{10, 3, "233.33"},
	}
	for _, tc := range cases {
		got := changePct(tc.current, tc.previous)
		if got.String() != tc.want {
			t.Fatalf("changePct(%d, %d) = %s, want %s", tc.current, tc.previous, got.String(), tc.want)
		}
	}
}
