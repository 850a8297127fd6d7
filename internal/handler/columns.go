package handler

import (
	"strings"

	"alertdesk/internal/export"
	"alertdesk/internal/models"
	"alertdesk/internal/table"
)

// alertTableColumns is the column factory for the alerts list: it fixes which
// columns sort, which filter, and where each value comes from.
func alertTableColumns() []table.Column[models.Alert] {
	return []table.Column[models.Alert]{
		{Key: "title", Header: "Title", Sortable: true, Filter: table.FilterText},
		{
			Key: "status", Header: "Status", Sortable: true, Filter: table.FilterStatus,
			Value: func(a models.Alert) any { return a.Status() },
		},
		{Key: "source.name", Header: "Source", Sortable: true, Filter: table.FilterOption},
		{Key: "organization.name", Header: "Organization", Sortable: true, Filter: table.FilterOption},
		{Key: "site.name", Header: "Site", Sortable: true, Filter: table.FilterOption},
		{Key: "plant_type.name", Header: "Plant Type", Sortable: true, Filter: table.FilterOption},
		{Key: "plant_make.name", Header: "Plant Make", Sortable: true, Filter: table.FilterOption},
		{Key: "plant_model.name", Header: "Plant Model", Sortable: true, Filter: table.FilterOption},
		{
			Key: "regulations", Header: "Regulations", Filter: table.FilterArrayContains,
			Labels: func(a models.Alert) []string { return regulationSections(a) },
		},
		{
			Key: "hazards", Header: "Hazards", Filter: table.FilterArrayContains,
			Labels: func(a models.Alert) []string { return hazardNames(a) },
		},
		{Key: "occurred_at", Header: "Occurred", Sortable: true},
		{Key: "created_at", Header: "Created", Sortable: true},
	}
}

func newAlertTable(rows []models.Alert) *table.Model[models.Alert] {
	return table.New(alertTableColumns(), rows,
		table.WithRowID(func(a models.Alert) string { return a.ID }),
		table.WithStatus(func(a models.Alert) string { return a.Status() }),
	)
}

// alertView flattens derived and association fields so export accessors stay
// simple dotted paths.
type alertView struct {
	Alert       models.Alert `json:"alert"`
	Status      string       `json:"status"`
	Regulations string       `json:"regulations"`
	Hazards     string       `json:"hazards"`
}

func alertViews(alerts []models.Alert) []alertView {
	out := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertView{
			Alert:       a,
			Status:      a.Status(),
			Regulations: strings.Join(regulationSections(a), ", "),
			Hazards:     strings.Join(hazardNames(a), ", "),
		})
	}
	return out
}

func alertExportColumns() []export.Column {
	return []export.Column{
		{Header: "Title", Key: "alert.title"},
		{Header: "Status", Key: "status"},
		{Header: "Source", Key: "alert.source.name"},
		{Header: "Organization", Key: "alert.organization.name"},
		{Header: "Site", Key: "alert.site.name"},
		{Header: "Plant Type", Key: "alert.plant_type.name"},
		{Header: "Plant Make", Key: "alert.plant_make.name"},
		{Header: "Plant Model", Key: "alert.plant_model.name"},
		{Header: "Regulations", Key: "regulations"},
		{Header: "Hazards", Key: "hazards"},
		{Header: "Reviewed", Key: "alert.is_reviewed"},
		{Header: "Occurred", Key: "alert.occurred_at"},
		{Header: "Created", Key: "alert.created_at"},
	}
}

// alertPDFWidths gives the wide text columns fixed widths; the rest share the
// remaining page evenly.
var alertPDFWidths = map[string]float64{
	"alert.title": 50,
	"status":      18,
	"regulations": 32,
	"hazards":     32,
}

func regulationSections(a models.Alert) []string {
	out := make([]string, 0, len(a.Regulations))
	for _, r := range a.Regulations {
		out = append(out, r.Section)
	}
	return out
}

func hazardNames(a models.Alert) []string {
	out := make([]string, 0, len(a.Hazards))
	for _, h := range a.Hazards {
		out = append(out, h.Name)
	}
	return out
}
