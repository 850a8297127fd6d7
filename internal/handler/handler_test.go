package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alertdesk/internal/models"
	"alertdesk/internal/repository"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// stubRepo overrides just the methods a test exercises; anything else panics.
type stubRepo struct {
	repository.Repository

	alerts      []models.Alert
	sources     []models.Source
	regulations []models.Regulation
	hazards     []models.Hazard

	updated []models.Alert
}

func (s *stubRepo) ListAlerts(ctx context.Context, params repository.ListAlertsParams) ([]models.Alert, error) {
	start := params.Offset
	if start >= len(s.alerts) {
		return nil, nil
	}
	end := len(s.alerts)
	if params.Limit > 0 && start+params.Limit < end {
		end = start + params.Limit
	}
	return s.alerts[start:end], nil
}

func (s *stubRepo) CountAlerts(ctx context.Context, params repository.ListAlertsParams) (int64, error) {
	return int64(len(s.alerts)), nil
}

func (s *stubRepo) ListAlertsByIDs(ctx context.Context, ids []string) ([]models.Alert, error) {
	var out []models.Alert
	for _, id := range ids {
		for _, a := range s.alerts {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (s *stubRepo) UpdateAlertTx(ctx context.Context, tx *gorm.DB, item *models.Alert, regulationIDs, hazardIDs []string) error {
	s.updated = append(s.updated, *item)
	return nil
}

func (s *stubRepo) GetRegulation(ctx context.Context, id string) (*models.Regulation, error) {
	for i := range s.regulations {
		if s.regulations[i].ID == id {
			return &s.regulations[i], nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetHazard(ctx context.Context, id string) (*models.Hazard, error) {
	for i := range s.hazards {
		if s.hazards[i].ID == id {
			return &s.hazards[i], nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListSources(ctx context.Context, params repository.ListRefParams) ([]models.Source, error) {
	var out []models.Source
	for _, it := range s.sources {
		if params.Active != nil && it.IsActive != *params.Active {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *stubRepo) ListRegulations(ctx context.Context, params repository.ListRefParams) ([]models.Regulation, error) {
	var out []models.Regulation
	for _, it := range s.regulations {
		if params.Active != nil && it.IsActive != *params.Active {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *stubRepo) ListHazards(ctx context.Context, params repository.ListRefParams) ([]models.Hazard, error) {
	var out []models.Hazard
	for _, it := range s.hazards {
		if params.Active != nil && it.IsActive != *params.Active {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *stubRepo) ListOrganizations(ctx context.Context, params repository.ListRefParams) ([]models.Organization, error) {
	return nil, nil
}

func (s *stubRepo) ListSites(ctx context.Context, params repository.ListRefParams) ([]models.Site, error) {
	return nil, nil
}

func (s *stubRepo) ListPlantTypes(ctx context.Context, params repository.ListRefParams) ([]models.PlantType, error) {
	return nil, nil
}

func (s *stubRepo) ListPlantMakes(ctx context.Context, params repository.ListPlantMakesParams) ([]models.PlantMake, error) {
	return nil, nil
}

func (s *stubRepo) ListPlantModels(ctx context.Context, params repository.ListPlantModelsParams) ([]models.PlantModel, error) {
	return nil, nil
}

func strP(s string) *string { return &s }

func sampleAlerts() []models.Alert {
	reg := []models.Regulation{{ID: "r1", Section: "1926.501"}}
	haz := []models.Hazard{{ID: "h1", Name: "Falls"}}
	return []models.Alert{
		{
			ID: "a1", Title: "Crane tip-over", IsNew: true,
			Source:      &models.Source{Name: "OSHA"},
			Regulations: reg, Hazards: haz,
		},
		{
			ID: "a2", Title: "Scaffold collapse",
			Source:      &models.Source{Name: "EPA"},
			Regulations: reg, Hazards: haz,
		},
	}
}

func TestExportCSV(t *testing.T) {
	h := &AlertHandler{
		Repo:   &stubRepo{alerts: sampleAlerts()},
		Logger: zap.NewNop(),
	}
	engine := gin.New()
	h.Register(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/export?format=csv&filename=weekly", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `"weekly.csv"`) {
		t.Fatalf("content disposition %q", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Crane tip-over") || !strings.Contains(body, "1926.501") {
		t.Fatalf("csv body missing rows:\n%s", body)
	}
}

func TestExportStatusFilter(t *testing.T) {
	h := &AlertHandler{
		Repo:   &stubRepo{alerts: sampleAlerts()},
		Logger: zap.NewNop(),
	}
	engine := gin.New()
	h.Register(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/export?format=csv&status=new", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Crane tip-over") {
		t.Fatalf("expected the new alert in export:\n%s", body)
	}
	if strings.Contains(body, "Scaffold collapse") {
		t.Fatalf("status filter leaked a non-new alert:\n%s", body)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	h := &AlertHandler{Repo: &stubRepo{}, Logger: zap.NewNop()}
	engine := gin.New()
	h.Register(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/export?format=docx", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestCreateAlertValidation(t *testing.T) {
	h := &AlertHandler{Repo: &stubRepo{}, Logger: zap.NewNop()}
	engine := gin.New()
	h.Register(engine)

	req := httptest.NewRequest(http.MethodPost, "/api/alerts", strings.NewReader(`{"description":"no title"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Meta struct {
			Errors map[string]string `json:"errors"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Meta.Errors["title"] == "" {
		t.Fatalf("expected a field error for title, got %v", resp.Meta.Errors)
	}
}

func TestExportPagesThroughAllRows(t *testing.T) {
	alerts := make([]models.Alert, 0, 505)
	for i := 0; i < 505; i++ {
		alerts = append(alerts, models.Alert{
			ID:    fmt.Sprintf("id-%03d", i),
			Title: fmt.Sprintf("alert-%03d", i),
		})
	}
	h := &AlertHandler{
		Repo:   &stubRepo{alerts: alerts},
		Logger: zap.NewNop(),
	}
	engine := gin.New()
	h.Register(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/export?format=csv", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "alert-504") {
		t.Fatalf("rows past the first page missing from export")
	}
	if got := strings.Count(body, "alert-"); got != 505 {
		t.Fatalf("exported %d rows, want 505", got)
	}
}

func TestBulkUpdateAppliesPerAlertEdits(t *testing.T) {
	repo := &stubRepo{alerts: sampleAlerts()}
	h := &AlertHandler{Repo: repo, Logger: zap.NewNop()}
	engine := gin.New()
	h.Register(engine)

	payload := `[{"id":"a1","title":"edited one"},{"id":"a2","title":"edited two","is_reviewed":true}]`
	req := httptest.NewRequest(http.MethodPost, "/api/alerts/bulk-update", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.updated) != 2 {
		t.Fatalf("saved %d alerts, want 2", len(repo.updated))
	}
	byID := map[string]models.Alert{}
	for _, a := range repo.updated {
		byID[a.ID] = a
	}
	if byID["a1"].Title != "edited one" || byID["a2"].Title != "edited two" {
		t.Fatalf("per-alert edits not applied: %+v", repo.updated)
	}
	if byID["a1"].IsReviewed || !byID["a2"].IsReviewed {
		t.Fatalf("review flag must only change where the edit sets it: %+v", repo.updated)
	}
}

func TestBulkUpdateAllOrNothing(t *testing.T) {
	repo := &stubRepo{alerts: sampleAlerts()}
	h := &AlertHandler{Repo: repo, Logger: zap.NewNop()}
	engine := gin.New()
	h.Register(engine)

	payload := `[{"id":"a1","title":"ok"},{"id":"missing","title":"x"},{"id":"a2","title":""}]`
	req := httptest.NewRequest(http.MethodPost, "/api/alerts/bulk-update", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Meta struct {
			Errors map[string]string `json:"errors"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Meta.Errors["1.id"] == "" || resp.Meta.Errors["2.title"] == "" {
		t.Fatalf("expected indexed field errors, got %v", resp.Meta.Errors)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("no alert may be saved when the batch fails: %+v", repo.updated)
	}
}

func TestCreateAlertRejectsUnknownAssociations(t *testing.T) {
	repo := &stubRepo{
		regulations: []models.Regulation{{ID: "r1", Section: "1926.501", IsActive: true}},
		hazards:     []models.Hazard{{ID: "h1", Name: "Falls", IsActive: true}},
	}
	h := &AlertHandler{Repo: repo, Logger: zap.NewNop()}
	engine := gin.New()
	h.Register(engine)

	payload := `{"title":"t","regulation_ids":["r1","bogus"],"hazard_ids":["h1"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/alerts", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "regulation_ids") {
		t.Fatalf("expected a regulation_ids field error: %s", rec.Body.String())
	}
}

func TestFilterOptionsExcludeInactive(t *testing.T) {
	repo := &stubRepo{sources: []models.Source{
		{ID: "s1", Name: "OSHA", IsActive: true},
		{ID: "s2", Name: "Retired feed", IsActive: false},
	}}
	h := &DashboardHandler{Repo: repo, Logger: zap.NewNop()}
	engine := gin.New()
	h.Register(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/filter-options/sources", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"s1"`) {
		t.Fatalf("active source missing: %s", body)
	}
	if strings.Contains(body, `"s2"`) {
		t.Fatalf("inactive source leaked into options: %s", body)
	}
}

func TestBulkEditContextOptionsExcludeInactive(t *testing.T) {
	repo := &stubRepo{
		alerts: sampleAlerts(),
		sources: []models.Source{
			{ID: "s1", Name: "OSHA", IsActive: true},
			{ID: "s2", Name: "Retired feed", IsActive: false},
		},
		regulations: []models.Regulation{{ID: "r1", Section: "1926.501", IsActive: true}},
		hazards:     []models.Hazard{{ID: "h1", Name: "Falls", IsActive: true}},
	}
	h := &AlertHandler{Repo: repo, Logger: zap.NewNop()}
	engine := gin.New()
	h.Register(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/bulk-edit-context?ids=a1,a2", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			Options map[string][]filterOption `json:"options"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ids := []string{}
	for _, opt := range resp.Data.Options["sources"] {
		ids = append(ids, opt.ID)
	}
	if !reflect.DeepEqual(ids, []string{"s1"}) {
		t.Fatalf("source options %v, want only the active s1", ids)
	}
}

func TestSourceCreateValidation(t *testing.T) {
	handlers := NewReferenceHandlers(&stubRepo{}, zap.NewNop())
	engine := gin.New()
	for _, h := range handlers {
		h.Register(engine)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/sources", strings.NewReader(`{"name":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "name is required") {
		t.Fatalf("body %s", rec.Body.String())
	}
}

func TestFilterOptionsUnknownEntity(t *testing.T) {
	h := &DashboardHandler{Repo: &stubRepo{}, Logger: zap.NewNop()}
	engine := gin.New()
	h.Register(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/filter-options/widgets", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestCommonAlertValues(t *testing.T) {
	alerts := []models.Alert{
		{SourceID: strP("s1"), SiteID: strP("x1"), IsNew: true},
		{SourceID: strP("s1"), SiteID: strP("x2"), IsNew: true, IsReviewed: true},
	}
	common := commonAlertValues(alerts)
	if common["source_id"] != "s1" {
		t.Fatalf("shared source missing: %v", common)
	}
	if _, ok := common["site_id"]; ok {
		t.Fatalf("diverging site must not be common: %v", common)
	}
	if common["is_new"] != true {
		t.Fatalf("shared is_new missing: %v", common)
	}
	if _, ok := common["is_reviewed"]; ok {
		t.Fatalf("diverging is_reviewed must not be common: %v", common)
	}
}

func TestAssociationIDs(t *testing.T) {
	current := []models.Regulation{{ID: "r1"}, {ID: "r2"}}
	keep := associationIDs(nil, len(current), func(i int) string { return current[i].ID })
	if !reflect.DeepEqual(keep, []string{"r1", "r2"}) {
		t.Fatalf("absent payload must keep associations, got %v", keep)
	}

	replace := []string{"r9"}
	got := associationIDs(&replace, len(current), func(i int) string { return current[i].ID })
	if !reflect.DeepEqual(got, []string{"r9"}) {
		t.Fatalf("payload list must replace, got %v", got)
	}

	empty := []string{}
	if got := associationIDs(&empty, len(current), func(i int) string { return current[i].ID }); len(got) != 0 {
		t.Fatalf("explicit empty list must clear, got %v", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"weekly":          "weekly",
		"../../etc/proc":  ".._.._etc_proc",
		`a:b*c?"d"`:       "a_b_c__d_",
		"   ":             "alerts",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseOrder(t *testing.T) {
	allow := map[string]string{"name": "name", "created_at": "created_at"}
	if got := parseOrder("Name", allow); got != "name" {
		t.Fatalf("got %q", got)
	}
	if got := parseOrder("drop table", allow); got != "" {
		t.Fatalf("unlisted order must map to empty, got %q", got)
	}
}

func TestPaginationMeta(t *testing.T) {
	meta := paginationMeta(10, 20, 35)
	if meta["has_next"] != true {
		t.Fatalf("expected has_next at offset 20 of 35: %v", meta)
	}
	meta = paginationMeta(10, 30, 35)
	if meta["has_next"] != false {
		t.Fatalf("expected no next page at offset 30 of 35: %v", meta)
	}
}
