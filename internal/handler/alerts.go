package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alertdesk/internal/auth"
	"alertdesk/internal/export"
	"alertdesk/internal/models"
	"alertdesk/internal/repository"
	"alertdesk/internal/service"
	"alertdesk/internal/stream"
)

type AlertHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Hub    *stream.Hub
}

func (h *AlertHandler) Register(r *gin.Engine) {
	group := r.Group("/api/alerts")
	group.GET("", h.list)
	group.GET("/export", h.export)
	group.GET("/bulk-edit-context", h.bulkEditContext)
	group.POST("", h.create)
	group.POST("/bulk-delete", h.bulkDelete)
	group.POST("/bulk-update", h.bulkUpdate)
	group.GET("/:id", h.get)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.delete)
}

var alertOrderAllow = map[string]string{
	"title":       "title",
	"occurred_at": "occurred_at",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

func alertListParams(c *gin.Context) repository.ListAlertsParams {
	return repository.ListAlertsParams{
		Limit:          intQuery(c, "limit", 100),
		Offset:         intQuery(c, "offset", 0),
		SourceID:       strQueryPtr(c, "source_id"),
		OrganizationID: strQueryPtr(c, "organization_id"),
		SiteID:         strQueryPtr(c, "site_id"),
		PlantTypeID:    strQueryPtr(c, "plant_type_id"),
		PlantMakeID:    strQueryPtr(c, "plant_make_id"),
		PlantModelID:   strQueryPtr(c, "plant_model_id"),
		RegulationID:   strQueryPtr(c, "regulation_id"),
		HazardID:       strQueryPtr(c, "hazard_id"),
		IsNew:          boolQueryPtr(c, "is_new"),
		IsReviewed:     boolQueryPtr(c, "is_reviewed"),
		Since:          timeQueryPtr(c, "since"),
		Until:          timeQueryPtr(c, "until"),
		Query:          strQueryPtr(c, "q"),
		OrderBy:        parseOrder(c.Query("order_by"), alertOrderAllow),
		Asc:            boolQueryPtr(c, "asc"),
	}
}

// @Summary List alerts
// @Tags alerts
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Param q query string false "free text match on title and description"
// @Success 200 {object} map[string]any
// @Router /api/alerts [get]
func (h *AlertHandler) list(c *gin.Context) {
	params := alertListParams(c)
	items, err := h.Repo.ListAlerts(c.Request.Context(), params)
	if err != nil {
		h.Logger.Error("list alerts failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "list failed", nil)
		return
	}
	total, err := h.Repo.CountAlerts(c.Request.Context(), params)
	if err != nil {
		h.Logger.Error("count alerts failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "list failed", nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *AlertHandler) get(c *gin.Context) {
	item, err := h.Repo.GetAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.Error("get alert failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "get failed", nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "not found", nil)
		return
	}
	Ok(c, item, nil)
}

// alertRequest is the create/update payload. Pointer fields distinguish
// "absent" from "clear"; an empty string on a link field clears it.
type alertRequest struct {
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	SourceID       *string        `json:"source_id"`
	OrganizationID *string        `json:"organization_id"`
	SiteID         *string        `json:"site_id"`
	PlantTypeID    *string        `json:"plant_type_id"`
	PlantMakeID    *string        `json:"plant_make_id"`
	PlantModelID   *string        `json:"plant_model_id"`
	RegulationIDs  *[]string      `json:"regulation_ids"`
	HazardIDs      *[]string      `json:"hazard_ids"`
	IsNew          *bool          `json:"is_new"`
	IsReviewed     *bool          `json:"is_reviewed"`
	OccurredAt     *time.Time     `json:"occurred_at"`
	Details        map[string]any `json:"details"`
}

// applyAlert merges a payload into item, enforces the plant cascade, and
// resolves the association id lists. Returns field-keyed validation errors.
func (h *AlertHandler) applyAlert(ctx context.Context, req alertRequest, item *models.Alert, actor string) (regIDs, hazIDs []string, fields map[string]string, err error) {
	fields = map[string]string{}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if item.Title == "" {
		fields["title"] = "title is required"
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}

	applyLink(req.SourceID, &item.SourceID)
	applyLink(req.OrganizationID, &item.OrganizationID)
	applyLink(req.SiteID, &item.SiteID)
	applyLink(req.PlantTypeID, &item.PlantTypeID)
	applyLink(req.PlantMakeID, &item.PlantMakeID)
	applyLink(req.PlantModelID, &item.PlantModelID)

	if err := h.checkLinks(ctx, item, fields); err != nil {
		return nil, nil, nil, err
	}
	if len(fields) > 0 {
		return nil, nil, fields, nil
	}

	if err := h.normalizeCascade(ctx, item); err != nil {
		return nil, nil, nil, err
	}

	if req.IsNew != nil {
		item.IsNew = *req.IsNew
	}
	if req.IsReviewed != nil {
		if *req.IsReviewed && !item.IsReviewed {
			now := time.Now().UTC()
			item.ReviewedAt = &now
			item.ReviewedBy = actor
		}
		if !*req.IsReviewed {
			item.ReviewedAt = nil
			item.ReviewedBy = ""
		}
		item.IsReviewed = *req.IsReviewed
	}
	if req.OccurredAt != nil {
		t := req.OccurredAt.UTC()
		item.OccurredAt = &t
	}
	if req.Details != nil {
		raw, mErr := json.Marshal(req.Details)
		if mErr != nil {
			return nil, nil, nil, mErr
		}
		item.Details = raw
	}

	regIDs = associationIDs(req.RegulationIDs, len(item.Regulations), func(i int) string { return item.Regulations[i].ID })
	hazIDs = associationIDs(req.HazardIDs, len(item.Hazards), func(i int) string { return item.Hazards[i].ID })

	// Ids carried over from the loaded record are known good; only lists the
	// payload supplied need checking.
	if req.RegulationIDs != nil {
		for _, id := range regIDs {
			if strings.TrimSpace(id) == "" {
				continue
			}
			found, gErr := h.Repo.GetRegulation(ctx, id)
			if gErr != nil {
				return nil, nil, nil, gErr
			}
			if found == nil {
				fields["regulation_ids"] = "unknown regulation: " + id
				break
			}
		}
	}
	if req.HazardIDs != nil {
		for _, id := range hazIDs {
			if strings.TrimSpace(id) == "" {
				continue
			}
			found, gErr := h.Repo.GetHazard(ctx, id)
			if gErr != nil {
				return nil, nil, nil, gErr
			}
			if found == nil {
				fields["hazard_ids"] = "unknown hazard: " + id
				break
			}
		}
	}
	return regIDs, hazIDs, fields, nil
}

// checkLinks verifies every set link points at an existing record.
func (h *AlertHandler) checkLinks(ctx context.Context, item *models.Alert, fields map[string]string) error {
	if item.SourceID != nil {
		found, err := h.Repo.GetSource(ctx, *item.SourceID)
		if err != nil {
			return err
		}
		if found == nil {
			fields["source_id"] = "unknown source"
		}
	}
	if item.OrganizationID != nil {
		found, err := h.Repo.GetOrganization(ctx, *item.OrganizationID)
		if err != nil {
			return err
		}
		if found == nil {
			fields["organization_id"] = "unknown organization"
		}
	}
	if item.SiteID != nil {
		found, err := h.Repo.GetSite(ctx, *item.SiteID)
		if err != nil {
			return err
		}
		if found == nil {
			fields["site_id"] = "unknown site"
		}
	}
	if item.PlantTypeID != nil {
		found, err := h.Repo.GetPlantType(ctx, *item.PlantTypeID)
		if err != nil {
			return err
		}
		if found == nil {
			fields["plant_type_id"] = "unknown plant type"
		}
	}
	return nil
}

// normalizeCascade clears a make that does not belong to the selected type and
// a model that does not belong to the remaining make, mirroring what the edit
// form does client-side.
func (h *AlertHandler) normalizeCascade(ctx context.Context, item *models.Alert) error {
	var makes []models.PlantMake
	var mods []models.PlantModel
	if item.PlantMakeID != nil {
		mk, err := h.Repo.GetPlantMake(ctx, *item.PlantMakeID)
		if err != nil {
			return err
		}
		if mk != nil {
			makes = append(makes, *mk)
		}
	}
	if item.PlantModelID != nil {
		md, err := h.Repo.GetPlantModel(ctx, *item.PlantModelID)
		if err != nil {
			return err
		}
		if md != nil {
			mods = append(mods, *md)
		}
	}
	makeID, modelID, _ := service.NormalizePlantSelection(item.PlantTypeID, item.PlantMakeID, item.PlantModelID, makes, mods)
	item.PlantMakeID = makeID
	item.PlantModelID = modelID
	return nil
}

// @Summary Create an alert
// @Tags alerts
// @Accept json
// @Success 200 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /api/alerts [post]
func (h *AlertHandler) create(c *gin.Context) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	item := models.Alert{IsNew: true}
	regIDs, hazIDs, fields, err := h.applyAlert(c.Request.Context(), req, &item, h.actor(c))
	if err != nil {
		h.Logger.Error("create alert failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "create failed", nil)
		return
	}
	if len(fields) > 0 {
		ValidationError(c, fields)
		return
	}
	if err := h.Repo.CreateAlert(c.Request.Context(), &item, regIDs, hazIDs); err != nil {
		h.Logger.Error("create alert failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "create failed", nil)
		return
	}
	h.Hub.Publish(stream.Event{Kind: "created", AlertID: item.ID})

	created, err := h.Repo.GetAlert(c.Request.Context(), item.ID)
	if err != nil || created == nil {
		Ok(c, item, nil)
		return
	}
	Ok(c, created, nil)
}

func (h *AlertHandler) update(c *gin.Context) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	item, err := h.Repo.GetAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.Error("update alert load failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "not found", nil)
		return
	}

	regIDs, hazIDs, fields, err := h.applyAlert(c.Request.Context(), req, item, h.actor(c))
	if err != nil {
		h.Logger.Error("update alert failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	if len(fields) > 0 {
		ValidationError(c, fields)
		return
	}
	if err := h.Repo.UpdateAlert(c.Request.Context(), item, regIDs, hazIDs); err != nil {
		h.Logger.Error("update alert failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	h.Hub.Publish(stream.Event{Kind: "updated", AlertID: item.ID})

	updated, err := h.Repo.GetAlert(c.Request.Context(), item.ID)
	if err != nil || updated == nil {
		Ok(c, item, nil)
		return
	}
	Ok(c, updated, nil)
}

func (h *AlertHandler) delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Repo.DeleteAlert(c.Request.Context(), id); err != nil {
		h.Logger.Error("delete alert failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "delete failed", nil)
		return
	}
	h.Hub.Publish(stream.Event{Kind: "deleted", AlertID: id})
	Ok(c, gin.H{"deleted": true}, nil)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// @Summary Delete a batch of alerts
// @Tags alerts
// @Accept json
// @Success 200 {object} map[string]any
// @Router /api/alerts/bulk-delete [post]
func (h *AlertHandler) bulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		Error(c, http.StatusBadRequest, "ids are required", nil)
		return
	}
	deleted, err := h.Repo.BulkDeleteAlerts(c.Request.Context(), req.IDs)
	if err != nil {
		h.Logger.Error("bulk delete failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "bulk delete failed", nil)
		return
	}
	for _, id := range req.IDs {
		h.Hub.Publish(stream.Event{Kind: "deleted", AlertID: id})
	}
	Ok(c, gin.H{"deleted": deleted}, nil)
}

// bulkEdit is one element of the bulk update payload: the target id plus the
// same partial edit shape single update accepts, so each alert in the batch
// can carry a different edit.
type bulkEdit struct {
	ID string `json:"id"`
	alertRequest
}

// bulkUpdate applies an array of per-alert edits inside a single transaction.
// Any per-row failure rolls the whole batch back; validation errors come back
// keyed as "{index}.{field}".
func (h *AlertHandler) bulkUpdate(c *gin.Context) {
	var edits []bulkEdit
	if err := c.ShouldBindJSON(&edits); err != nil || len(edits) == 0 {
		Error(c, http.StatusBadRequest, "edits are required", nil)
		return
	}

	ids := make([]string, 0, len(edits))
	for _, edit := range edits {
		ids = append(ids, edit.ID)
	}
	alerts, err := h.Repo.ListAlertsByIDs(c.Request.Context(), ids)
	if err != nil {
		h.Logger.Error("bulk update load failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "bulk update failed", nil)
		return
	}
	byID := make(map[string]*models.Alert, len(alerts))
	for i := range alerts {
		byID[alerts[i].ID] = &alerts[i]
	}

	actor := h.actor(c)
	fields := map[string]string{}
	type pending struct {
		item   *models.Alert
		regIDs []string
		hazIDs []string
	}
	updates := make([]pending, 0, len(edits))

	for i, edit := range edits {
		item, ok := byID[strings.TrimSpace(edit.ID)]
		if !ok {
			fields[fmt.Sprintf("%d.id", i)] = "not found"
			continue
		}
		regIDs, hazIDs, rowFields, err := h.applyAlert(c.Request.Context(), edit.alertRequest, item, actor)
		if err != nil {
			h.Logger.Error("bulk update failed", zap.Error(err))
			Error(c, http.StatusInternalServerError, "bulk update failed", nil)
			return
		}
		for key, msg := range rowFields {
			fields[fmt.Sprintf("%d.%s", i, key)] = msg
		}
		updates = append(updates, pending{item: item, regIDs: regIDs, hazIDs: hazIDs})
	}
	if len(fields) > 0 {
		ValidationError(c, fields)
		return
	}

	err = h.Repo.InTx(c.Request.Context(), func(tx *gorm.DB) error {
		for _, u := range updates {
			if err := h.Repo.UpdateAlertTx(c.Request.Context(), tx, u.item, u.regIDs, u.hazIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.Logger.Error("bulk update failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "bulk update failed", nil)
		return
	}
	for _, u := range updates {
		h.Hub.Publish(stream.Event{Kind: "updated", AlertID: u.item.ID})
	}
	Ok(c, gin.H{"updated": len(updates)}, nil)
}

// bulkEditContext preloads the bulk edit dialog: the selected alerts plus the
// link and flag values they all share.
func (h *AlertHandler) bulkEditContext(c *gin.Context) {
	ids := cleanIDList(c.Query("ids"))
	if len(ids) == 0 {
		Error(c, http.StatusBadRequest, "ids are required", nil)
		return
	}
	alerts, err := h.Repo.ListAlertsByIDs(c.Request.Context(), ids)
	if err != nil {
		h.Logger.Error("bulk edit context failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "load failed", nil)
		return
	}
	options, err := h.referenceOptions(c.Request.Context())
	if err != nil {
		h.Logger.Error("bulk edit options failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "load failed", nil)
		return
	}
	Ok(c, gin.H{
		"alerts":  alerts,
		"common":  commonAlertValues(alerts),
		"options": options,
	}, nil)
}

// referenceOptions loads every active-only option list the bulk edit dialog
// needs in one payload. Makes and models come back unfiltered; the client
// narrows them through the cascade as the user picks parents.
func (h *AlertHandler) referenceOptions(ctx context.Context) (map[string][]filterOption, error) {
	active := repository.ListRefParams{Active: boolPtr(true), Limit: 500}
	out := map[string][]filterOption{}

	sources, err := h.Repo.ListSources(ctx, active)
	if err != nil {
		return nil, err
	}
	for _, it := range sources {
		out["sources"] = append(out["sources"], filterOption{ID: it.ID, Label: it.Name})
	}
	regulations, err := h.Repo.ListRegulations(ctx, active)
	if err != nil {
		return nil, err
	}
	for _, it := range regulations {
		out["regulations"] = append(out["regulations"], filterOption{ID: it.ID, Label: it.Section})
	}
	organizations, err := h.Repo.ListOrganizations(ctx, active)
	if err != nil {
		return nil, err
	}
	for _, it := range organizations {
		out["organizations"] = append(out["organizations"], filterOption{ID: it.ID, Label: it.Name})
	}
	sites, err := h.Repo.ListSites(ctx, active)
	if err != nil {
		return nil, err
	}
	for _, it := range sites {
		out["sites"] = append(out["sites"], filterOption{ID: it.ID, Label: it.Name})
	}
	hazards, err := h.Repo.ListHazards(ctx, active)
	if err != nil {
		return nil, err
	}
	for _, it := range hazards {
		out["hazards"] = append(out["hazards"], filterOption{ID: it.ID, Label: it.Name})
	}
	plantTypes, err := h.Repo.ListPlantTypes(ctx, active)
	if err != nil {
		return nil, err
	}
	for _, it := range plantTypes {
		out["plant-types"] = append(out["plant-types"], filterOption{ID: it.ID, Label: it.Name})
	}
	plantMakes, err := h.Repo.ListPlantMakes(ctx, repository.ListPlantMakesParams{ListRefParams: active})
	if err != nil {
		return nil, err
	}
	for _, it := range plantMakes {
		out["plant-makes"] = append(out["plant-makes"], filterOption{ID: it.ID, Label: it.Name})
	}
	plantModels, err := h.Repo.ListPlantModels(ctx, repository.ListPlantModelsParams{ListRefParams: active})
	if err != nil {
		return nil, err
	}
	for _, it := range plantModels {
		out["plant-models"] = append(out["plant-models"], filterOption{ID: it.ID, Label: it.Name})
	}
	return out, nil
}

// @Summary Export alerts
// @Tags alerts
// @Param format query string true "csv, xlsx, or pdf"
// @Param filename query string false "download name without extension"
// @Router /api/alerts/export [get]
func (h *AlertHandler) export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" && format != "pdf" {
		Error(c, http.StatusBadRequest, "unsupported format", nil)
		return
	}

	alerts, err := h.exportAlerts(c.Request.Context(), alertListParams(c))
	if err != nil {
		h.Logger.Error("export load failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "export failed", nil)
		return
	}

	// Presentation-level filters run through the same table core the list UI
	// uses, so exports see exactly the visible row set.
	model := newAlertTable(alerts)
	if status := c.Query("status"); status != "" {
		model.SetFilter("status", status)
	}
	if reg := c.Query("regulation"); reg != "" {
		model.SetFilter("regulations", reg)
	}
	if haz := c.Query("hazard"); haz != "" {
		model.SetFilter("hazards", haz)
	}
	views := alertViews(model.FilteredRows())

	filename := sanitizeFilename(c.DefaultQuery("filename", "alerts"))
	cols := alertExportColumns()
	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		err = export.CSV(c.Writer, cols, views)
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		err = export.XLSX(c.Writer, "Alerts", cols, views)
	case "pdf":
		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".pdf"))
		err = export.PDF(c.Writer, "Industry Alerts", cols, views, alertPDFWidths)
	}
	if err != nil {
		h.Logger.Error("export write failed", zap.String("format", format), zap.Error(err))
	}
}

// exportPageSize matches the repository's hard limit cap.
const exportPageSize = 500

// exportAlerts pages through the repository so exports cover the whole
// filtered set instead of the first page.
func (h *AlertHandler) exportAlerts(ctx context.Context, params repository.ListAlertsParams) ([]models.Alert, error) {
	params.Limit = exportPageSize
	params.Offset = 0
	var all []models.Alert
	for {
		page, err := h.Repo.ListAlerts(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			return all, nil
		}
		params.Offset += exportPageSize
	}
}

// actor resolves the authenticated user's email for reviewed_by stamping,
// falling back to the raw user id.
func (h *AlertHandler) actor(c *gin.Context) string {
	v, ok := c.Get(auth.ContextUserID)
	if !ok {
		return ""
	}
	userID, _ := v.(string)
	if userID == "" {
		return ""
	}
	if user, err := h.Repo.GetUserByID(c.Request.Context(), userID); err == nil && user != nil {
		return user.Email
	}
	return userID
}

func applyLink(val *string, dst **string) {
	if val == nil {
		return
	}
	id := strings.TrimSpace(*val)
	if id == "" {
		*dst = nil
		return
	}
	*dst = &id
}

// associationIDs keeps the current association set when the payload omits the
// list.
func associationIDs(req *[]string, n int, idAt func(int) string) []string {
	if req != nil {
		return *req
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, idAt(i))
	}
	return out
}

func cleanIDList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "alerts"
	}
	return name
}

// commonAlertValues reports each editable link or flag whose value is shared
// by every alert in the selection.
func commonAlertValues(alerts []models.Alert) map[string]any {
	common := map[string]any{}
	if len(alerts) == 0 {
		return common
	}
	sameStr := func(get func(models.Alert) string) (string, bool) {
		first := get(alerts[0])
		for _, a := range alerts[1:] {
			if get(a) != first {
				return "", false
			}
		}
		return first, true
	}
	sameBool := func(get func(models.Alert) bool) (bool, bool) {
		first := get(alerts[0])
		for _, a := range alerts[1:] {
			if get(a) != first {
				return false, false
			}
		}
		return first, true
	}

	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	links := map[string]func(models.Alert) string{
		"source_id":       func(a models.Alert) string { return deref(a.SourceID) },
		"organization_id": func(a models.Alert) string { return deref(a.OrganizationID) },
		"site_id":         func(a models.Alert) string { return deref(a.SiteID) },
		"plant_type_id":   func(a models.Alert) string { return deref(a.PlantTypeID) },
		"plant_make_id":   func(a models.Alert) string { return deref(a.PlantMakeID) },
		"plant_model_id":  func(a models.Alert) string { return deref(a.PlantModelID) },
	}
	for key, get := range links {
		if val, ok := sameStr(get); ok {
			common[key] = val
		}
	}
	if val, ok := sameBool(func(a models.Alert) bool { return a.IsNew }); ok {
		common["is_new"] = val
	}
	if val, ok := sameBool(func(a models.Alert) bool { return a.IsReviewed }); ok {
		common["is_reviewed"] = val
	}
	return common
}
