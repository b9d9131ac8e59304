package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/export"
	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/notify"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
	"github.com/ukydev/workshop-maintenance/internal/tracker"
)

// MaintenanceHandler serves workshops, tasks, history and notifications.
type MaintenanceHandler struct {
	service *tracker.Service
	digest  *notify.Digest
}

// NewMaintenanceHandler creates a maintenance handler. digest may be nil
// when publishing is disabled.
func NewMaintenanceHandler(service *tracker.Service, digest *notify.Digest) *MaintenanceHandler {
	return &MaintenanceHandler{service: service, digest: digest}
}

type nameRequest struct {
	Name string `json:"name"`
}

type taskRequest struct {
	Name                string `json:"name"`
	MaintenanceInterval int    `json:"maintenance_interval"`
	IntervalUnit        string `json:"interval_unit"`
	LastMaintenanceDate string `json:"last_maintenance_date"`
}

type dateRequest struct {
	Date string `json:"date"`
}

type historyEditRequest struct {
	MaintenanceDate string `json:"maintenance_date"`
}

// parseUnit accepts singular and plural unit names.
func parseUnit(s string) (models.IntervalUnit, error) {
	unit, ok := models.ParseIntervalUnit(s)
	if !ok {
		return "", tracker.ErrInvalidUnit
	}
	return unit, nil
}

// parseOptionalDate returns the zero time for an empty string.
func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return schedule.ParseDate(s)
}

// historyQuery reads ?sort= and ?dir=, defaulting to newest first.
func historyQuery(r *http.Request) (tracker.HistoryQuery, error) {
	q := tracker.DefaultHistoryQuery
	if s := r.URL.Query().Get("sort"); s != "" {
		key, ok := schedule.ParseHistorySortKey(s)
		if !ok {
			return q, fmt.Errorf("unknown sort key %q", s)
		}
		q.SortKey = key
	}
	q.Direction = schedule.ParseDirection(r.URL.Query().Get("dir"), q.Direction)
	return q, nil
}

// ListWorkshops handles GET /api/workshops
func (h *MaintenanceHandler) ListWorkshops(w http.ResponseWriter, r *http.Request) {
	workshops, err := h.service.ListWorkshops(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workshops)
}

// CreateWorkshop handles POST /api/workshops
func (h *MaintenanceHandler) CreateWorkshop(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	workshop, err := h.service.CreateWorkshop(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workshop)
}

// RenameWorkshop handles PUT /api/workshops/{id}
func (h *MaintenanceHandler) RenameWorkshop(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	workshop, err := h.service.RenameWorkshop(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workshop)
}

// DeleteWorkshop handles DELETE /api/workshops/{id}
func (h *MaintenanceHandler) DeleteWorkshop(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteWorkshop(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEquipment handles GET /api/workshops/{id}/equipment?sort=date|name&dir=asc|desc
func (h *MaintenanceHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	key := schedule.EquipmentByDate
	switch s := r.URL.Query().Get("sort"); s {
	case "", string(schedule.EquipmentByDate):
	case string(schedule.EquipmentByName):
		key = schedule.EquipmentByName
	default:
		http.Error(w, fmt.Sprintf("unknown sort key %q", s), http.StatusBadRequest)
		return
	}
	dir := schedule.ParseDirection(r.URL.Query().Get("dir"), schedule.Ascending)

	views, err := h.service.SortedEquipment(r.Context(), r.PathValue("id"), key, dir)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// AddEquipment handles POST /api/workshops/{id}/equipment
func (h *MaintenanceHandler) AddEquipment(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	eq, err := h.service.AddEquipment(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, eq)
}

// RenameEquipment handles PUT /api/workshops/{id}/equipment/{eid}
func (h *MaintenanceHandler) RenameEquipment(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	eq, err := h.service.RenameEquipment(r.Context(), r.PathValue("id"), r.PathValue("eid"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

// DeleteEquipment handles DELETE /api/workshops/{id}/equipment/{eid}
func (h *MaintenanceHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEquipment(r.Context(), r.PathValue("id"), r.PathValue("eid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTasks handles GET /api/workshops/{id}/equipment/{eid}/tasks
func (h *MaintenanceHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.TaskStatuses(r.Context(), r.PathValue("id"), r.PathValue("eid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// AddTask handles POST /api/workshops/{id}/equipment/{eid}/tasks
func (h *MaintenanceHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	unit, err := parseUnit(req.IntervalUnit)
	if err != nil {
		writeError(w, err)
		return
	}
	last, err := schedule.ParseDate(req.LastMaintenanceDate)
	if err != nil {
		writeError(w, err)
		return
	}
	task, err := h.service.AddTask(r.Context(), r.PathValue("id"), r.PathValue("eid"), tracker.TaskInput{
		Name:                req.Name,
		MaintenanceInterval: req.MaintenanceInterval,
		IntervalUnit:        unit,
		LastMaintenanceDate: last,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// EditTask handles PUT /api/workshops/{id}/equipment/{eid}/tasks/{tid}
func (h *MaintenanceHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	unit, err := parseUnit(req.IntervalUnit)
	if err != nil {
		writeError(w, err)
		return
	}
	task, err := h.service.EditTask(r.Context(), r.PathValue("id"), r.PathValue("eid"), r.PathValue("tid"), tracker.TaskEdit{
		Name:                req.Name,
		MaintenanceInterval: req.MaintenanceInterval,
		IntervalUnit:        unit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/workshops/{id}/equipment/{eid}/tasks/{tid}
func (h *MaintenanceHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTask(r.Context(), r.PathValue("id"), r.PathValue("eid"), r.PathValue("tid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteTask handles POST /api/workshops/{id}/equipment/{eid}/tasks/{tid}/complete.
// An empty body or date completes the task today.
func (h *MaintenanceHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	entry, err := h.service.CompleteTask(r.Context(), r.PathValue("id"), r.PathValue("eid"), r.PathValue("tid"), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// TaskHistory handles GET /api/workshops/{id}/equipment/{eid}/tasks/{tid}/history
func (h *MaintenanceHandler) TaskHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.TaskHistory(r.Context(), r.PathValue("id"), r.PathValue("eid"), r.PathValue("tid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// History handles GET /api/history?sort=&dir=
func (h *MaintenanceHandler) History(w http.ResponseWriter, r *http.Request) {
	q, err := historyQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entries, err := h.service.History(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// EditHistory handles PATCH /api/history/{id}
func (h *MaintenanceHandler) EditHistory(w http.ResponseWriter, r *http.Request) {
	var req historyEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := schedule.ParseDate(req.MaintenanceDate)
	if err != nil {
		writeError(w, err)
		return
	}
	entry, err := h.service.EditHistoryDate(r.Context(), r.PathValue("id"), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ExportHistory handles GET /api/history/export?format=xlsx|pdf&sort=&dir=
func (h *MaintenanceHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q, err := historyQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entries, err := h.service.History(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}

	labels := h.service.Labels()
	var buf bytes.Buffer
	if format == export.FormatPDF {
		err = export.WritePDF(&buf, entries, labels)
	} else {
		err = export.WriteXLSX(&buf, entries, labels)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(labels, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Analytics handles GET /api/analytics?workshopSort=value|name
func (h *MaintenanceHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	sortBy := schedule.WorkshopSort(r.URL.Query().Get("workshopSort"))
	a, err := h.service.Analytics(r.Context(), sortBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Notifications handles GET /api/notifications
func (h *MaintenanceHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Notifications(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// PublishNotifications handles POST /api/notifications/publish
func (h *MaintenanceHandler) PublishNotifications(w http.ResponseWriter, r *http.Request) {
	if h.digest == nil {
		http.Error(w, "Notification publishing is not configured", http.StatusServiceUnavailable)
		return
	}
	msg, err := h.digest.Run(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
