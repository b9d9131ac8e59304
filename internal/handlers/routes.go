package handlers

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/workshop-maintenance/internal/middleware"
	"github.com/ukydev/workshop-maintenance/internal/models"
)

// RouterConfig wires handlers and middleware into one http.Handler.
type RouterConfig struct {
	Auth            *AuthHandler
	Maintenance     *MaintenanceHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimiter     *middleware.RateLimitMiddleware
	RateLimitMax    int
	RateLimitWindow time.Duration
	Logger          log.FieldLogger
}

// NewRouter registers every route. Requests are logged, rate limited when a
// limiter is set, and authenticated before the per-route permission check.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	allow := func(action string, h http.HandlerFunc) http.Handler {
		return cfg.AuthMiddleware.RequirePermission(action)(h)
	}
	m := cfg.Maintenance

	mux.HandleFunc("GET /health", Health)

	mux.HandleFunc("POST /api/auth/login", cfg.Auth.Login)
	mux.HandleFunc("POST /api/auth/register", cfg.Auth.Register)
	mux.HandleFunc("GET /api/auth/profile", cfg.Auth.GetProfile)
	mux.HandleFunc("PUT /api/auth/profile", cfg.Auth.UpdateProfile)
	mux.HandleFunc("POST /api/auth/change-password", cfg.Auth.ChangePassword)
	mux.Handle("GET /api/users", allow(models.ActionManageUsers, cfg.Auth.ListUsers))
	mux.Handle("DELETE /api/users/{id}", allow(models.ActionManageUsers, cfg.Auth.DeleteUser))

	const (
		workshop  = "/api/workshops/{id}"
		equipment = workshop + "/equipment/{eid}"
		task      = equipment + "/tasks/{tid}"
	)
	mux.Handle("GET /api/workshops", allow(models.ActionViewWorkshops, m.ListWorkshops))
	mux.Handle("POST /api/workshops", allow(models.ActionManageWorkshops, m.CreateWorkshop))
	mux.Handle("PUT "+workshop, allow(models.ActionManageWorkshops, m.RenameWorkshop))
	mux.Handle("DELETE "+workshop, allow(models.ActionManageWorkshops, m.DeleteWorkshop))

	mux.Handle("GET "+workshop+"/equipment", allow(models.ActionViewWorkshops, m.ListEquipment))
	mux.Handle("POST "+workshop+"/equipment", allow(models.ActionManageWorkshops, m.AddEquipment))
	mux.Handle("PUT "+equipment, allow(models.ActionManageWorkshops, m.RenameEquipment))
	mux.Handle("DELETE "+equipment, allow(models.ActionManageWorkshops, m.DeleteEquipment))

	mux.Handle("GET "+equipment+"/tasks", allow(models.ActionViewWorkshops, m.ListTasks))
	mux.Handle("POST "+equipment+"/tasks", allow(models.ActionManageWorkshops, m.AddTask))
	mux.Handle("PUT "+task, allow(models.ActionManageWorkshops, m.EditTask))
	mux.Handle("DELETE "+task, allow(models.ActionManageWorkshops, m.DeleteTask))
	mux.Handle("POST "+task+"/complete", allow(models.ActionCompleteTask, m.CompleteTask))
	mux.Handle("GET "+task+"/history", allow(models.ActionViewHistory, m.TaskHistory))

	mux.Handle("GET /api/history", allow(models.ActionViewHistory, m.History))
	mux.Handle("GET /api/history/export", allow(models.ActionExportHistory, m.ExportHistory))
	mux.Handle("PATCH /api/history/{id}", allow(models.ActionEditHistory, m.EditHistory))
	mux.Handle("GET /api/analytics", allow(models.ActionViewHistory, m.Analytics))
	mux.Handle("GET /api/notifications", allow(models.ActionViewWorkshops, m.Notifications))
	mux.Handle("POST /api/notifications/publish", allow(models.ActionPublishNotifications, m.PublishNotifications))

	var h http.Handler = cfg.AuthMiddleware.Authenticate(mux)
	if cfg.RateLimiter != nil {
		h = cfg.RateLimiter.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow)(h)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return middleware.RequestLogger(logger)(h)
}
