package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/mensa-backend/internal/domain"
	"github.com/heartmarshall/mensa-backend/pkg/ctxutil"
)

type purger interface {
	PurgeExpired(ctx context.Context) int
	PurgeAll(ctx context.Context) int
}

type weekRegistry interface {
	Registered() []domain.WeekKey
}

// AdminHandler serves admin REST endpoints. Routes must be mounted behind
// middleware.AdminToken.
type AdminHandler struct {
	purger purger
	weeks  weekRegistry
	log    *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(purger purger, weeks weekRegistry, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		purger: purger,
		weeks:  weeks,
		log:    logger.With("handler", "admin"),
	}
}

// PurgeResponse reports how many source files were removed.
type PurgeResponse struct {
	Scope   string `json:"scope"`
	Removed int    `json:"removed"`
}

// Purge removes cached source files.
// POST /admin/purge?scope=expired|all
func (h *AdminHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	scope := r.URL.Query().Get("scope")
	var removed int
	switch scope {
	case "", "expired":
		scope = "expired"
		removed = h.purger.PurgeExpired(r.Context())
	case "all":
		removed = h.purger.PurgeAll(r.Context())
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "invalid scope",
			Fields: map[string]string{"scope": "expected expired or all"},
		})
		return
	}

	h.log.InfoContext(r.Context(), "purge requested", slog.String("scope", scope), slog.Int("removed", removed))
	writeJSON(w, http.StatusOK, PurgeResponse{Scope: scope, Removed: removed})
}

// WeeksResponse lists the weeks whose source files are held locally.
type WeeksResponse struct {
	Weeks []string `json:"weeks"`
}

// Weeks lists locally held weeks.
// GET /admin/weeks
func (h *AdminHandler) Weeks(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	keys := h.weeks.Registered()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	writeJSON(w, http.StatusOK, WeeksResponse{Weeks: out})
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !ctxutil.IsAdminCtx(r.Context()) {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}
