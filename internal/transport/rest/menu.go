package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/mensa-backend/internal/domain"
	"github.com/heartmarshall/mensa-backend/internal/service/menu"
)

// DateLayout is the layout of the date query parameter.
const DateLayout = "2006-01-02"

type menuService interface {
	FilterEntries(ctx context.Context, date time.Time, filter domain.MenuFilter) ([]domain.MenuEntry, error)
	ArchivedEntries(ctx context.Context, date time.Time) ([]domain.MenuEntry, error)
	Catalog() menu.Catalog
}

// MenuHandler serves the public menu endpoints.
type MenuHandler struct {
	svc menuService
	log *slog.Logger
	now func() time.Time
}

// NewMenuHandler creates a MenuHandler.
func NewMenuHandler(svc menuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		svc: svc,
		log: logger.With("handler", "menu"),
		now: time.Now,
	}
}

// MenuEntryDTO is the JSON form of a menu entry.
type MenuEntryDTO struct {
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	Name          string    `json:"name"`
	Additives     []string  `json:"additives"`
	Allergens     []string  `json:"allergens"`
	Tags          []string  `json:"tags"`
	Prices        PricesDTO `json:"prices"`
	ServedOn      string    `json:"served_on"`
}

// PricesDTO holds the three price tiers as fixed two-decimal strings.
type PricesDTO struct {
	Student string `json:"student"`
	Staff   string `json:"staff"`
	Guest   string `json:"guest"`
}

// MenuResponse is the body of GET /api/v1/menu and /api/v1/archive.
type MenuResponse struct {
	Date    string         `json:"date"`
	Entries []MenuEntryDTO `json:"entries"`
}

// Menu returns the entries for a date, minus any excluded codes.
// GET /api/v1/menu?date=2023-12-01&exclude_allergens=C,G&exclude_additives=3&exclude_tags=S
func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter, err := domain.ParseMenuFilter(
		listParam(q["exclude_additives"]),
		listParam(q["exclude_allergens"]),
		listParam(q["exclude_tags"]),
	)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	entries, err := h.svc.FilterEntries(r.Context(), date, filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewMenuResponse(date, entries))
}

// Archive returns archived entries for a date.
// GET /api/v1/archive?date=2023-12-01
func (h *MenuHandler) Archive(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.ArchivedEntries(r.Context(), date)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewMenuResponse(date, entries))
}

// Catalog lists every additive, allergen, tag and category.
// GET /api/v1/catalog
func (h *MenuHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Catalog())
}

// parseDate reads the date parameter, defaulting to today.
func (h *MenuHandler) parseDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return domain.DateOf(h.now()), true
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "invalid date",
			Fields: map[string]string{"date": "expected YYYY-MM-DD"},
		})
		return time.Time{}, false
	}
	return date, true
}

func (h *MenuHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		fields := make(map[string]string, len(ve.Errors))
		for _, fe := range ve.Errors {
			if prev, ok := fields[fe.Field]; ok {
				fields[fe.Field] = prev + "; " + fe.Message
			} else {
				fields[fe.Field] = fe.Message
			}
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid filter", Fields: fields})
	case errors.Is(err, menu.ErrFetchFailed):
		h.log.WarnContext(r.Context(), "menu source fetch failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "menu source unreachable")
	case errors.Is(err, menu.ErrSourceUnavailable):
		writeError(w, http.StatusNotFound, "no menu published for this date")
	case errors.Is(err, menu.ErrSourceFormat):
		writeError(w, http.StatusBadGateway, "menu source is malformed")
	case errors.Is(err, menu.ErrArchiveDisabled):
		writeError(w, http.StatusNotImplemented, "archive not configured")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.log.ErrorContext(r.Context(), "menu request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// listParam flattens repeated and comma-separated query values.
func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// NewMenuResponse converts entries for date into their JSON form.
func NewMenuResponse(date time.Time, entries []domain.MenuEntry) MenuResponse {
	dtos := make([]MenuEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toMenuEntryDTO(e))
	}
	return MenuResponse{Date: date.Format(DateLayout), Entries: dtos}
}

func toMenuEntryDTO(e domain.MenuEntry) MenuEntryDTO {
	return MenuEntryDTO{
		Category:      e.Category().String(),
		CategoryLabel: e.Category().Label(),
		Name:          e.Name(),
		Additives:     toStrings(e.Additives()),
		Allergens:     toStrings(e.Allergens()),
		Tags:          toStrings(e.Tags()),
		Prices: PricesDTO{
			Student: e.StudentPrice().StringFixed(2),
			Staff:   e.StaffPrice().StringFixed(2),
			Guest:   e.GuestPrice().StringFixed(2),
		},
		ServedOn: e.ServedOn().Format(DateLayout),
	}
}

func toStrings[T ~string](codes []T) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
