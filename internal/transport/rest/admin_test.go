package rest

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/heartmarshall/mensa-backend/internal/domain"
	"github.com/heartmarshall/mensa-backend/pkg/ctxutil"
)

type purgerMock struct {
	expired, all int
	calls        []string
}

func (m *purgerMock) PurgeExpired(context.Context) int {
	m.calls = append(m.calls, "expired")
	return m.expired
}

func (m *purgerMock) PurgeAll(context.Context) int {
	m.calls = append(m.calls, "all")
	return m.all
}

type weekRegistryMock []domain.WeekKey

func (m weekRegistryMock) Registered() []domain.WeekKey { return m }

func adminRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(ctxutil.WithAdmin(req.Context()))
}

func TestAdminPurge(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query     string
		wantScope string
		wantCount int
	}{
		{"", "expired", 2},
		{"?scope=expired", "expired", 2},
		{"?scope=all", "all", 7},
	}

	for _, tc := range cases {
		t.Run(tc.wantScope+tc.query, func(t *testing.T) {
			t.Parallel()

			p := &purgerMock{expired: 2, all: 7}
			h := NewAdminHandler(p, weekRegistryMock{}, slog.New(slog.DiscardHandler))

			rec := httptest.NewRecorder()
			h.Purge(rec, adminRequest(http.MethodPost, "/admin/purge"+tc.query))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			resp := decodeBody[PurgeResponse](t, rec)
			if resp.Scope != tc.wantScope || resp.Removed != tc.wantCount {
				t.Errorf("response = %+v", resp)
			}
			if !slices.Equal(p.calls, []string{tc.wantScope}) {
				t.Errorf("calls = %v", p.calls)
			}
		})
	}
}

func TestAdminPurge_InvalidScope(t *testing.T) {
	t.Parallel()

	p := &purgerMock{}
	h := NewAdminHandler(p, weekRegistryMock{}, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Purge(rec, adminRequest(http.MethodPost, "/admin/purge?scope=everything"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(p.calls) != 0 {
		t.Errorf("expected no purge, got %v", p.calls)
	}
}

func TestAdminPurge_RequiresAdmin(t *testing.T) {
	t.Parallel()

	p := &purgerMock{}
	h := NewAdminHandler(p, weekRegistryMock{}, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Purge(rec, httptest.NewRequest(http.MethodPost, "/admin/purge", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if len(p.calls) != 0 {
		t.Errorf("expected no purge, got %v", p.calls)
	}
}

func TestAdminWeeks(t *testing.T) {
	t.Parallel()

	weeks := weekRegistryMock{{Year: 2023, Week: 48}, {Year: 2023, Week: 49}}
	h := NewAdminHandler(&purgerMock{}, weeks, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Weeks(rec, adminRequest(http.MethodGet, "/admin/weeks"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decodeBody[WeeksResponse](t, rec)
	if want := []string{"2023-48", "2023-49"}; !slices.Equal(resp.Weeks, want) {
		t.Errorf("weeks = %v, want %v", resp.Weeks, want)
	}
}
