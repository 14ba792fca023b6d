package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/middleware"
)

type mockFirmLookup struct {
	validKeys map[string]string
	calls     int
}

func (m *mockFirmLookup) GetFirmByAPIKey(_ context.Context, apiKey string) (string, error) {
	m.calls++
	if id, ok := m.validKeys[apiKey]; ok {
		return id, nil
	}
	return "", errors.New("invalid key")
}

func TestAuthMiddleware(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	lookup := &mockFirmLookup{validKeys: map[string]string{"good-key": "firm-1"}}

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{"valid token", "Bearer good-key", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-key", http.StatusUnauthorized},
		{"no bearer prefix", "good-key", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.AuthMiddleware(lookup, log))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("got %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}

func TestAuthMiddleware_SetsFirmAndActor(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	lookup := &mockFirmLookup{validKeys: map[string]string{"k1": "firm-1"}}

	var gotFirm, gotActor string
	r := gin.New()
	r.Use(middleware.AuthMiddleware(lookup, log))
	r.GET("/test", func(c *gin.Context) {
		gotFirm = c.GetString(middleware.FirmIDKey)
		gotActor = c.GetString(middleware.ActorIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer k1")
	req.Header.Set("X-Actor-Id", "solicitor-7")
	r.ServeHTTP(w, req)

	if gotFirm != "firm-1" {
		t.Fatalf("firm_id = %q, want firm-1", gotFirm)
	}
	if gotActor != "solicitor-7" {
		t.Fatalf("actor_id = %q, want solicitor-7", gotActor)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"abc123", ""},
		{"", ""},
		{"Bearer ", ""},
		{"bearer abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			got := middleware.ExtractBearerToken(c)
			if got != tt.want {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestCachedFirmLookupCollapsesQueries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inner := &mockFirmLookup{validKeys: map[string]string{"k1": "firm-1"}}
	cached := middleware.NewCachedFirmLookup(ctx, inner)

	for range 5 {
		firmID, err := cached.GetFirmByAPIKey(ctx, "k1")
		if err != nil {
			t.Fatalf("GetFirmByAPIKey: %v", err)
		}
		if firmID != "firm-1" {
			t.Fatalf("firmID = %q", firmID)
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner lookup called %d times, want 1", inner.calls)
	}
}

func TestCachedFirmLookupNegativeCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inner := &mockFirmLookup{validKeys: map[string]string{}}
	cached := middleware.NewCachedFirmLookup(ctx, inner)

	for range 3 {
		if _, err := cached.GetFirmByAPIKey(ctx, "bad-key"); err == nil {
			t.Fatal("expected error for unknown key")
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner lookup called %d times for a cached failure, want 1", inner.calls)
	}
}
