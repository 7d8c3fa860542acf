package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ototansan/internal/config"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/printer"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "test",
		JWTExpiry:       time.Hour,
		Locale:          "id-ID",
		RateLimitMax:    100,
		RateLimitWindow: time.Minute,
		SessionIdle:     time.Hour,
		SessionSweep:    time.Minute,
	}
}

func TestNewPrinter_WithoutBroker(t *testing.T) {
	p, closePrinter, err := newPrinter(testConfig())
	require.NoError(t, err)
	assert.IsType(t, printer.LogPrinter{}, p)
	closePrinter()
}

func TestNewHandler_Health(t *testing.T) {
	handler, err := newHandler(testContext(t), testConfig(), printer.LogPrinter{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestNewHandler_LoginAndList(t *testing.T) {
	handler, err := newHandler(testContext(t), testConfig(), printer.LogPrinter{})
	require.NoError(t, err)

	body, _ := json.Marshal(models.LoginRequest{Email: "admin@ototansan.com", Password: "admin123"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var records []models.ServiceRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 2)
}

func TestNewHandler_PageRequiresLogin(t *testing.T) {
	handler, err := newHandler(testContext(t), testConfig(), printer.LogPrinter{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

// testContext mirrors testing.T.Context (Go 1.24+): a context canceled when
// the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
