package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ototansan/internal/models"
)

func TestRecordHandler_List(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRecordHandler(NewPageHandler(env.renderer))
	sess := env.signedIn(t, "user@ototansan.com", "user123")

	w := httptest.NewRecorder()
	handler.List(w, withSession(httptest.NewRequest("GET", "/api/records", nil), sess))

	assert.Equal(t, http.StatusOK, w.Code)
	var records []models.ServiceRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 2)
}

func TestRecordHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRecordHandler(NewPageHandler(env.renderer))

	t.Run("json", func(t *testing.T) {
		sess := env.signedIn(t, "user@ototansan.com", "user123")
		in := models.RecordInput{CarModel: "Suzuki Ertiga", Date: "2024-05-01", Kilometers: 30000, OilType: "Shell Helix HX8 5W-30"}
		body, _ := json.Marshal(in)

		w := httptest.NewRecorder()
		handler.Create(w, withSession(httptest.NewRequest("POST", "/api/records", bytes.NewBuffer(body)), sess))

		assert.Equal(t, http.StatusCreated, w.Code)
		var record models.ServiceRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.Equal(t, 35000, record.NextServiceKm)
		assert.Equal(t, "user-1", record.OwnerID)
		assert.Equal(t, models.ViewHistory, sess.View())
	})

	t.Run("json validation error", func(t *testing.T) {
		sess := env.signedIn(t, "user@ototansan.com", "user123")
		body, _ := json.Marshal(models.RecordInput{Date: "2024-05-01", OilType: "Oli"})

		w := httptest.NewRecorder()
		handler.Create(w, withSession(httptest.NewRequest("POST", "/api/records", bytes.NewBuffer(body)), sess))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "car_model")
	})

	t.Run("form redirects", func(t *testing.T) {
		sess := env.signedIn(t, "admin@ototansan.com", "admin123")

		w := httptest.NewRecorder()
		handler.Create(w, withSession(formRequest("POST", "/api/records", url.Values{
			"customer_name": {"Siti Aminah"},
			"car_model":     {"Daihatsu Xenia"},
			"date":          {"2024-03-10"},
			"kilometers":    {"60000"},
			"oil_type":      {"Shell Helix HX8 5W-30"},
		}), sess))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		records, err := sess.VisibleRecords(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Siti Aminah", records[0].OwnerName)
	})

	t.Run("form error re-renders panel", func(t *testing.T) {
		sess := env.signedIn(t, "user@ototansan.com", "user123")
		require.NoError(t, sess.Navigate(models.ViewAddService))

		w := httptest.NewRecorder()
		handler.Create(w, withSession(formRequest("POST", "/api/records", url.Values{
			"car_model":  {"Daihatsu Xenia"},
			"date":       {"2024-03-10"},
			"kilometers": {"banyak"},
			"oil_type":   {"Shell"},
		}), sess))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Catat Servis Baru")
		assert.Contains(t, w.Body.String(), "harus berupa angka")
	})

	t.Run("form empty kilometers", func(t *testing.T) {
		sess := env.signedIn(t, "user@ototansan.com", "user123")
		require.NoError(t, sess.Navigate(models.ViewAddService))

		w := httptest.NewRecorder()
		handler.Create(w, withSession(formRequest("POST", "/api/records", url.Values{
			"car_model":  {"Daihatsu Xenia"},
			"date":       {"2024-03-10"},
			"kilometers": {""},
			"oil_type":   {"Shell"},
		}), sess))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "wajib diisi")
		records, err := sess.VisibleRecords(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("json without kilometers", func(t *testing.T) {
		sess := env.signedIn(t, "user@ototansan.com", "user123")
		body := bytes.NewBufferString(`{"car_model":"Suzuki Ertiga","date":"2024-05-01","oil_type":"Shell Helix HX8 5W-30"}`)

		w := httptest.NewRecorder()
		handler.Create(w, withSession(httptest.NewRequest("POST", "/api/records", body), sess))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "kilometers")
		records, err := sess.VisibleRecords(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("json zero kilometers is accepted", func(t *testing.T) {
		sess := env.signedIn(t, "user@ototansan.com", "user123")
		body := bytes.NewBufferString(`{"car_model":"Suzuki Ertiga","date":"2024-05-01","kilometers":0,"oil_type":"Shell"}`)

		w := httptest.NewRecorder()
		handler.Create(w, withSession(httptest.NewRequest("POST", "/api/records", body), sess))

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestRecordHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRecordHandler(NewPageHandler(env.renderer))

	tests := []struct {
		name    string
		target  string
		deleted bool
		left    int
	}{
		{"without confirmation", "/api/records/1", false, 2},
		{"declined", "/api/records/1?confirm=false", false, 2},
		{"confirmed", "/api/records/1?confirm=true", true, 1},
		{"unknown id", "/api/records/nope?confirm=true", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := env.signedIn(t, "user@ototansan.com", "user123")
			req := httptest.NewRequest("DELETE", tt.target, nil)
			id := "1"
			if tt.name == "unknown id" {
				id = "nope"
			}
			req = mux.SetURLVars(req, map[string]string{"id": id})

			w := httptest.NewRecorder()
			handler.Delete(w, withSession(req, sess))

			assert.Equal(t, http.StatusOK, w.Code)
			var resp map[string]bool
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.deleted, resp["deleted"])

			records, err := sess.VisibleRecords(context.Background())
			require.NoError(t, err)
			assert.Len(t, records, tt.left)
		})
	}
}

func TestRecordHandler_Print(t *testing.T) {
	env := newTestEnv(t)
	handler := NewRecordHandler(NewPageHandler(env.renderer))

	t.Run("json", func(t *testing.T) {
		sess := env.signedIn(t, "user@ototansan.com", "user123")
		req := mux.SetURLVars(httptest.NewRequest("POST", "/api/records/2/print", nil), map[string]string{"id": "2"})

		w := httptest.NewRecorder()
		handler.Print(w, withSession(req, sess))

		assert.Equal(t, http.StatusAccepted, w.Code)
		staged, ok := sess.StagedRecord()
		require.True(t, ok)
		assert.Equal(t, "Honda CR-V Turbo", staged.CarModel)
	})

	t.Run("form redirects to print view", func(t *testing.T) {
		sess := env.signedIn(t, "admin@ototansan.com", "admin123")
		req := mux.SetURLVars(formRequest("POST", "/api/records/1/print", url.Values{}), map[string]string{"id": "1"})

		w := httptest.NewRecorder()
		handler.Print(w, withSession(req, sess))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/print", w.Header().Get("Location"))
	})

	t.Run("unknown record", func(t *testing.T) {
		sess := env.signedIn(t, "user@ototansan.com", "user123")
		req := mux.SetURLVars(httptest.NewRequest("POST", "/api/records/x/print", nil), map[string]string{"id": "x"})

		w := httptest.NewRecorder()
		handler.Print(w, withSession(req, sess))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
