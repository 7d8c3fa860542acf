package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/session"
)

// RecordHandler serves service records of the current page session.
type RecordHandler struct {
	pages *PageHandler
}

// NewRecordHandler creates a new record handler. Form submissions that fail
// are answered by re-rendering the panel through pages.
func NewRecordHandler(pages *PageHandler) *RecordHandler {
	return &RecordHandler{pages: pages}
}

// List returns the records visible to the current user.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}
	records, err := sess.VisibleRecords(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Create logs a new service visit.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}

	in, err := recordInput(r)
	if err == nil {
		var record models.ServiceRecord
		record, err = sess.AddRecord(r.Context(), in)
		if err == nil {
			if isForm(r) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			writeJSON(w, http.StatusCreated, record)
			return
		}
	}

	if isForm(r) && statusFor(err) == http.StatusBadRequest {
		h.pages.renderPanel(w, r, sess, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, r, err)
}

// Delete removes a record when the request carries confirm=true.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	deleted, err := sess.DeleteRecord(r.Context(), id, session.Answer(confirmed(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if isForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// Print stages a record for the print view and schedules the printer.
func (h *RecordHandler) Print(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if _, err := sess.PrintRecord(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	if isForm(r) {
		http.Redirect(w, r, "/print", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "printing", "record_id": id})
}

// recordBody is the JSON add-service request. Kilometers is required, so a
// missing value is kept apart from zero.
type recordBody struct {
	CustomerName string `json:"customer_name"`
	CarModel     string `json:"car_model"`
	Date         string `json:"date"`
	Kilometers   *int   `json:"kilometers"`
	OilType      string `json:"oil_type"`
	Notes        string `json:"notes"`
}

func recordInput(r *http.Request) (models.RecordInput, error) {
	var in models.RecordInput
	if !isForm(r) {
		var body recordBody
		if err := decodeJSON(r, &body); err != nil {
			return in, &models.ValidationError{Field: "body", Message: err.Error()}
		}
		if body.Kilometers == nil {
			return in, required("kilometers")
		}
		in = models.RecordInput{
			CustomerName: body.CustomerName,
			CarModel:     body.CarModel,
			Date:         body.Date,
			Kilometers:   *body.Kilometers,
			OilType:      body.OilType,
			Notes:        body.Notes,
		}
		return in, nil
	}

	km, err := formInt(r, "kilometers")
	if err != nil {
		return in, err
	}
	in = models.RecordInput{
		CustomerName: r.FormValue("customer_name"),
		CarModel:     r.FormValue("car_model"),
		Date:         strings.TrimSpace(r.FormValue("date")),
		Kilometers:   km,
		OilType:      r.FormValue("oil_type"),
		Notes:        r.FormValue("notes"),
	}
	return in, nil
}
