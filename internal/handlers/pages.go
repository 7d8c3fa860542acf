package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/render"
	"github.com/ukydev/ototansan/internal/session"
)

// PageHandler serves the HTML panels and the print view.
type PageHandler struct {
	renderer *render.Renderer
}

// NewPageHandler creates a new page handler
func NewPageHandler(renderer *render.Renderer) *PageHandler {
	return &PageHandler{renderer: renderer}
}

// Panel renders the current panel. A ?view= parameter navigates first.
func (h *PageHandler) Panel(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}

	status, errMsg := http.StatusOK, ""
	if v := r.URL.Query().Get("view"); v != "" {
		view, err := models.ParseView(v)
		if err == nil {
			err = sess.Navigate(view)
		}
		if err != nil {
			status, errMsg = http.StatusBadRequest, "Halaman tidak tersedia"
			if errors.Is(err, session.ErrForbidden) {
				status = http.StatusForbidden
			}
		}
	}

	h.renderPanel(w, r, sess, status, errMsg)
}

// Print renders the staged service card.
func (h *PageHandler) Print(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}

	record, ok := sess.StagedRecord()
	if !ok {
		http.Error(w, "No record staged for printing", http.StatusNotFound)
		return
	}
	if err := h.renderer.PrintCard(w, *record, sess.Locale()); err != nil {
		log.WithError(err).Error("Failed to render service card")
	}
}

// renderPanel draws the session's current panel with an optional error.
func (h *PageHandler) renderPanel(w http.ResponseWriter, r *http.Request, sess *session.Session, status int, errMsg string) {
	user := sess.CurrentUser()
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := render.PageData{
		User:   user,
		View:   sess.View(),
		Locale: sess.Locale(),
		Error:  errMsg,
	}

	var err error
	data.Title, data.Data, err = panelData(r.Context(), sess, user, data.View)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.renderer.Panel(w, status, data); err != nil {
		log.WithError(err).WithField("view", data.View).Error("Failed to render panel")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func panelData(ctx context.Context, sess *session.Session, user *models.User, view models.View) (string, any, error) {
	switch view {
	case models.ViewHistory:
		records, err := sess.VisibleRecords(ctx)
		if err != nil {
			return "", nil, err
		}
		return "Riwayat Servis", render.HistoryData{Records: records, IsAdmin: user.IsAdmin()}, nil
	case models.ViewAddService:
		oils, err := sess.OilProducts(ctx)
		if err != nil {
			return "", nil, err
		}
		return "Catat Servis", render.AddServiceData{
			OilProducts: oils,
			IsAdmin:     user.IsAdmin(),
			Today:       time.Now().Format(models.DateLayout),
		}, nil
	case models.ViewProducts:
		products, err := sess.Products(ctx, "")
		if err != nil {
			return "", nil, err
		}
		return "Produk & Layanan", render.ProductsData{
			Products:  products,
			CanManage: user.HasPermission(models.ActionManageProducts),
		}, nil
	case models.ViewAddProduct:
		return "Tambah Produk", render.AddProductData{Categories: models.Categories}, nil
	default:
		dash, err := sess.Dashboard(ctx)
		if err != nil {
			return "", nil, err
		}
		return "Beranda", dash, nil
	}
}
