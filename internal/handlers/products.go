package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/session"
)

// ProductHandler serves the catalog of the current page session.
type ProductHandler struct {
	pages *PageHandler
}

// NewProductHandler creates a new product handler
func NewProductHandler(pages *PageHandler) *ProductHandler {
	return &ProductHandler{pages: pages}
}

// List returns the catalog, optionally filtered by ?category=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}

	var category models.Category
	if c := r.URL.Query().Get("category"); c != "" {
		parsed, err := models.ParseCategory(c)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		category = parsed
	}

	products, err := sess.Products(r.Context(), category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Create adds a catalog entry.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}

	in, err := productInput(r)
	if err == nil {
		var product models.Product
		product, err = sess.AddProduct(r.Context(), in)
		if err == nil {
			if isForm(r) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			writeJSON(w, http.StatusCreated, product)
			return
		}
	}

	if isForm(r) && statusFor(err) == http.StatusBadRequest {
		h.pages.renderPanel(w, r, sess, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, r, err)
}

// Delete removes a catalog entry when the request carries confirm=true.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	deleted, err := sess.DeleteProduct(r.Context(), id, session.Answer(confirmed(r)))
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

// productBody is the JSON add-product request.
type productBody struct {
	Name        string          `json:"name"`
	Category    models.Category `json:"category"`
	Price       *float64        `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

func productInput(r *http.Request) (models.ProductInput, error) {
	var in models.ProductInput
	if !isForm(r) {
		var body productBody
		if err := decodeJSON(r, &body); err != nil {
			return in, &models.ValidationError{Field: "body", Message: err.Error()}
		}
		if body.Price == nil {
			return in, required("price")
		}
		in = models.ProductInput{
			Name:        body.Name,
			Category:    body.Category,
			Price:       *body.Price,
			Image:       body.Image,
			Description: body.Description,
		}
		return in, nil
	}

	price, err := formFloat(r, "price")
	if err != nil {
		return in, err
	}
	in = models.ProductInput{
		Name:        r.FormValue("name"),
		Category:    models.Category(r.FormValue("category")),
		Price:       price,
		Image:       r.FormValue("image"),
		Description: r.FormValue("description"),
	}
	return in, nil
}
