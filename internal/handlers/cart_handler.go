package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openmenu/storefront/internal/catalog"
	"github.com/openmenu/storefront/internal/middleware"
	"github.com/openmenu/storefront/internal/session"
)

// CartHandler mutates the session cart. Product lookups go through the
// catalog mirror; the cart itself never talks to the network.
type CartHandler struct {
	loader *catalog.Loader
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(loader *catalog.Loader, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		loader: loader,
		logger: logger,
	}
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newCartView(sess.Cart))
}

// AddItem handles POST /api/cart/items. Unknown products get 404; inactive
// products are rejected with 409 and the cart is untouched.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, found := h.loader.Product(req.ProductID)
	if !found {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if !sess.Cart.Add(product) {
		writeErrorCode(w, http.StatusConflict, "product_inactive", "Product is not available")
		return
	}

	h.logger.Debug("cart item added", "session_id", sess.ID, "product_id", product.ID)
	writeJSON(w, http.StatusOK, newCartView(sess.Cart))
}

// RemoveItem handles DELETE /api/cart/items/{productId}: decrements by one,
// removing the line at zero.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}

	sess.Cart.Remove(productID)
	writeJSON(w, http.StatusOK, newCartView(sess.Cart))
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Cart.Clear()
	writeJSON(w, http.StatusOK, newCartView(sess.Cart))
}

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := middleware.SessionFrom(r.Context())
	if sess == nil {
		h.logger.Error("request reached cart handler without a session")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return sess, true
}
