package handlers

import (
	"log/slog"
	"net/http"

	"github.com/openmenu/storefront/internal/catalog"
	"github.com/openmenu/storefront/internal/middleware"
	"github.com/openmenu/storefront/internal/models"
)

// MenuHandler serves the menu page data: restaurant, products and the
// session's cart in one payload.
type MenuHandler struct {
	loader      *catalog.Loader
	countryCode string
	logger      *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(loader *catalog.Loader, countryCode string, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		loader:      loader,
		countryCode: countryCode,
		logger:      logger,
	}
}

type menuResponse struct {
	Restaurant restaurantView   `json:"restaurant"`
	Products   []models.Product `json:"products"`
	Cart       cartView         `json:"cart"`
}

// Get handles GET /api/menu. A catalog in blocking-error state yields 503
// so the UI can render the retry screen.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, products, loadErr := h.loader.Snapshot()
	if restaurant == nil {
		if loadErr != nil {
			h.logger.Error("menu unavailable", "error", loadErr)
		}
		writeErrorCode(w, http.StatusServiceUnavailable, "catalog_unavailable",
			"Could not load the restaurant. Try again.")
		return
	}

	sess := middleware.SessionFrom(r.Context())
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, menuResponse{
		Restaurant: newRestaurantView(*restaurant, h.countryCode),
		Products:   products,
		Cart:       newCartView(sess.Cart),
	})
}

// Refresh handles POST /api/menu/refresh: the manual retry for a failed
// catalog load.
func (h *MenuHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.loader.Load(r.Context()); err != nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "catalog_unavailable",
			"Could not load the restaurant. Try again.")
		return
	}
	h.Get(w, r)
}
