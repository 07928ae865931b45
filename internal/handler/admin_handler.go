package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pawhaus/service-boarding/internal/application"
)

// AdminHandler exposes admin-only reporting endpoints.
type AdminHandler struct {
	bookings *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService) *AdminHandler {
	return &AdminHandler{bookings: bookings}
}

// RegisterRoutes mounts the admin routes on an admin-guarded group.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListAll)
	rg.GET("/stats", h.Stats)
}

// ListAll handles GET /admin/bookings.
func (h *AdminHandler) ListAll(c *gin.Context) {
	page, limit := parsePagination(c)

	dtos, total, err := h.bookings.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaginated(c, dtos, total, page, limit)
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.bookings.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, stats)
}
