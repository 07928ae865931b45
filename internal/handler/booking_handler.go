package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawhaus/service-boarding/internal/application"
	"github.com/pawhaus/service-boarding/internal/middleware"
)

// BookingHandler exposes the stay endpoints.
type BookingHandler struct {
	bookings *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings *application.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// RegisterRoutes mounts the stay routes on the authenticated group.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings", h.List)
	rg.GET("/bookings/:id", h.Get)
	rg.PATCH("/bookings/:id", h.Update)
	rg.DELETE("/bookings", h.DestroyAll)
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.bookings.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dto)
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid booking id")
		return
	}

	dto, err := h.bookings.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, dto)
}

// List handles GET /bookings. Owners see their own stays; staff may pass
// owner_id to scope the listing, or omit it to list everything.
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	page, limit := parsePagination(c)

	ownerID := actor.UserID
	if actor.Role.IsStaff() {
		raw := c.Query("owner_id")
		if raw == "" {
			dtos, total, err := h.bookings.ListAll(c.Request.Context(), page, limit)
			if err != nil {
				respondError(c, err)
				return
			}
			respondPaginated(c, dtos, total, page, limit)
			return
		}
		parsed, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(c, "invalid owner_id")
			return
		}
		ownerID = parsed
	}

	result, err := h.bookings.ListForOwner(c.Request.Context(), ownerID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaginated(c, result.Items, result.Total, page, limit)
}

// Update handles PATCH /bookings/:id.
func (h *BookingHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid booking id")
		return
	}

	var req application.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.bookings.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, dto)
}

type destroyBookingsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// DestroyAll handles DELETE /bookings. All listed stays are removed in a
// single transaction; one failure rolls back the whole batch.
func (h *BookingHandler) DestroyAll(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req destroyBookingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.bookings.DestroyAll(c.Request.Context(), actor, req.IDs); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, gin.H{"deleted": len(req.IDs)})
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
