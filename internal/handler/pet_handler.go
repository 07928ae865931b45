package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawhaus/service-boarding/internal/application"
	"github.com/pawhaus/service-boarding/internal/middleware"
)

// PetHandler exposes the pet profile endpoints.
type PetHandler struct {
	pets *application.PetService
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(pets *application.PetService) *PetHandler {
	return &PetHandler{pets: pets}
}

// RegisterRoutes mounts the pet routes on the authenticated group.
func (h *PetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/pets", h.Create)
	rg.GET("/pets", h.List)
	rg.GET("/pets/:id", h.Get)
	rg.PATCH("/pets/:id", h.Update)
	rg.DELETE("/pets/:id", h.Destroy)
}

// Create handles POST /pets.
func (h *PetHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req application.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.pets.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dto)
}

// List handles GET /pets. Owners see their own pets; staff may pass
// owner_id to inspect another owner's pets.
func (h *PetHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	ownerID := actor.UserID
	if actor.Role.IsStaff() {
		if raw := c.Query("owner_id"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				respondBadRequest(c, "invalid owner_id")
				return
			}
			ownerID = parsed
		}
	}

	dtos, err := h.pets.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, dtos)
}

// Get handles GET /pets/:id.
func (h *PetHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid pet id")
		return
	}

	dto, err := h.pets.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, dto)
}

// Update handles PATCH /pets/:id.
func (h *PetHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid pet id")
		return
	}

	var req application.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.pets.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, dto)
}

// Destroy handles DELETE /pets/:id. A pet that still has stays on file
// cannot be removed.
func (h *PetHandler) Destroy(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid pet id")
		return
	}

	if err := h.pets.Destroy(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, gin.H{"deleted": id})
}
