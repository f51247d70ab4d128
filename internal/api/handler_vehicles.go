package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/model"
)

func toVehicleDTO(v model.Vehicle) dto.Vehicle {
	return dto.Vehicle{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Make:        v.Make,
		Model:       v.Model,
		PlateNumber: v.PlateNumber,
		Color:       v.Color,
		CreatedAt:   v.CreatedAt,
	}
}

// ListVehicles handles GET /api/vehicles?owner_id=...
func (h *Handler) ListVehicles(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	vehicles, err := h.store.ListVehicles(c.Request.Context(), ownerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	responses := make([]dto.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		responses = append(responses, toVehicleDTO(v))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateVehicle handles POST /api/vehicles.
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle := model.Vehicle{
		OwnerID:     req.OwnerID,
		Make:        req.Make,
		Model:       req.Model,
		PlateNumber: req.PlateNumber,
		Color:       req.Color,
	}
	if err := h.store.CreateVehicle(c.Request.Context(), &vehicle); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVehicleDTO(vehicle))
}

// DeleteVehicle handles DELETE /api/vehicles/{id}.
func (h *Handler) DeleteVehicle(c *gin.Context) {
	if err := h.store.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
