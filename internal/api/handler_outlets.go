package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/model"
)

func toOutletDTO(o model.Outlet) dto.Outlet {
	prices := make(map[string]int64, len(o.Prices))
	for _, p := range o.Prices {
		prices[p.WashType] = p.Amount
	}
	return dto.Outlet{ID: o.ID, Name: o.Name, Address: o.Address, Prices: prices}
}

// ListOutlets handles the GET /api/outlets request.
func (h *Handler) ListOutlets(c *gin.Context) {
	outlets, err := h.store.ListOutlets(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	responses := make([]dto.Outlet, 0, len(outlets))
	for _, o := range outlets {
		responses = append(responses, toOutletDTO(o))
	}
	c.JSON(http.StatusOK, responses)
}

// GetOutlet handles the GET /api/outlets/{id} request.
func (h *Handler) GetOutlet(c *gin.Context) {
	outlet, err := h.store.GetOutlet(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOutletDTO(*outlet))
}
