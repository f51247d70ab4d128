package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/booking"
	"carwash-backend/internal/model"
	"carwash-backend/internal/parse"
	"carwash-backend/internal/status"
	"carwash-backend/internal/store"
)

// toWashRequestDTO renders a request. The scheduled date is a calendar day in
// the server timezone, whatever zone the driver scans it back in.
func (h *Handler) toWashRequestDTO(wr model.WashRequest) dto.WashRequest {
	history := make([]status.Event, 0, len(wr.Events))
	for _, ev := range wr.Events {
		history = append(history, status.Event{Status: status.Status(ev.Status), ObservedAt: ev.ObservedAt})
	}
	current := status.Status(wr.Status)

	return dto.WashRequest{
		ID:          wr.ID,
		OwnerID:     wr.OwnerID,
		VehicleID:   wr.VehicleID,
		OutletID:    wr.OutletID,
		WashType:    wr.WashType,
		Date:        wr.ScheduledDate.In(h.loc).Format(dto.DateLayout),
		Time:        wr.TimeLabel,
		ScheduledAt: wr.ScheduledAt,
		Price:       wr.Price,
		PaymentRef:  wr.PaymentRef,
		Status:      current,
		CreatedAt:   wr.CreatedAt,
		UpdatedAt:   wr.UpdatedAt,
		Timeline:    status.BuildTimeline(current, history),
	}
}

// CreateWashRequest handles POST /api/wash-requests.
func (h *Handler) CreateWashRequest(c *gin.Context) {
	var req dto.CreateWashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	washType, err := booking.ParseWashType(req.WashType)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.ParseInLocation(dto.DateLayout, req.Date, h.loc)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'date' format. Use YYYY-MM-DD."})
		return
	}

	tod, err := parse.ParseTimeLabel(req.Time)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wr, err := h.store.CreateWashRequest(c.Request.Context(), store.NewWashRequest{
		VehicleID:   req.VehicleID,
		OutletID:    req.OutletID,
		WashType:    washType,
		Date:        date,
		TimeLabel:   req.Time,
		ScheduledAt: tod.On(date, h.loc),
		Price:       req.Price,
		PaymentRef:  req.PaymentRef,
	}, h.now().UTC())
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.log.Info("wash request created",
		zap.String("wash_request_id", wr.ID),
		zap.String("outlet_id", wr.OutletID),
		zap.String("wash_type", wr.WashType),
		zap.Int64("price", wr.Price),
	)
	c.JSON(http.StatusCreated, h.toWashRequestDTO(*wr))
}

// ListWashRequests handles GET /api/wash-requests?owner_id=...
func (h *Handler) ListWashRequests(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	requests, err := h.store.ListWashRequests(c.Request.Context(), ownerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	responses := make([]dto.WashRequest, 0, len(requests))
	for _, wr := range requests {
		responses = append(responses, h.toWashRequestDTO(wr))
	}
	c.JSON(http.StatusOK, responses)
}

// GetWashRequest handles GET /api/wash-requests/{id}. Clients poll this, so
// rendered payloads go through the status cache.
func (h *Handler) GetWashRequest(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var cached dto.WashRequest
	found, err := h.status.Get(ctx, id, &cached)
	if err != nil {
		h.log.Warn("status cache lookup failed", zap.String("wash_request_id", id), zap.Error(err))
	}
	if found {
		c.JSON(http.StatusOK, cached)
		return
	}

	wr, err := h.store.GetWashRequest(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := h.toWashRequestDTO(*wr)
	if err := h.status.Set(ctx, id, resp); err != nil {
		h.log.Warn("status cache store failed", zap.String("wash_request_id", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateWashRequestStatus handles POST /api/wash-requests/{id}/status.
func (h *Handler) UpdateWashRequestStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	to, err := status.ParseStatus(req.Status)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.transition(c, c.Param("id"), to)
}

// CancelWashRequest handles POST /api/wash-requests/{id}/cancel.
func (h *Handler) CancelWashRequest(c *gin.Context) {
	h.transition(c, c.Param("id"), status.Cancelled)
}

func (h *Handler) transition(c *gin.Context, id string, to status.Status) {
	ctx := c.Request.Context()

	wr, err := h.store.UpdateStatus(ctx, id, to, h.now().UTC())
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.status.Invalidate(ctx, id); err != nil {
		h.log.Warn("status cache invalidation failed", zap.String("wash_request_id", id), zap.Error(err))
	}

	h.log.Info("wash request status changed",
		zap.String("wash_request_id", id),
		zap.String("status", string(to)),
	)
	c.JSON(http.StatusOK, h.toWashRequestDTO(*wr))
}
