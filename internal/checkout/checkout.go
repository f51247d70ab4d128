// Package checkout submits a completed booking draft as a wash request.
package checkout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/booking"
)

// Submitter creates wash requests on the server. *client.Client satisfies it.
type Submitter interface {
	CreateWashRequest(ctx context.Context, req dto.CreateWashRequest) (*dto.WashRequest, error)
}

// Service turns drafts into wash requests.
type Service struct {
	submitter Submitter
	log       *zap.Logger
}

func NewService(submitter Submitter, log *zap.Logger) *Service {
	return &Service{submitter: submitter, log: log}
}

// Submit sends the draft and clears it on success. On any error the draft is
// left as it was so the user can retry or edit it.
func (s *Service) Submit(ctx context.Context, draft *booking.Draft, paymentRef string) (*dto.WashRequest, error) {
	if !draft.IsComplete() {
		return nil, booking.ErrIncompleteDraft
	}

	snap := draft.Snapshot()
	req := dto.CreateWashRequest{
		VehicleID:  snap.VehicleID,
		OutletID:   snap.OutletID,
		WashType:   string(snap.WashType),
		Date:       snap.Date.Format(dto.DateLayout),
		Time:       snap.TimeLabel,
		Price:      snap.Price,
		PaymentRef: paymentRef,
	}

	wr, err := s.submitter.CreateWashRequest(ctx, req)
	if err != nil {
		s.log.Warn("wash request submission failed",
			zap.String("vehicle_id", snap.VehicleID),
			zap.String("outlet_id", snap.OutletID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("submit wash request: %w", err)
	}

	draft.Clear()
	s.log.Info("wash request submitted",
		zap.String("wash_request_id", wr.ID),
		zap.String("wash_type", req.WashType),
		zap.Int64("price", req.Price),
	)
	return wr, nil
}
