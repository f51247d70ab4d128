package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carwash-backend/internal/model"
	"carwash-backend/internal/status"
)

// Store defines the interface for all database operations.
type Store interface {
	UpsertOutlets(ctx context.Context, seeds []OutletSeed) error
	ListOutlets(ctx context.Context) ([]model.Outlet, error)
	GetOutlet(ctx context.Context, id string) (*model.Outlet, error)

	CreateVehicle(ctx context.Context, v *model.Vehicle) error
	ListVehicles(ctx context.Context, ownerID string) ([]model.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*model.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error

	CreateWashRequest(ctx context.Context, req NewWashRequest, now time.Time) (*model.WashRequest, error)
	GetWashRequest(ctx context.Context, id string) (*model.WashRequest, error)
	ListWashRequests(ctx context.Context, ownerID string) ([]model.WashRequest, error)
	UpdateStatus(ctx context.Context, id string, to status.Status, now time.Time) (*model.WashRequest, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// UpsertOutlets batch-upserts outlets and replaces their tariffs.
func (s *gormStore) UpsertOutlets(ctx context.Context, seeds []OutletSeed) error {
	if len(seeds) == 0 {
		return nil
	}

	outlets := make([]model.Outlet, 0, len(seeds))
	var prices []model.OutletPrice
	for _, seed := range seeds {
		outlets = append(outlets, model.Outlet{ID: seed.ID, Name: seed.Name, Address: seed.Address})
		for washType, amount := range seed.Prices {
			prices = append(prices, model.OutletPrice{OutletID: seed.ID, WashType: string(washType), Amount: amount})
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Prices").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "address", "updated_at"}),
		}).Create(&outlets).Error; err != nil {
			return fmt.Errorf("batch upsert outlets failed: %w", err)
		}

		// Drop tariffs that are no longer offered.
		for _, seed := range seeds {
			q := tx.Where("outlet_id = ?", seed.ID)
			if len(seed.Prices) > 0 {
				offered := make([]string, 0, len(seed.Prices))
				for washType := range seed.Prices {
					offered = append(offered, string(washType))
				}
				q = q.Where("wash_type NOT IN ?", offered)
			}
			if err := q.Delete(&model.OutletPrice{}).Error; err != nil {
				return fmt.Errorf("failed to prune tariff for outlet %s: %w", seed.ID, err)
			}
		}

		if len(prices) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outlet_id"}, {Name: "wash_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount"}),
		}).Create(&prices).Error; err != nil {
			return fmt.Errorf("batch upsert outlet prices failed: %w", err)
		}
		return nil
	})
}

func (s *gormStore) ListOutlets(ctx context.Context) ([]model.Outlet, error) {
	var outlets []model.Outlet
	if err := s.db.WithContext(ctx).Preload("Prices").Order("name").Find(&outlets).Error; err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}
	return outlets, nil
}

func (s *gormStore) GetOutlet(ctx context.Context, id string) (*model.Outlet, error) {
	var outlet model.Outlet
	if err := s.db.WithContext(ctx).Preload("Prices").First(&outlet, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "outlet", id)
	}
	return &outlet, nil
}

// CreateVehicle assigns an id when missing and inserts the vehicle.
func (s *gormStore) CreateVehicle(ctx context.Context, v *model.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&model.Vehicle{}).Where("plate_number = ?", v.PlateNumber).Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to check plate %s: %w", v.PlateNumber, err)
		}
		if taken > 0 {
			return fmt.Errorf("vehicle %s: %w", v.PlateNumber, ErrDuplicate)
		}
		if err := tx.Create(v).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("vehicle %s: %w", v.PlateNumber, ErrDuplicate)
			}
			return fmt.Errorf("failed to create vehicle: %w", err)
		}
		return nil
	})
}

func (s *gormStore) ListVehicles(ctx context.Context, ownerID string) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles for owner %s: %w", ownerID, err)
	}
	return vehicles, nil
}

func (s *gormStore) GetVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := s.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "vehicle", id)
	}
	return &vehicle, nil
}

func (s *gormStore) DeleteVehicle(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Vehicle{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateWashRequest validates the references and the price snapshot against
// the outlet tariff, then writes the request and its first status event.
func (s *gormStore) CreateWashRequest(ctx context.Context, req NewWashRequest, now time.Time) (*model.WashRequest, error) {
	var created model.WashRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle model.Vehicle
		if err := tx.First(&vehicle, "id = ?", req.VehicleID).Error; err != nil {
			return notFound(err, "vehicle", req.VehicleID)
		}

		var outlet model.Outlet
		if err := tx.First(&outlet, "id = ?", req.OutletID).Error; err != nil {
			return notFound(err, "outlet", req.OutletID)
		}

		var tariff model.OutletPrice
		if err := tx.First(&tariff, "outlet_id = ? AND wash_type = ?", req.OutletID, string(req.WashType)).Error; err != nil {
			return notFound(err, "tariff", fmt.Sprintf("%s/%s", req.OutletID, req.WashType))
		}
		if tariff.Amount != req.Price {
			return fmt.Errorf("%w: got %d, outlet %s charges %d for %s", ErrPriceMismatch, req.Price, req.OutletID, tariff.Amount, req.WashType)
		}

		created = model.WashRequest{
			ID:            uuid.NewString(),
			OwnerID:       vehicle.OwnerID,
			VehicleID:     vehicle.ID,
			OutletID:      outlet.ID,
			WashType:      string(req.WashType),
			ScheduledDate: req.Date,
			TimeLabel:     req.TimeLabel,
			ScheduledAt:   req.ScheduledAt,
			Price:         req.Price,
			PaymentRef:    req.PaymentRef,
			Status:        string(status.Pending),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create wash request: %w", err)
		}

		event := model.WashStatusEvent{WashRequestID: created.ID, Status: created.Status, ObservedAt: now}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to record status for wash request %s: %w", created.ID, err)
		}
		created.Events = []model.WashStatusEvent{event}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *gormStore) GetWashRequest(ctx context.Context, id string) (*model.WashRequest, error) {
	var wr model.WashRequest
	if err := s.db.WithContext(ctx).Preload("Events", orderEvents).First(&wr, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "wash request", id)
	}
	return &wr, nil
}

func (s *gormStore) ListWashRequests(ctx context.Context, ownerID string) ([]model.WashRequest, error) {
	var requests []model.WashRequest
	if err := s.db.WithContext(ctx).
		Preload("Events", orderEvents).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list wash requests for owner %s: %w", ownerID, err)
	}
	return requests, nil
}

// UpdateStatus moves a request along its progression and archives the
// transition in the event log.
func (s *gormStore) UpdateStatus(ctx context.Context, id string, to status.Status, now time.Time) (*model.WashRequest, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wr model.WashRequest
		if err := tx.First(&wr, "id = ?", id).Error; err != nil {
			return notFound(err, "wash request", id)
		}

		from := status.Status(wr.Status)
		if !status.CanTransition(from, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}

		// Guard on the status we read so a concurrent transition loses cleanly.
		res := tx.Model(&model.WashRequest{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(map[string]any{"status": string(to), "updated_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to update status for wash request %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s changed concurrently", ErrInvalidTransition, id)
		}

		event := model.WashStatusEvent{WashRequestID: id, Status: string(to), ObservedAt: now}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to record status for wash request %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetWashRequest(ctx, id)
}

// --- Helper functions ---

func orderEvents(db *gorm.DB) *gorm.DB {
	return db.Order("observed_at ASC, id ASC")
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("failed to fetch %s %s: %w", kind, id, err)
}
