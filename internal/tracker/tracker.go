// Package tracker polls wash requests until they reach a terminal status.
package tracker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"carwash-backend/config"
	"carwash-backend/internal/api/dto"
	"carwash-backend/internal/client"
	"carwash-backend/internal/status"
)

// Fetcher loads the current state of a wash request. *client.Client satisfies it.
type Fetcher interface {
	GetWashRequest(ctx context.Context, id string) (*dto.WashRequest, error)
}

// Update reports a status change of a watched request.
type Update struct {
	ID       string
	Previous status.Status // empty on the first observation
	Current  status.Status
	Timeline status.Timeline
	Request  dto.WashRequest
}

type target struct {
	id    string
	known status.Status
}

type result struct {
	id      string
	request *dto.WashRequest
	err     error
}

// Service tracks a set of wash requests.
type Service struct {
	fetcher  Fetcher
	interval time.Duration
	pool     *WorkerPool
	onChange func(Update)
	log      *zap.Logger

	mu      sync.Mutex
	watched map[string]status.Status
}

// NewService creates a tracker. onChange may be nil.
func NewService(fetcher Fetcher, cfg config.TrackerConfig, onChange func(Update), log *zap.Logger) *Service {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Service{
		fetcher:  fetcher,
		interval: interval,
		pool:     NewWorkerPool(cfg.WorkerPool.Size),
		onChange: onChange,
		log:      log,
		watched:  make(map[string]status.Status),
	}
}

// Watch adds a request. known is the last status the caller saw, or empty.
func (s *Service) Watch(id string, known status.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watched[id] = known
}

func (s *Service) Unwatch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watched, id)
}

// Watching returns the number of tracked requests.
func (s *Service) Watching() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watched)
}

// Run polls until ctx is done or nothing is left to watch.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("starting wash request tracker", zap.Duration("interval", s.interval))

	s.PollOnce(ctx)
	if s.Watching() == 0 {
		s.log.Info("tracker has nothing left to watch")
		return
	}

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("tracker shutting down")
			return
		case <-timer.C:
			s.PollOnce(ctx)
			if s.Watching() == 0 {
				s.log.Info("tracker has nothing left to watch")
				return
			}
			timer.Reset(s.interval)
		}
	}
}

// PollOnce checks every watched request once and returns the changes it saw,
// ordered by request id. onChange is called for each change from the calling
// goroutine. Requests that reached a terminal status, or that the server no
// longer knows, stop being watched. Requests unwatched mid-poll are ignored.
func (s *Service) PollOnce(ctx context.Context) []Update {
	s.mu.Lock()
	targets := make([]target, 0, len(s.watched))
	for id, known := range s.watched {
		targets = append(targets, target{id: id, known: known})
	}
	s.mu.Unlock()

	known := make(map[string]status.Status, len(targets))
	for _, t := range targets {
		known[t.id] = t.known
	}

	results := s.pool.Process(ctx, targets, func(ctx context.Context, t target) result {
		wr, err := s.fetcher.GetWashRequest(ctx, t.id)
		return result{id: t.id, request: wr, err: err}
	})

	var updates []Update
	s.mu.Lock()
	for _, r := range results {
		// Unwatched while the lookup was in flight.
		if _, ok := s.watched[r.id]; !ok {
			continue
		}
		if r.err != nil {
			if errors.Is(r.err, client.ErrNotFound) {
				s.log.Warn("wash request vanished, no longer tracking", zap.String("wash_request_id", r.id))
				delete(s.watched, r.id)
				continue
			}
			s.log.Warn("failed to poll wash request", zap.String("wash_request_id", r.id), zap.Error(r.err))
			continue
		}

		current := r.request.Status
		if status.IsTerminal(current) {
			delete(s.watched, r.id)
		} else {
			s.watched[r.id] = current
		}
		if current == known[r.id] {
			continue
		}

		tl := r.request.Timeline
		if len(tl.Steps) == 0 {
			tl = status.BuildTimeline(current, nil)
		}
		updates = append(updates, Update{
			ID:       r.id,
			Previous: known[r.id],
			Current:  current,
			Timeline: tl,
			Request:  *r.request,
		})
	}
	s.mu.Unlock()

	sort.Slice(updates, func(i, j int) bool { return updates[i].ID < updates[j].ID })
	for _, u := range updates {
		s.log.Info("wash request status changed",
			zap.String("wash_request_id", u.ID),
			zap.String("from", string(u.Previous)),
			zap.String("to", string(u.Current)),
		)
		if s.onChange != nil {
			s.onChange(u)
		}
	}
	return updates
}
