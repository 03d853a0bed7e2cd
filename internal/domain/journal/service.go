package journal

import (
	"context"
	"errors"
	"time"

	"moltmon/internal/domain/lifecycle"
	"moltmon/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Service struct {
	repo       Repository
	publishers []Publisher
	log        logger.Logger
	timeout    time.Duration
}

func NewService(repo Repository, log logger.Logger, publishers ...Publisher) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:       repo,
		publishers: publishers,
		log:        log,
		timeout:    2 * time.Second,
	}
}

// Record guarda la entrada y la publica. Un publisher caído no frena el
// registro: solo se loguea.
func (s *Service) Record(ctx context.Context, n lifecycle.Notification) (Entry, error) {
	if n.Event == "" || n.PetID <= 0 {
		return Entry{}, ErrInvalidInput
	}

	e := Entry{
		ID:    uuid.NewString(),
		PetID: n.PetID,
		Event: n.Event,
		State: n.State,
		At:    n.At.UTC(),
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return Entry{}, err
	}

	for _, p := range s.publishers {
		if err := p.Publish(ctx, e); err != nil {
			s.log.Warn("publish event failed", map[string]any{"event": e.Event, "pet_id": e.PetID, "error": err.Error()})
		}
	}
	return e, nil
}

// Listener adapta Record a lifecycle.Machine.OnEvent.
func (s *Service) Listener() func(lifecycle.Notification) {
	return func(n lifecycle.Notification) {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.Record(ctx, n); err != nil {
			s.log.Error("journal append failed", map[string]any{"event": n.Event, "pet_id": n.PetID, "error": err.Error()})
		}
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return s.repo.List(ctx, filter)
}
