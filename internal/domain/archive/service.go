package archive

import (
	"context"
	"errors"
	"fmt"

	"moltmon/internal/domain/pet"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Service es el archivo de largo plazo de resúmenes. history.json solo guarda
// lo que el proceso ve; el archivo sobrevive a un data dir borrado.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upsert cumple filestore.HistoryMirror.
func (s *Service) Upsert(ctx context.Context, sum pet.Summary) error {
	if sum.PetID <= 0 {
		return fmt.Errorf("%w: petId %d", ErrInvalidInput, sum.PetID)
	}
	return s.repo.Upsert(ctx, sum)
}

func (s *Service) Get(ctx context.Context, petID int) (pet.Summary, error) {
	if petID <= 0 {
		return pet.Summary{}, ErrInvalidInput
	}
	return s.repo.GetByPetID(ctx, petID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]pet.Summary, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return s.repo.List(ctx, filter)
}

// Records resume todas las vidas archivadas.
type Records struct {
	Pets            int                      `json:"pets"`
	Deaths          int                      `json:"deaths"`
	DeathsByCause   map[pet.CauseOfDeath]int `json:"deathsByCause"`
	LongestSurvival *pet.Summary             `json:"longestSurvival"`
	TotalTimesFed   int                      `json:"totalTimesFed"`
	TotalCleaned    int                      `json:"totalTimesCleaned"`
}

func (s *Service) Records(ctx context.Context) (Records, error) {
	all, err := s.repo.List(ctx, ListFilter{Limit: maxLimit})
	if err != nil {
		return Records{}, err
	}

	out := Records{DeathsByCause: map[pet.CauseOfDeath]int{}}
	for i := range all {
		sum := all[i]
		out.Pets++
		out.TotalTimesFed += sum.Stats.TimesFed
		out.TotalCleaned += sum.Stats.TimesCleaned

		if !sum.IsAlive {
			out.Deaths++
			if sum.Stats.CauseOfDeath != nil {
				out.DeathsByCause[*sum.Stats.CauseOfDeath]++
			}
			// solo vidas terminadas compiten por el récord
			if out.LongestSurvival == nil || sum.SurvivalTimeMs > out.LongestSurvival.SurvivalTimeMs {
				out.LongestSurvival = &sum
			}
		}
	}
	return out, nil
}
