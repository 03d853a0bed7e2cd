package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"moltmon/internal/domain/archive"
	"moltmon/internal/domain/pet"
)

type ArchiveRepo struct {
	db *sql.DB
}

func NewArchiveRepo(db *sql.DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

func (r *ArchiveRepo) Upsert(ctx context.Context, s pet.Summary) error {
	stats, err := json.Marshal(s.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	var diedAt *time.Time
	if s.DiedAt != nil {
		t := s.DiedAt.Time()
		diedAt = &t
	}
	var cause *string
	if s.Stats.CauseOfDeath != nil {
		c := string(*s.Stats.CauseOfDeath)
		cause = &c
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pet_archive (
			pet_id, born_at, died_at,
			survival_time_ms, is_alive,
			cause_of_death, stats, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		ON CONFLICT (pet_id) DO UPDATE SET
			born_at = EXCLUDED.born_at,
			died_at = EXCLUDED.died_at,
			survival_time_ms = EXCLUDED.survival_time_ms,
			is_alive = EXCLUDED.is_alive,
			cause_of_death = EXCLUDED.cause_of_death,
			stats = EXCLUDED.stats,
			updated_at = now()
	`,
		s.PetID,
		s.BornAt.Time(),
		diedAt,
		s.SurvivalTimeMs,
		s.IsAlive,
		cause,
		stats,
	)
	return err
}

func (r *ArchiveRepo) GetByPetID(ctx context.Context, petID int) (pet.Summary, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT pet_id, born_at, died_at, survival_time_ms, is_alive, stats
		FROM pet_archive
		WHERE pet_id = $1
	`, petID)

	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pet.Summary{}, archive.ErrNotFound
	}
	return s, err
}

func (r *ArchiveRepo) List(ctx context.Context, filter archive.ListFilter) ([]pet.Summary, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Alive != nil {
		add("is_alive = $%d", *filter.Alive)
	}
	if filter.Cause != nil {
		add("cause_of_death = $%d", string(*filter.Cause))
	}

	q := `
		SELECT pet_id, born_at, died_at, survival_time_ms, is_alive, stats
		FROM pet_archive`
	if len(where) > 0 {
		q += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	q += "\n\t\tORDER BY pet_id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf("\n\t\tLIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pet.Summary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(sc scanner) (pet.Summary, error) {
	var (
		s      pet.Summary
		bornAt time.Time
		diedAt sql.NullTime
		stats  []byte
	)
	if err := sc.Scan(&s.PetID, &bornAt, &diedAt, &s.SurvivalTimeMs, &s.IsAlive, &stats); err != nil {
		return pet.Summary{}, err
	}
	s.BornAt = pet.At(bornAt)
	if diedAt.Valid {
		s.DiedAt = pet.At(diedAt.Time).Ptr()
	}
	if err := json.Unmarshal(stats, &s.Stats); err != nil {
		return pet.Summary{}, fmt.Errorf("decode stats for pet %d: %w", s.PetID, err)
	}
	return s, nil
}
