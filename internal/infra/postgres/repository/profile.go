package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
	"github.com/aliskhannn/concept-review-bot/internal/infra/postgres"
	"github.com/aliskhannn/concept-review-bot/internal/repository"
)

// Transactor runs fn inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// ProfileRepository stores learner profiles as JSONB documents.
type ProfileRepository struct {
	db postgres.DBTX
	tr Transactor
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db postgres.DBTX, tr Transactor) *ProfileRepository {
	return &ProfileRepository{db: db, tr: tr}
}

// Load retrieves the learner's profile.
func (r *ProfileRepository) Load(ctx context.Context, learnerID int64) (*entities.LearnerProfile, error) {
	query := `
		SELECT data
		FROM learner_profiles
		WHERE learner_id = $1
	`

	var data []byte
	err := r.db.QueryRow(ctx, query, learnerID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var p entities.LearnerProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return &p, nil
}

// Save creates or replaces the learner's profile.
func (r *ProfileRepository) Save(ctx context.Context, learnerID int64, profile *entities.LearnerProfile) error {
	return upsertProfile(ctx, r.db, learnerID, profile)
}

// SaveAnswer replaces the profile and stores the answer event in one transaction.
func (r *ProfileRepository) SaveAnswer(
	ctx context.Context,
	learnerID int64,
	profile *entities.LearnerProfile,
	event *entities.AnswerEvent,
) error {
	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := upsertProfile(ctx, tx, learnerID, profile); err != nil {
			return err
		}

		query := `
			INSERT INTO answer_events (
				learner_id, question_key, concept_id, level, chosen_index, is_correct, answered_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		_, err := tx.Exec(
			ctx,
			query,
			learnerID,
			string(event.QuestionKey),
			event.ConceptID,
			int16(event.Level),
			event.ChosenIndex,
			event.IsCorrect,
			event.AnsweredAt,
		)
		if err != nil {
			return fmt.Errorf("insert answer event: %w", err)
		}

		return nil
	})
}

func upsertProfile(ctx context.Context, db postgres.DBTX, learnerID int64, profile *entities.LearnerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	query := `
		INSERT INTO learner_profiles (learner_id, display_name, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (learner_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := db.Exec(ctx, query, learnerID, profile.DisplayName, data); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}
