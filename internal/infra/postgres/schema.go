package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS learner_profiles (
    learner_id   BIGINT PRIMARY KEY,
    display_name TEXT NOT NULL DEFAULT '',
    data         JSONB NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS answer_events (
    id           BIGSERIAL PRIMARY KEY,
    learner_id   BIGINT NOT NULL REFERENCES learner_profiles (learner_id) ON DELETE CASCADE,
    question_key TEXT NOT NULL,
    concept_id   TEXT NOT NULL,
    level        SMALLINT NOT NULL,
    chosen_index INT NOT NULL,
    is_correct   BOOLEAN NOT NULL,
    answered_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS answer_events_learner_idx ON answer_events (learner_id, answered_at);
`

// EnsureSchema creates the tables used by the profile repository if they do not exist.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
