package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

var ErrProfileNotFound = errors.New("profile not found")

// FileProfileRepository stores one JSON document per learner in a directory.
// Profiles are replaced atomically by writing a temporary file and renaming it.
type FileProfileRepository struct {
	dir string
}

// NewFileProfileRepository creates the directory if needed.
func NewFileProfileRepository(dir string) (*FileProfileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &FileProfileRepository{dir: dir}, nil
}

// Load reads the learner's profile.
func (r *FileProfileRepository) Load(_ context.Context, learnerID int64) (*entities.LearnerProfile, error) {
	data, err := os.ReadFile(r.profilePath(learnerID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p entities.LearnerProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return &p, nil
}

// Save replaces the learner's profile.
func (r *FileProfileRepository) Save(_ context.Context, learnerID int64, profile *entities.LearnerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, "profile-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close profile: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.profilePath(learnerID)); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}

	return nil
}

// SaveAnswer appends the answer to the learner's history file and replaces the profile.
// The history is written first so that the profile on disk never runs ahead of memory.
func (r *FileProfileRepository) SaveAnswer(
	ctx context.Context,
	learnerID int64,
	profile *entities.LearnerProfile,
	event *entities.AnswerEvent,
) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}

	f, err := os.OpenFile(r.historyPath(learnerID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("append answer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}

	return r.Save(ctx, learnerID, profile)
}

func (r *FileProfileRepository) profilePath(learnerID int64) string {
	return filepath.Join(r.dir, strconv.FormatInt(learnerID, 10)+".json")
}

func (r *FileProfileRepository) historyPath(learnerID int64) string {
	return filepath.Join(r.dir, strconv.FormatInt(learnerID, 10)+".answers.jsonl")
}
