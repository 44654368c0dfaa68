package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrConceptNotFound = errors.New("concept not found")
	ErrInvalidContent  = errors.New("invalid content")
)

// ContentRepository provides read-only access to the study corpus.
// The whole corpus is loaded and validated once; a broken manifest or chapter fails the load.
type ContentRepository struct {
	chapters []*entities.Chapter
	byID     map[string]*entities.Chapter
}

// NewContentRepository loads the manifest and every chapter document from dir.
func NewContentRepository(dir, manifest string) (*ContentRepository, error) {
	metas, err := loadManifest(filepath.Join(dir, manifest))
	if err != nil {
		return nil, err
	}

	r := &ContentRepository{
		chapters: make([]*entities.Chapter, 0, len(metas)),
		byID:     make(map[string]*entities.Chapter, len(metas)),
	}

	for _, meta := range metas {
		ch, err := loadChapter(filepath.Join(dir, meta.ID+".json"))
		if err != nil {
			return nil, fmt.Errorf("load chapter %s: %w", meta.ID, err)
		}
		if ch.ID != meta.ID {
			return nil, fmt.Errorf("%w: chapter file %s has id %q", ErrInvalidContent, meta.ID, ch.ID)
		}
		if _, dup := r.byID[ch.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate chapter %s", ErrInvalidContent, ch.ID)
		}
		if ch.Name == "" {
			ch.Name = meta.Name
		}
		ch.Order = meta.Order

		r.chapters = append(r.chapters, ch)
		r.byID[ch.ID] = ch
	}

	sort.SliceStable(r.chapters, func(i, j int) bool {
		return r.chapters[i].Order < r.chapters[j].Order
	})

	return r, nil
}

// GetChapters returns every chapter in manifest order.
func (r *ContentRepository) GetChapters(_ context.Context) ([]*entities.Chapter, error) {
	return r.chapters, nil
}

// GetChapter returns the chapter with the given id.
func (r *ContentRepository) GetChapter(_ context.Context, id string) (*entities.Chapter, error) {
	ch, ok := r.byID[id]
	if !ok {
		return nil, ErrChapterNotFound
	}
	return ch, nil
}

// GetConcept finds a concept and its chapter by concept id.
func (r *ContentRepository) GetConcept(_ context.Context, id string) (*entities.Chapter, *entities.Concept, error) {
	for _, ch := range r.chapters {
		if c := ch.Concept(id); c != nil {
			return ch, c, nil
		}
	}
	return nil, nil, ErrConceptNotFound
}

func loadManifest(path string) ([]entities.ChapterMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var metas []entities.ChapterMeta
	if err = json.Unmarshal(data, &metas); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal manifest: %v", ErrInvalidContent, err)
	}

	if len(metas) == 0 {
		return nil, fmt.Errorf("%w: empty manifest", ErrInvalidContent)
	}

	for i, m := range metas {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: manifest entry %d has no id", ErrInvalidContent, i)
		}
	}

	return metas, nil
}

func loadChapter(path string) (*entities.Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ch entities.Chapter
	if err = json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal chapter: %v", ErrInvalidContent, err)
	}

	if err = validateChapter(&ch); err != nil {
		return nil, err
	}

	return &ch, nil
}

func validateChapter(ch *entities.Chapter) error {
	questions := make(map[string]bool, len(ch.SupplementaryQuestions))
	for _, q := range ch.SupplementaryQuestions {
		if q == nil || q.ID == "" {
			return fmt.Errorf("%w: question without id", ErrInvalidContent)
		}
		if questions[q.ID] {
			return fmt.Errorf("%w: duplicate question %s", ErrInvalidContent, q.ID)
		}
		if len(q.Choices) == 0 || q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
			return fmt.Errorf("%w: question %s has correct index %d out of %d choices",
				ErrInvalidContent, q.ID, q.CorrectIndex, len(q.Choices))
		}
		questions[q.ID] = true
	}

	concepts := make(map[string]bool, len(ch.Concepts))
	for _, c := range ch.Concepts {
		if c == nil || c.ID == "" {
			return fmt.Errorf("%w: concept without id", ErrInvalidContent)
		}
		if concepts[c.ID] {
			return fmt.Errorf("%w: duplicate concept %s", ErrInvalidContent, c.ID)
		}
		for _, qid := range c.Level3QuestionIDs {
			if !questions[qid] {
				return fmt.Errorf("%w: concept %s links unknown question %s", ErrInvalidContent, c.ID, qid)
			}
		}
		concepts[c.ID] = true
	}

	return nil
}
