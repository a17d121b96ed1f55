// Package importer seeds the question bank from the Open Trivia DB.
package importer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// Difficulty labels as served by the Open Trivia DB.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var difficultyRank = map[string]int{
	DifficultyEasy:   1,
	DifficultyMedium: 2,
	DifficultyHard:   3,
}

// ErrInvalidRequest reports an amount or difficulty the source cannot serve.
var ErrInvalidRequest = errors.New("invalid import request")

type questionSource interface {
	Fetch(ctx context.Context, amount int, difficulty string) ([]OpenTDBQuestion, error)
}

type categoryStore interface {
	FindOrCreate(ctx context.Context, label string) (repository.Category, bool, error)
}

type questionStore interface {
	Insert(ctx context.Context, q *repository.Question) error
}

// Request selects what to pull from the source.
type Request struct {
	Amount     int
	Difficulty string
}

// Result summarises one run.
type Result struct {
	Fetched           int
	Imported          int
	Skipped           int
	CategoriesCreated int
}

// Importer copies source questions into the store, creating categories by
// label on first sight.
type Importer struct {
	source     questionSource
	categories categoryStore
	questions  questionStore
	logger     zerolog.Logger
}

func New(source questionSource, categories categoryStore, questions questionStore, logger zerolog.Logger) *Importer {
	return &Importer{
		source:     source,
		categories: categories,
		questions:  questions,
		logger:     logger.With().Str("component", "importer").Logger(),
	}
}

// Run fetches one batch and stores it. Rows the store rejects are skipped;
// any other store failure aborts the run with the partial result.
func (im *Importer) Run(ctx context.Context, req Request) (Result, error) {
	if req.Amount < 1 || req.Amount > MaxAmount {
		return Result{}, fmt.Errorf("%w: amount must be between 1 and %d", ErrInvalidRequest, MaxAmount)
	}
	if req.Difficulty != "" {
		if _, ok := difficultyRank[req.Difficulty]; !ok {
			return Result{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, req.Difficulty)
		}
	}

	fetched, err := im.source.Fetch(ctx, req.Amount, req.Difficulty)
	if err != nil {
		return Result{}, fmt.Errorf("fetch questions: %w", err)
	}

	res := Result{Fetched: len(fetched)}
	seen := make(map[string]repository.Category)
	for _, item := range fetched {
		q, ok := convert(item)
		if !ok {
			im.logger.Warn().Str("difficulty", item.Difficulty).Msg("skipping question with unusable fields")
			res.Skipped++
			continue
		}

		label := html.UnescapeString(strings.TrimSpace(item.Category))
		category, cached := seen[label]
		if !cached {
			var created bool
			category, created, err = im.categories.FindOrCreate(ctx, label)
			if err != nil {
				if errors.Is(err, repository.ErrConstraintViolation) {
					im.logger.Warn().Err(err).Msg("skipping question with rejected category")
					res.Skipped++
					continue
				}
				return res, fmt.Errorf("category %q: %w", label, err)
			}
			if created {
				res.CategoriesCreated++
				im.logger.Info().Str("category", label).Int("category_id", category.ID).Msg("category created")
			}
			seen[label] = category
		}

		q.Category = category.ID
		if err := im.questions.Insert(ctx, &q); err != nil {
			if errors.Is(err, repository.ErrConstraintViolation) {
				im.logger.Warn().Err(err).Msg("skipping rejected question")
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("insert question: %w", err)
		}
		res.Imported++
	}

	im.logger.Info().
		Int("fetched", res.Fetched).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("categories_created", res.CategoriesCreated).
		Msg("import finished")
	return res, nil
}

// convert maps a source row to a question without its category id.
func convert(item OpenTDBQuestion) (repository.Question, bool) {
	rank, ok := difficultyRank[strings.ToLower(item.Difficulty)]
	if !ok {
		return repository.Question{}, false
	}
	q := repository.Question{
		Question:   html.UnescapeString(strings.TrimSpace(item.Question)),
		Answer:     html.UnescapeString(strings.TrimSpace(item.CorrectAnswer)),
		Difficulty: rank,
	}
	if q.Question == "" || q.Answer == "" {
		return repository.Question{}, false
	}
	return q, true
}
