package trivia

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
)

type categoryStore interface {
	List(ctx context.Context) ([]repository.Category, error)
	Get(ctx context.Context, id int) (*repository.Category, error)
}

type questionStore interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]repository.Question, error)
	ListAll(ctx context.Context) ([]repository.Question, error)
	Search(ctx context.Context, term string) ([]repository.Question, error)
	ListByCategory(ctx context.Context, categoryID int) ([]repository.Question, error)
	Get(ctx context.Context, id int) (*repository.Question, error)
	Insert(ctx context.Context, q *repository.Question) error
	Delete(ctx context.Context, id int) (repository.Question, error)
}

// ServiceOptions configures paging, randomness and instrumentation.
type ServiceOptions struct {
	QuestionsPerPage int
	Selector         *Selector
	Metrics          *metrics.Metrics
}

// Service implements the trivia use cases on top of the repositories.
type Service struct {
	categories categoryStore
	questions  questionStore
	selector   *Selector
	perPage    int
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

func NewService(categories categoryStore, questions questionStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	perPage := opts.QuestionsPerPage
	if perPage <= 0 {
		perPage = DefaultQuestionsPerPage
	}
	selector := opts.Selector
	if selector == nil {
		selector = NewSelector(nil)
	}
	return &Service{
		categories: categories,
		questions:  questions,
		selector:   selector,
		perPage:    perPage,
		metrics:    opts.Metrics,
		logger:     logger.With().Str("component", "trivia_service").Logger(),
	}
}

// Categories returns every category keyed by id.
func (s *Service) Categories(ctx context.Context) (map[int]string, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}
	return categoryMap(categories), nil
}

// Page returns the questions of a 1-based page ordered by id. Pages below 1
// are treated as the first page.
func (s *Service) Page(ctx context.Context, page int) (QuestionsPage, error) {
	if page < 1 {
		page = 1
	}
	// Pages whose offset would overflow lie past any stored row.
	if page-1 > math.MaxInt/s.perPage {
		return s.assemble(ctx, nil)
	}
	questions, err := s.questions.List(ctx, (page-1)*s.perPage, s.perPage)
	if err != nil {
		return QuestionsPage{}, err
	}
	return s.assemble(ctx, questions)
}

// Search returns every question whose text contains term, ignoring case.
func (s *Service) Search(ctx context.Context, term string) (QuestionsPage, error) {
	questions, err := s.questions.Search(ctx, term)
	if err != nil {
		return QuestionsPage{}, err
	}
	return s.assemble(ctx, questions)
}

// ByCategory returns the questions of one category.
func (s *Service) ByCategory(ctx context.Context, categoryID int) (QuestionsPage, error) {
	category, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return QuestionsPage{}, err
	}
	if category == nil {
		return QuestionsPage{}, fmt.Errorf("category %d: %w", categoryID, ErrCategoryNotFound)
	}
	questions, err := s.questions.ListByCategory(ctx, category.ID)
	if err != nil {
		return QuestionsPage{}, err
	}
	return s.assemble(ctx, questions)
}

// Create validates and stores a new question.
func (s *Service) Create(ctx context.Context, in NewQuestion) (repository.Question, error) {
	if in.Question == "" || in.Answer == "" || in.Category == 0 || in.Difficulty == 0 {
		return repository.Question{}, fmt.Errorf("%w: missing field", ErrInvalidQuestion)
	}
	q := repository.Question{
		Question:   in.Question,
		Answer:     in.Answer,
		Category:   in.Category,
		Difficulty: in.Difficulty,
	}
	if err := s.questions.Insert(ctx, &q); err != nil {
		if errors.Is(err, repository.ErrConstraintViolation) {
			return repository.Question{}, fmt.Errorf("%w: %w", ErrInvalidQuestion, err)
		}
		return repository.Question{}, err
	}
	s.metrics.QuestionCreated()
	s.logger.Debug().Int("question_id", q.ID).Int("category", q.Category).Msg("question created")
	return q, nil
}

// Delete removes a question and returns it.
func (s *Service) Delete(ctx context.Context, id int) (repository.Question, error) {
	existing, err := s.questions.Get(ctx, id)
	if err != nil {
		return repository.Question{}, err
	}
	if existing == nil {
		return repository.Question{}, fmt.Errorf("question %d: %w", id, ErrQuestionNotFound)
	}
	deleted, err := s.questions.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Question{}, fmt.Errorf("question %d: %w", id, ErrQuestionNotFound)
		}
		return repository.Question{}, err
	}
	s.metrics.QuestionDeleted()
	s.logger.Debug().Int("question_id", id).Msg("question deleted")
	return deleted, nil
}

// NextQuizQuestion picks a random question outside req.PreviousIDs, limited
// to req.CategoryID when that category exists. A nil question means the
// player has seen them all.
func (s *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (*repository.Question, error) {
	var (
		candidates []repository.Question
		err        error
	)

	category, err := s.lookupQuizCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category != nil {
		candidates, err = s.questions.ListByCategory(ctx, category.ID)
	} else {
		candidates, err = s.questions.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	previous := make(map[int]struct{}, len(req.PreviousIDs))
	for _, id := range req.PreviousIDs {
		previous[id] = struct{}{}
	}

	question := s.selector.Pick(previous, candidates)
	s.metrics.QuizResult(question != nil)
	return question, nil
}

// lookupQuizCategory resolves the quiz filter; 0 or an unknown id yields nil.
func (s *Service) lookupQuizCategory(ctx context.Context, id int) (*repository.Category, error) {
	if id == 0 {
		return nil, nil
	}
	return s.categories.Get(ctx, id)
}

func (s *Service) assemble(ctx context.Context, questions []repository.Question) (QuestionsPage, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return QuestionsPage{}, err
	}
	total, err := s.questions.Count(ctx)
	if err != nil {
		return QuestionsPage{}, err
	}

	if questions == nil {
		questions = []repository.Question{}
	}
	page := QuestionsPage{
		Questions:      questions,
		Categories:     categoryMap(categories),
		TotalQuestions: total,
	}
	if len(categories) > 0 {
		current := categories[0]
		page.CurrentCategory = &current
	}
	return page, nil
}
