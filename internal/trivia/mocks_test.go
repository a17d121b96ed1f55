package trivia

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

type mockCategoryStore struct {
	mock.Mock
}

func (m *mockCategoryStore) List(ctx context.Context) ([]repository.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.Category), args.Error(1)
}

func (m *mockCategoryStore) Get(ctx context.Context, id int) (*repository.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*repository.Category), args.Error(1)
}

type mockQuestionStore struct {
	mock.Mock
}

func (m *mockQuestionStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockQuestionStore) List(ctx context.Context, offset, limit int) ([]repository.Question, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]repository.Question), args.Error(1)
}

func (m *mockQuestionStore) ListAll(ctx context.Context) ([]repository.Question, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.Question), args.Error(1)
}

func (m *mockQuestionStore) Search(ctx context.Context, term string) ([]repository.Question, error) {
	args := m.Called(ctx, term)
	return args.Get(0).([]repository.Question), args.Error(1)
}

func (m *mockQuestionStore) ListByCategory(ctx context.Context, categoryID int) ([]repository.Question, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]repository.Question), args.Error(1)
}

func (m *mockQuestionStore) Get(ctx context.Context, id int) (*repository.Question, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*repository.Question), args.Error(1)
}

func (m *mockQuestionStore) Insert(ctx context.Context, q *repository.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *mockQuestionStore) Delete(ctx context.Context, id int) (repository.Question, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repository.Question), args.Error(1)
}

var science = repository.Category{ID: 1, Type: "Science"}

var art = repository.Category{ID: 2, Type: "Art"}

func numbered(first, n, category int) []repository.Question {
	out := make([]repository.Question, 0, n)
	for i := 0; i < n; i++ {
		id := first + i
		out = append(out, repository.Question{
			ID:         id,
			Question:   "Q " + string(rune('a'+i%26)),
			Answer:     "A",
			Category:   category,
			Difficulty: 1,
		})
	}
	return out
}
