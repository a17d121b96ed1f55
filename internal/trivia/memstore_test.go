package trivia

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// memDB is an in-memory stand-in for the Postgres tables, enforcing the
// same foreign key and not-null rules.
type memDB struct {
	mu         sync.Mutex
	categories []repository.Category
	questions  []repository.Question
	nextCat    int
	nextQ      int
}

func newMemDB() *memDB { return &memDB{nextCat: 1, nextQ: 1} }

func (db *memDB) addCategory(label string) repository.Category {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := repository.Category{ID: db.nextCat, Type: label}
	db.nextCat++
	db.categories = append(db.categories, c)
	return c
}

func (db *memDB) addQuestions(categoryID, n int) []repository.Question {
	out := make([]repository.Question, 0, n)
	for i := 0; i < n; i++ {
		q := repository.Question{
			Question:   "Q " + strconv.Itoa(i),
			Answer:     "A " + strconv.Itoa(i),
			Category:   categoryID,
			Difficulty: i + 1,
		}
		if err := (memQuestions{db}).Insert(context.Background(), &q); err != nil {
			panic(err)
		}
		out = append(out, q)
	}
	return out
}

type memCategories struct{ db *memDB }

func (m memCategories) List(_ context.Context) ([]repository.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := append([]repository.Category(nil), m.db.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memCategories) Get(_ context.Context, id int) (*repository.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, c := range m.db.categories {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

type memQuestions struct{ db *memDB }

func (m memQuestions) Count(_ context.Context) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return len(m.db.questions), nil
}

func (m memQuestions) List(_ context.Context, offset, limit int) ([]repository.Question, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if offset >= len(m.db.questions) {
		return nil, nil
	}
	end := min(offset+limit, len(m.db.questions))
	return append([]repository.Question(nil), m.db.questions[offset:end]...), nil
}

func (m memQuestions) ListAll(_ context.Context) ([]repository.Question, error) {
	return m.filter(func(repository.Question) bool { return true }), nil
}

func (m memQuestions) Search(_ context.Context, term string) ([]repository.Question, error) {
	term = strings.ToLower(term)
	return m.filter(func(q repository.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	}), nil
}

func (m memQuestions) ListByCategory(_ context.Context, categoryID int) ([]repository.Question, error) {
	return m.filter(func(q repository.Question) bool { return q.Category == categoryID }), nil
}

func (m memQuestions) Get(_ context.Context, id int) (*repository.Question, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, q := range m.db.questions {
		if q.ID == id {
			found := q
			return &found, nil
		}
	}
	return nil, nil
}

func (m memQuestions) Insert(_ context.Context, q *repository.Question) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if q.Question == "" || q.Answer == "" || q.Difficulty == 0 {
		return repository.ErrConstraintViolation
	}
	known := false
	for _, c := range m.db.categories {
		if c.ID == q.Category {
			known = true
		}
	}
	if !known {
		return repository.ErrConstraintViolation
	}
	q.ID = m.db.nextQ
	m.db.nextQ++
	m.db.questions = append(m.db.questions, *q)
	return nil
}

func (m memQuestions) Delete(_ context.Context, id int) (repository.Question, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for i, q := range m.db.questions {
		if q.ID == id {
			m.db.questions = append(m.db.questions[:i], m.db.questions[i+1:]...)
			return q, nil
		}
	}
	return repository.Question{}, repository.ErrNotFound
}

func (m memQuestions) filter(keep func(repository.Question) bool) []repository.Question {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []repository.Question
	for _, q := range m.db.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}
