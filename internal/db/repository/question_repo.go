package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionRepository wraps gorm queries for question access.
type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Count returns the total number of stored questions.
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Question{}).Count(&total).Error; err != nil {
		return 0, classify("count questions", err)
	}
	return int(total), nil
}

// List returns one window of questions ordered by ascending id.
func (r *QuestionRepository) List(ctx context.Context, offset, limit int) ([]Question, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("list questions: invalid window offset=%d limit=%d", offset, limit)
	}
	var questions []Question
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, classify("list questions", err)
	}
	return questions, nil
}

// ListAll returns every question ordered by ascending id.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]Question, error) {
	var questions []Question
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, classify("list all questions", err)
	}
	return questions, nil
}

// Search returns questions whose text contains term, ignoring case. The term
// is matched literally: LIKE wildcards in it are escaped.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).
		Where("question ILIKE ?", "%"+escapeLike(term)+"%").
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, classify("search questions", err)
	}
	return questions, nil
}

// ListByCategory returns the questions of one category.
func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).
		Where("category = ?", categoryID).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, classify("list questions by category", err)
	}
	return questions, nil
}

// Get returns the question with the given id, or nil when absent.
func (r *QuestionRepository) Get(ctx context.Context, id int) (*Question, error) {
	var questions []Question
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&questions).Error; err != nil {
		return nil, classify("get question", err)
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return &questions[0], nil
}

// Insert stores q and fills in its store-assigned id.
func (r *QuestionRepository) Insert(ctx context.Context, q *Question) error {
	if q.Question == "" || q.Answer == "" || q.Category == 0 || q.Difficulty == 0 {
		return fmt.Errorf("insert question: %w: missing field", ErrConstraintViolation)
	}
	q.ID = 0
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return classify("insert question", err)
	}
	return nil
}

// Delete removes the question with the given id and returns the removed row.
func (r *QuestionRepository) Delete(ctx context.Context, id int) (Question, error) {
	var deleted Question
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&deleted)
	if res.Error != nil {
		return Question{}, classify("delete question", res.Error)
	}
	if res.RowsAffected == 0 {
		return Question{}, fmt.Errorf("delete question %d: %w", id, ErrNotFound)
	}
	return deleted, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
