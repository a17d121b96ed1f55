package trivia

import (
	"errors"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

// DefaultQuestionsPerPage is the page size used when none is configured.
const DefaultQuestionsPerPage = 10

var (
	ErrNoCategories       = errors.New("no categories")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrInvalidQuizRequest = errors.New("invalid quiz request")
)

// QuestionsPage is the payload shared by the listing, search and
// per-category endpoints. TotalQuestions and CurrentCategory are global:
// they never reflect the filter or page that produced Questions.
type QuestionsPage struct {
	Questions       []repository.Question `json:"questions"`
	Categories      map[int]string        `json:"categories"`
	TotalQuestions  int                   `json:"total_questions"`
	CurrentCategory *repository.Category  `json:"current_category"`
}

// NewQuestion carries the fields required to create a question.
type NewQuestion struct {
	Question   string
	Answer     string
	Category   int
	Difficulty int
}

// QuizRequest asks for one question the player has not seen. CategoryID 0
// means every category.
type QuizRequest struct {
	PreviousIDs []int
	CategoryID  int
}

func categoryMap(categories []repository.Category) map[int]string {
	out := make(map[int]string, len(categories))
	for _, c := range categories {
		out[c.ID] = c.Type
	}
	return out
}
