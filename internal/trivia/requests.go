package trivia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// flexInt accepts a JSON integer or a string holding one; browsers post
// <select> values as strings. null and "" decode to zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("not an integer: %s", data)
	}
	*f = flexInt(n)
	return nil
}

type createQuestionRequest struct {
	Question   string  `json:"question" validate:"required"`
	Answer     string  `json:"answer" validate:"required"`
	Category   flexInt `json:"category" validate:"required"`
	Difficulty flexInt `json:"difficulty" validate:"required"`
}

func (r createQuestionRequest) toNewQuestion() NewQuestion {
	return NewQuestion{
		Question:   r.Question,
		Answer:     r.Answer,
		Category:   int(r.Category),
		Difficulty: int(r.Difficulty),
	}
}

type quizCategoryRequest struct {
	ID *flexInt `json:"id"`
}

type quizRequestBody struct {
	PreviousQuestions []flexInt            `json:"previous_questions" validate:"required"`
	QuizCategory      *quizCategoryRequest `json:"quiz_category"`
}

// toQuizRequest enforces the shape rules the validator cannot express: a
// quiz_category object, when sent, must carry an id.
func (r quizRequestBody) toQuizRequest() (QuizRequest, error) {
	req := QuizRequest{PreviousIDs: make([]int, 0, len(r.PreviousQuestions))}
	for _, id := range r.PreviousQuestions {
		req.PreviousIDs = append(req.PreviousIDs, int(id))
	}
	if r.QuizCategory != nil {
		if r.QuizCategory.ID == nil {
			return QuizRequest{}, fmt.Errorf("%w: quiz_category.id missing", ErrInvalidQuizRequest)
		}
		req.CategoryID = int(*r.QuizCategory.ID)
	}
	return req, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// requestValidator returns the shared validator, reporting JSON field names.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}
