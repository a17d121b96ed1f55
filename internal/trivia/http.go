package trivia

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const (
	searchTermKey = "searchTerm"
	maxBodyBytes  = 1 << 20
)

// HTTPHandler exposes the trivia REST endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a trivia HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Routes registers the endpoints on r. Numeric path parameters are enforced
// by the patterns, so other ids fall through to the router's 404.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{id:[0-9]+}/questions", h.ListQuestionsByCategory)
	r.Get("/questions", h.ListQuestions)
	r.Post("/questions", h.CreateOrSearchQuestions)
	r.Delete("/questions/{id:[0-9]+}", h.DeleteQuestion)
	r.Post("/quizzes", h.NextQuizQuestion)
}

// ListCategories handles GET /categories
func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoCategories) {
			httperrors.RespondNotFound(w)
			return
		}
		h.log(r).Error().Err(err).Msg("list categories failed")
		httperrors.RespondInternalError(w)
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

// ListQuestions handles GET /questions?page=N
func (h *HTTPHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	payload, err := h.svc.Page(r.Context(), page)
	if err != nil {
		h.log(r).Error().Err(err).Int("page", page).Msg("list questions failed")
		httperrors.RespondInternalError(w)
		return
	}
	h.respondJSON(w, r, http.StatusOK, payload)
}

// CreateOrSearchQuestions handles POST /questions. A body carrying
// searchTerm is a search; anything else is a create.
func (h *HTTPHandler) CreateOrSearchQuestions(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		httperrors.RespondBadRequest(w)
		return
	}

	if raw, ok := body[searchTermKey]; ok {
		h.searchQuestions(w, r, raw)
		return
	}
	h.createQuestion(w, r, data)
}

func (h *HTTPHandler) searchQuestions(w http.ResponseWriter, r *http.Request, raw json.RawMessage) {
	term, ok := searchTermText(raw)
	if !ok {
		httperrors.RespondBadRequest(w)
		return
	}

	payload, err := h.svc.Search(r.Context(), term)
	if err != nil {
		h.log(r).Error().Err(err).Str("term", term).Msg("search questions failed")
		httperrors.RespondInternalError(w)
		return
	}
	h.respondJSON(w, r, http.StatusOK, payload)
}

// searchTermText renders a scalar searchTerm as text: strings as-is, numbers
// and booleans as written, null as the empty term. Objects and arrays are
// rejected.
func searchTermText(raw json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func (h *HTTPHandler) createQuestion(w http.ResponseWriter, r *http.Request, data []byte) {
	var req createQuestionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	if err := requestValidator().Struct(req); err != nil {
		h.log(r).Debug().Err(err).Msg("create question rejected")
		httperrors.RespondBadRequest(w)
		return
	}

	created, err := h.svc.Create(r.Context(), req.toNewQuestion())
	if err != nil {
		if errors.Is(err, ErrInvalidQuestion) {
			h.log(r).Debug().Err(err).Msg("create question rejected")
		} else {
			h.log(r).Error().Err(err).Msg("create question failed")
		}
		httperrors.RespondBadRequest(w)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, created)
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrQuestionNotFound) {
			h.log(r).Error().Err(err).Int("question_id", id).Msg("delete question failed")
		}
		httperrors.RespondBadRequest(w)
		return
	}
	h.respondJSON(w, r, http.StatusOK, deleted)
}

// ListQuestionsByCategory handles GET /categories/{id}/questions
func (h *HTTPHandler) ListQuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	payload, err := h.svc.ByCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			httperrors.RespondNotFound(w)
			return
		}
		h.log(r).Error().Err(err).Int("category_id", id).Msg("list questions by category failed")
		httperrors.RespondInternalError(w)
		return
	}
	h.respondJSON(w, r, http.StatusOK, payload)
}

// NextQuizQuestion handles POST /quizzes
func (h *HTTPHandler) NextQuizQuestion(w http.ResponseWriter, r *http.Request) {
	var body quizRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	if err := requestValidator().Struct(body); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	req, err := body.toQuizRequest()
	if err != nil {
		httperrors.RespondBadRequest(w)
		return
	}

	question, err := h.svc.NextQuizQuestion(r.Context(), req)
	if err != nil {
		h.log(r).Error().Err(err).Int("category_id", req.CategoryID).Msg("quiz selection failed")
		httperrors.RespondBadRequest(w)
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]*repository.Question{
		"question": question,
	})
}

// log prefers the request-scoped logger installed by the server middleware.
func (h *HTTPHandler) log(r *http.Request) *zerolog.Logger {
	logger := logging.FromContext(r.Context())
	if logger.GetLevel() == zerolog.Disabled {
		logger = h.logger
	}
	return &logger
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// respondJSON writes payload with status. The header is already sent when
// encoding fails, so the failure is only logged.
func (h *HTTPHandler) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log(r).Error().Err(err).Int("status", status).Msg("encode response failed")
	}
}
