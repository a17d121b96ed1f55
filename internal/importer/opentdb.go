package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxAmount is the largest batch the Open Trivia DB serves per call.
const MaxAmount = 50

// OpenTDB response codes other than success.
var (
	ErrNoResults      = errors.New("opentdb: not enough questions for query")
	ErrInvalidQuery   = errors.New("opentdb: invalid parameter")
	ErrRateLimited    = errors.New("opentdb: rate limited")
	ErrUnknownOpenTDB = errors.New("opentdb: unexpected response code")
)

// OpenTDBClient fetches questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &OpenTDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// OpenTDBQuestion is one result as served; text fields are HTML-escaped.
type OpenTDBQuestion struct {
	Category        string   `json:"category"`
	Type            string   `json:"type"`
	Difficulty      string   `json:"difficulty"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	IncorrectAnswer []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// Fetch asks for amount questions, optionally narrowed by difficulty.
func (c *OpenTDBClient) Fetch(ctx context.Context, amount int, difficulty string) ([]OpenTDBQuestion, error) {
	values := url.Values{}
	values.Set("amount", strconv.Itoa(amount))
	if difficulty != "" {
		values.Set("difficulty", difficulty)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode opentdb response: %w", err)
	}
	switch payload.ResponseCode {
	case 0:
		return payload.Results, nil
	case 1:
		return nil, ErrNoResults
	case 2:
		return nil, ErrInvalidQuery
	case 5:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownOpenTDB, payload.ResponseCode)
	}
}
