package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
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
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenTDBClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// OpenTDBQuery narrows a fetch. Zero values mean "any".
type OpenTDBQuery struct {
	Amount     int
	CategoryID int
	Difficulty string // easy, medium or hard
}

// OpenTDBQuestion is one decoded result.
type OpenTDBQuestion struct {
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// Fetch requests RFC 3986 encoded results and returns them decoded.
func (c *OpenTDBClient) Fetch(ctx context.Context, q OpenTDBQuery) ([]OpenTDBQuestion, error) {
	values := url.Values{}
	values.Set("amount", strconv.Itoa(q.Amount))
	values.Set("encode", "url3986")
	if q.CategoryID > 0 {
		values.Set("category", strconv.Itoa(q.CategoryID))
	}
	if q.Difficulty != "" {
		values.Set("difficulty", q.Difficulty)
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

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}

	out := make([]OpenTDBQuestion, 0, len(payload.Results))
	for _, r := range payload.Results {
		decoded, err := r.decode()
		if err != nil {
			return nil, fmt.Errorf("decode opentdb result: %w", err)
		}
		out = append(out, decoded)
	}
	return out, nil
}

func (q OpenTDBQuestion) decode() (OpenTDBQuestion, error) {
	fields := []*string{&q.Category, &q.Difficulty, &q.Question, &q.CorrectAnswer}
	for _, f := range fields {
		v, err := url.PathUnescape(*f)
		if err != nil {
			return OpenTDBQuestion{}, err
		}
		*f = v
	}
	return q, nil
}

// openTDBDifficulty spreads the three OpenTDB levels over the 1-5 scale.
var openTDBDifficulty = map[string]string{
	"easy":   "1",
	"medium": "3",
	"hard":   "5",
}

// categoryLabel reduces an OpenTDB category such as "Entertainment: Film"
// or "Science & Nature" to its leading label.
func categoryLabel(name string) string {
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[:i]
	}
	if i := strings.Index(name, "&"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

type questionSource interface {
	Fetch(ctx context.Context, q OpenTDBQuery) ([]OpenTDBQuestion, error)
}

// ImportOpenTDB fetches q.Amount questions and stores those whose category
// matches a local category label.
func (im *Importer) ImportOpenTDB(ctx context.Context, source questionSource, q OpenTDBQuery) (*Result, error) {
	fetched, err := source.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch opentdb: %w", err)
	}

	records := make([]record, 0, len(fetched))
	for i, item := range fetched {
		records = append(records, record{
			ref:        fmt.Sprintf("Item %d", i+1),
			question:   strings.TrimSpace(item.Question),
			answer:     strings.TrimSpace(item.CorrectAnswer),
			category:   categoryLabel(item.Category),
			difficulty: openTDBDifficulty[item.Difficulty],
		})
	}

	result := &Result{Errors: make([]string, 0)}
	return result, im.store(ctx, records, result)
}
