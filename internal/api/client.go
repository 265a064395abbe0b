// Package api is the typed HTTP client for the assessment backend. The
// backend owns the question bank, scoring, and telemetry aggregation; every
// method here is a thin call over its REST surface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/abhisek/vitacheck/internal/assessment"
)

const defaultTimeout = 15 * time.Second

// Config holds client connection settings.
type Config struct {
	BaseURL string
	Token   string // bearer token for the Authorization header
	Timeout time.Duration
}

// Client talks to the assessment backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client. A zero Timeout falls back to the default.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Profile is the signed-in candidate's profile. Its ID tags every answer
// submission.
type Profile struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// SubmitResponseInput identifies one answer submission.
type SubmitResponseInput struct {
	AssessmentID int64 `json:"assessment"`
	ProfileID    int64 `json:"profile"`
	QuestionID   int64 `json:"question"`
	ChoiceID     int64 `json:"selected_choice"`
}

// TelemetryEvent is the wire shape of one telemetry record. TimeLeft is set
// only while a countdown is running; AssessmentID is nil before an attempt
// starts.
type TelemetryEvent struct {
	EventType    string         `json:"event_type"`
	Stage        string         `json:"stage"`
	Level        string         `json:"level"`
	AssessmentID *int64         `json:"assessment_id"`
	TimeLeft     *int           `json:"time_left"`
	Details      map[string]any `json:"details"`
}

// Profile fetches the current user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/user/profile/", nil, &p); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &p, nil
}

// StartAssessment opens a new attempt at the given level and returns the
// backend-issued assessment ID.
func (c *Client) StartAssessment(ctx context.Context, level string) (int64, error) {
	body := map[string]string{"level": level}
	var resp struct {
		AssessmentID int64 `json:"assessment_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/assessment/start/", body, &resp); err != nil {
		return 0, fmt.Errorf("start assessment: %w", err)
	}
	return resp.AssessmentID, nil
}

// Questions fetches the question set for a level.
func (c *Client) Questions(ctx context.Context, level string) ([]assessment.Question, error) {
	path := "/assessment/questions/?level=" + url.QueryEscape(level)
	var qs []assessment.Question
	if err := c.do(ctx, http.MethodGet, path, nil, &qs); err != nil {
		return nil, fmt.Errorf("fetch questions for level %s: %w", level, err)
	}
	return qs, nil
}

// SubmitResponse persists a single answer.
func (c *Client) SubmitResponse(ctx context.Context, in SubmitResponseInput) error {
	if err := c.do(ctx, http.MethodPost, "/assessment/submit-response/", in, nil); err != nil {
		return fmt.Errorf("submit response: %w", err)
	}
	return nil
}

// SubmitLevel asks the backend to score the current level. The backend is
// the sole authority on pass/fail.
func (c *Client) SubmitLevel(ctx context.Context, assessmentID int64) (*assessment.LevelResult, error) {
	body := map[string]int64{"assessment_id": assessmentID}
	var res assessment.LevelResult
	if err := c.do(ctx, http.MethodPost, "/assessment/submit/", body, &res); err != nil {
		return nil, fmt.Errorf("submit level: %w", err)
	}
	return &res, nil
}

// SendTelemetry posts one telemetry record. The response body is ignored.
func (c *Client) SendTelemetry(ctx context.Context, ev TelemetryEvent) error {
	if err := c.do(ctx, http.MethodPost, "/assessment/telemetry/", ev, nil); err != nil {
		return fmt.Errorf("send telemetry: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
