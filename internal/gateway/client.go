package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "emotrack/internal/platform/errors"
)

// Client wraps the EmoTrack REST API with typed operations. It attaches the
// Authorization header when a token is present, rejects authenticated calls
// locally when it is not, and normalizes every non-success response into the
// shared error taxonomy. It performs no storage mutation and no navigation.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// StatusError carries a non-2xx, non-auth response. It unwraps to ErrServer
// so callers can branch on the taxonomy without losing the detail.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return apperrors.ErrServer }

// ─── wire types ──────────────────────────────────────────────────────────────

type LoginResult struct {
	Token    string
	Username string
	Role     string
}

type Profile struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

type HistoryPoint struct {
	Date string
	Mood float64
}

// historyPoint tolerates both numeric and string moods; the backend emits
// strings for per-user history (raw CSV rows) and numbers for aggregates.
type historyPoint struct {
	Date string          `json:"date"`
	Mood json.RawMessage `json:"mood"`
}

type StatsPayload struct {
	AverageMood  *float64
	TotalEntries int
	History      []HistoryPoint
}

type RecommendationPayload struct {
	Username       string   `json:"username"`
	RiskLevel      string   `json:"risk_level"`
	Recommendation string   `json:"recommendation"`
	GeneralTips    []string `json:"general_tips"`
}

type AlertEntry struct {
	Username      string  `json:"username"`
	RiskLevel     string  `json:"risk_level"`
	AvgScore      float64 `json:"avg_score"`
	TrendNegative bool    `json:"trend_negative"`
}

type AlertsPayload struct {
	TotalAlerts int          `json:"total_alerts"`
	Alerts      []AlertEntry `json:"alerts"`
}

type SurveyPayload struct {
	Mood          int     `json:"mood"`
	SleepHours    float64 `json:"sleep_hours"`
	Appetite      int     `json:"appetite"`
	Concentration int     `json:"concentration"`
	Notes         string  `json:"notes"`
}

// ─── operations ──────────────────────────────────────────────────────────────

func (c *Client) Register(ctx context.Context, username, email, password string) (LoginResult, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/register", "", body)
	if err != nil {
		return LoginResult{}, err
	}
	return c.loginResultFrom(raw, username)
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/login", "", body)
	if err != nil {
		return LoginResult{}, err
	}
	return c.loginResultFrom(raw, username)
}

func (c *Client) Me(ctx context.Context, token string) (Profile, error) {
	raw, err := c.do(ctx, http.MethodGet, "/me", token, nil)
	if err != nil {
		return Profile{}, err
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

func (c *Client) Stats(ctx context.Context, token string) (StatsPayload, error) {
	raw, err := c.do(ctx, http.MethodGet, "/stats", token, nil)
	if err != nil {
		return StatsPayload{}, err
	}
	return DecodeStats(raw)
}

func (c *Client) Recommendations(ctx context.Context, token string) (RecommendationPayload, error) {
	raw, err := c.do(ctx, http.MethodGet, "/recommendations", token, nil)
	if err != nil {
		return RecommendationPayload{}, err
	}
	var p RecommendationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return RecommendationPayload{}, fmt.Errorf("decode recommendations: %w", err)
	}
	return p, nil
}

func (c *Client) Alerts(ctx context.Context, token string) (AlertsPayload, error) {
	raw, err := c.do(ctx, http.MethodGet, "/all-alerts", token, nil)
	if err != nil {
		return AlertsPayload{}, err
	}
	var p AlertsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return AlertsPayload{}, fmt.Errorf("decode alerts: %w", err)
	}
	return p, nil
}

func (c *Client) SubmitSurvey(ctx context.Context, token string, s SurveyPayload) error {
	_, err := c.do(ctx, http.MethodPost, "/surveys", token, s)
	return err
}

// UserPlot fetches the server-rendered PNG for the given kind. The ts query
// parameter defeats intermediary caching, mirroring the original client.
func (c *Client) UserPlot(ctx context.Context, token, kind string, ts time.Time) ([]byte, error) {
	if token == "" {
		return nil, apperrors.ErrMissingToken
	}
	q := url.Values{}
	q.Set("kind", kind)
	q.Set("ts", fmt.Sprintf("%d", ts.UnixMilli()))
	return c.do(ctx, http.MethodGet, "/user-plot?"+q.Encode(), token, nil)
}

// StreamURL derives the live-channel address from the REST base: the scheme
// is transposed (http→ws, https→wss) and the token travels as a query
// parameter, which is all the backend's upgrade handler accepts.
func (c *Client) StreamURL(token string) (string, error) {
	if token == "" {
		return "", apperrors.ErrMissingToken
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/alerts"
	q := url.Values{}
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ─── internals ───────────────────────────────────────────────────────────────

// authPaths require a bearer token; requests without one never reach the wire.
var authPaths = map[string]bool{
	"/me": true, "/stats": true, "/recommendations": true,
	"/all-alerts": true, "/surveys": true, "/user-plot": true,
}

func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	bare := path
	if i := strings.IndexByte(bare, '?'); i >= 0 {
		bare = bare[:i]
	}
	if token == "" && authPaths[bare] {
		return nil, apperrors.ErrMissingToken
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperrors.ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.log.Warn("request unauthorized", "method", method, "path", bare)
		return nil, fmt.Errorf("%w: %s %s", apperrors.ErrUnauthorized, method, bare)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.Warn("request failed", "method", method, "path", bare, "status", resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return raw, nil
}

func (c *Client) loginResultFrom(raw []byte, fallbackUsername string) (LoginResult, error) {
	var resp struct {
		Username string `json:"username"`
		Role     string `json:"role"`
		User     struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return LoginResult{}, fmt.Errorf("decode login response: %w", err)
	}
	token, err := tokenFromLogin(raw)
	if err != nil {
		return LoginResult{}, err
	}

	username := resp.Username
	if username == "" {
		username = resp.User.Username
	}
	if username == "" {
		username = fallbackUsername
	}
	role := resp.Role
	if role == "" {
		role = resp.User.Role
	}
	return LoginResult{Token: token, Username: username, Role: role}, nil
}

// DecodeStats parses a statistics payload. The /stats endpoint and the
// live channel's stats_update events share this wire shape.
func DecodeStats(raw []byte) (StatsPayload, error) {
	var resp struct {
		AverageMood  *float64       `json:"average_mood"`
		TotalEntries int            `json:"total_entries"`
		History      []historyPoint `json:"history"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return StatsPayload{}, fmt.Errorf("decode stats: %w", err)
	}
	out := StatsPayload{AverageMood: resp.AverageMood, TotalEntries: resp.TotalEntries}
	for _, p := range resp.History {
		mood, err := decodeMood(p.Mood)
		if err != nil {
			return StatsPayload{}, fmt.Errorf("decode stats history: %w", err)
		}
		out.History = append(out.History, HistoryPoint{Date: p.Date, Mood: mood})
	}
	return out, nil
}

func decodeMood(raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("mood is neither number nor string: %s", string(raw))
	}
	if _, err := fmt.Sscanf(s, "%f", &n); err != nil {
		return 0, fmt.Errorf("parse mood %q: %w", s, err)
	}
	return n, nil
}
