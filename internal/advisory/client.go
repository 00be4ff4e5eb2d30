// Package advisory wraps a remote generative service that produces triage
// notes for anomalies and effort estimates for tasks. The client retries
// with exponential backoff, caches responses for a TTL, and degrades to
// fixed fallback payloads instead of surfacing transport failures.
package advisory

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// TriageRequest carries the anomaly context sent for triage.
type TriageRequest struct {
	TaskTitle    string  `json:"task_title"`
	AnomalyType  string  `json:"anomaly_type"`
	Severity     string  `json:"severity"`
	Description  string  `json:"description"`
	EmployeeName string  `json:"employee_name"`
	Workload     float64 `json:"workload"`
	Progress     float64 `json:"progress"`
}

// TriageResult is the structured triage guidance for one anomaly.
type TriageResult struct {
	Notes    string   `json:"triage_notes"`
	Actions  []string `json:"recommended_actions"`
	Priority string   `json:"priority"`

	// Fallback reports that the remote call failed and canned guidance
	// was substituted.
	Fallback bool `json:"-"`
}

// EffortRequest carries the task and assignee context for an estimate.
type EffortRequest struct {
	TaskTitle       string  `json:"task_title"`
	RequiredSkills  string  `json:"required_skills"`
	Complexity      float64 `json:"complexity"`
	EstimatedHours  float64 `json:"estimated_hours"`
	EmployeeName    string  `json:"employee_name"`
	ExperienceYears float64 `json:"experience_years"`
	CurrentWorkload float64 `json:"current_workload"`
}

// EffortEstimate is the structured completion-time prediction for a task.
type EffortEstimate struct {
	PredictedHours float64  `json:"predicted_hours"`
	Confidence     float64  `json:"confidence"`
	Factors        []string `json:"factors"`

	Fallback bool `json:"-"`
}

// Advisor produces generative guidance. Implementations degrade to fixed
// fallbacks rather than return transport failures to callers.
type Advisor interface {
	Triage(ctx context.Context, req TriageRequest) TriageResult
	PredictEffort(ctx context.Context, req EffortRequest) EffortEstimate
}

// backoffProvider yields a fresh backoff policy per call sequence.
type backoffProvider interface {
	Get() backoff.BackOff
}

type expBackoffProvider struct {
	maxAttempts int
}

func (p *expBackoffProvider) Get() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return backoff.WithMaxRetries(b, uint64(p.maxAttempts-1))
}

// httpAdvisor implements Advisor over a text-generation HTTP API.
type httpAdvisor struct {
	cfg      Config
	http     *http.Client
	cache    *responseCache
	bp       backoffProvider
	observer Observer
	now      func() time.Time
}

// NewClient creates an Advisor that talks to the configured endpoint.
func NewClient(cfg Config, observer Observer) Advisor {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpAdvisor{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		cache:    newResponseCache(cfg.CacheTTL),
		bp:       &expBackoffProvider{maxAttempts: cfg.MaxAttempts},
		observer: observer,
		now:      time.Now,
	}
}

// triagePayload is the JSON object expected inside the generated text.
type triagePayload struct {
	Notes    string   `json:"triage_notes"`
	Actions  []string `json:"recommended_actions"`
	Priority string   `json:"priority"`
}

func (a *httpAdvisor) Triage(ctx context.Context, req TriageRequest) TriageResult {
	prompt := triagePrompt(req)

	raw, err := a.generate(ctx, "triage", prompt, cacheKey("triage", req))
	if err == nil {
		payload, perr := ExtractJSON[triagePayload](raw, validTriage)
		if perr == nil {
			return TriageResult{
				Notes:    payload.Notes,
				Actions:  payload.Actions,
				Priority: normalizePriority(payload.Priority),
			}
		}
		err = perr
	}

	a.observer.OnCallComplete(CallEvent{
		Kind: "triage", Model: a.cfg.Model,
		Fallback: true, ErrorCode: errorCode(err),
	})
	return fallbackTriage(req)
}

// effortPayload is the JSON object expected inside the generated text.
type effortPayload struct {
	PredictedHours float64  `json:"predicted_hours"`
	Confidence     float64  `json:"confidence"`
	Factors        []string `json:"factors"`
}

func (a *httpAdvisor) PredictEffort(ctx context.Context, req EffortRequest) EffortEstimate {
	prompt := effortPrompt(req)

	raw, err := a.generate(ctx, "effort", prompt, cacheKey("effort", req))
	if err == nil {
		payload, perr := ExtractJSON[effortPayload](raw, validEffort)
		if perr == nil {
			return EffortEstimate{
				PredictedHours: payload.PredictedHours,
				Confidence:     payload.Confidence,
				Factors:        payload.Factors,
			}
		}
		err = perr
	}

	a.observer.OnCallComplete(CallEvent{
		Kind: "effort", Model: a.cfg.Model,
		Fallback: true, ErrorCode: errorCode(err),
	})
	return fallbackEffort(req)
}

// generateRequest is the JSON body sent to POST /v1/generate.
type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature,omitempty"`
}

// generateResponse is the JSON body returned by POST /v1/generate.
type generateResponse struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

// generate runs one cached, retried text-generation call and returns the
// raw response text.
func (a *httpAdvisor) generate(ctx context.Context, kind, prompt, key string) (string, error) {
	start := a.now()

	if cached, ok := a.cache.get(key, start); ok {
		a.observer.OnCallComplete(CallEvent{
			Kind: kind, Model: a.cfg.Model, Success: true, Cached: true,
		})
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var text string
	op := func() error {
		resp, err := a.doRequest(ctx, generateRequest{
			Model:       a.cfg.Model,
			Prompt:      prompt,
			Temperature: a.cfg.Temperature,
		})
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ErrTimeout)
			}
			return err
		}
		text = resp.Text
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(a.bp.Get(), ctx))
	latency := a.now().Sub(start).Milliseconds()

	if err != nil {
		a.observer.OnCallComplete(CallEvent{
			Kind: kind, Model: a.cfg.Model, LatencyMs: latency,
			ErrorCode: errorCode(err),
		})
		if errors.Is(err, ErrTimeout) || ctx.Err() != nil {
			return "", ErrTimeout
		}
		if isConnection(err) {
			return "", fmt.Errorf("%w: %v", ErrAdvisorUnavailable, err)
		}
		return "", fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}

	a.cache.put(key, text, a.now())
	a.observer.OnCallComplete(CallEvent{
		Kind: kind, Model: a.cfg.Model, LatencyMs: latency, Success: true,
	})
	return text, nil
}

func (a *httpAdvisor) doRequest(ctx context.Context, body generateRequest) (*generateResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := a.cfg.Endpoint + "/v1/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		err := fmt.Errorf("advisor returned status %d: %s", httpResp.StatusCode, string(respBody))
		if httpResp.StatusCode >= 400 && httpResp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

func triagePrompt(req TriageRequest) string {
	return fmt.Sprintf(`Analyze the following task anomaly and provide triage guidance.

Task: %s
Anomaly Type: %s
Severity: %s
Description: %s
Employee: %s
Current Workload: %.1f hours
Task Progress: %.1f%%

Respond with a single JSON object:
{"triage_notes": "...", "recommended_actions": ["..."], "priority": "low|medium|high"}`,
		req.TaskTitle, req.AnomalyType, req.Severity, req.Description,
		req.EmployeeName, req.Workload, req.Progress)
}

func effortPrompt(req EffortRequest) string {
	return fmt.Sprintf(`Predict the completion time for the following task.

Task: %s
Required Skills: %s
Complexity: %.1f
Estimated Hours: %.1f
Assigned To: %s
Employee Experience: %.1f years
Current Workload: %.1f hours

Respond with a single JSON object:
{"predicted_hours": 0.0, "confidence": 0.0, "factors": ["..."]}`,
		req.TaskTitle, req.RequiredSkills, req.Complexity, req.EstimatedHours,
		req.EmployeeName, req.ExperienceYears, req.CurrentWorkload)
}

func validTriage(p triagePayload) error {
	if strings.TrimSpace(p.Notes) == "" {
		return errors.New("empty triage_notes")
	}
	if len(p.Actions) == 0 {
		return errors.New("no recommended_actions")
	}
	return nil
}

func validEffort(p effortPayload) error {
	if p.PredictedHours <= 0 {
		return fmt.Errorf("non-positive predicted_hours %v", p.PredictedHours)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", p.Confidence)
	}
	return nil
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high", "critical", "urgent":
		return "high"
	case "low":
		return "low"
	default:
		return "medium"
	}
}

// fallbackTriage returns canned guidance when the remote call cannot be
// completed. Priority tracks the anomaly severity.
func fallbackTriage(req TriageRequest) TriageResult {
	priority := "medium"
	switch strings.ToLower(req.Severity) {
	case "high", "critical":
		priority = "high"
	case "low":
		priority = "low"
	}
	return TriageResult{
		Notes: fmt.Sprintf("Automated triage unavailable. Anomaly of type %s (severity %s) requires manual review.",
			req.AnomalyType, req.Severity),
		Actions: []string{
			"Review task requirements and clarify ambiguities",
			"Reassign or redistribute workload if necessary",
			"Schedule check-in meeting with stakeholders",
		},
		Priority: priority,
		Fallback: true,
	}
}

// fallbackEffort passes the human estimate through at half confidence.
func fallbackEffort(req EffortRequest) EffortEstimate {
	hours := req.EstimatedHours
	if hours <= 0 {
		hours = 8
	}
	return EffortEstimate{
		PredictedHours: hours,
		Confidence:     0.5,
		Factors:        []string{"estimate passthrough"},
		Fallback:       true,
	}
}

func cacheKey(kind string, payload any) string {
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(append([]byte(kind+"|"), data...))
	return hex.EncodeToString(sum[:])
}

func isTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

func isConnection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAdvisorUnavailable) {
		return true
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func isInvalidOutput(err error) bool {
	return errors.Is(err, ErrInvalidOutput)
}
