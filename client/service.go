package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"locality-insights/models"
	"locality-insights/utils"
)

// QueryPath is the analysis endpoint relative to the base URL.
const QueryPath = "/api/query/"

// maxBodyBytes bounds how much of a response body is read into memory.
const maxBodyBytes = 32 << 20

// Service is the remote analysis service as seen by the controller.
type Service interface {
	Query(ctx context.Context, query string) (*models.InsightPayload, error)
}

// HTTPService talks to the analysis service over HTTP. It issues exactly one
// request per call: no retries, no client-side timeout.
type HTTPService struct {
	baseURL string
	http    *http.Client
	logger  *utils.Logger
}

// NewHTTPService creates a client for the service at baseURL. A nil
// httpClient uses http.DefaultClient.
func NewHTTPService(baseURL string, httpClient *http.Client, logger *utils.Logger) *HTTPService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPService{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// Query posts {"query": query} and decodes the insight payload.
func (s *HTTPService) Query(ctx context.Context, query string) (*models.InsightPayload, error) {
	reqID := uuid.NewString()
	log := s.logger.With("request_id", reqID)

	body, err := json.Marshal(models.Query{Query: query})
	if err != nil {
		return nil, fmt.Errorf("client: encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+QueryPath, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	log.Debug("[client] POST %s%s", s.baseURL, QueryPath)
	resp, err := s.http.Do(req)
	if err != nil {
		log.Warn("[client] Request failed: %v", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := decodeServerError(resp.StatusCode, raw)
		log.Warn("[client] Service answered %d: %s", resp.StatusCode, serr.Message)
		return nil, serr
	}

	var payload models.InsightPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Warn("[client] Undecodable success body: %v", err)
		return nil, &ServerError{Status: resp.StatusCode, Message: GenericServerMessage, Err: err}
	}

	log.Info("[client] Received insight for %d localities (%d series, %d rows)",
		len(payload.Areas), len(payload.Chart), len(payload.Table.Rows))
	return &payload, nil
}

// decodeServerError extracts {"error": "..."} from a failure body, falling
// back to the generic message when the body is not JSON or lacks the field.
func decodeServerError(status int, raw []byte) *ServerError {
	var body struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return &ServerError{Status: status, Message: GenericServerMessage, Err: err}
	}

	msg, ok := body.Error.(string)
	if !ok || msg == "" {
		return &ServerError{Status: status, Message: GenericServerMessage}
	}
	return &ServerError{Status: status, Message: msg, Structured: true}
}
