package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"kgeyst.com/modeldesk/pkg/common"
	"kgeyst.com/modeldesk/pkg/modeldesk/domain"
)

const (
	// ConfigKeyBaseURL where the Inference API lives; any server speaking the same protocol will do
	ConfigKeyBaseURL = "huggingFaceBaseURL"
	// ConfigKeyToken the API token, sent as a bearer token if set
	ConfigKeyToken = "huggingFaceToken"
	// ConfigKeyTimeout how long a single request may take, in milliseconds
	ConfigKeyTimeout = "huggingFaceTimeout"
)

const DefaultBaseURL = "https://api-inference.huggingface.co"

var errUnexpectedResponse = errors.New("unexpected response shape")

// Provider serves text and image classification pipelines from a Hugging Face style inference API:
// POST {baseURL}/models/{modelID}.
type Provider struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ domain.PipelineProvider = (*Provider)(nil)

// NewProvider if `httpClient` is nil, a client with the configured timeout is used.
func NewProvider(config *common.Config, httpClient *http.Client) *Provider {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.GetDurationOrDefault(ConfigKeyTimeout, time.Minute),
		}
	}
	return &Provider{
		baseURL:    strings.TrimRight(config.GetStringOrDefault(ConfigKeyBaseURL, DefaultBaseURL), "/"),
		token:      config.GetString(ConfigKeyToken),
		httpClient: httpClient,
	}
}

func (p *Provider) TextPipeline(modelID string) (domain.TextPipeline, error) {
	if modelID == "" {
		return nil, errors.New("empty model ID")
	}
	return &textPipeline{provider: p, modelID: modelID}, nil
}

func (p *Provider) ImagePipeline(modelID string) (domain.ImagePipeline, error) {
	if modelID == "" {
		return nil, errors.New("empty model ID")
	}
	return &imagePipeline{provider: p, modelID: modelID}, nil
}

// Health checks that the API is reachable.
func (p *Provider) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}
	return nil
}

type textPipeline struct {
	provider *Provider
	modelID  string
}

func (t *textPipeline) ClassifyText(ctx context.Context, text string) ([]domain.Prediction, error) {
	body, err := json.Marshal(struct {
		Inputs string `json:"inputs"`
	}{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return t.provider.send(ctx, t.modelID, "application/json", body)
}

type imagePipeline struct {
	provider *Provider
	modelID  string
}

// ClassifyImage the decoded image is re-encoded as PNG, whatever format the file was in.
func (i *imagePipeline) ClassifyImage(ctx context.Context, img image.Image) ([]domain.Prediction, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return i.provider.send(ctx, i.modelID, "image/png", buf.Bytes())
}

type errorResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

func (p *Provider) send(ctx context.Context, modelID, contentType string, body []byte) ([]domain.Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/models/"+modelID, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	if requestID := domain.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, respBody)
	}
	predictions, err := parsePredictions(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return predictions, nil
}

func statusError(statusCode int, body []byte) error {
	var apiError errorResponse
	if err := json.Unmarshal(body, &apiError); err == nil && apiError.Error != "" {
		if apiError.EstimatedTime > 0 {
			return fmt.Errorf("inference API returned status %d: %s (ready in ~%.0fs)", statusCode, apiError.Error, apiError.EstimatedTime)
		}
		return fmt.Errorf("inference API returned status %d: %s", statusCode, apiError.Error)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("inference API returned status %d", statusCode)
	}
	return fmt.Errorf("inference API returned status %d: %s", statusCode, string(body))
}

// Text classification answers [[{label, score}, ...]] (one list per input), image classification [{label, score}, ...].
func parsePredictions(body []byte) ([]domain.Prediction, error) {
	var nested [][]domain.Prediction
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat []domain.Prediction
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, nil
	}
	return nil, errUnexpectedResponse
}
