package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/codeassist/internal/logging"
)

// DefaultOllamaEndpoint is the local Ollama generate endpoint.
const DefaultOllamaEndpoint = "http://localhost:11434/api/generate"

// DefaultOllamaTimeout bounds a single generation. Local models can be slow.
const DefaultOllamaTimeout = 180 * time.Second

// OllamaConfig configures the Ollama provider.
type OllamaConfig struct {
	// Endpoint is the /api/generate URL. Defaults to DefaultOllamaEndpoint.
	Endpoint string

	// Model is the model name (e.g. "codellama").
	Model string

	// Timeout bounds one request. Defaults to DefaultOllamaTimeout.
	Timeout time.Duration
}

// Ollama is a Gateway backed by a local Ollama server.
type Ollama struct {
	cfg    OllamaConfig
	client *http.Client
	logger *logging.Logger
}

// NewOllama creates an Ollama gateway. A nil logger disables logging.
func NewOllama(cfg OllamaConfig, logger *logging.Logger) *Ollama {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultOllamaEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = "codellama"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultOllamaTimeout
	}
	if logger == nil {
		logger = logging.Null
	}
	return &Ollama{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.WithComponent("gateway.ollama"),
	}
}

// Generate implements Gateway.
func (o *Ollama) Generate(ctx context.Context, req Request) (Response, error) {
	payload, err := o.buildPayload(req)
	if err != nil {
		return Response{}, &BackendError{Provider: "ollama", Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, &BackendError{Provider: "ollama", Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	o.logger.Debug("generate %s/%s via %s", req.Action, req.Language, o.cfg.Endpoint)

	start := time.Now()
	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return Response{}, classifyTransportError("ollama", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, &BackendError{Provider: "ollama", Message: err.Error()}
	}

	if httpResp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = fmt.Sprintf("status %d", httpResp.StatusCode)
		}
		return Response{}, &BackendError{Provider: "ollama", Message: msg}
	}

	output := gjson.GetBytes(body, "response").String()
	if output == "" {
		return Response{}, &BackendError{Provider: "ollama", Message: "no response from model"}
	}

	o.logger.Debug("generate finished in %s (%d bytes)", time.Since(start).Round(time.Millisecond), len(output))
	return buildResponse(req, output), nil
}

// buildPayload builds the non-streaming generate request body.
func (o *Ollama) buildPayload(req Request) ([]byte, error) {
	body, err := sjson.Set("", "model", o.cfg.Model)
	if err != nil {
		return nil, err
	}
	body, err = sjson.Set(body, "prompt", BuildPrompt(req))
	if err != nil {
		return nil, err
	}
	body, err = sjson.Set(body, "stream", false)
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// classifyTransportError maps transport failures onto the gateway error
// kinds the assist core understands.
func classifyTransportError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w: %v", ErrConnectionRefused, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrConnectionRefused, err)
	}
	return &BackendError{Provider: provider, Message: err.Error()}
}
