// Package gateway is the HTTP client for the agent backend. Every call
// returns either a decoded result or a single structured error from
// internal/errors; nothing is retried.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zhubert/agentdeck/internal/attachment"
	pErrors "github.com/zhubert/agentdeck/internal/errors"
	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/response"
)

const tracerName = "github.com/zhubert/agentdeck/internal/gateway"

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api.
	BaseURL string
	// HTTPClient defaults to NewHTTPClient(UserAgent).
	HTTPClient *http.Client
	UserAgent  string
}

// Client talks to one backend.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

// New creates a Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	switch {
	case hc == nil:
		hc = NewHTTPClient(opts.UserAgent)
	case opts.UserAgent != "":
		hc = withUserAgent(hc, opts.UserAgent)
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		tracer:  otel.Tracer(tracerName),
	}
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendMessage posts one chat turn. The message field is left out when text
// is empty; each attachment becomes a "files" part carrying its MIME type.
func (c *Client) SendMessage(ctx context.Context, text string, files []attachment.Attachment) (*response.AgentResponse, error) {
	const op = pErrors.Op("gateway.SendMessage")

	body, contentType, err := buildChatForm(text, files)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, op, http.MethodPost, "/chat", body, contentType)
	if err != nil {
		return nil, err
	}

	r, err := response.Parse(data)
	if err != nil {
		logger.WithComponent("Gateway").Warn("unreadable chat response", "error", err)
		return nil, pErrors.InvalidResponse(op, err)
	}
	return r, nil
}

// ListActions fetches the actions the agent can run.
func (c *Client) ListActions(ctx context.Context) ([]Action, error) {
	const op = pErrors.Op("gateway.ListActions")

	data, err := c.do(ctx, op, http.MethodGet, "/actions", nil, "")
	if err != nil {
		return nil, err
	}
	if !validJSON(data) {
		return nil, pErrors.InvalidResponse(op, fmt.Errorf("actions response is not JSON"))
	}
	return decodeActions(data), nil
}

// GetConfig fetches the configuration of all agents.
func (c *Client) GetConfig(ctx context.Context) (GlobalConfig, error) {
	const op = pErrors.Op("gateway.GetConfig")

	data, err := c.do(ctx, op, http.MethodGet, "/config/", nil, "")
	if err != nil {
		return GlobalConfig{}, err
	}
	cfg, err := decodeGlobalConfig(data)
	if err != nil {
		return GlobalConfig{}, pErrors.InvalidResponse(op, err)
	}
	return cfg, nil
}

// GetAgentConfig fetches the configuration of the named agent.
func (c *Client) GetAgentConfig(ctx context.Context, name string) (*AgentConfig, error) {
	const op = pErrors.Op("gateway.GetAgentConfig")

	data, err := c.do(ctx, op, http.MethodGet, "/config/"+url.PathEscape(name), nil, "")
	if err != nil {
		return nil, err
	}
	cfg, err := decodeAgentConfig(data)
	if err != nil {
		return nil, pErrors.InvalidResponse(op, err)
	}
	return cfg, nil
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op pErrors.Op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	target := c.baseURL + path
	requestID := uuid.NewString()
	log := logger.WithRequest("Gateway", requestID)

	ctx, span := c.tracer.Start(ctx, string(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", target),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, pErrors.E(op, pErrors.KindInvalid, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	log.Debug("sending request", "method", method, "url", target)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", "url", target, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "network error")
		return nil, pErrors.NetworkFailure(op, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("reading response failed", "url", target, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "network error")
		return nil, pErrors.NetworkFailure(op, target, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	log.Info("request finished",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := httpError(op, resp.StatusCode, data)
		log.Warn("backend error", "status", resp.StatusCode, "error", pErrors.Message(herr))
		span.RecordError(herr)
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return nil, herr
	}
	return data, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildChatForm encodes the chat request as multipart/form-data. The
// returned content type carries the writer's boundary.
func buildChatForm(text string, files []attachment.Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if text != "" {
		if err := w.WriteField("message", text); err != nil {
			return nil, "", pErrors.E(pErrors.Op("gateway.SendMessage"), pErrors.KindIO, err)
		}
	}

	for _, a := range files {
		if err := writeFilePart(w, a); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", pErrors.E(pErrors.Op("gateway.SendMessage"), pErrors.KindIO, err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, a attachment.Attachment) error {
	mimeType := a.MimeType
	if mimeType == "" {
		mimeType = attachment.DetectMimeType(a.Name)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(a.Name)))
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return pErrors.E(pErrors.Op("gateway.SendMessage"), pErrors.KindIO, err)
	}

	f, err := attachment.Open(a)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(part, f); err != nil {
		return pErrors.E(pErrors.Op("gateway.SendMessage"), pErrors.KindIO, fmt.Sprintf("reading %s", a.Name), err)
	}
	return nil
}

func validJSON(data []byte) bool {
	return len(bytes.TrimSpace(data)) > 0 && gjson.ValidBytes(data)
}
