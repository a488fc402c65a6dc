package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"rpcrank/internal/pkg/apperrors"
)

// DefaultTimeout bounds a single JSON-RPC call when no explicit budget is
// configured.
const DefaultTimeout = 20 * time.Second

// Client issues single JSON-RPC calls over HTTP(S) or websocket endpoints
// and measures their round-trip time. One instance is shared by all probers
// and is safe for concurrent use.
type Client struct {
	httpClient *fasthttp.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a client with the given per-call timeout. A timeout of
// zero or less falls back to DefaultTimeout.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &fasthttp.Client{ReadTimeout: timeout},
		timeout:    timeout,
		logger:     logger.Named("RPCClient"),
	}
}

// Call sends one JSON-RPC request and decodes the reply envelope. Elapsed
// time is returned in every case, including failures, so latency stays
// observable. A JSON-RPC error object in the reply is not a Go error;
// callers inspect Response.Error.
func (c *Client) Call(ctx context.Context, url, method string, params []any) (*Response, time.Duration, error) {
	if params == nil {
		params = []any{}
	}
	payload, err := json.Marshal(Request{Jsonrpc: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: marshal %s call: %v", apperrors.ErrInvalidInput, method, err)
	}

	if strings.HasPrefix(url, "ws://") || strings.HasPrefix(url, "wss://") {
		return c.callWebsocket(ctx, url, payload)
	}
	return c.callHTTP(ctx, url, payload)
}

func (c *Client) callHTTP(ctx context.Context, url string, payload []byte) (*Response, time.Duration, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	timeout := c.effectiveTimeout(ctx)

	start := time.Now()
	requestErr := c.httpClient.DoTimeout(req, resp, timeout)
	elapsed := time.Since(start)

	if requestErr != nil {
		if errors.Is(requestErr, fasthttp.ErrTimeout) {
			c.logger.Debug("HTTP call timed out",
				zap.String("url", url), zap.Duration("timeout", timeout))
			return nil, elapsed, fmt.Errorf("%w after %v", apperrors.ErrTimeout, timeout)
		}
		c.logger.Debug("HTTP call failed", zap.String("url", url), zap.Error(requestErr))
		return nil, elapsed, fmt.Errorf("%w: %v", apperrors.ErrUnreachable, requestErr)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Debug("HTTP call returned non-OK status",
			zap.String("url", url), zap.Int("statusCode", resp.StatusCode()))
		return nil, elapsed, fmt.Errorf("%w: HTTP %d", apperrors.ErrUnreachable, resp.StatusCode())
	}

	out, err := decodeEnvelope(resp.Body())
	if err != nil {
		c.logger.Debug("HTTP call returned undecodable body",
			zap.String("url", url), zap.Error(err))
		return nil, elapsed, err
	}
	return out, elapsed, nil
}

func (c *Client) callWebsocket(ctx context.Context, url string, payload []byte) (*Response, time.Duration, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.effectiveTimeout(ctx),
	}

	start := time.Now()
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		elapsed := time.Since(start)
		c.logger.Debug("websocket dial failed", zap.String("url", url), zap.Error(err))
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, elapsed, fmt.Errorf("%w: websocket dial: %v", apperrors.ErrTimeout, err)
		}
		return nil, elapsed, fmt.Errorf("%w: websocket dial: %v", apperrors.ErrUnreachable, err)
	}
	defer conn.Close()

	opDeadline := time.Now().Add(c.effectiveTimeout(ctx))
	_ = conn.SetWriteDeadline(opDeadline)
	_ = conn.SetReadDeadline(opDeadline)

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Debug("websocket write failed", zap.String("url", url), zap.Error(err))
		return nil, time.Since(start), fmt.Errorf("%w: websocket write: %v", apperrors.ErrUnreachable, err)
	}

	_, message, err := conn.ReadMessage()
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Debug("websocket read failed", zap.String("url", url), zap.Error(err))
		return nil, elapsed, fmt.Errorf("%w: websocket read: %v", apperrors.ErrUnreachable, err)
	}

	out, err := decodeEnvelope(message)
	if err != nil {
		c.logger.Debug("websocket reply undecodable", zap.String("url", url), zap.Error(err))
		return nil, elapsed, err
	}
	return out, elapsed, nil
}

// effectiveTimeout caps the configured timeout by the remaining context
// budget, when one is set.
func (c *Client) effectiveTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func decodeEnvelope(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidResponse, err)
	}
	return &resp, nil
}
