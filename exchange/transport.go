package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"unifex/logger"
)

// Request is the fully built HTTP request descriptor produced by an
// adapter's Sign hook.
type Request struct {
	URL     string
	Method  string
	Headers http.Header
	Body    string
}

type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(req)
}

// Request signs and dispatches one unified API call. The rate limiter is
// charged with the endpoint weight before the first attempt; network-class
// failures are retried with exponential backoff and the request is re-signed
// on every attempt so private calls never reuse a nonce. When out is non-nil
// the response body is JSON-decoded into it.
func (c *Client) Request(ctx context.Context, section, path, method string, params map[string]any, out any) ([]byte, error) {
	weight := c.endpointWeight(section, path)
	if err := c.limiter.WaitN(ctx, weight); err != nil {
		return nil, &NetworkError{BaseError: BaseError{Exchange: c.opts.ID, Message: "rate limiter wait aborted"}, Err: err}
	}

	delay := c.retry.BaseDelay
	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			c.log.WithFields(logger.Fields{
				"path":    path,
				"attempt": attempt + 1,
			}).Warn("retrying request")
			select {
			case <-ctx.Done():
				return nil, &NetworkError{BaseError: BaseError{Exchange: c.opts.ID, Message: "request canceled"}, Err: ctx.Err()}
			case <-time.After(delay):
			}
			delay *= time.Duration(c.retry.BackoffMultiplier)
			if delay > c.retry.MaxDelay {
				delay = c.retry.MaxDelay
			}
		}

		body, err := c.dispatch(ctx, section, path, method, params)
		if err != nil {
			var netErr *NetworkError
			if errors.As(err, &netErr) && attempt+1 < c.retry.MaxAttempts {
				lastErr = err
				continue
			}
			return nil, err
		}
		if out != nil {
			if uerr := json.Unmarshal(body, out); uerr != nil {
				return body, NewError(KindExchange, c.opts.ID,
					fmt.Sprintf("unexpected response format: %v", uerr), string(body))
			}
		}
		return body, nil
	}
	return nil, lastErr
}

func (c *Client) dispatch(ctx context.Context, section, path, method string, params map[string]any) ([]byte, error) {
	signed, err := c.adapter.Sign(path, section, method, params)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if signed.Body != "" {
		reader = strings.NewReader(signed.Body)
	}
	req, err := http.NewRequestWithContext(ctx, signed.Method, signed.URL, reader)
	if err != nil {
		return nil, NewError(KindBadRequest, c.opts.ID, err.Error(), "")
	}
	for key, values := range signed.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &NetworkError{BaseError: BaseError{Exchange: c.opts.ID, Message: err.Error()}, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{BaseError: BaseError{Exchange: c.opts.ID, Message: err.Error()}, Err: err}
	}

	// The adapter hook sees every response: exchanges regularly signal
	// business errors inside a 200 payload.
	if herr := c.adapter.HandleErrors(resp.StatusCode, body); herr != nil {
		return nil, herr
	}
	if resp.StatusCode >= 500 {
		return nil, &NetworkError{BaseError: BaseError{
			Exchange: c.opts.ID,
			Message:  fmt.Sprintf("HTTP %d", resp.StatusCode),
			Body:     string(body),
		}}
	}
	if resp.StatusCode >= 400 {
		return nil, c.ClassifyError("", fmt.Sprintf("HTTP %d", resp.StatusCode), body)
	}
	return body, nil
}

func (c *Client) endpointWeight(section, path string) int {
	if endpoints, ok := c.opts.API[section]; ok {
		if w, ok := endpoints[path]; ok && w > 0 {
			return w
		}
	}
	return 1
}
