package log

import (
	"log/slog"
	"net/http"
	"time"
)

// NewHTTPClient returns a client that logs every request it sends at debug
// level. Headers are never logged since they carry the API key.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &HTTPRoundTripLogger{
			Transport: http.DefaultTransport,
		},
	}
}

type HTTPRoundTripLogger struct {
	Transport http.RoundTripper
}

func (h *HTTPRoundTripLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	slog.Debug("HTTP request",
		"method", req.Method,
		"url", req.URL.String(),
		"content_length", req.ContentLength,
	)

	resp, err := h.Transport.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		slog.Debug("HTTP request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return resp, err
	}

	slog.Debug("HTTP response",
		"status_code", resp.StatusCode,
		"status", resp.Status,
		"content_length", resp.ContentLength,
		"duration_ms", duration.Milliseconds(),
	)
	return resp, nil
}
