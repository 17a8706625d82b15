package common

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/johanforsgren/repodeck/internal/logger"
)

const maxLoggedBody = 2048

var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"api-key":       true,
	"x-auth-token":  true,
	"cookie":        true,
	"set-cookie":    true,
}

// LoggingTransport wraps an http.RoundTripper and records every exchange in
// the session log.
type LoggingTransport struct {
	Transport http.RoundTripper
}

func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Default().WithGroup("http")

	log.Debug("request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.String("headers", formatHeaders(req.Header)),
	)

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		logger.LogError("HTTP_REQUEST", req.Method+" "+req.URL.String(), err)
		return nil, err
	}

	body, err := peekBody(resp)
	if err != nil {
		logger.LogError("HTTP_RESPONSE_BODY", req.Method+" "+req.URL.String(), err)
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	log.Info("response",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("status", resp.Status),
		slog.Duration("duration", duration),
		slog.String("body", body),
	)

	return resp, nil
}

// peekBody reads the response body for logging and restores it for the
// caller. Only a prefix is logged. A failed read is returned rather than
// handing a truncated body on.
func peekBody(resp *http.Response) (string, error) {
	if resp.Body == nil || resp.ContentLength == 0 {
		return "", nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return "", err
	}
	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	if len(bodyBytes) > maxLoggedBody {
		return string(bodyBytes[:maxLoggedBody]) + "...", nil
	}
	return string(bodyBytes), nil
}

func formatHeaders(h http.Header) string {
	var parts []string
	for name, values := range h {
		if isSensitiveHeader(name) {
			parts = append(parts, name+": [REDACTED]")
			continue
		}
		parts = append(parts, name+": "+strings.Join(values, ","))
	}
	return strings.Join(parts, "; ")
}

func isSensitiveHeader(name string) bool {
	return sensitiveHeaders[strings.ToLower(name)]
}
