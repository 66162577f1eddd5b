package petkit

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// WithLogger sets a structured logger for debug output. When no logger is
// configured, logging is a no-op.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// logDebug logs a debug message if a logger is configured.
func (c *Client) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// logWarn logs a warning message if a logger is configured.
func (c *Client) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// logError logs an error message if a logger is configured.
func (c *Client) logError(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

// LoggingTransport is an http.RoundTripper that logs requests and responses.
// Useful for debugging as an alternative to WithLogger:
//
//	client, _ := petkit.NewClient(user, pass, "", "",
//	    petkit.WithHTTPClient(&http.Client{
//	        Transport: &petkit.LoggingTransport{Logger: logger},
//	    }))
type LoggingTransport struct {
	// Transport is the underlying RoundTripper. Defaults to
	// http.DefaultTransport when nil.
	Transport http.RoundTripper

	// Logger receives one entry per round trip.
	Logger *slog.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	start := time.Now()
	resp, err := transport.RoundTrip(req)
	elapsed := time.Since(start)

	if t.Logger != nil {
		attrs := []slog.Attr{
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Duration("duration", elapsed),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
			t.Logger.LogAttrs(req.Context(), slog.LevelError, "http_round_trip", attrs...)
		} else {
			attrs = append(attrs, slog.Int("status", resp.StatusCode))
			t.Logger.LogAttrs(req.Context(), slog.LevelDebug, "http_round_trip", attrs...)
		}
	}

	return resp, err
}
