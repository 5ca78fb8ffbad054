package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs an API request with its outcome
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}
	switch {
	case statusCode >= 500:
		l.ErrorWithFields("API request server error", fields)
	case statusCode >= 400:
		l.WarnWithFields("API request client error", fields)
	default:
		l.DebugWithFields("API request completed", fields)
	}
}

// LogSearchPage logs one page of a theme walk
func LogSearchPage(l Logger, theme string, posts, unique int) {
	l.WithFields(map[string]interface{}{
		"theme":  theme,
		"posts":  posts,
		"unique": unique,
	}).Debug("Search page retrieved")
}

// LogProfileFailure logs a blog whose profile could not be fetched
func LogProfileFailure(l Logger, blog string, err error) {
	l.WithField("blog", blog).WithError(err).Warn("Profile fetch failed, skipping blog")
}

// LogRunSummary logs the totals of a finished run
func LogRunSummary(l Logger, summary map[string]interface{}) {
	fields := map[string]interface{}{"type": "summary"}
	for k, v := range summary {
		fields[k] = v
	}
	l.InfoWithFields("Search run finished", fields)
}

// LogProfileProgress logs the running profile counts
func LogProfileProgress(l Logger, processed, total, qualified int) {
	l.WithFields(map[string]interface{}{
		"processed": processed,
		"total":     total,
		"qualified": qualified,
	}).Info("Profile progress")
}

// LogBudgetWait logs a pause forced by the hourly call budget
func LogBudgetWait(l Logger, wait time.Duration, used int) {
	l.WithFields(map[string]interface{}{
		"wait":   wait.Round(time.Second).String(),
		"used":   used,
		"action": "budget_wait",
	}).Warn("Hourly API budget reached, pausing")
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
