package logger

import (
	"context"
	"log/slog"
	"time"
)

// ModerationEvent represents a single administrative action taken
// against a user, vehicle, claim or listing.
type ModerationEvent struct {
	Action        string
	AdminID       string
	TargetType    string
	TargetID      string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// ModerationLogger emits structured records of admin actions alongside
// the database history trail, so operators can trace moderation
// decisions from logs alone.
type ModerationLogger struct {
	logger *slog.Logger
}

// NewModerationLogger creates a new moderation logger
func NewModerationLogger(logger *slog.Logger) *ModerationLogger {
	return &ModerationLogger{
		logger: logger,
	}
}

// LogAction logs a moderation action outcome
func (ml *ModerationLogger) LogAction(event ModerationEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "moderation"),
		slog.String("action", event.Action),
		slog.String("target_type", event.TargetType),
		slog.String("target_id", event.TargetID),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.AdminID != "" {
		attrs = append(attrs, slog.String("admin_id", event.AdminID))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}

	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	if event.Success {
		ml.logger.LogAttrs(context.Background(), slog.LevelInfo, "moderation", attrs...)
	} else {
		ml.logger.LogAttrs(context.Background(), slog.LevelWarn, "moderation", attrs...)
	}
}
