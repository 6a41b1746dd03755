package services

import (
	"context"
	"log/slog"

	"github.com/plata-app/plata-core/internal/platform/logging"
)

// BaseService provides logging helpers shared by all services.
type BaseService struct{}

// LogInfo logs an informational message with the context-scoped logger.
func (s *BaseService) LogInfo(ctx context.Context, msg string, args ...any) {
	logging.FromContext(ctx).Info(msg, args...)
}

// LogWarn logs a warning with the context-scoped logger.
func (s *BaseService) LogWarn(ctx context.Context, msg string, args ...any) {
	logging.FromContext(ctx).Warn(msg, args...)
}

// LogError logs an error with the context-scoped logger.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, args ...any) {
	logging.FromContext(ctx).Error(msg, append(args, slog.String("error", err.Error()))...)
}
