package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Room allocation logging helpers

// LogRoomAllocated logs a successful room allocation
func (l *Logger) LogRoomAllocated(ctx context.Context, roomID uint, timesBooked int) {
	l.Logger.InfoContext(ctx,
		"Room Allocated",
		slog.Uint64("room_id", uint64(roomID)),
		slog.Int("times_booked", timesBooked),
	)
}

// LogBookingConfirmed logs a confirmed booking
func (l *Logger) LogBookingConfirmed(ctx context.Context, roomID uint, timesBooked int) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.Uint64("room_id", uint64(roomID)),
		slog.Int("times_booked", timesBooked),
	)
}

// LogRoomReleased logs an allocation released without booking
func (l *Logger) LogRoomReleased(ctx context.Context, roomID uint) {
	l.Logger.InfoContext(ctx,
		"Room Released",
		slog.Uint64("room_id", uint64(roomID)),
	)
}

// LogNoRoomsAvailable logs an allocate call that found no eligible room
func (l *Logger) LogNoRoomsAvailable(ctx context.Context) {
	l.Logger.WarnContext(ctx, "No available rooms found")
}

// LogExpiredLocksReleased logs a lock sweep that freed stuck rooms
func (l *Logger) LogExpiredLocksReleased(ctx context.Context, count int64) {
	l.Logger.WarnContext(ctx,
		"Expired Room Locks Released",
		slog.Int64("count", count),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
