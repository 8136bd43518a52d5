package errors

import "go.uber.org/zap"

// LogHandler is an ErrorHandler that writes to a zap logger.
type LogHandler struct {
	logger *zap.Logger
	// Verbose attaches stack traces to every entry.
	Verbose bool
}

// NewLogHandler returns a LogHandler writing to logger.
// A nil logger discards everything.
func NewLogHandler(logger *zap.Logger) *LogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogHandler{logger: logger}
}

// HandleError logs a HarvesterError at error level.
func (h *LogHandler) HandleError(err *HarvesterError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
		zap.Time("at", err.Timestamp),
	}
	if err.Stream != "" {
		fields = append(fields, zap.String("stream", err.Stream))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger.Error("harvester error", fields...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
		zap.Time("at", err.Timestamp),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger.Error("harvester panic", fields...)
}
