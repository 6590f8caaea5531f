package build

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	btclogv1 "github.com/btcsuite/btclog"
	"github.com/btcsuite/btclog/v2"
)

// SubLoggerManager manages a set of subsystem loggers. Each registered
// subsystem writes to every handler the manager was created with, and its
// level can be changed at runtime through the LeveledSubLogger interface.
type SubLoggerManager struct {
	handler btclog.Handler

	loggers SubLoggers
	mu      sync.Mutex
}

// A compile time check to ensure SubLoggerManager implements the
// LeveledSubLogger interface.
var _ LeveledSubLogger = (*SubLoggerManager)(nil)

// NewSubLoggerManager constructs a new SubLoggerManager writing to the given
// handlers.
func NewSubLoggerManager(handlers ...btclog.Handler) *SubLoggerManager {
	return &SubLoggerManager{
		handler: newHandlerSet(btclogv1.LevelInfo, handlers...),
		loggers: make(SubLoggers),
	}
}

// GenSubLogger creates a new sub-logger for the given subsystem. The logger is
// not registered; callers that want level control must pass it to
// RegisterSubLogger.
func (r *SubLoggerManager) GenSubLogger(subsystem string) btclog.Logger {
	return btclog.NewSLogger(r.handler.SubSystem(subsystem))
}

// RegisterSubLogger registers the given logger under the subsystem name.
func (r *SubLoggerManager) RegisterSubLogger(subsystem string,
	logger btclog.Logger) {

	r.mu.Lock()
	defer r.mu.Unlock()

	r.loggers[subsystem] = logger
}

// SubLoggers returns a copy of the map of all registered subsystem loggers.
//
// NOTE: this is part of the LeveledSubLogger interface.
func (r *SubLoggerManager) SubLoggers() SubLoggers {
	r.mu.Lock()
	defer r.mu.Unlock()

	loggers := make(SubLoggers, len(r.loggers))
	for k, v := range r.loggers {
		loggers[k] = v
	}

	return loggers
}

// SupportedSubsystems returns a sorted slice of the supported subsystems.
//
// NOTE: this is part of the LeveledSubLogger interface.
func (r *SubLoggerManager) SupportedSubsystems() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	subsystems := make([]string, 0, len(r.loggers))
	for subsysID := range r.loggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)

	return subsystems
}

// SetLogLevel sets the logging level for the provided subsystem. Invalid
// subsystems are ignored.
//
// NOTE: this is part of the LeveledSubLogger interface.
func (r *SubLoggerManager) SetLogLevel(subsystemID string, logLevel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.setLogLevelUnsafe(subsystemID, logLevel)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level.
//
// NOTE: this is part of the LeveledSubLogger interface.
func (r *SubLoggerManager) SetLogLevels(logLevel string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for subsystemID := range r.loggers {
		r.setLogLevelUnsafe(subsystemID, logLevel)
	}
}

// setLogLevelUnsafe must be called with the mutex held.
func (r *SubLoggerManager) setLogLevelUnsafe(subsystemID string,
	logLevel string) {

	logger, ok := r.loggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := btclogv1.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// handlerSet fans every record out to a set of btclog handlers.
type handlerSet struct {
	level btclogv1.Level
	set   []btclog.Handler
}

// A compile-time check to ensure that handlerSet implements btclog.Handler.
var _ btclog.Handler = (*handlerSet)(nil)

// newHandlerSet constructs a handlerSet over the given handlers, all set to
// the given level.
func newHandlerSet(level btclogv1.Level,
	set ...btclog.Handler) *handlerSet {

	h := &handlerSet{
		set:   set,
		level: level,
	}
	h.SetLevel(level)

	return h
}

// Enabled reports whether any member handler handles records at the given
// level.
//
// NOTE: this is part of the slog.Handler interface.
func (h *handlerSet) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.set {
		if handler.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle passes the record to every member handler.
//
// NOTE: this is part of the slog.Handler interface.
func (h *handlerSet) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h.set {
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// WithAttrs returns a new handlerSet whose members carry the given attributes.
//
// NOTE: this is part of the slog.Handler interface.
func (h *handlerSet) WithAttrs(attrs []slog.Attr) slog.Handler {
	newSet := &handlerSet{level: h.level, set: make([]btclog.Handler, 0)}
	for _, handler := range h.set {
		newSet.set = append(
			newSet.set, handler.WithAttrs(attrs).(btclog.Handler),
		)
	}

	return newSet
}

// WithGroup returns a new handlerSet whose members use the given group.
//
// NOTE: this is part of the slog.Handler interface.
func (h *handlerSet) WithGroup(name string) slog.Handler {
	newSet := &handlerSet{level: h.level, set: make([]btclog.Handler, 0)}
	for _, handler := range h.set {
		newSet.set = append(
			newSet.set, handler.WithGroup(name).(btclog.Handler),
		)
	}

	return newSet
}

// SubSystem returns a copy of the set tagged with the given subsystem.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *handlerSet) SubSystem(tag string) btclog.Handler {
	newSet := &handlerSet{level: h.level, set: make([]btclog.Handler, 0)}
	for _, handler := range h.set {
		newSet.set = append(newSet.set, handler.SubSystem(tag))
	}

	return newSet
}

// SetLevel changes the level of every member handler.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *handlerSet) SetLevel(level btclogv1.Level) {
	for _, handler := range h.set {
		handler.SetLevel(level)
	}
	h.level = level
}

// Level returns the level of the set.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *handlerSet) Level() btclogv1.Level {
	return h.level
}

// WithPrefix returns a copy of the set with the given prefix applied to every
// member.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *handlerSet) WithPrefix(prefix string) btclog.Handler {
	newSet := &handlerSet{level: h.level, set: make([]btclog.Handler, 0)}
	for _, handler := range h.set {
		newSet.set = append(newSet.set, handler.WithPrefix(prefix))
	}

	return newSet
}
