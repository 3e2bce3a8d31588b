package logger

import (
	"os"
	"runtime"
	"strings"
	"sync"

	"log/slog"

	"github.com/m3rciful/quizbot/internal/buildinfo"
)

var (
	initOnce sync.Once

	// L is the base application logger.
	L *slog.Logger

	// App logs application lifecycle events.
	App *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// Quiz logs quiz session engine events.
	Quiz *slog.Logger
	// Store logs session store events.
	Store *slog.Logger
	// DB logs database events.
	DB *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
)

// Options configure the global logger. Zero values select defaults.
type Options struct {
	Level   string
	Format  string
	Profile string
}

func init() {
	// Keep component loggers usable before Init (tests, early startup).
	wireComponents(slog.Default())
}

// Init configures the global structured logger. It may be called only once.
func Init(opts Options) error {
	initOnce.Do(func() {
		level := parseLevel(opts.Level)
		handlerOpts := &slog.HandlerOptions{Level: level}

		var handler slog.Handler
		switch selectFormat(opts) {
		case "text":
			handler = slog.NewTextHandler(os.Stdout, handlerOpts)
		default:
			handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)
		wireComponents(logger)

		App.Info("startup",
			slog.String("event", "startup"),
			slog.String("go_version", runtime.Version()),
			slog.String("build_commit", buildinfo.Commit),
			slog.String("build_time", buildinfo.Date),
		)
	})
	return nil
}

func wireComponents(logger *slog.Logger) {
	L = logger
	App = L.With("component", "app")
	TG = L.With("component", "tg")
	Quiz = L.With("component", "quiz")
	Store = L.With("component", "store")
	DB = L.With("component", "db")
	MIG = L.With("component", "db.migrate")
}

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	if L == nil {
		return slog.Default().With("component", name)
	}
	return L.With("component", name)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func selectFormat(opts Options) string {
	raw := strings.ToLower(strings.TrimSpace(opts.Format))
	switch raw {
	case "kv", "text", "pretty":
		return "text"
	case "json":
		return "json"
	}
	// Prefer human-friendly output when profile indicates debug/dev mode.
	if strings.EqualFold(opts.Profile, "debug") || strings.EqualFold(opts.Profile, "dev") {
		return "text"
	}
	return "json"
}
