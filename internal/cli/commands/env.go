package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopfront-dev/shopfront/internal/cli/app"
	"github.com/shopfront-dev/shopfront/internal/cli/prompt"
	"github.com/shopfront-dev/shopfront/internal/cli/userconfig"
	"github.com/shopfront-dev/shopfront/internal/config"
	"github.com/shopfront-dev/shopfront/internal/logger"
)

// Env is what every command shares: where output goes, how to ask the user
// for input, and the App the command acts on. The App is built on first use
// and reused, so the shell keeps one session and one navigation history.
type Env struct {
	Out      io.Writer
	Prompter prompt.Prompter
	Getenv   func(string) string

	// Build creates the App writing views to out
	Build func(out io.Writer) (*app.App, error)

	// NewLineReader opens the shell's line editor
	NewLineReader func() (LineReader, error)

	app *app.App
}

// NewEnv returns the Env used by the shopfront binary
func NewEnv() *Env {
	return &Env{
		Out:           os.Stdout,
		Prompter:      prompt.NewTerminal(),
		Getenv:        os.Getenv,
		Build:         loadApp,
		NewLineReader: newLinerReader,
	}
}

// loadApp builds the App from env vars and the user config file
func loadApp(out io.Writer) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	userCfg, err := userconfig.Load()
	if err != nil {
		return nil, err
	}
	if err := userCfg.Apply(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w\nRun 'shopfront configure' to fix it", err)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	return app.New(cfg, app.WithOutput(out), app.WithLogger(logger.GetLogger()))
}

// App returns the shared App, building it on first use
func (e *Env) App() (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}

	a, err := e.Build(e.Out)
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

// Close releases the App if one was built
func (e *Env) Close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

func (e *Env) printf(format string, args ...any) {
	fmt.Fprintf(e.Out, format, args...)
}

func (e *Env) println(args ...any) {
	fmt.Fprintln(e.Out, args...)
}

func (e *Env) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

// parseID parses a positive numeric id argument
func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}

// actionError shows the store's display message while keeping the cause
// for errors.Is checks
type actionError struct {
	action  string
	message string
	err     error
}

func (e *actionError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.action, e.message)
}

func (e *actionError) Unwrap() error {
	return e.err
}

func actionFailed(action, message string, err error) error {
	if message == "" {
		message = err.Error()
	}
	return &actionError{action: action, message: message, err: err}
}
