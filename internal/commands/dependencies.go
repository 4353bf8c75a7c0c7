package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Elijahuni/chatbot-1/internal/api"
	"github.com/Elijahuni/chatbot-1/internal/chat"
	"github.com/Elijahuni/chatbot-1/internal/config"
	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/flights"
	"github.com/Elijahuni/chatbot-1/internal/models"
	"github.com/Elijahuni/chatbot-1/internal/telemetry"
	"github.com/Elijahuni/chatbot-1/internal/tui"
)

// ClientFactory builds a model client for the given key and model
type ClientFactory func(apiKey string, cfg config.Config, model models.Model) (api.ChatClient, error)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(opts tui.Options) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(opts tui.Options) error {
	return tui.RunChat(opts)
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient creates the model client once a key is known.
	NewClient ClientFactory

	// TUI is the terminal user interface.
	TUI TUIInterface

	// LoadConfig reads the user configuration.
	LoadConfig func() (config.Config, error)

	// ReadPassword prompts for the API key on a terminal. It returns
	// ErrMissingAPIKey when no terminal is attached.
	ReadPassword func(prompt io.Writer) (string, error)

	// StdinIsPipe reports whether a prompt is piped on stdin.
	StdinIsPipe func() bool

	// Generator builds flight listings. Nil uses a randomly seeded one.
	Generator *flights.Generator

	// Now is the clock used for the default search date.
	Now func() time.Time

	// Logger and Telemetry override the file-backed ones set up from config.
	Logger    *slog.Logger
	Telemetry *telemetry.Telemetry
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:    newOpenAIClient,
		TUI:          &DefaultTUI{},
		LoadConfig:   config.LoadConfig,
		ReadPassword: readPasswordFromTerminal,
		StdinIsPipe:  stdinIsPipe,
		Now:          time.Now,
	}
}

func newOpenAIClient(apiKey string, cfg config.Config, model models.Model) (api.ChatClient, error) {
	opts := []api.ClientOption{
		api.WithModel(model),
		api.WithBaseURL(cfg.BaseURL),
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second))
	}
	return api.NewClient(apiKey, opts...)
}

func readPasswordFromTerminal(prompt io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", apierrors.ErrMissingAPIKey
	}

	fmt.Fprint(prompt, "OpenAI API key: ")
	key, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return string(key), nil
}

func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func (d *Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Dependencies) generator() *flights.Generator {
	if d.Generator == nil {
		d.Generator = flights.NewRandomGenerator()
	}
	return d.Generator
}

func (d *Dependencies) loadConfig() config.Config {
	load := d.LoadConfig
	if load == nil {
		load = config.LoadConfig
	}
	cfg, err := load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	return cfg
}

// resolveAPIKey prefers the environment and falls back to a masked prompt
func (d *Dependencies) resolveAPIKey(prompt io.Writer) (string, error) {
	if key := config.APIKeyFromEnv(); key != "" {
		return key, nil
	}
	if d.ReadPassword == nil {
		return "", apierrors.ErrMissingAPIKey
	}
	key, err := d.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	if key = strings.TrimSpace(key); key == "" {
		return "", apierrors.ErrMissingAPIKey
	}
	return key, nil
}

// runtime holds the logger and telemetry for one command invocation
type runtime struct {
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	closers   []func()
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func (r *runtime) botOptions(post *chat.PostProcessor) []chat.BotOption {
	return []chat.BotOption{
		chat.WithLogger(r.logger),
		chat.WithTelemetry(r.telemetry),
		chat.WithPostProcessor(post),
	}
}

// startRuntime sets up logging and telemetry from cfg unless overridden
func (d *Dependencies) startRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	rt := &runtime{logger: d.Logger, telemetry: d.Telemetry}

	var logDir string
	if rt.logger == nil || rt.telemetry == nil {
		dir, err := config.GetLogDir()
		if err != nil {
			return nil, err
		}
		logDir = dir
	}

	if rt.logger == nil {
		logger, closer, err := telemetry.InitLogger(logDir, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		rt.logger = logger
		rt.closers = append(rt.closers, func() { _ = closer.Close() })
	}

	if rt.telemetry == nil {
		tel, err := telemetry.Init(ctx, logDir, cfg.Telemetry)
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.telemetry = tel
		rt.closers = append(rt.closers, tel.Shutdown)
	}

	return rt, nil
}

func (d *Dependencies) postProcessor() *chat.PostProcessor {
	post := chat.NewPostProcessor(d.generator())
	if d.Now != nil {
		post.Now = d.Now
	}
	return post
}
