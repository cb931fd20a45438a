package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/funa-dev/funa"
	"github.com/funa-dev/funa/internal/config"
	"github.com/funa-dev/funa/internal/errors"
	"github.com/funa-dev/funa/internal/script"
	"github.com/funa-dev/funa/internal/source"
	"github.com/funa-dev/funa/pkg/convert"
	"github.com/funa-dev/funa/pkg/dom"
	"github.com/funa-dev/funa/pkg/telemetry"
)

// scriptTimeout bounds each call into a registry script.
const scriptTimeout = 5 * time.Second

// options holds the persistent flags.
type options struct {
	configPath string
	data       string
	script     string
	name       string
	bypass     []string
	logLevel   string
}

// load reads the configuration and applies the flags. A positional
// argument replaces the configured template.
func (o *options) load(args []string) (*config.Config, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	cfg.Template = cfg.Resolve(cfg.Template)
	cfg.Data = cfg.Resolve(cfg.Data)
	cfg.Script = cfg.Resolve(cfg.Script)

	if len(args) > 0 {
		cfg.Template = absPath(args[0])
	}
	if o.data != "" {
		cfg.Data = absPath(o.data)
	}
	if o.script != "" {
		cfg.Script = absPath(o.script)
	}
	if o.name != "" {
		cfg.Name = o.name
	}
	cfg.BypassTags = append(cfg.BypassTags, o.bypass...)
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfig(path string) (*config.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.New("F110").Wrap(err)
	}
	if !info.IsDir() {
		return config.LoadFile(path)
	}
	return config.Load(path)
}

// absPath anchors a command-line path at the working directory so that
// configuration-relative resolution leaves it alone.
func absPath(p string) string {
	if p == "" || source.IsRemote(p) {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// newLogger builds the CLI logger.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// project loads the sources named by a configuration.
type project struct {
	cfg     *config.Config
	loader  *source.Loader
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

func newProject(cfg *config.Config, logger *slog.Logger, metrics *telemetry.Metrics) *project {
	return &project{
		cfg:     cfg,
		loader:  source.NewLoader(source.WithRegion(cfg.S3.Region)),
		logger:  logger,
		metrics: metrics,
	}
}

// document reads and parses an HTML source, returning its text for
// error locations.
func (p *project) document(ctx context.Context, src string) (*dom.Document, string, error) {
	b, err := p.loader.Read(ctx, src)
	if err != nil {
		return nil, "", err
	}
	doc, err := dom.Parse(bytes.NewReader(b))
	if err != nil {
		return nil, "", errors.New("F110").Wrap(err).WithLocation(src, 0, 0)
	}
	return doc, string(b), nil
}

// state builds the runtime state: data plus the stock converters, with the
// registry script's entries on top.
func (p *project) state(ctx context.Context) (funa.Init, error) {
	data, err := p.loader.Data(ctx, p.cfg.Data)
	if err != nil {
		return funa.Init{}, err
	}
	if data == nil {
		data = map[string]any{}
	}

	state := funa.Init{
		Config: funa.Config{
			BypassTags: p.cfg.BypassTags,
			Logger:     p.logger,
			Metrics:    p.metrics,
		},
		Data: data,
		As:   convert.Defaults(p.cfg.Language()),
		If:   map[string]funa.Predicate{},
		Is:   map[string]funa.Model{},
		On:   map[string]funa.Handler{},
	}
	if p.cfg.Script == "" {
		return state, nil
	}

	src, err := p.loader.Read(ctx, p.cfg.Script)
	if err != nil {
		return funa.Init{}, err
	}
	engine, err := script.Load(ctx, p.cfg.Script, string(src),
		script.WithLogger(p.logger),
		script.WithTimeout(scriptTimeout),
	)
	if err != nil {
		return funa.Init{}, err
	}
	regs, err := engine.Registries()
	if err != nil {
		return funa.Init{}, err
	}
	maps.Copy(state.As, regs.As)
	maps.Copy(state.If, regs.If)
	maps.Copy(state.Is, regs.Is)
	maps.Copy(state.On, regs.On)
	return state, nil
}

// open renders the configured template into a fresh document.
func (p *project) open(ctx context.Context) (*dom.Document, *funa.App, error) {
	doc, src, err := p.document(ctx, p.cfg.Template)
	if err != nil {
		return nil, nil, err
	}
	state, err := p.state(ctx)
	if err != nil {
		return nil, nil, err
	}

	app := funa.New(doc, state)
	if err := app.RenderTemplate(ctx, nil, p.cfg.Name); err != nil {
		return nil, nil, errors.FromError(err).WithSource(p.cfg.Template, src)
	}
	return doc, app, nil
}
