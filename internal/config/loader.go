package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/siteconfig/internal/dsl"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
	"git.home.luguber.info/inful/siteconfig/internal/logfields"
	"git.home.luguber.info/inful/siteconfig/internal/metrics"
)

// Format identifies the syntax of a configuration file.
type Format string

const (
	FormatDSL   Format = "dsl"
	FormatYAML  Format = "yaml"
	FormatJSONC Format = "jsonc"
)

// DetectFormat picks the format from the file extension. Anything that is
// not YAML or JSON is read as the directive language.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json", ".jsonc":
		return FormatJSONC
	default:
		return FormatDSL
	}
}

// Loader reads configuration files into records. The zero value is not
// usable; use NewLoader.
type Loader struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewLoader returns a Loader that logs to slog.Default and records no
// metrics.
func NewLoader() *Loader {
	return &Loader{logger: slog.Default(), recorder: metrics.NoopRecorder{}}
}

// WithLogger sets the logger used for load outcomes.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// WithRecorder sets the metrics recorder.
func (l *Loader) WithRecorder(r metrics.Recorder) *Loader {
	if r != nil {
		l.recorder = r
	}
	return l
}

// Load reads path and builds its record.
func (l *Loader) Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		cerr := ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithPosition(path, 0, 0).
			Fatal().
			Build()
		l.observe(path, DetectFormat(path), 0, 0, cerr)
		return nil, cerr
	}
	return l.LoadFormat(path, DetectFormat(path), data)
}

// LoadBytes builds a record from data, picking the format from name.
func (l *Loader) LoadBytes(name string, data []byte) (*Record, error) {
	return l.LoadFormat(name, DetectFormat(name), data)
}

// LoadFormat builds a record from data in the given format. name is only
// used for positions and Record.Source.
func (l *Loader) LoadFormat(name string, format Format, data []byte) (*Record, error) {
	start := time.Now()
	rec, err := parseAndApply(name, format, data)
	l.observe(name, format, time.Since(start), rec.size(), err)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func parseAndApply(name string, format Format, data []byte) (*Record, error) {
	var (
		ds  []dsl.Directive
		err error
	)
	switch format {
	case FormatYAML:
		ds, err = parseStructured(name, data)
	case FormatJSONC:
		ds, err = parseJSONC(name, data)
	case FormatDSL:
		ds, err = dsl.Parse(name, data)
	default:
		return nil, ferrors.ConfigError("unsupported config format " + string(format)).Build()
	}
	if err != nil {
		return nil, err
	}
	rec := newRecord(name, format)
	if err := apply(rec, ds); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Record) size() int {
	if r == nil {
		return 0
	}
	return r.Len()
}

func (l *Loader) observe(name string, format Format, d time.Duration, options int, err error) {
	l.recorder.ObserveLoadDuration(string(format), d)
	if err != nil {
		l.recorder.IncLoadResult(metrics.ResultFailed)
		l.recorder.IncLoadError(string(ferrors.GetCategory(err)))
		l.logger.Debug("Configuration load failed",
			logfields.File(name),
			logfields.Format(string(format)),
			logfields.Error(err))
		return
	}
	l.recorder.IncLoadResult(metrics.ResultSuccess)
	l.recorder.SetOptionCount(options)
	l.logger.Debug("Configuration loaded",
		logfields.File(name),
		logfields.Format(string(format)),
		logfields.Options(options),
		logfields.DurationMS(float64(d.Microseconds())/1000))
}

// Load reads path with a default Loader.
func Load(path string) (*Record, error) { return NewLoader().Load(path) }

// LoadBytes builds a record from data with a default Loader.
func LoadBytes(name string, data []byte) (*Record, error) { return NewLoader().LoadBytes(name, data) }
