// Package preproc runs the ncc preprocessor from a file-level
// configuration. Options can be loaded from YAML and are converted into
// pkg/cpp options.
package preproc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/raymyers/uvm-ncc/pkg/cpp"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Options configures the preprocessing step
type Options struct {
	IncludeRoot  string   `yaml:"include_root"`  // base directory for <file> includes
	Defines      []string `yaml:"defines"`       // NAME or NAME=VALUE
	Undefines    []string `yaml:"undefines"`     // names removed after Defines
	StrictParams bool     `yaml:"strict_params"` // identifier-aware parameter substitution
	MaxDepth     int      `yaml:"max_depth"`     // include and macro nesting limit
	CacheSize    int      `yaml:"cache_size"`    // included files kept in memory

	Logger logrus.FieldLogger `yaml:"-"`
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() *Options {
	return &Options{
		IncludeRoot: cpp.DefaultIncludeRoot,
		MaxDepth:    cpp.DefaultMaxDepth,
		CacheSize:   cpp.DefaultCacheSize,
	}
}

// LoadConfig reads options from a YAML file. Fields missing from the
// file keep their defaults; unknown fields are an error.
func LoadConfig(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML options.
func ParseConfig(data []byte) (*Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks that option values are usable.
func (o *Options) Validate() error {
	if o.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", o.MaxDepth)
	}
	if o.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", o.CacheSize)
	}
	for _, d := range o.Defines {
		name, _, _ := strings.Cut(d, "=")
		if !isIdent(strings.TrimSpace(name)) {
			return fmt.Errorf("invalid define %q", d)
		}
	}
	for _, name := range o.Undefines {
		if !isIdent(strings.TrimSpace(name)) {
			return fmt.Errorf("invalid undefine %q", name)
		}
	}
	return nil
}

// CppOptions converts o into options for the preprocessor itself.
func (o *Options) CppOptions() cpp.Options {
	return cpp.Options{
		IncludeRoot:  o.IncludeRoot,
		Defines:      o.Defines,
		Undefines:    o.Undefines,
		StrictParams: o.StrictParams,
		MaxDepth:     o.MaxDepth,
		CacheSize:    o.CacheSize,
		Logger:       o.Logger,
	}
}

// Preprocess runs the preprocessor on the given source file and returns
// the preprocessed text. A nil opts uses DefaultOptions.
func Preprocess(filename string, opts *Options) (string, error) {
	pp, err := newPreprocessor(opts)
	if err != nil {
		return "", err
	}
	return pp.ProcessFile(filename)
}

// PreprocessString preprocesses source, using filename for __FILE__ and
// error locations.
func PreprocessString(source, filename string, opts *Options) (string, error) {
	pp, err := newPreprocessor(opts)
	if err != nil {
		return "", err
	}
	return pp.ProcessString(source, filename)
}

func newPreprocessor(opts *Options) (*cpp.Preprocessor, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return cpp.NewPreprocessor(opts.CppOptions())
}

// NeedsPreprocessing returns true if the file might need preprocessing.
// Files ending in .i are considered already preprocessed.
func NeedsPreprocessing(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) != ".i"
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
