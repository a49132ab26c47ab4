// Include path handling for the preprocessor.
package cpp

import (
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultIncludeRoot is the directory angle-bracket includes resolve under.
const DefaultIncludeRoot = "include"

// DefaultCacheSize is the number of source files kept by a SourceCache.
const DefaultCacheSize = 64

// SourceCache holds the contents of recently read source files.
type SourceCache struct {
	cache *lru.Cache[string, string]
}

// NewSourceCache creates a cache holding up to size files.
func NewSourceCache(size int) (*SourceCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating source cache: %w", err)
	}
	return &SourceCache{cache: c}, nil
}

// Read returns the contents of path, reading it from disk on a miss.
func (s *SourceCache) Read(path string) (string, error) {
	if text, ok := s.cache.Get(path); ok {
		return text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)
	s.cache.Add(path, text)
	return text, nil
}

// Len returns the number of cached files.
func (s *SourceCache) Len() int {
	return s.cache.Len()
}

// Purge drops all cached files.
func (s *SourceCache) Purge() {
	s.cache.Purge()
}

// resolveInclude returns the path an include names. Angled names are
// joined under root; quoted names are used as written, relative to the
// working directory.
func resolveInclude(root, name string, kind IncludeKind) string {
	if kind == IncludeAngled {
		return filepath.Join(root, name)
	}
	return name
}

// parseIncludePath reads the <name> or "name" operand of #include.
func parseIncludePath(cur *Cursor) (string, IncludeKind, error) {
	switch cur.Peek() {
	case '<':
		name, err := cur.ParseStr('>')
		return name, IncludeAngled, err
	case '"':
		name, err := cur.ParseStr('"')
		return name, IncludeQuoted, err
	default:
		return "", 0, cur.Errorf("expected <file> or \"file\" after #include")
	}
}

// processInclude handles an #include directive. The included file is
// scanned completely and its output returned for inlining.
func (p *Preprocessor) processInclude(cur *Cursor) (string, error) {
	name, kind, err := parseIncludePath(cur)
	if err != nil {
		return "", err
	}
	path := resolveInclude(p.opts.IncludeRoot, name, kind)

	text, err := p.sources.Read(path)
	if err != nil {
		ierr := &IncludeError{Path: path, Kind: kind, Err: err}
		return "", &Error{File: cur.Name(), Line: cur.Line(), Msg: ierr.Error(), Err: ierr}
	}

	if err := p.enter(cur); err != nil {
		return "", err
	}
	defer p.leave()

	p.includes = append(p.includes, path)
	defer func() { p.includes = p.includes[:len(p.includes)-1] }()

	p.log.WithField("file", path).Debugf("including from %s:%d", cur.Name(), cur.Line())

	sub := NewCursor(text, path)
	output, end, err := p.scan(sub, true)
	if err != nil {
		return "", err
	}
	if end != endNone {
		return "", sub.Errorf("unexpected #%s", end)
	}
	return output, nil
}
