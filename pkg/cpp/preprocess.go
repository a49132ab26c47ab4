// preprocess.go implements the main preprocessor driver.
package cpp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth bounds include and macro expansion nesting.
const DefaultMaxDepth = 200

// endKeyword names the directive that ended a scan.
type endKeyword string

const (
	endNone  endKeyword = ""
	endElse  endKeyword = "else"
	endEndif endKeyword = "endif"
)

// Options configures the preprocessor.
type Options struct {
	IncludeRoot  string   // base directory for <file> includes
	Defines      []string // NAME or NAME=VALUE definitions applied before each run
	Undefines    []string // names removed after Defines
	StrictParams bool     // substitute parameters only as whole identifiers outside strings
	MaxDepth     int      // include and macro nesting limit
	CacheSize    int      // number of included files kept in memory

	Logger logrus.FieldLogger
}

// Preprocessor expands one source file at a time.
type Preprocessor struct {
	opts     Options
	defs     *DefTable
	sources  *SourceCache
	log      logrus.FieldLogger
	depth    int
	includes []string // files currently being included
}

// NewPreprocessor creates a new preprocessor instance.
func NewPreprocessor(opts Options) (*Preprocessor, error) {
	if opts.IncludeRoot == "" {
		opts.IncludeRoot = DefaultIncludeRoot
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}

	sources, err := NewSourceCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Preprocessor{
		opts:    opts,
		defs:    NewDefTable(),
		sources: sources,
		log:     log,
	}, nil
}

// ProcessFile preprocesses the file at path.
func (p *Preprocessor) ProcessFile(path string) (string, error) {
	text, err := p.sources.Read(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return p.ProcessString(text, path)
}

// ProcessString preprocesses src. name is used for __FILE__ and in errors.
// Each call starts from a fresh definition table.
func (p *Preprocessor) ProcessString(src, name string) (string, error) {
	p.defs = NewDefTable()
	p.defs.ApplyCmdlineDefines(p.opts.Defines, p.opts.Undefines)
	p.depth = 0
	p.includes = p.includes[:0]

	cur := NewCursor(src, name)
	output, end, err := p.scan(cur, true)
	if err != nil {
		return "", err
	}
	if end != endNone {
		return "", cur.Errorf("unexpected #%s", end)
	}
	return output, nil
}

// Defs returns the definition table left by the most recent run.
func (p *Preprocessor) Defs() *DefTable {
	return p.defs
}

// Sources returns the cache included files are read through.
func (p *Preprocessor) Sources() *SourceCache {
	return p.sources
}

func (p *Preprocessor) enter(cur *Cursor) error {
	if p.depth >= p.opts.MaxDepth {
		return depthError(cur, p.opts.MaxDepth, p.includes)
	}
	p.depth++
	return nil
}

func (p *Preprocessor) leave() {
	p.depth--
}

// scan processes input until it runs out or reaches #else or #endif,
// which is left consumed and reported as the end keyword. When emit is
// false the returned text is incomplete and must be discarded; only the
// directive structure is tracked.
func (p *Preprocessor) scan(cur *Cursor, emit bool) (string, endKeyword, error) {
	var output strings.Builder

	for !cur.EOF() {
		if cur.MatchChars("#") {
			directive, err := cur.ParseIdent()
			if err != nil {
				return "", endNone, err
			}
			cur.EatSpaces()

			switch directive {
			case "ifndef":
				text, err := p.processIfndef(cur, emit)
				if err != nil {
					return "", endNone, err
				}
				output.WriteString(text)
				continue
			case "else", "endif":
				return output.String(), endKeyword(directive), nil
			}

			// Other directives are only checked in active regions. In a
			// skipped region the rest of the line is scanned as text.
			if !emit {
				continue
			}

			switch directive {
			case "include":
				text, err := p.processInclude(cur)
				if err != nil {
					return "", endNone, err
				}
				output.WriteString(text)
			case "define":
				def, err := parseDef(cur)
				if err != nil {
					return "", endNone, err
				}
				p.defs.Define(def)
				p.log.WithField("macro", def.Name).Debugf("defined at %s:%d", cur.Name(), cur.Line())
			case "undef":
				name, err := cur.ParseIdent()
				if err != nil {
					return "", endNone, err
				}
				p.defs.Undef(name)
				p.log.WithField("macro", name).Debugf("undefined at %s:%d", cur.Name(), cur.Line())
			default:
				return "", endNone, cur.Errorf("unknown preprocessor directive %s", directive)
			}
			continue
		}

		if cur.MatchChars("//") {
			cur.EatComment()
			continue
		}

		if cur.MatchChars("/*") {
			if err := cur.EatMultiComment(); err != nil {
				return "", endNone, err
			}
			continue
		}

		ch := cur.Peek()

		if ch == '"' {
			if err := copyString(cur, &output); err != nil {
				return "", endNone, err
			}
			continue
		}

		if emit && isIdentStart(ch) {
			line := cur.Line()
			ident, err := cur.ParseIdent()
			if err != nil {
				return "", endNone, err
			}

			if def := p.defs.Lookup(ident); def != nil {
				text, err := p.expandMacro(cur, def, line, emit)
				if err != nil {
					return "", endNone, err
				}
				output.WriteString(text)
			} else if ident == "__LINE__" {
				output.WriteString(strconv.Itoa(line))
			} else if ident == "__FILE__" {
				output.WriteString(strconv.Quote(cur.Name()))
			} else {
				output.WriteString(ident)
			}
			continue
		}

		output.WriteByte(cur.Eat())
	}

	return output.String(), endNone, nil
}
