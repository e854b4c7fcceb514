package importer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/heiberg/ofxify/internal/column"
	"github.com/heiberg/ofxify/internal/model"
)

// Parser converts one input stream into a Statement.
type Parser interface {
	Parse(r io.Reader) (*model.Statement, error)
	Format() string
}

// ErrUnknownProcessor is returned by Lookup for a name nobody registered.
var ErrUnknownProcessor = errors.New("unknown processor")

// Options configures the built-in parsers. Each parser reads only the
// options that apply to it.
type Options struct {
	Encoding        string
	FieldSeparator  string
	RecordSeparator string
	Columns         column.Format
	DateLayout      string
	SkipRows        int
	Now             func() time.Time
	Logger          *log.Logger
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(strings.TrimSpace(format))]
}

// Lookup is Get with an error for unknown names.
func (r *Registry) Lookup(format string) (Parser, error) {
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownProcessor, format, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

// Names returns the registered formats in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers configured
// from opts.
func DefaultRegistry(opts Options) *Registry {
	logger := orDiscard(opts.Logger)
	columns := opts.Columns
	if len(columns) == 0 {
		columns = column.DefaultFormat
	}

	r := NewRegistry()
	r.Register(&TableParser{
		Encoding:        opts.Encoding,
		FieldSeparator:  opts.FieldSeparator,
		RecordSeparator: opts.RecordSeparator,
		Columns:         columns,
		DateLayout:      opts.DateLayout,
		SkipRows:        opts.SkipRows,
		Logger:          logger,
	})
	r.Register(&SampoParser{Encoding: opts.Encoding, Logger: logger})
	r.Register(&SamlinkParser{Encoding: opts.Encoding, Now: opts.Now, Logger: logger})
	r.Register(&XLSXParser{Columns: columns, DateLayout: opts.DateLayout, SkipRows: opts.SkipRows, Logger: logger})
	r.Register(&XLSParser{Encoding: opts.Encoding, Columns: columns, DateLayout: opts.DateLayout, SkipRows: opts.SkipRows, Logger: logger})
	return r
}

// Names lists the built-in processors in sorted order.
func Names() []string {
	return DefaultRegistry(Options{}).Names()
}

// collectRows coerces positional rows into stmt. A field that fails to
// coerce is left empty; a row left with no fields at all is dropped.
func collectRows(stmt *model.Statement, c column.Coercer, f column.Format, rows [][]string, skip int, logger *log.Logger) {
	for i, fields := range rows {
		if i < skip {
			continue
		}
		txn, err := c.Record(f, fields)
		if err != nil {
			logger.Debug("field left empty", "row", i+1, "err", err)
		}
		if txn.IsEmpty() {
			logger.Debug("dropping empty row", "row", i+1)
			continue
		}
		stmt.Add(txn)
	}
}
