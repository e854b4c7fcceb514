// Package convert runs one statement conversion: parse the input, settle
// the statement bounds and emit the OFX document.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/heiberg/ofxify/internal/importer"
	"github.com/heiberg/ofxify/internal/model"
	"github.com/heiberg/ofxify/internal/ofx"
)

var (
	// ErrNoTransactions aborts a run whose input produced nothing to emit.
	ErrNoTransactions = errors.New("no transactions found")
	// ErrOutputExists is returned instead of overwriting an output file.
	ErrOutputExists = errors.New("output file already exists")
)

// Converter binds a parser to an account and an emitter.
type Converter struct {
	Parser  importer.Parser
	Account model.Account
	Emitter ofx.Emitter
	Logger  *log.Logger
}

// Convert parses r and writes the OFX document to w. Output is rendered in
// full before anything reaches w. The parsed statement is returned for
// inspection.
func (c *Converter) Convert(r io.Reader, w io.Writer) (*model.Statement, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	stmt, err := c.Parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s input: %w", c.Parser.Format(), err)
	}
	if len(stmt.Transactions) == 0 {
		return stmt, ErrNoTransactions
	}
	// Some dialects leave the bounds to the caller.
	if !stmt.Bounds.Valid() {
		stmt.Bounds = model.BoundsOf(stmt.Transactions)
	}

	var buf bytes.Buffer
	if err := c.Emitter.Emit(&buf, stmt, c.Account); err != nil {
		return stmt, fmt.Errorf("emitting statement: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return stmt, fmt.Errorf("writing statement: %w", err)
	}

	first, last, _ := stmt.Bounds.Period()
	logger.Info("converted statement",
		"processor", c.Parser.Format(),
		"transactions", len(stmt.Transactions),
		"dtstart", first.Format(ofx.DateLayout),
		"dtend", last.Format(ofx.DateLayout),
	)
	return stmt, nil
}

// ConvertFile converts the file at in into a new file at out. "-" or an
// empty path selects stdin or stdout. An existing output file is refused
// before the input is opened, and no output file is created when the
// conversion fails.
func (c *Converter) ConvertFile(in, out string, stdin io.Reader, stdout io.Writer) (*model.Statement, error) {
	toFile := out != "" && out != "-"
	if toFile {
		if err := CheckOutput(out); err != nil {
			return nil, err
		}
	}

	r := stdin
	if in != "" && in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if !toFile {
		return c.Convert(r, stdout)
	}

	var buf bytes.Buffer
	stmt, err := c.Convert(r, &buf)
	if err != nil {
		return stmt, err
	}
	if err := WriteFile(out, buf.Bytes()); err != nil {
		return stmt, err
	}
	return stmt, nil
}

// CheckOutput fails with ErrOutputExists when path already exists.
func CheckOutput(path string) error {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking output: %w", err)
	}
}

// WriteFile creates path and writes data to it, refusing to replace a file
// that appeared in the meantime.
func WriteFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return fmt.Errorf("creating output: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}
