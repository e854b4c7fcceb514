// Package server exposes statement conversion over HTTP. Every request is
// an independent run against a copy of the server configuration.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/heiberg/ofxify/internal/buildinfo"
	"github.com/heiberg/ofxify/internal/config"
	"github.com/heiberg/ofxify/internal/convert"
	"github.com/heiberg/ofxify/internal/importer"
	"github.com/heiberg/ofxify/internal/model"
	"github.com/heiberg/ofxify/internal/ofx"
)

// DefaultAddr is the listen address of `ofxify serve`.
const DefaultAddr = "127.0.0.1:8080"

// MIMEOFX is the response content type of a converted statement.
const MIMEOFX = "application/x-ofx"

// Server holds the HTTP app and the base configuration.
type Server struct {
	// Now stamps DTSERVER. Defaults to time.Now.
	Now func() time.Time

	cfg    config.Config
	logger *log.Logger
	app    *fiber.App
}

// New creates a server with its routes registered.
func New(cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{cfg: *cfg, logger: logger}
	s.app = fiber.New(fiber.Config{
		AppName:               "ofxify",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Get("/api/health", s.handleHealth)
	s.app.Post("/api/convert", s.handleConvert)
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleConvert(c *fiber.Ctx) error {
	cfg := s.cfg
	if v := c.Query("processor"); v != "" {
		cfg.Processor = v
	}
	if v := c.Query("bank_id"); v != "" {
		cfg.Account.BankID = v
	}
	if v := c.Query("account_id"); v != "" {
		cfg.Account.AccountID = v
	}
	if err := cfg.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	input, err := requestBody(c)
	if err != nil {
		return err
	}

	opts, err := cfg.ImporterOptions(s.logger)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	parser, err := importer.DefaultRegistry(opts).Lookup(cfg.Processor)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	conv := convert.Converter{
		Parser:  parser,
		Account: cfg.AccountInfo(),
		Emitter: ofx.Emitter{Encoding: cfg.Output.Encoding, Now: s.Now},
		Logger:  s.logger,
	}
	var out bytes.Buffer
	if _, err := conv.Convert(bytes.NewReader(input), &out); err != nil {
		if errors.Is(err, convert.ErrNoTransactions) || errors.Is(err, model.ErrNoBounds) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	c.Set(fiber.HeaderContentType, MIMEOFX)
	return c.Send(out.Bytes())
}

// requestBody returns the multipart "file" field, or the raw body for any
// other content type.
func requestBody(c *fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return bytes.Clone(c.Body()), nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no file uploaded, use form field 'file'")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	return data, nil
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	s.logger.Debug("request failed", "path", c.Path(), "status", code, "err", err)
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
