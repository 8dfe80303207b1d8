// Package server serves the interactive preview page: a generated composition
// next to its rasterized image, plus a small JSON API around the renderer.
package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ByLCY/mondrian/art"
	"github.com/ByLCY/mondrian/cache"
	"github.com/ByLCY/mondrian/raster"
	"github.com/ByLCY/mondrian/render"
)

// maxMarkupBytes caps POST /api/render bodies.
const maxMarkupBytes = 4 << 20

type Options struct {
	// Decoder names the default raster backend.
	Decoder string
	Policy  render.Policy
	Timeout time.Duration
	Cache   *cache.Cache
	Logger  *slog.Logger

	// Base holds the settings query parameters are applied over.
	Base art.Settings
	// Seed seeds the shared generator; 0 means time based.
	Seed uint64
}

// Server owns the fiber app and the generator shared by all requests, so that
// "keep colors" reuses the palette of the previous page load.
type Server struct {
	app  *fiber.App
	opts Options
	gen  *art.Generator
	log  *slog.Logger
}

// New builds the app and registers its routes.
func New(opts Options) (*Server, error) {
	if opts.Decoder == "" {
		opts.Decoder = "canvas"
	}
	if _, err := raster.Open(opts.Decoder); err != nil {
		return nil, err
	}
	if opts.Base.Width == 0 {
		opts.Base = art.DefaultSettings()
	}
	if err := opts.Base.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		opts: opts,
		gen:  art.NewGenerator(opts.Seed),
		log:  opts.Logger,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "mondrian",
		BodyLimit:             maxMarkupBytes,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/", s.index)
	s.app.Get("/art.svg", s.artSVG)
	s.app.Get("/art.png", s.artPNG)

	api := s.app.Group("/api")
	api.Post("/render", s.renderMarkup)
	api.Get("/resolutions", s.resolutions)
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("preview server listening", "addr", addr, "decoder", s.opts.Decoder, "policy", s.opts.Policy.String())
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits up to timeout for
// in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, render.ErrInvalidResolution), errors.Is(err, raster.ErrUnknownDecoder):
		code = fiber.StatusBadRequest
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
