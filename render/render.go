// Package render rasterizes a Source Artwork into a square PNG and hands the
// result to a Target Image Slot as a data URL.
//
// Every Render call percent-encodes the source markup into an SVG data URL,
// decodes it asynchronously onto a fresh resolution×resolution surface and,
// on success, assigns the surface's PNG data URL to the sink. The returned Job
// reports completion.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ByLCY/mondrian/cache"
	"github.com/ByLCY/mondrian/dataurl"
	"github.com/ByLCY/mondrian/raster"
	canvasraster "github.com/ByLCY/mondrian/raster/canvas"
)

// MaxResolution is the largest accepted surface edge.
const MaxResolution = 8192

var (
	ErrSourceNotFound    = errors.New("render: source artwork not found")
	ErrTargetNotFound    = errors.New("render: target image slot not found")
	ErrInvalidResolution = errors.New("render: resolution must be between 1 and MaxResolution")
	ErrSuperseded        = errors.New("render: superseded by a newer render")
	ErrPending           = errors.New("render: job still pending")
	ErrUnknownPolicy     = errors.New("render: unknown overlap policy")
)

// Source is the artwork: anything that can serialize itself to SVG markup.
type Source interface {
	Markup() (string, error)
}

// Sink is the image slot: it accepts a raster data URL as its source.
type Sink interface {
	SetSource(dataURL string)
}

// Policy decides what happens when renders overlap on one Renderer.
type Policy int

const (
	// LatestWins cancels the in-flight render when a new one starts and
	// discards any completion that is not the most recent request.
	LatestWins Policy = iota
	// Coexist lets every render run to completion; each success writes the
	// sink, so whichever finishes last wins.
	Coexist
)

func (p Policy) String() string {
	switch p {
	case LatestWins:
		return "latest-wins"
	case Coexist:
		return "coexist"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts the names printed by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest-wins", "latest":
		return LatestWins, nil
	case "coexist":
		return Coexist, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Options configures a Renderer. The zero value is usable.
type Options struct {
	// Decoder rasterizes SVG; nil selects the canvas backend.
	Decoder raster.Decoder

	// Timeout bounds each render; zero means no limit.
	Timeout time.Duration

	// Cache, when set, short-circuits repeated (markup, resolution) pairs.
	Cache *cache.Cache

	Policy Policy
	Logger *slog.Logger
}

// Renderer binds one Source to one Sink.
type Renderer struct {
	src     Source
	sink    Sink
	opts    Options
	decoder raster.Decoder
	log     *slog.Logger

	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc
}

// New creates a renderer for src and sink.
func New(src Source, sink Sink, opts Options) (*Renderer, error) {
	if src == nil {
		return nil, ErrSourceNotFound
	}
	if sink == nil {
		return nil, ErrTargetNotFound
	}
	if opts.Policy != LatestWins && opts.Policy != Coexist {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(opts.Policy))
	}
	dec := opts.Decoder
	if dec == nil {
		dec = canvasraster.NewDecoder()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{src: src, sink: sink, opts: opts, decoder: dec, log: logger}, nil
}

// ValidResolution reports whether r can be used as a surface edge.
func ValidResolution(r int) bool {
	return r > 0 && r <= MaxResolution
}

// Render starts rasterizing the source at resolution×resolution.
//
// Invalid resolutions and serialization failures are returned directly and
// no decode is started. Everything after that is reported through the Job.
func (r *Renderer) Render(ctx context.Context, resolution int) (*Job, error) {
	if !ValidResolution(resolution) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	markup, err := r.src.Markup()
	if err != nil {
		return nil, fmt.Errorf("render: serialize source: %w", err)
	}
	svgURL := dataurl.SVG(markup)

	jobCtx, cancel, token := r.begin(ctx)
	job := newJob(token, resolution)
	r.log.Debug("render started", "token", token, "resolution", resolution, "policy", r.opts.Policy.String())

	go r.run(jobCtx, cancel, job, markup, svgURL)
	return job, nil
}

func (r *Renderer) begin(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	var (
		jobCtx context.Context
		cancel context.CancelFunc
	)
	if r.opts.Timeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
	} else {
		jobCtx, cancel = context.WithCancel(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest++
	if r.opts.Policy == LatestWins {
		if r.cancel != nil {
			r.cancel()
		}
		r.cancel = cancel
	}
	return jobCtx, cancel, r.latest
}

func (r *Renderer) run(ctx context.Context, cancel context.CancelFunc, job *Job, markup, svgURL string) {
	defer cancel()

	start := time.Now()
	key := cache.Key(markup, job.resolution)
	if url, ok := r.opts.Cache.Get(key); ok {
		r.finish(job, Result{DataURL: url, Width: job.resolution, Height: job.resolution, Cached: true}, nil)
		return
	}

	surface, err := r.rasterize(ctx, svgURL, job.resolution)
	if err != nil {
		r.finish(job, Result{}, err)
		return
	}
	url, err := dataurl.PNG(surface)
	if err != nil {
		r.finish(job, Result{}, fmt.Errorf("render: export surface: %w", err))
		return
	}
	r.opts.Cache.Set(key, url)

	b := surface.Bounds()
	r.log.Debug("render decoded", "token", job.token, "elapsed", time.Since(start))
	r.finish(job, Result{DataURL: url, Width: b.Dx(), Height: b.Dy()}, nil)
}

// finish commits or discards a completion. The sink is written under mu so
// that a stale completion can never land after a newer one.
func (r *Renderer) finish(job *Job, res Result, err error) {
	res.Token = job.token

	r.mu.Lock()
	stale := r.opts.Policy == LatestWins && job.token != r.latest
	switch {
	case stale:
		err = ErrSuperseded
	case err == nil:
		r.sink.SetSource(res.DataURL)
	}
	if job.token == r.latest && r.opts.Policy == LatestWins {
		r.cancel = nil
	}
	r.mu.Unlock()

	switch {
	case errors.Is(err, ErrSuperseded):
		r.log.Debug("render discarded", "token", job.token, "latest", r.Latest())
	case err != nil:
		r.log.Warn("render failed", "token", job.token, "resolution", job.resolution, "error", err)
	default:
		r.log.Info("render completed", "token", job.token, "resolution", job.resolution, "cached", res.Cached, "bytes", len(res.DataURL))
	}
	job.complete(res, err)
}

// Latest returns the token of the most recent Render call.
func (r *Renderer) Latest() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}
