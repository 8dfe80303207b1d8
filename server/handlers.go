package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ByLCY/mondrian/art"
	"github.com/ByLCY/mondrian/dataurl"
	"github.com/ByLCY/mondrian/markup"
	"github.com/ByLCY/mondrian/page"
	"github.com/ByLCY/mondrian/raster"
	"github.com/ByLCY/mondrian/render"
)

type renderRequest struct {
	Markup     string `json:"markup"`
	Resolution int    `json:"resolution"`
	Decoder    string `json:"decoder"`
}

type renderResponse struct {
	DataURL string `json:"dataUrl"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Cached  bool   `json:"cached"`
}

func (s *Server) renderOptions(decoderName string) (render.Options, error) {
	if decoderName == "" {
		decoderName = s.opts.Decoder
	}
	dec, err := raster.Open(decoderName)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Decoder: dec,
		Policy:  s.opts.Policy,
		Timeout: s.opts.Timeout,
		Cache:   s.opts.Cache,
		Logger:  s.log,
	}, nil
}

// compose generates a composition and renders it into a fresh document.
func (s *Server) compose(c *fiber.Ctx) (*page.Document, *art.Composition, render.Result, error) {
	settings, err := settingsFromQuery(c, s.opts.Base)
	if err != nil {
		return nil, nil, render.Result{}, err
	}
	comp, err := s.gen.Generate(settings)
	if err != nil {
		return nil, nil, render.Result{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	doc := page.NewDocument(
		page.NewArtElement(&markup.Artwork{Composition: comp}),
		page.NewImageSlot(),
	)
	opts, err := s.renderOptions(c.Query("decoder"))
	if err != nil {
		return nil, nil, render.Result{}, err
	}
	res, err := s.wait(c.UserContext(), func(ctx context.Context) (*render.Job, error) {
		return render.RenderDocument(ctx, doc, settings.Resolution, opts)
	})
	if err != nil {
		return nil, nil, render.Result{}, err
	}
	return doc, comp, res, nil
}

// wait starts a render and blocks for its outcome; decode failures become 422.
func (s *Server) wait(ctx context.Context, start func(context.Context) (*render.Job, error)) (render.Result, error) {
	job, err := start(ctx)
	if err != nil {
		return render.Result{}, err
	}
	res, err := job.Wait(ctx)
	if err != nil {
		if errors.Is(err, render.ErrInvalidResolution) {
			return res, err
		}
		return res, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return res, nil
}

func (s *Server) index(c *fiber.Ctx) error {
	doc, comp, _, err := s.compose(c)
	if err != nil {
		return err
	}
	title := comp.Title
	if title == "" {
		title = fmt.Sprintf("Mondrian #%d", comp.Seed)
	}
	var buf bytes.Buffer
	if err := doc.HTML(&buf, title, art.Resolutions...); err != nil {
		return err
	}
	c.Set("X-Mondrian-Seed", fmt.Sprint(comp.Seed))
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) artSVG(c *fiber.Ctx) error {
	settings, err := settingsFromQuery(c, s.opts.Base)
	if err != nil {
		return err
	}
	comp, err := s.gen.Generate(settings)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	out, err := markup.Write(comp)
	if err != nil {
		return err
	}
	c.Set("X-Mondrian-Seed", fmt.Sprint(comp.Seed))
	c.Type("svg")
	return c.SendString(out)
}

func (s *Server) artPNG(c *fiber.Ctx) error {
	_, comp, res, err := s.compose(c)
	if err != nil {
		return err
	}
	u, err := dataurl.Parse(res.DataURL)
	if err != nil {
		return err
	}
	c.Set("X-Mondrian-Seed", fmt.Sprint(comp.Seed))
	c.Type("png")
	return c.Send(u.Data)
}

func (s *Server) renderMarkup(c *fiber.Ctx) error {
	var req renderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "请求体不是有效的 JSON: "+err.Error())
	}
	if strings.TrimSpace(req.Markup) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "markup 不能为空")
	}
	if req.Resolution == 0 {
		req.Resolution = s.opts.Base.Resolution
	}
	if !render.ValidResolution(req.Resolution) {
		return fmt.Errorf("%w: %d", render.ErrInvalidResolution, req.Resolution)
	}
	opts, err := s.renderOptions(req.Decoder)
	if err != nil {
		return err
	}
	slot := page.NewImageSlot()
	r, err := render.New(markup.Static(req.Markup), slot, opts)
	if err != nil {
		return err
	}
	res, err := s.wait(c.UserContext(), func(ctx context.Context) (*render.Job, error) {
		return r.Render(ctx, req.Resolution)
	})
	if err != nil {
		return err
	}
	return c.JSON(renderResponse{
		DataURL: res.DataURL,
		Width:   res.Width,
		Height:  res.Height,
		Cached:  res.Cached,
	})
}

func (s *Server) resolutions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"resolutions": art.Resolutions,
		"default":     s.opts.Base.Resolution,
		"decoders":    raster.Names(),
	})
}
