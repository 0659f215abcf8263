package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/newscard/internal/card"
	"github.com/youruser/newscard/internal/config"
	imagepkg "github.com/youruser/newscard/internal/image"
	"github.com/youruser/newscard/internal/util"
)

// Handler serves the card endpoints.
type Handler struct {
	cfg      *config.Config
	renderer *card.Renderer
	fetcher  imagepkg.Fetcher
	logger   *zap.Logger
}

func NewHandler(cfg *config.Config, renderer *card.Renderer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:      cfg,
		renderer: renderer,
		fetcher:  imagepkg.Fetcher{Timeout: cfg.Fetch.Timeout, MaxBytes: cfg.Fetch.MaxBytes},
		logger:   logger,
	}
}

// errBadInput marks problems with the submitted form itself.
var errBadInput = errors.New("bad input")

// errFetch marks a failed remote image download.
var errFetch = errors.New("fetch failed")

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// cardForm is the JSON variant of the form. Nil fields take configured defaults.
type cardForm struct {
	BackgroundURL string  `json:"background_url"`
	LogoURL       string  `json:"logo_url"`
	Tag           *string `json:"tag"`
	Title         *string `json:"title"`
	Site          *string `json:"site"`
	TagColor      *string `json:"tag_color"`
	TitleOpacity  *int    `json:"title_opacity"`
}

// cardHandler renders a card from a multipart form: uploaded files or URLs for
// the two images plus the text and style fields.
func (h *Handler) cardHandler(c *gin.Context) {
	var form cardForm
	if v, ok := c.GetPostForm("tag"); ok {
		form.Tag = &v
	}
	if v, ok := c.GetPostForm("title"); ok {
		form.Title = &v
	}
	if v, ok := c.GetPostForm("site"); ok {
		form.Site = &v
	}
	if v, ok := c.GetPostForm("tag_color"); ok && v != "" {
		form.TagColor = &v
	}
	if v, ok := c.GetPostForm("title_opacity"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title_opacity must be an integer"})
			return
		}
		form.TitleOpacity = &n
	}
	form.BackgroundURL = c.PostForm("background_url")
	form.LogoURL = c.PostForm("logo_url")

	bg, err := h.imageField(c, "background", form.BackgroundURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	logo, err := h.imageField(c, "logo", form.LogoURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, form, bg, logo)
}

// cardJSONHandler renders a card whose images are fetched from URLs.
func (h *Handler) cardJSONHandler(c *gin.Context) {
	var form cardForm
	if err := c.BindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bg, err := h.fetch(c.Request.Context(), "background", form.BackgroundURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	logo, err := h.fetch(c.Request.Context(), "logo", form.LogoURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, form, bg, logo)
}

func (h *Handler) render(c *gin.Context, form cardForm, bg, logo []byte) {
	req := h.request(form)
	if bg == nil {
		h.fail(c, wrapInput("background image is required"))
		return
	}
	if logo == nil {
		if !h.cfg.Logo.QRFallback {
			h.fail(c, wrapInput("logo image is required"))
			return
		}
		qr, err := imagepkg.SiteQRLogo(req.SiteName, h.cfg.Logo.QRSize)
		if err != nil {
			h.fail(c, err)
			return
		}
		logo = qr
	}
	req.Background, req.Logo = bg, logo

	out, err := h.renderer.RenderPNG(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+card.Filename+`"`)
	c.Data(http.StatusOK, card.ContentType, out)
}

func (h *Handler) request(form cardForm) card.Request {
	d := h.cfg.Defaults
	req := card.Request{
		TagText:      d.Tag,
		TitleText:    d.Title,
		SiteName:     d.Site,
		TagColor:     d.TagColor,
		TitleOpacity: d.TitleOpacity,
	}
	if form.Tag != nil {
		req.TagText = *form.Tag
	}
	if form.Title != nil {
		req.TitleText = *form.Title
	}
	if form.Site != nil {
		req.SiteName = *form.Site
	}
	if form.TagColor != nil {
		req.TagColor = *form.TagColor
	} else if preset, ok := h.cfg.TagColor(req.TagText); ok {
		req.TagColor = preset
	}
	if form.TitleOpacity != nil {
		req.TitleOpacity = *form.TitleOpacity
	}
	return req
}

// imageField reads an uploaded file, or downloads url when no file was sent.
// It returns nil bytes when neither is present.
func (h *Handler) imageField(c *gin.Context, field, url string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err == nil {
		b, err := readUpload(fh, h.cfg.Fetch.MaxBytes)
		if err != nil {
			return nil, errors.Join(errBadInput, fmt.Errorf("%s: %w", field, err))
		}
		return b, nil
	}
	if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return nil, wrapInput(field + ": " + err.Error())
	}
	return h.fetch(c.Request.Context(), field, url)
}

func (h *Handler) fetch(ctx context.Context, field, url string) ([]byte, error) {
	if url == "" {
		return nil, nil
	}
	b, err := h.fetcher.DownloadImage(ctx, url)
	if err != nil {
		h.logger.Warn("image download failed", zap.String("field", field), zap.Error(err))
		return nil, errors.Join(errFetch, err)
	}
	return b, nil
}

// readUpload reads an uploaded file under the same size cap as remote fetches.
// A limit <= 0 disables the check.
func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if limit <= 0 {
		return io.ReadAll(f)
	}
	b, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, util.ErrTooLarge
	}
	return b, nil
}

func wrapInput(msg string) error {
	return errors.Join(errBadInput, errors.New(msg))
}

// fail maps an error to a status code and JSON body.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, util.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadInput), errors.Is(err, card.ErrInvalidStyle):
		status = http.StatusBadRequest
	case errors.Is(err, errFetch):
		status = http.StatusBadGateway
	case card.IsDecode(err):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("card render failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
