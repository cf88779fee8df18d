// Package qrpreview draws a payment QR image in the terminal. The image is
// fetched from an http(s) or data: reference, reduced to the requested width
// and printed with half-block characters, two pixel rows per text line.
package qrpreview

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/disintegration/imaging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/electryonz/internal/cachemanager"
	"github.com/zjrosen/electryonz/internal/log"
	"github.com/zjrosen/electryonz/internal/tracing"
)

const maxImageBytes = 4 << 20

// Renderer turns QR references into block art, caching results per reference.
type Renderer struct {
	http   *http.Client
	width  int
	tracer trace.Tracer
	cache  *cachemanager.ReadThroughCache[string, string]
}

// Option customizes a Renderer.
type Option func(*Renderer)

func WithHTTPClient(hc *http.Client) Option { return func(r *Renderer) { r.http = hc } }

func WithTracer(t trace.Tracer) Option { return func(r *Renderer) { r.tracer = t } }

// WithCache replaces the default in-memory cache.
func WithCache(c cachemanager.CacheManager[string, string]) Option {
	return func(r *Renderer) { r.cache = cachemanager.NewReadThroughCache[string, string](c, 0, r.load) }
}

// New returns a renderer that scales images down to width cells; zero keeps
// the original size.
func New(width int, opts ...Option) *Renderer {
	r := &Renderer{
		http:   http.DefaultClient,
		width:  width,
		tracer: noop.NewTracerProvider().Tracer(tracing.DefaultServiceName),
	}
	r.cache = cachemanager.NewReadThroughCache[string, string](
		cachemanager.NewInMemoryCacheManager[string, string]("qr-preview", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
		0, r.load)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the block art for ref.
func (r *Renderer) Render(ctx context.Context, ref string) (string, error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanQRPreview,
		trace.WithAttributes(attribute.String(tracing.AttrQRSource, sourceKind(ref))))
	defer span.End()

	art, hit, err := r.cache.Get(ctx, ref)
	span.SetAttributes(attribute.Bool(tracing.AttrQRCacheHit, hit))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatQR, "qr preview failed", err, "source", sourceKind(ref))
		return "", err
	}
	return art, nil
}

// RenderedMsg carries a finished preview back to the Bubble Tea loop.
type RenderedMsg struct {
	Ref string
	Art string
	Err error
}

// RenderCmd renders ref in the background.
func (r *Renderer) RenderCmd(ctx context.Context, ref string) tea.Cmd {
	return func() tea.Msg {
		art, err := r.Render(ctx, ref)
		return RenderedMsg{Ref: ref, Art: art, Err: err}
	}
}

func (r *Renderer) load(ctx context.Context, ref string) (string, error) {
	img, err := r.fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	art := Blocks(img, r.width)
	log.Debug(log.CatQR, "qr preview rendered", "source", sourceKind(ref), "lines", strings.Count(art, "\n")+1)
	return art, nil
}

func (r *Renderer) fetch(ctx context.Context, ref string) (image.Image, error) {
	if strings.HasPrefix(ref, "data:") {
		data, err := decodeDataURL(ref)
		if err != nil {
			return nil, err
		}
		return decode(bytes.NewReader(data))
	}

	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("unsupported qr reference %q", ref)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("building qr request: %w", err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching qr image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching qr image: status %d", resp.StatusCode)
	}
	return decode(io.LimitReader(resp.Body, maxImageBytes))
}

func decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding qr image: %w", err)
	}
	return img, nil
}

// decodeDataURL extracts the bytes of a base64 data URL.
func decodeDataURL(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("data url has no payload")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("data url is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data url: %w", err)
	}
	return data, nil
}

func sourceKind(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return "data"
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return u.Scheme
	}
	return "unknown"
}

// Blocks renders img as half-block text. Light pixels are drawn and dark
// pixels left blank, which reads correctly on dark terminal backgrounds.
// Images wider than width are shrunk by an integer factor that divides the
// module size, so every QR module keeps at least one cell. When even one cell
// per module is wider than width, the wider rendering is returned.
func Blocks(img image.Image, width int) string {
	gray := imaging.Grayscale(img)
	if bw := gray.Bounds().Dx(); width > 0 && bw > width {
		if k := shrinkFactor(bw, moduleSize(gray), width); k > 1 {
			gray = imaging.Resize(gray, bw/k, gray.Bounds().Dy()/k, imaging.NearestNeighbor)
		}
	}

	b := gray.Bounds()
	lit := func(x, y int) bool {
		if y >= b.Max.Y {
			return false
		}
		return light(gray, x, y)
	}

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top, bottom := lit(x, y), lit(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}

func light(img image.Image, x, y int) bool {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y >= 128
}

// moduleSize is the shortest run of equal pixels along any row, ignoring runs
// that touch the image edge. For a QR code that is the module side in pixels.
// An image with no interior edges reports its full width.
func moduleSize(img image.Image) int {
	b := img.Bounds()
	best := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		run, atEdge := 1, true
		prev := light(img, b.Min.X, y)
		for x := b.Min.X + 1; x < b.Max.X; x++ {
			cur := light(img, x, y)
			if cur == prev {
				run++
				continue
			}
			if !atEdge {
				best = min(best, run)
			}
			run, atEdge, prev = 1, false, cur
		}
	}
	return max(best, 1)
}

// shrinkFactor returns the smallest divisor of module that brings pixels
// within width, or module itself when none does.
func shrinkFactor(pixels, module, width int) int {
	for k := 1; k < module; k++ {
		if module%k == 0 && pixels/k <= width {
			return k
		}
	}
	return module
}
