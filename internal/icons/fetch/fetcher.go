package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-entitychips/internal/icons"
	"github.com/goliatone/go-entitychips/internal/logging"
	"github.com/goliatone/go-entitychips/internal/registry"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

const (
	TextCodeOutputDir = "ICONS_OUTPUT_DIR"
	TextCodeFetch     = "ICONS_FETCH_FAILED"
	TextCodeDecode    = "ICONS_DECODE_FAILED"
	TextCodeWrite     = "ICONS_WRITE_FAILED"
)

// maxIconBytes caps a single download.
const maxIconBytes = 1 << 20

// Target is one icon to fetch.
type Target struct {
	Slug   string
	Domain string
}

// Targets lists every entity with a resolvable domain in registry order.
func Targets(entities []registry.Entity) []Target {
	out := make([]Target, 0, len(entities))
	for _, entity := range entities {
		domain := entity.IconDomain()
		if domain == "" {
			continue
		}
		out = append(out, Target{Slug: entity.Slug, Domain: domain})
	}
	return out
}

// Config controls a fetch run.
type Config struct {
	OutputDir         string
	Template          string
	Size              int
	RequestsPerSecond float64
	Force             bool
	DryRun            bool
}

// Summary counts the outcome of a run. Errors holds per-item failures.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
	Errors     []*goerrors.Error
}

// Err merges the per-item failures, or returns nil when there were none.
func (s Summary) Err() error {
	if len(s.Errors) == 0 {
		return nil
	}
	collector := goerrors.NewCollector(goerrors.WithMaxErrors(len(s.Errors)))
	for _, err := range s.Errors {
		collector.Add(err)
	}
	return collector.Merge()
}

// Fetcher downloads favicons and stores them as square PNG assets.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	logger  interfaces.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithLogger sets the logger for per-item progress.
func WithLogger(logger interfaces.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New builds a fetcher. A zero RequestsPerSecond disables pacing.
func New(cfg Config, opts ...Option) *Fetcher {
	if cfg.Size <= 0 {
		cfg.Size = 16
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	f := &Fetcher{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Run fetches every target. Per-item failures are counted and never abort the
// batch. The returned error is non-nil only when the output directory cannot
// be prepared or ctx is done.
func (f *Fetcher) Run(ctx context.Context, targets []Target) (Summary, error) {
	var summary Summary
	if !f.cfg.DryRun {
		if err := os.MkdirAll(f.cfg.OutputDir, 0o755); err != nil {
			return summary, goerrors.Wrap(err, goerrors.CategoryInternal, "create icon output directory").
				WithTextCode(TextCodeOutputDir).
				WithMetadata(map[string]any{"dir": f.cfg.OutputDir})
		}
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		logger := logging.WithFields(f.logger, map[string]any{
			"slug":   target.Slug,
			"domain": target.Domain,
		})

		name, err := icons.AssetName(target.Slug)
		if err != nil {
			summary.fail(logger, goerrors.Wrap(err, goerrors.CategoryBadInput, "icon asset name").
				WithTextCode(TextCodeWrite).
				WithMetadata(map[string]any{"slug": target.Slug}))
			continue
		}
		out := filepath.Join(f.cfg.OutputDir, name)

		if !f.cfg.Force && exists(out) {
			summary.Skipped++
			logger.Debug("icons.fetch.skipped")
			continue
		}
		if f.cfg.DryRun {
			summary.Downloaded++
			logger.Info("icons.fetch.dry_run", "url", f.sourceURL(target.Domain))
			continue
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return summary, err
		}
		if err := f.fetchOne(ctx, target, out); err != nil {
			summary.fail(logger, err)
			continue
		}
		summary.Downloaded++
		logger.Info("icons.fetch.downloaded", "path", out)
	}
	return summary, nil
}

func (s *Summary) fail(logger interfaces.Logger, err *goerrors.Error) {
	s.Failed++
	s.Errors = append(s.Errors, err)
	logger.Warn("icons.fetch.failed", "error", err.Error(), "text_code", err.TextCode)
}

func (f *Fetcher) sourceURL(domain string) string {
	return strings.ReplaceAll(f.cfg.Template, icons.DomainPlaceholder, domain)
}

func (f *Fetcher) fetchOne(ctx context.Context, target Target, out string) *goerrors.Error {
	meta := map[string]any{"slug": target.Slug, "domain": target.Domain}
	source := f.sourceURL(target.Domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "build icon request").
			WithTextCode(TextCodeFetch).WithMetadata(meta)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "fetch icon").
			WithTextCode(TextCodeFetch).WithMetadata(meta)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return goerrors.Wrap(fmt.Errorf("HTTP %d", resp.StatusCode), goerrors.CategoryExternal, "fetch icon").
			WithTextCode(TextCodeFetch).WithMetadata(meta)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "read icon").
			WithTextCode(TextCodeFetch).WithMetadata(meta)
	}

	encoded, err := Resize(raw, f.cfg.Size)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "decode icon").
			WithTextCode(TextCodeDecode).WithMetadata(meta)
	}
	if err := writeAtomic(out, encoded); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "write icon").
			WithTextCode(TextCodeWrite).WithMetadata(meta)
	}
	return nil
}

// Resize decodes a PNG, GIF, JPEG or WebP image and re-encodes it as a
// size x size PNG.
func Resize(raw []byte, size int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
