package annotate

import (
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-entitychips/internal/chips"
	"github.com/goliatone/go-entitychips/internal/logging"
	"github.com/goliatone/go-entitychips/internal/mentions"
	"github.com/goliatone/go-entitychips/internal/platforms"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// MentionMarker is the character a text span must end with for the link that
// follows it to be fused into a mention.
const MentionMarker = "@"

// Engine finds mentions and platform URLs in text and produces splices.
type Engine struct {
	lookup         mentions.Lookup
	detector       *platforms.Detector
	renderer       *chips.Renderer
	autoDetect     bool
	transformLinks bool
	metrics        Metrics
	logger         interfaces.Logger
	now            func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithAutoDetectURLs toggles bare platform URL detection.
func WithAutoDetectURLs(enabled bool) Option {
	return func(e *Engine) {
		e.autoDetect = enabled
	}
}

// WithTransformLinks toggles rewriting of plain http(s) links into link chips.
func WithTransformLinks(enabled bool) Option {
	return func(e *Engine) {
		e.transformLinks = enabled
	}
}

// WithDetector replaces the platform detector.
func WithDetector(detector *platforms.Detector) Option {
	return func(e *Engine) {
		if detector != nil {
			e.detector = detector
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics Metrics) Option {
	return func(e *Engine) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}

// WithLogger sets the logger used for resolution misses.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New constructs an engine. URL detection defaults on, link transformation off.
func New(lookup mentions.Lookup, renderer *chips.Renderer, opts ...Option) *Engine {
	e := &Engine{
		lookup:     lookup,
		detector:   platforms.NewDetector(),
		renderer:   renderer,
		autoDetect: true,
		metrics:    NoOpMetrics(),
		logger:     logging.NoOp(),
		now:        time.Now,
	}
	if e.renderer == nil {
		e.renderer = chips.NewRenderer(chips.ClassNames{}, nil)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// With returns a copy of the engine with opts applied. Used for per-document
// toggles.
func (e *Engine) With(opts ...Option) *Engine {
	clone := *e
	for _, opt := range opts {
		if opt != nil {
			opt(&clone)
		}
	}
	return &clone
}

// AutoDetectURLs reports whether bare URL detection is on.
func (e *Engine) AutoDetectURLs() bool { return e.autoDetect }

// TransformLinks reports whether plain link transformation is on.
func (e *Engine) TransformLinks() bool { return e.transformLinks }

// Replacements returns the sorted, non-overlapping replacement list for text.
// A detected URL that overlaps any mention is dropped.
func (e *Engine) Replacements(text string) []Replacement {
	if !strings.Contains(text, mentions.Marker) && !strings.Contains(text, "http") {
		return nil
	}
	started := e.now()

	found := mentions.Parse(text, e.lookup)
	var detected []platforms.Detected
	if e.autoDetect {
		detected = e.detector.Detect(text)
	}

	replacements := make([]Replacement, 0, len(found)+len(detected))
	for _, m := range found {
		kind := e.renderer.KindOf(m)
		if kind == chips.KindInert {
			logging.WithFields(e.logger, map[string]any{"slug": m.Slug}).Debug("annotate.mention.unresolved")
		}
		replacements = append(replacements, Replacement{
			Start:  m.Start,
			Length: len(m.Match),
			HTML:   e.renderer.Mention(m),
			Kind:   kind.String(),
		})
	}
	for _, d := range detected {
		if overlapsMention(d, found) {
			continue
		}
		replacements = append(replacements, Replacement{
			Start:  d.Start,
			Length: len(d.Match),
			HTML:   e.renderer.Platform(d),
			Kind:   chips.KindPlatform.String(),
		})
	}
	slices.SortStableFunc(replacements, func(a, b Replacement) int {
		return a.Start - b.Start
	})

	e.metrics.ObserveScan(e.now().Sub(started), len(replacements))
	for _, r := range replacements {
		e.metrics.IncrementChip(r.Kind)
	}
	return replacements
}

func overlapsMention(d platforms.Detected, found []mentions.Mention) bool {
	for _, m := range found {
		if d.Start < m.End() && m.Start < d.End() {
			return true
		}
	}
	return false
}

// Fragments returns the literal and chip fragments for text, or nil when
// nothing in text is replaced.
func (e *Engine) Fragments(text string) []Fragment {
	replacements := e.Replacements(text)
	if len(replacements) == 0 {
		return nil
	}
	return Apply(text, replacements)
}

// ScanText builds the splice replacing the text unit at index.
func (e *Engine) ScanText(index int, text string) (Splice, bool) {
	fragments := e.Fragments(text)
	if len(fragments) == 0 {
		return Splice{}, false
	}
	return newSplice(index, 1, fragments), true
}

// FuseLink merges a link at linkIndex with the preceding text when that text
// ends with the mention marker. The marker is stripped and the text is
// dropped when nothing else remains. An empty label shows the target
// without its scheme.
func (e *Engine) FuseLink(linkIndex int, prevText, label, target string) (Splice, bool) {
	if linkIndex < 1 || !strings.HasSuffix(prevText, MentionMarker) {
		return Splice{}, false
	}
	match := "@[" + label + "](" + target + ")"
	m := mentions.Resolve(label, target, e.lookup, 0, match)
	if label == "" {
		m.DisplayName = platforms.StripScheme(target)
	}

	trimmed := strings.TrimSuffix(prevText, MentionMarker)
	fragments := make([]Fragment, 0, 2)
	if trimmed != "" {
		fragments = append(fragments, Fragment{Kind: Literal, Start: 0, End: len(trimmed), Text: trimmed})
	}
	fragments = append(fragments, Fragment{Kind: Chip, Text: match, HTML: e.renderer.Mention(m)})

	e.metrics.IncrementFusion()
	e.metrics.IncrementChip(e.renderer.KindOf(m).String())
	return newSplice(linkIndex-1, 2, fragments), true
}

// TransformLink replaces a plain http(s) link at index with a link chip when
// link transformation is enabled.
func (e *Engine) TransformLink(index int, label, target string) (Splice, bool) {
	if !e.transformLinks || !chips.IsHTTP(target) {
		return Splice{}, false
	}
	if label == "" {
		label = platforms.StripScheme(target)
	}
	e.metrics.IncrementChip(chips.KindLink.String())
	return newSplice(index, 1, []Fragment{{Kind: Chip, Text: label, HTML: e.renderer.Link(label, target)}}), true
}

// PlatformLink replaces an autolinked URL at index with a platform chip when
// URL detection is on and the URL matches a platform.
func (e *Engine) PlatformLink(index int, rawURL string) (Splice, bool) {
	if !e.autoDetect {
		return Splice{}, false
	}
	platform, ok := e.detector.Classify(rawURL)
	if !ok {
		return Splice{}, false
	}
	d := platforms.Detected{Platform: platform, Slug: platform, URL: rawURL, Match: rawURL}
	e.metrics.IncrementChip(chips.KindPlatform.String())
	return newSplice(index, 1, []Fragment{{Kind: Chip, Text: rawURL, HTML: e.renderer.Platform(d)}}), true
}

// RenderHTML annotates plain text and returns HTML with literal text escaped.
func (e *Engine) RenderHTML(text string) string {
	fragments := e.Fragments(text)
	if fragments == nil {
		return chips.Escape(text)
	}
	var b strings.Builder
	for _, f := range fragments {
		if f.Kind == Chip {
			b.WriteString(f.HTML)
			continue
		}
		b.WriteString(chips.Escape(f.Text))
	}
	return b.String()
}
