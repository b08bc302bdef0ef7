package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-entitychips/internal/annotate"
	"github.com/goliatone/go-entitychips/internal/logging"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// KindChip is the node kind of rendered entity chips.
var KindChip = ast.NewNodeKind("EntityChip")

// ChipNode holds pre-rendered chip markup.
type ChipNode struct {
	ast.BaseInline
	HTML []byte
}

func (n *ChipNode) Kind() ast.NodeKind { return KindChip }

func (n *ChipNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": string(n.HTML)}, nil)
}

type chipHTMLRenderer struct{}

func (r chipHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindChip, r.renderChip)
}

func (chipHTMLRenderer) renderChip(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		if chip, ok := node.(*ChipNode); ok {
			_, _ = w.Write(chip.HTML)
		}
	}
	return ast.WalkSkipChildren, nil
}

// ChipExtension wires the chip transformer and renderer into goldmark.
type ChipExtension struct {
	engine *annotate.Engine
	logger interfaces.Logger
}

// NewChipExtension returns an extender backed by engine.
func NewChipExtension(engine *annotate.Engine, logger interfaces.Logger) *ChipExtension {
	return &ChipExtension{engine: engine, logger: logging.Ensure(logger)}
}

func (e *ChipExtension) Extend(m goldmark.Markdown) {
	if e == nil || e.engine == nil {
		return
	}
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&chipTransformer{engine: e.engine, logger: e.logger}, 1000),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(chipHTMLRenderer{}, 500),
	))
}

type chipTransformer struct {
	engine *annotate.Engine
	logger interfaces.Logger
}

// Transform runs link fusion over the whole document, then text scanning.
func (t *chipTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	fused := t.walk(doc, source, t.linkPass)
	scanned := t.walk(doc, source, t.textPass)
	if fused+scanned > 0 {
		logging.WithFields(t.logger, map[string]any{
			"links": fused,
			"spans": scanned,
		}).Debug("markdown.chips.applied")
	}
}

type pass func(parent ast.Node, units []unit, index int, source []byte) (annotate.Splice, bool)

// walk visits every inline container and applies p to each sibling unit.
// Splices are applied in place and the walk resumes where they say.
func (t *chipTransformer) walk(parent ast.Node, source []byte, p pass) int {
	if skipSubtree(parent) {
		return 0
	}
	applied := 0
	units := collectUnits(parent)
	for i := 0; i < len(units); {
		splice, ok := p(parent, units, i, source)
		if ok {
			units = applySplice(parent, units, splice)
			applied++
			i = splice.Resume
			continue
		}
		if !units[i].text && !units[i].generated {
			applied += t.walk(units[i].nodes[0], source, p)
		}
		i++
	}
	return applied
}

func (t *chipTransformer) linkPass(_ ast.Node, units []unit, i int, source []byte) (annotate.Splice, bool) {
	u := units[i]
	if u.text || u.generated {
		return annotate.Splice{}, false
	}
	switch node := u.nodes[0].(type) {
	case *ast.Link:
		label := plainText(node, source)
		target := string(node.Destination)
		if i > 0 {
			prev := units[i-1]
			if prev.text && !prev.lineBreak() {
				if splice, ok := t.engine.FuseLink(i, prev.value(source), label, target); ok {
					return splice, true
				}
			}
		}
		return t.engine.TransformLink(i, label, target)
	case *ast.AutoLink:
		if node.AutoLinkType != ast.AutoLinkURL {
			return annotate.Splice{}, false
		}
		target := string(node.URL(source))
		if splice, ok := t.engine.PlatformLink(i, target); ok {
			return splice, true
		}
		return t.engine.TransformLink(i, string(node.Label(source)), target)
	}
	return annotate.Splice{}, false
}

func (t *chipTransformer) textPass(_ ast.Node, units []unit, i int, source []byte) (annotate.Splice, bool) {
	u := units[i]
	if !u.text || u.generated {
		return annotate.Splice{}, false
	}
	return t.engine.ScanText(i, u.value(source))
}

func skipSubtree(node ast.Node) bool {
	switch node.Kind() {
	case ast.KindLink, ast.KindImage, ast.KindAutoLink, ast.KindCodeSpan, ast.KindRawHTML, KindChip:
		return true
	}
	return false
}

// unit is a sibling position as the annotation engine sees it: either a run
// of contiguous text nodes read as one span, or a single other node.
type unit struct {
	nodes     []ast.Node
	text      bool
	generated bool
	start     int
	stop      int
}

func (u unit) value(source []byte) string {
	return string(source[u.start:u.stop])
}

func (u unit) lastText() *ast.Text {
	if len(u.nodes) == 0 {
		return nil
	}
	t, _ := u.nodes[len(u.nodes)-1].(*ast.Text)
	return t
}

func (u unit) lineBreak() bool {
	last := u.lastText()
	return last != nil && (last.SoftLineBreak() || last.HardLineBreak())
}

func scannable(n ast.Node) (*ast.Text, bool) {
	t, ok := n.(*ast.Text)
	if !ok || t.IsRaw() || t.Segment.Padding > 0 {
		return nil, false
	}
	return t, true
}

func collectUnits(parent ast.Node) []unit {
	var units []unit
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		t, ok := scannable(child)
		if !ok {
			units = append(units, unit{nodes: []ast.Node{child}})
			continue
		}
		if n := len(units); n > 0 {
			last := &units[n-1]
			if last.text && !last.lineBreak() && last.stop == t.Segment.Start {
				last.nodes = append(last.nodes, child)
				last.stop = t.Segment.Stop
				continue
			}
		}
		units = append(units, unit{
			nodes: []ast.Node{child},
			text:  true,
			start: t.Segment.Start,
			stop:  t.Segment.Stop,
		})
	}
	return units
}

// applySplice rewrites parent's children and returns the updated unit list.
// Literal fragments become sub-segments of the text they were sliced from so
// escapes and entities render exactly as before.
func applySplice(parent ast.Node, units []unit, splice annotate.Splice) []unit {
	removed := units[splice.Start : splice.Start+splice.Remove]

	var base int
	var trailing *ast.Text
	for _, u := range removed {
		if u.text {
			base = u.start
			trailing = u.lastText()
			break
		}
	}
	softBreak := trailing != nil && trailing.SoftLineBreak()
	hardBreak := trailing != nil && trailing.HardLineBreak()

	var anchor ast.Node
	if end := splice.Start + splice.Remove; end < len(units) {
		anchor = units[end].nodes[0]
	}
	for _, u := range removed {
		for _, n := range u.nodes {
			parent.RemoveChild(parent, n)
		}
	}

	inserted := make([]unit, 0, len(splice.Fragments))
	for _, f := range splice.Fragments {
		var node ast.Node
		if f.Kind == annotate.Literal {
			node = ast.NewTextSegment(text.NewSegment(base+f.Start, base+f.End))
		} else {
			node = &ChipNode{HTML: []byte(f.HTML)}
		}
		insert(parent, anchor, node)
		inserted = append(inserted, unit{nodes: []ast.Node{node}, generated: true})
	}

	if (softBreak || hardBreak) && len(inserted) > 0 {
		last := &inserted[len(inserted)-1]
		carrier, ok := last.nodes[0].(*ast.Text)
		if !ok {
			carrier = ast.NewTextSegment(text.NewSegment(base, base))
			insert(parent, anchor, carrier)
			last.nodes = append(last.nodes, carrier)
		}
		carrier.SetSoftLineBreak(softBreak)
		carrier.SetHardLineBreak(hardBreak)
	}

	out := make([]unit, 0, len(units)-splice.Remove+len(inserted))
	out = append(out, units[:splice.Start]...)
	out = append(out, inserted...)
	out = append(out, units[splice.Start+splice.Remove:]...)
	return out
}

func insert(parent, anchor, node ast.Node) {
	if anchor == nil {
		parent.AppendChild(parent, node)
		return
	}
	parent.InsertBefore(parent, anchor, node)
}

// plainText concatenates the text descendants of node.
func plainText(node ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := n.(type) {
		case *ast.Text:
			b.Write(typed.Segment.Value(source))
		case *ast.String:
			b.Write(typed.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
