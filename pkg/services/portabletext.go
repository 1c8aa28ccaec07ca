package services

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"pulse-news/pkg/models"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// adInterval is the number of plain paragraphs between in-article ad slots.
const adInterval = 3

// unitPolicy admits exactly the markup the renderer builds. URLs taken from
// content keep only http, https, mailto and relative forms.
var unitPolicy = newUnitPolicy()

func newUnitPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowElements("p", "h2", "h3", "h4", "blockquote", "strong", "em", "code",
		"ul", "ol", "li", "figure", "figcaption")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^noopener noreferrer$`)).OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height", "loading").OnElements("img")
	p.AllowAttrs("src", "allow", "allowfullscreen", "loading").OnElements("iframe")
	p.AllowAttrs("class").OnElements("div")
	p.AllowAttrs("data-platform").OnElements("div", "figure")
	return p
}

type blockRule func(r *Renderer, b models.Block, key string) (models.RenderedUnit, bool)

type markRule func(children []*html.Node, def map[string]interface{}) *html.Node

// Renderer turns a rich-text body into rendered units. It is safe for
// concurrent use.
type Renderer struct {
	Images    *ImageURLBuilder
	AdSlot    string
	types     map[string]blockRule
	styles    map[string]blockRule
	marks     map[string]markRule
	linkTypes map[string]markRule
}

func NewRenderer(images *ImageURLBuilder, adSlot string) *Renderer {
	return &Renderer{
		Images: images,
		AdSlot: adSlot,
		types: map[string]blockRule{
			"block":      renderTextBlock,
			"image":      renderImage,
			"videoEmbed": renderVideo,
		},
		styles: map[string]blockRule{
			"":           renderParagraph,
			"normal":     renderParagraph,
			"h2":         renderHeading(atom.H2),
			"h3":         renderHeading(atom.H3),
			"h4":         renderHeading(atom.H4),
			"blockquote": renderQuote,
		},
		marks: map[string]markRule{
			"strong": wrapMark(atom.Strong),
			"em":     wrapMark(atom.Em),
			"code":   wrapMark(atom.Code),
		},
		linkTypes: map[string]markRule{
			"link": linkMark,
		},
	}
}

// Render walks body in order. With insertAds, an ad slot follows every third
// plain paragraph unless that paragraph is the final block.
func (r *Renderer) Render(body []models.Block, insertAds bool) []models.RenderedUnit {
	units := make([]models.RenderedUnit, 0, len(body))
	paragraphs := 0

	for i := 0; i < len(body); i++ {
		block := body[i]

		if listType := block.ListItem(); listType != "" && block.Type() == "block" {
			end := i
			for end+1 < len(body) && body[end+1].Type() == "block" && body[end+1].ListItem() == listType {
				end++
			}
			units = append(units, r.renderList(body[i:end+1], block.Key(i), listType))
			i = end
			continue
		}

		if unit, ok := r.renderBlock(block, block.Key(i)); ok {
			units = append(units, unit)
		}

		if insertAds && block.IsParagraph() {
			paragraphs++
			if paragraphs%adInterval == 0 && i < len(body)-1 {
				units = append(units, models.RenderedUnit{
					Kind:   models.UnitAd,
					Key:    fmt.Sprintf("ad-%d", i),
					AdSlot: r.AdSlot,
				})
			}
		}
	}
	return units
}

func (r *Renderer) renderBlock(b models.Block, key string) (models.RenderedUnit, bool) {
	rule, ok := r.types[b.Type()]
	if !ok {
		return r.passthrough(b, key), true
	}
	return rule(r, b, key)
}

func renderTextBlock(r *Renderer, b models.Block, key string) (models.RenderedUnit, bool) {
	rule, ok := r.styles[b.Style()]
	if !ok {
		return r.passthrough(b, key), true
	}
	return rule(r, b, key)
}

func renderParagraph(r *Renderer, b models.Block, key string) (models.RenderedUnit, bool) {
	return unit(models.UnitParagraph, key, element(atom.P, nil, r.spans(b)...)), true
}

func renderHeading(a atom.Atom) blockRule {
	return func(r *Renderer, b models.Block, key string) (models.RenderedUnit, bool) {
		return unit(models.UnitHeading, key, element(a, nil, r.spans(b)...)), true
	}
}

func renderQuote(r *Renderer, b models.Block, key string) (models.RenderedUnit, bool) {
	return unit(models.UnitQuote, key, element(atom.Blockquote, nil, r.spans(b)...)), true
}

func renderImage(r *Renderer, b models.Block, key string) (models.RenderedUnit, bool) {
	asset := b.Map("asset")
	if asset == nil {
		return models.RenderedUnit{}, false
	}
	alt := b.Field("alt")
	if alt == "" {
		alt = "Article image"
	}
	src := r.Images.AssetURL(asset, ImageOptions{Width: 1200, Auto: true})
	img := element(atom.Img, []html.Attribute{
		{Key: "src", Val: src},
		{Key: "alt", Val: alt},
		{Key: "width", Val: "1200"},
		{Key: "height", Val: "675"},
		{Key: "loading", Val: "lazy"},
	})
	fig := element(atom.Figure, nil, img)
	if caption := b.Field("caption"); caption != "" {
		fig.AppendChild(element(atom.Figcaption, nil, text(caption)))
	}
	return unit(models.UnitImage, key, fig), true
}

func renderVideo(r *Renderer, b models.Block, key string) (models.RenderedUnit, bool) {
	rawURL := b.Field("url")
	if rawURL == "" {
		return models.RenderedUnit{}, false
	}

	embed, ok := ResolveVideo(rawURL)
	if !ok {
		fallback := element(atom.Div, []html.Attribute{
			{Key: "class", Val: "video-fallback"},
			{Key: "data-platform", Val: VideoPlatform(rawURL)},
		},
			element(atom.P, nil, text("Unable to embed video from this URL")),
			element(atom.A, externalLinkAttrs(rawURL), text("Watch video")),
		)
		return unit(models.UnitVideoFallback, key, fallback), true
	}

	aspect := "aspect-video"
	if embed.Vertical() {
		aspect = "aspect-vertical"
	}
	frame := element(atom.Div, []html.Attribute{{Key: "class", Val: "video " + aspect}},
		element(atom.Iframe, []html.Attribute{
			{Key: "src", Val: embed.EmbedURL},
			{Key: "allow", Val: "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"},
			{Key: "allowfullscreen", Val: ""},
			{Key: "loading", Val: "lazy"},
		}),
	)
	fig := element(atom.Figure, []html.Attribute{{Key: "data-platform", Val: embed.Platform}}, frame)
	if caption := b.Field("caption"); caption != "" {
		fig.AppendChild(element(atom.Figcaption, nil, text(caption)))
	}
	return unit(models.UnitVideo, key, fig), true
}

func (r *Renderer) renderList(items []models.Block, key, listType string) models.RenderedUnit {
	tag := atom.Ul
	if listType == "number" {
		tag = atom.Ol
	}
	list := element(tag, nil)
	for _, item := range items {
		list.AppendChild(element(atom.Li, nil, r.spans(item)...))
	}
	return unit(models.UnitList, key, list)
}

// passthrough renders a block's children with no wrapping element.
func (r *Renderer) passthrough(b models.Block, key string) models.RenderedUnit {
	return unit(models.UnitPassthrough, key, r.spans(b)...)
}

// spans renders the block's text runs, nesting one element per mark.
func (r *Renderer) spans(b models.Block) []*html.Node {
	defs := make(map[string]map[string]interface{})
	for _, def := range b.List("markDefs") {
		if k := stringField(def, "_key"); k != "" {
			defs[k] = def
		}
	}

	var nodes []*html.Node
	for _, child := range b.List("children") {
		var inner []*html.Node
		if t := stringField(child, "text"); t != "" {
			inner = []*html.Node{text(t)}
		}
		marks, _ := child["marks"].([]interface{})
		for _, m := range marks {
			name, _ := m.(string)
			inner = r.applyMark(name, defs, inner)
		}
		nodes = append(nodes, inner...)
	}
	return nodes
}

// applyMark wraps children for a decorator or annotation. Unknown marks leave
// the children unwrapped.
func (r *Renderer) applyMark(name string, defs map[string]map[string]interface{}, children []*html.Node) []*html.Node {
	if rule, ok := r.marks[name]; ok {
		return []*html.Node{rule(children, nil)}
	}
	if def, ok := defs[name]; ok {
		if rule, ok := r.linkTypes[stringField(def, "_type")]; ok {
			return []*html.Node{rule(children, def)}
		}
	}
	return children
}

func wrapMark(a atom.Atom) markRule {
	return func(children []*html.Node, _ map[string]interface{}) *html.Node {
		return element(a, nil, children...)
	}
}

// linkMark opens external (http/https) targets in a new context.
func linkMark(children []*html.Node, def map[string]interface{}) *html.Node {
	href := stringField(def, "href")
	if strings.HasPrefix(href, "http") {
		return element(atom.A, externalLinkAttrs(href), children...)
	}
	return element(atom.A, []html.Attribute{{Key: "href", Val: href}}, children...)
}

func externalLinkAttrs(href string) []html.Attribute {
	return []html.Attribute{
		{Key: "href", Val: href},
		{Key: "target", Val: "_blank"},
		{Key: "rel", Val: "noopener noreferrer"},
	}
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func unit(kind models.UnitKind, key string, nodes ...*html.Node) models.RenderedUnit {
	var buf bytes.Buffer
	for _, n := range nodes {
		// Rendering an in-memory tree into a buffer only fails on malformed
		// trees, which element/text never build.
		_ = html.Render(&buf, n)
	}
	return models.RenderedUnit{Kind: kind, Key: key, HTML: template.HTML(unitPolicy.Sanitize(buf.String()))}
}
