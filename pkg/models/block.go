package models

import (
	"fmt"
	"html/template"
)

// Block is one structured unit of a rich-text body, kept in the content
// store's own shape. The renderer interprets it; the normalizer never does.
type Block map[string]interface{}

func (b Block) str(key string) string {
	if s, ok := b[key].(string); ok {
		return s
	}
	return ""
}

// Type returns the block's _type.
func (b Block) Type() string { return b.str("_type") }

// Style returns the text style (normal, h2, blockquote, ...).
func (b Block) Style() string { return b.str("style") }

// ListItem returns "bullet", "number" or "" for non-list blocks.
func (b Block) ListItem() string { return b.str("listItem") }

// Key returns the stable identity key, falling back to the block's position.
func (b Block) Key(index int) string {
	if k := b.str("_key"); k != "" {
		return k
	}
	return fmt.Sprintf("block-%d", index)
}

// Field returns a string field such as url, caption or alt.
func (b Block) Field(key string) string { return b.str(key) }

// Map returns a nested object field or nil.
func (b Block) Map(key string) map[string]interface{} {
	m, _ := b[key].(map[string]interface{})
	return m
}

// List returns the elements of a nested array field that are objects.
func (b Block) List(key string) []map[string]interface{} {
	raw, ok := b[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// IsParagraph reports whether the block is a plain-style paragraph, the only
// kind that advances the in-article ad counter.
func (b Block) IsParagraph() bool {
	if b.Type() != "block" || b.ListItem() != "" {
		return false
	}
	style := b.Style()
	return style == "" || style == "normal"
}

type UnitKind string

const (
	UnitParagraph     UnitKind = "paragraph"
	UnitHeading       UnitKind = "heading"
	UnitQuote         UnitKind = "quote"
	UnitList          UnitKind = "list"
	UnitImage         UnitKind = "image"
	UnitVideo         UnitKind = "video"
	UnitVideoFallback UnitKind = "videoFallback"
	UnitPassthrough   UnitKind = "passthrough"
	UnitAd            UnitKind = "ad"
)

// RenderedUnit is either a rendered content block or an injected ad slot marker.
type RenderedUnit struct {
	Kind   UnitKind      `json:"kind"`
	Key    string        `json:"key"`
	HTML   template.HTML `json:"html,omitempty"`
	AdSlot string        `json:"adSlot,omitempty"`
}

// IsAd reports whether the unit is an ad slot marker.
func (u RenderedUnit) IsAd() bool { return u.Kind == UnitAd }

// VideoEmbed is the provider-specific embeddable form of a video URL.
type VideoEmbed struct {
	Platform string `json:"platform"`
	EmbedURL string `json:"embedUrl"`
}

// Vertical reports whether the platform serves portrait video.
func (v VideoEmbed) Vertical() bool {
	return v.Platform == "tiktok" || v.Platform == "instagram"
}
