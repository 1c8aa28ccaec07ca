package services

import (
	"strings"

	"pulse-news/pkg/models"
)

// Normalize reshapes a raw content-store document into the canonical article.
// Absent or malformed input yields nil. It never panics and performs no I/O.
func Normalize(raw interface{}) *models.Article {
	switch a := raw.(type) {
	case *models.Article:
		if a == nil {
			return nil
		}
		return copyArticle(*a)
	case models.Article:
		return copyArticle(a)
	}

	doc, ok := sanitizeValue(raw).(map[string]interface{})
	if !ok {
		return nil
	}

	id := firstString(doc, "_id", "id")
	if id == "" {
		return nil
	}

	return &models.Article{
		ID:            id,
		Title:         stringField(doc, "title"),
		Slug:          normalizeSlug(doc["slug"]),
		Excerpt:       blocksToPlain(doc["excerpt"]),
		CoverImage:    resolveCoverImage(doc),
		CoverImageAlt: stringField(doc, "coverImageAlt"),
		Author:        normalizeAuthor(doc["author"]),
		Category:      resolveCategory(doc),
		Tags:          stringList(doc["tags"]),
		Body:          normalizeBody(doc["body"]),
		PublishedAt:   stringField(doc, "publishedAt"),
		Featured:      boolField(doc, "featured"),
		FeaturedVideo: stringField(doc, "featuredVideo"),
		SEO:           normalizeSEO(doc["seo"]),
	}
}

// copyArticle returns an independent copy of an already canonical article,
// re-applying the shape guarantees a hand-built value may lack.
func copyArticle(a models.Article) *models.Article {
	if a.ID == "" {
		return nil
	}
	out := a
	out.Tags = append(make([]string, 0, len(a.Tags)), a.Tags...)
	out.Body = make([]models.Block, 0, len(a.Body))
	for _, b := range a.Body {
		if m, ok := sanitizeValue(b).(map[string]interface{}); ok {
			out.Body = append(out.Body, models.Block(m))
		}
	}
	if a.Category != nil {
		c := *a.Category
		out.Category = &c
	}
	if a.SEO != nil {
		if a.SEO.MetaTitle == "" && a.SEO.MetaDescription == "" {
			out.SEO = nil
		} else {
			seo := *a.SEO
			out.SEO = &seo
		}
	}
	return &out
}

// NormalizeAll normalizes a list result, dropping entries that normalize to nil.
func NormalizeAll(raw interface{}) []*models.Article {
	list, ok := sanitizeValue(raw).([]interface{})
	if !ok {
		return []*models.Article{}
	}
	out := make([]*models.Article, 0, len(list))
	for _, item := range list {
		if a := Normalize(item); a != nil {
			out = append(out, a)
		}
	}
	return out
}

// NormalizeCategory returns nil unless raw is an object carrying an id.
func NormalizeCategory(raw interface{}) *models.Category {
	m, ok := sanitizeValue(raw).(map[string]interface{})
	if !ok {
		return nil
	}
	id := firstString(m, "_id", "id", "_ref")
	if id == "" {
		return nil
	}
	return &models.Category{
		ID:          id,
		Title:       stringField(m, "title"),
		Slug:        normalizeSlug(m["slug"]),
		Color:       stringField(m, "color"),
		Description: stringField(m, "description"),
	}
}

// NormalizeCategories keeps the categories that carry an id.
func NormalizeCategories(raw interface{}) []*models.Category {
	list, _ := sanitizeValue(raw).([]interface{})
	out := make([]*models.Category, 0, len(list))
	for _, item := range list {
		if c := NormalizeCategory(item); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// blocksToPlain flattens rich text into plain text. Strings pass verbatim.
func blocksToPlain(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		paragraphs := make([]string, 0, len(val))
		for _, item := range val {
			paragraphs = append(paragraphs, blockText(item))
		}
		return strings.Join(paragraphs, "\n\n")
	default:
		return ""
	}
}

// blockText joins the text runs of a paragraph-like block; other kinds give "".
func blockText(v interface{}) string {
	block, ok := v.(map[string]interface{})
	if !ok || block["_type"] != "block" {
		return ""
	}
	children, ok := block["children"].([]interface{})
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, child := range children {
		if span, ok := child.(map[string]interface{}); ok {
			sb.WriteString(stringField(span, "text"))
		}
	}
	return sb.String()
}

// resolveCoverImage prefers a top-level URL string, then the nested asset url.
func resolveCoverImage(doc map[string]interface{}) string {
	for _, key := range []string{"coverImage", "mainImage"} {
		switch v := doc[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]interface{}:
			if asset, ok := v["asset"].(map[string]interface{}); ok {
				if url := stringField(asset, "url"); url != "" {
					return url
				}
			}
		}
	}
	return ""
}

func normalizeAuthor(v interface{}) models.Author {
	m, _ := v.(map[string]interface{})
	return models.Author{
		ID:    optionalString(m, "_id", "id"),
		Name:  optionalString(m, "name"),
		Image: optionalImage(m["image"]),
		Bio:   optionalString(m, "bio"),
	}
}

// optionalImage accepts a URL string or the {asset:{url}} shape.
func optionalImage(v interface{}) *string {
	switch img := v.(type) {
	case string:
		if img != "" {
			return &img
		}
	case map[string]interface{}:
		if asset, ok := img["asset"].(map[string]interface{}); ok {
			return optionalString(asset, "url")
		}
	}
	return nil
}

// resolveCategory picks the first element of a non-empty categories list,
// otherwise the singular category reference.
func resolveCategory(doc map[string]interface{}) *models.Category {
	if list, ok := doc["categories"].([]interface{}); ok && len(list) > 0 {
		return NormalizeCategory(list[0])
	}
	return NormalizeCategory(doc["category"])
}

// normalizeSlug always yields {current}, whether the source used a bare
// string or the nested object.
func normalizeSlug(v interface{}) models.Slug {
	switch s := v.(type) {
	case string:
		return models.Slug{Current: s}
	case map[string]interface{}:
		return models.Slug{Current: stringField(s, "current")}
	default:
		return models.Slug{}
	}
}

// normalizeBody keeps the object elements of an array body unchanged. Non-object
// elements carry no block identity and are dropped; a non-array body is empty.
func normalizeBody(v interface{}) []models.Block {
	list, ok := v.([]interface{})
	if !ok {
		return []models.Block{}
	}
	body := make([]models.Block, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			body = append(body, models.Block(m))
		}
	}
	return body
}

func normalizeSEO(v interface{}) *models.SEO {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	seo := &models.SEO{
		MetaTitle:       stringField(m, "metaTitle"),
		MetaDescription: stringField(m, "metaDescription"),
	}
	if seo.MetaTitle == "" && seo.MetaDescription == "" {
		return nil
	}
	return seo
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := stringField(m, key); s != "" {
			return s
		}
	}
	return ""
}

func optionalString(m map[string]interface{}, keys ...string) *string {
	if s := firstString(m, keys...); s != "" {
		return &s
	}
	return nil
}

func boolField(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func stringList(v interface{}) []string {
	list, _ := v.([]interface{})
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
