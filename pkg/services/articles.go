package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pulse-news/pkg/models"

	"go.uber.org/zap"
)

// postFields projects a post. Both historical category shapes are fetched;
// Normalize decides which one wins.
const postFields = `
  _id,
  title,
  slug,
  excerpt,
  "coverImage": coalesce(mainImage.asset->url, coverImage.asset->url),
  "coverImageAlt": coalesce(mainImage.alt, coverImage.alt),
  "categories": categories[]->{ _id, title, slug, color },
  "category": category->{ _id, title, slug, color },
  "author": author->{ _id, name, slug, "image": image.asset->url, bio },
  tags,
  featuredVideo,
  body,
  featured,
  publishedAt,
  seo
`

const categoryFields = `_id, title, slug, description, color`

const (
	relatedLimit = 3
	searchLimit  = 20
)

// Articles is the read-side repository over the content store. Every method
// returns Empty instead of an error; failures are logged.
type Articles struct {
	store            Fetcher
	log              *zap.Logger
	listRevalidate   time.Duration
	detailRevalidate time.Duration
}

func NewArticles(store Fetcher, log *zap.Logger, listRevalidate, detailRevalidate time.Duration) *Articles {
	if log == nil {
		log = zap.NewNop()
	}
	return &Articles{
		store:            store,
		log:              log,
		listRevalidate:   listRevalidate,
		detailRevalidate: detailRevalidate,
	}
}

// Featured returns the most recent post flagged as featured.
func (a *Articles) Featured(ctx context.Context) Result[*models.Article] {
	query := `*[_type == "post" && featured == true] | order(publishedAt desc)[0] {` + postFields + `}`
	return a.one(ctx, "featured", query, nil, a.listRevalidate)
}

// Latest returns up to limit posts, newest first.
func (a *Articles) Latest(ctx context.Context, limit int) Result[[]*models.Article] {
	query := fmt.Sprintf(`*[_type == "post"] | order(publishedAt desc)[0...%d] {%s}`, limit, postFields)
	return a.list(ctx, "latest", query, nil, a.listRevalidate)
}

// BySlug returns the post whose slug.current equals slug.
func (a *Articles) BySlug(ctx context.Context, slug string) Result[*models.Article] {
	query := `*[_type == "post" && slug.current == $slug][0] {` + postFields + `}`
	return a.one(ctx, "post", query, map[string]interface{}{"slug": slug}, a.detailRevalidate)
}

// Related returns other posts in the same category under either schema.
func (a *Articles) Related(ctx context.Context, categoryID, excludeID string) Result[[]*models.Article] {
	if categoryID == "" {
		return Empty[[]*models.Article]()
	}
	query := fmt.Sprintf(`*[_type == "post" && ($categoryId in categories[]._ref || category._ref == $categoryId) && _id != $currentPostId] | order(publishedAt desc)[0...%d] {%s}`,
		relatedLimit, postFields)
	params := map[string]interface{}{"categoryId": categoryID, "currentPostId": excludeID}
	return a.list(ctx, "related", query, params, a.listRevalidate)
}

// Category returns the category with the given slug.
func (a *Articles) Category(ctx context.Context, slug string) Result[*models.Category] {
	query := `*[_type == "category" && slug.current == $slug][0] {` + categoryFields + `}`
	raw, ok := a.fetch(ctx, "category", query, map[string]interface{}{"slug": slug}, a.detailRevalidate)
	if !ok {
		return Empty[*models.Category]()
	}
	if c := NormalizeCategory(raw); c != nil {
		return Ok(c)
	}
	return Empty[*models.Category]()
}

// Categories lists every category ordered by title.
func (a *Articles) Categories(ctx context.Context) Result[[]*models.Category] {
	query := `*[_type == "category"] | order(title asc) {` + categoryFields + `}`
	raw, ok := a.fetch(ctx, "categories", query, nil, a.listRevalidate)
	if !ok {
		return Empty[[]*models.Category]()
	}
	cats := NormalizeCategories(raw)
	if len(cats) == 0 {
		return Empty[[]*models.Category]()
	}
	return Ok(cats)
}

// ByCategory returns posts filed under the category slug, under either schema.
// A non-positive limit returns every match.
func (a *Articles) ByCategory(ctx context.Context, slug string, limit int) Result[[]*models.Article] {
	slice := ""
	if limit > 0 {
		slice = fmt.Sprintf("[0...%d]", limit)
	}
	query := fmt.Sprintf(`*[_type == "post" && (category->slug.current == $categorySlug || $categorySlug in categories[]->slug.current)] | order(publishedAt desc)%s {%s}`,
		slice, postFields)
	return a.list(ctx, "by_category", query, map[string]interface{}{"categorySlug": slug}, a.listRevalidate)
}

// Search matches title, excerpt and body text by prefix. A blank query is
// Empty without contacting the store; results are never cached.
func (a *Articles) Search(ctx context.Context, q string) Result[[]*models.Article] {
	q = strings.TrimSpace(q)
	if q == "" {
		return Empty[[]*models.Article]()
	}
	query := fmt.Sprintf(`*[_type == "post" && (title match $query + "*" || excerpt match $query + "*" || pt::text(body) match $query + "*")] | order(publishedAt desc)[0...%d] {%s}`,
		searchLimit, postFields)
	return a.list(ctx, "search", query, map[string]interface{}{"query": q}, 0)
}

func (a *Articles) one(ctx context.Context, name, query string, params map[string]interface{}, revalidate time.Duration) Result[*models.Article] {
	raw, ok := a.fetch(ctx, name, query, params, revalidate)
	if !ok {
		return Empty[*models.Article]()
	}
	if article := Normalize(raw); article != nil {
		return Ok(article)
	}
	return Empty[*models.Article]()
}

func (a *Articles) list(ctx context.Context, name, query string, params map[string]interface{}, revalidate time.Duration) Result[[]*models.Article] {
	raw, ok := a.fetch(ctx, name, query, params, revalidate)
	if !ok {
		return Empty[[]*models.Article]()
	}
	articles := NormalizeAll(raw)
	if len(articles) == 0 {
		return Empty[[]*models.Article]()
	}
	return Ok(articles)
}

// fetch runs the query and decodes the result. Failures are logged and
// reported as absence.
func (a *Articles) fetch(ctx context.Context, name, query string, params map[string]interface{}, revalidate time.Duration) (interface{}, bool) {
	result, err := a.store.Fetch(ctx, query, params, FetchOptions{Revalidate: revalidate})
	if err != nil {
		a.log.Error("Error fetching content", zap.String("query", name), zap.Any("params", params), zap.Error(err))
		return nil, false
	}
	if len(result) == 0 {
		return nil, false
	}
	var raw interface{}
	if err := json.Unmarshal(result, &raw); err != nil {
		a.log.Error("Error decoding content", zap.String("query", name), zap.Error(err))
		return nil, false
	}
	if raw == nil {
		return nil, false
	}
	return raw, true
}
