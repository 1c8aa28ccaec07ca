package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pulse-news/pkg/models"
	"pulse-news/pkg/services"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const helloPost = `{
  "_id": "p1",
  "title": "Hello World",
  "slug": {"current": "hello-world"},
  "excerpt": "A first story",
  "categories": [{"_id": "c1", "title": "Sports", "slug": {"current": "sports"}}],
  "author": {"_id": "a1", "name": "Riley Chen", "bio": "Covers the beat"},
  "publishedAt": "2024-03-05T10:00:00Z",
  "body": [
    {"_type": "block", "_key": "b1", "style": "normal", "children": [{"_type": "span", "text": "One"}]},
    {"_type": "block", "_key": "b2", "style": "normal", "children": [{"_type": "span", "text": "Two"}]},
    {"_type": "block", "_key": "b3", "style": "normal", "children": [{"_type": "span", "text": "Three"}]},
    {"_type": "block", "_key": "b4", "style": "normal", "children": [{"_type": "span", "text": "Four"}]},
    {"_type": "videoEmbed", "_key": "v1", "url": "https://example.com/clip"}
  ]
}`

const secondPost = `{"_id": "p2", "title": "Second Story", "slug": {"current": "second-story"}}`

// storeStub answers the repository's queries by their parameters.
type storeStub struct {
	fail bool
}

func (s *storeStub) Fetch(_ context.Context, query string, params map[string]interface{}, _ services.FetchOptions) (json.RawMessage, error) {
	if s.fail {
		return nil, errors.New("content store unreachable")
	}
	switch {
	case params["query"] != nil:
		if params["query"] == "hello" {
			return json.RawMessage(`[` + helloPost + `]`), nil
		}
		return json.RawMessage(`[]`), nil
	case params["categoryId"] != nil:
		return json.RawMessage(`[` + secondPost + `]`), nil
	case params["categorySlug"] != nil:
		if params["categorySlug"] == "sports" {
			return json.RawMessage(`[` + helloPost + `]`), nil
		}
		return json.RawMessage(`[]`), nil
	case params["slug"] != nil && strings.Contains(query, `_type == "category"`):
		if params["slug"] == "sports" {
			return json.RawMessage(`{"_id": "c1", "title": "Sports", "slug": {"current": "sports"}, "description": "Scores and more"}`), nil
		}
		return json.RawMessage(`null`), nil
	case params["slug"] != nil:
		if params["slug"] == "hello-world" || params["slug"] == "Hello_World--2" {
			return json.RawMessage(helloPost), nil
		}
		return json.RawMessage(`null`), nil
	case strings.Contains(query, "featured == true"):
		return json.RawMessage(helloPost), nil
	case strings.Contains(query, `_type == "category"`):
		return json.RawMessage(`[{"_id": "c1", "title": "Sports", "slug": {"current": "sports"}}]`), nil
	default:
		return json.RawMessage(`[` + helloPost + `,` + secondPost + `]`), nil
	}
}

func newTestRouter(t *testing.T, store services.Fetcher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	contentDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "pages"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "pages", "about.md"),
		[]byte("---\ntitle: About Us\n---\nWe report the news.\n"), 0644))

	log := zap.NewNop()
	images := services.NewImageURLBuilder("proj", "production")
	site := models.DefaultSiteConfig()
	h := &Handler{
		Articles: services.NewArticles(store, log, time.Minute, time.Minute),
		Pages:    services.NewPages(contentDir, log),
		Renderer: services.NewRenderer(images, site.Ads.InArticle),
		Images:   images,
		Site:     site,
		Log:      log,
	}
	return NewRouter(h, "../../templates/*", "")
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return d
}

func TestHomePage(t *testing.T) {
	w := get(t, newTestRouter(t, &storeStub{}), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	d := parse(t, w)
	assert.Equal(t, "Hello World", d.Find(".featured h3 a").Text())
	assert.Equal(t, 2, d.Find(".latest .card").Length())
	assert.Equal(t, 0, d.Find(".more").Length())
	assert.Equal(t, "01", d.Find(".trending .rank").First().Text())
	assert.Equal(t, "Sports", d.Find(".featured .badge").Text())
}

func TestHomePageSurvivesStoreFailure(t *testing.T) {
	w := get(t, newTestRouter(t, &storeStub{fail: true}), "/")
	require.Equal(t, http.StatusOK, w.Code)
	d := parse(t, w)
	assert.Equal(t, 0, d.Find(".featured").Length())
	assert.Equal(t, "No stories yet.", d.Find(".latest .empty").Text())
}

func TestArticlePage(t *testing.T) {
	w := get(t, newTestRouter(t, &storeStub{}), "/article/hello-world")
	require.Equal(t, http.StatusOK, w.Code)

	d := parse(t, w)
	assert.Equal(t, "Hello World", d.Find("article.post h1").Text())
	assert.Equal(t, 4, d.Find(".body > p").Length())

	ads := d.Find(".body .ad-in-article")
	require.Equal(t, 1, ads.Length())
	assert.Equal(t, "ad-2", ads.AttrOr("data-key", ""))
	assert.Equal(t, "3456789012", ads.AttrOr("data-ad-slot", ""))
	assert.Equal(t, "Three", ads.Prev().Text())

	assert.Contains(t, d.Find(".video-fallback").Text(), "Unable to embed video")
	assert.Equal(t, "Second Story", d.Find(".related h3 a").Text())
	assert.Equal(t, "Riley Chen", d.Find(".meta .author").First().Text())
	assert.Contains(t, d.Find(".author-bio").Text(), "Covers the beat")
	assert.Equal(t, "/category/sports", d.Find(".breadcrumb a").Eq(1).AttrOr("href", ""))
}

func TestArticleEditorSlug(t *testing.T) {
	w := get(t, newTestRouter(t, &storeStub{}), "/article/Hello_World--2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello World", parse(t, w).Find("article.post h1").Text())
}

func TestArticleNotFound(t *testing.T) {
	r := newTestRouter(t, &storeStub{})
	assert.Equal(t, http.StatusNotFound, get(t, r, "/article/missing").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/article/bad.slug").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/article/bad%20slug").Code)

	w := get(t, newTestRouter(t, &storeStub{fail: true}), "/article/hello-world")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryPage(t *testing.T) {
	r := newTestRouter(t, &storeStub{})

	w := get(t, r, "/category/sports")
	require.Equal(t, http.StatusOK, w.Code)
	d := parse(t, w)
	assert.Equal(t, "Sports", d.Find(".category-header h1").Text())
	assert.Equal(t, "Scores and more", d.Find(".category-header p").Text())
	assert.Equal(t, 1, d.Find(".posts .card").Length())

	assert.Equal(t, http.StatusNotFound, get(t, r, "/category/unknown").Code)
}

func TestSearchPage(t *testing.T) {
	r := newTestRouter(t, &storeStub{})

	w := get(t, r, "/search")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Enter a search term to find articles")

	w = get(t, r, "/search?q=hello")
	require.Equal(t, http.StatusOK, w.Code)
	d := parse(t, w)
	assert.Contains(t, d.Find(".summary").Text(), "Found 1 article for")
	assert.Equal(t, 1, d.Find(".results .card").Length())

	w = get(t, r, "/search?q=nothing")
	assert.Contains(t, parse(t, w).Find(".summary").Text(), "No results found for")

	w = get(t, r, "/search?q="+strings.Repeat("a", 101))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaticPages(t *testing.T) {
	r := newTestRouter(t, &storeStub{})

	w := get(t, r, "/about")
	require.Equal(t, http.StatusOK, w.Code)
	d := parse(t, w)
	assert.Equal(t, "About Us", d.Find(".static-page h1").Text())
	assert.Equal(t, "We report the news.", d.Find(".static-page .body p").Text())

	assert.Equal(t, http.StatusNotFound, get(t, r, "/contact").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/no/such/page").Code)
}

func TestAPIArticles(t *testing.T) {
	r := newTestRouter(t, &storeStub{})

	w := get(t, r, "/api/articles")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "sports", list[0].Category.Slug.Current)

	assert.Equal(t, http.StatusBadRequest, get(t, r, "/api/articles?limit=500").Code)

	w = get(t, newTestRouter(t, &storeStub{fail: true}), "/api/articles")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAPIArticleDetail(t *testing.T) {
	r := newTestRouter(t, &storeStub{})

	w := get(t, r, "/api/articles/hello-world")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Article models.Article        `json:"article"`
		Units   []models.RenderedUnit `json:"units"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "p1", resp.Article.ID)
	require.Len(t, resp.Units, 6)
	assert.Equal(t, models.UnitAd, resp.Units[3].Kind)
	assert.Equal(t, models.UnitVideoFallback, resp.Units[5].Kind)

	w = get(t, r, "/api/articles/hello-world?ads=false")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Units, 5)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/api/articles/missing").Code)
}

func TestAPISearchAndCategories(t *testing.T) {
	r := newTestRouter(t, &storeStub{})

	w := get(t, r, "/api/search?q=hello")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Query   string           `json:"query"`
		Results []models.Article `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp.Query)
	assert.Len(t, resp.Results, 1)

	w = get(t, r, "/api/categories")
	require.Equal(t, http.StatusOK, w.Code)
	var cats []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "Sports", cats[0].Title)
}

func TestServeImage(t *testing.T) {
	r := newTestRouter(t, &storeStub{})

	w := get(t, r, "/media/image?ref=image-abc123-800x600-jpg&w=400")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://cdn.sanity.io/images/proj/production/abc123-800x600.jpg?auto=format&w=400", w.Header().Get("Location"))

	assert.Equal(t, http.StatusBadRequest, get(t, r, "/media/image").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/media/image?ref=file-x").Code)
}

func TestOpsEndpoints(t *testing.T) {
	r := newTestRouter(t, &storeStub{})
	assert.Equal(t, http.StatusOK, get(t, r, "/healthz").Code)

	get(t, r, "/article/hello-world")
	w := get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pulse_ad_slots_rendered_total")
}
