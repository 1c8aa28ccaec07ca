package handlers

import (
	"net/http"

	"pulse-news/pkg/metrics"
	"pulse-news/pkg/models"
	"pulse-news/pkg/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	homeLatestLimit = 9
	homeLatestMain  = 6
	homeTrending    = 5
)

type slugParam struct {
	Slug string `uri:"slug" binding:"required,slug"`
}

type searchQuery struct {
	Q string `form:"q" binding:"max=100"`
}

// page merges the shared chrome into view data.
func (h *Handler) page(c *gin.Context, status int, name string, data gin.H) {
	data["Site"] = h.Site
	data["Ads"] = h.Site.Ads
	c.HTML(status, name, data)
}

func (h *Handler) NotFound(c *gin.Context) {
	h.page(c, http.StatusNotFound, "not_found.html", gin.H{"Title": "Page Not Found"})
}

// Home loads the featured post and the latest list concurrently.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		featured services.Result[*models.Article]
		latest   services.Result[[]*models.Article]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		featured = h.Articles.Featured(gctx)
		return nil
	})
	g.Go(func() error {
		latest = h.Articles.Latest(gctx, homeLatestLimit)
		return nil
	})
	_ = g.Wait()

	posts := latest.OrElse(nil)
	data := gin.H{
		"Title":    h.Site.Name,
		"Featured": featured.OrElse(nil),
		"Latest":   limit(posts, 0, homeLatestMain),
		"More":     limit(posts, homeLatestMain, homeLatestLimit),
		"Trending": limit(posts, 0, homeTrending),
	}
	h.page(c, http.StatusOK, "home.html", data)
}

// Article renders a post body with in-article ad slots.
func (h *Handler) Article(c *gin.Context) {
	var p slugParam
	if err := c.ShouldBindUri(&p); err != nil {
		h.NotFound(c)
		return
	}
	ctx := c.Request.Context()

	post, ok := h.Articles.BySlug(ctx, p.Slug).Get()
	if !ok {
		h.NotFound(c)
		return
	}

	var related []*models.Article
	if post.Category != nil {
		related = h.Articles.Related(ctx, post.Category.ID, post.ID).OrElse(nil)
	}

	units := h.Renderer.Render(post.Body, h.Site.Ads.InArticle != "")
	countAds(units)

	var video *models.VideoEmbed
	if post.FeaturedVideo != "" {
		if embed, ok := services.ResolveVideo(post.FeaturedVideo); ok {
			video = &embed
		}
	}

	h.page(c, http.StatusOK, "article.html", gin.H{
		"Title":       post.MetaTitle(),
		"Description": post.MetaDescription(),
		"Post":        post,
		"Units":       units,
		"ReadingTime": services.ReadingTime(services.PlainText(post.Body)),
		"Related":     related,
		"Video":       video,
	})
}

// Category lists every post filed under the category.
func (h *Handler) Category(c *gin.Context) {
	var p slugParam
	if err := c.ShouldBindUri(&p); err != nil {
		h.NotFound(c)
		return
	}
	ctx := c.Request.Context()

	category, ok := h.Articles.Category(ctx, p.Slug).Get()
	if !ok {
		h.NotFound(c)
		return
	}
	posts := h.Articles.ByCategory(ctx, p.Slug, 0).OrElse(nil)

	h.page(c, http.StatusOK, "category.html", gin.H{
		"Title":       category.Title + " News",
		"Description": category.Description,
		"Category":    category,
		"Posts":       posts,
	})
}

func (h *Handler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.page(c, http.StatusBadRequest, "search.html", gin.H{
			"Title": "Search",
			"Error": "Search terms must be 100 characters or fewer",
		})
		return
	}
	posts := h.Articles.Search(c.Request.Context(), q.Q).OrElse(nil)

	title := "Search"
	if q.Q != "" {
		title = `Search results for "` + q.Q + `"`
	}
	h.page(c, http.StatusOK, "search.html", gin.H{
		"Title": title,
		"Query": q.Q,
		"Posts": posts,
	})
}

// StaticPage serves a markdown page by name (about, contact).
func (h *Handler) StaticPage(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pg, ok := h.Pages.Get(slug).Get()
		if !ok {
			h.NotFound(c)
			return
		}
		h.page(c, http.StatusOK, "page.html", gin.H{
			"Title":       pg.Title,
			"Description": pg.Description,
			"Page":        pg,
		})
	}
}

func limit(posts []*models.Article, from, to int) []*models.Article {
	if from >= len(posts) {
		return nil
	}
	if to > len(posts) {
		to = len(posts)
	}
	return posts[from:to]
}

func countAds(units []models.RenderedUnit) {
	for _, u := range units {
		if u.IsAd() {
			metrics.AdSlotsRendered.Inc()
		}
	}
}
