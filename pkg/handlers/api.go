package handlers

import (
	"net/http"
	"strconv"

	"pulse-news/pkg/models"

	"github.com/gin-gonic/gin"
)

const maxAPILimit = 50

func ListArticles(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := 9
		if v := c.Query("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 || parsed > maxAPILimit {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
				return
			}
			n = parsed
		}

		ctx := c.Request.Context()
		var articles []*models.Article
		if category := c.Query("category"); category != "" {
			articles = h.Articles.ByCategory(ctx, category, n).OrElse([]*models.Article{})
		} else {
			articles = h.Articles.Latest(ctx, n).OrElse([]*models.Article{})
		}
		c.JSON(http.StatusOK, articles)
	}
}

// GetArticle returns the canonical record plus its rendered body units.
func GetArticle(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p slugParam
		if err := c.ShouldBindUri(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slug"})
			return
		}
		post, ok := h.Articles.BySlug(c.Request.Context(), p.Slug).Get()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		insertAds := c.DefaultQuery("ads", "true") != "false"
		c.JSON(http.StatusOK, gin.H{
			"article": post,
			"units":   h.Renderer.Render(post.Body, insertAds),
		})
	}
}

func ListCategories(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, h.Articles.Categories(c.Request.Context()).OrElse([]*models.Category{}))
	}
}

func SearchArticles(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q searchQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"query":   q.Q,
			"results": h.Articles.Search(c.Request.Context(), q.Q).OrElse([]*models.Article{}),
		})
	}
}
