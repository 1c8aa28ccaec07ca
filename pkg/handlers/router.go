package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route onto a fresh engine. templateGlob and staticDir
// may be empty (tests, API-only use).
func NewRouter(h *Handler, templateGlob, staticDir string) *gin.Engine {
	if err := RegisterValidators(); err != nil {
		h.Log.Sugar().Warnf("slug validator not registered: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.Log))

	r.SetFuncMap(FuncMap())
	if templateGlob != "" {
		r.LoadHTMLGlob(templateGlob)
	}
	if staticDir != "" {
		r.Static("/static", staticDir)
	}

	// --- Pages ---
	r.GET("/", h.Home)
	r.GET("/article/:slug", h.Article)
	r.GET("/category/:slug", h.Category)
	r.GET("/search", h.Search)
	r.GET("/about", h.StaticPage("about"))
	r.GET("/contact", h.StaticPage("contact"))
	r.NoRoute(h.NotFound)

	// --- Media ---
	r.GET("/media/image", ServeImage(h))

	// --- JSON API ---
	api := r.Group("/api")
	{
		api.GET("/articles", ListArticles(h))
		api.GET("/articles/:slug", GetArticle(h))
		api.GET("/categories", ListCategories(h))
		api.GET("/search", SearchArticles(h))
	}

	// --- Ops ---
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
