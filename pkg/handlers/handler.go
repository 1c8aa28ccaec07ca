package handlers

import (
	"fmt"
	"html/template"
	"regexp"

	"pulse-news/pkg/models"
	"pulse-news/pkg/services"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler holds the collaborators shared by every route.
type Handler struct {
	Articles *services.Articles
	Pages    *services.Pages
	Renderer *services.Renderer
	Images   *services.ImageURLBuilder
	Site     models.SiteConfig
	Log      *zap.Logger
}

// slugRe accepts the URL-safe identifiers editors save, including mixed case
// and underscores. Dots, slashes and encoded characters never reach the store.
var slugRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// RegisterValidators adds the "slug" rule to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
}

// FuncMap are the helpers available to page templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": services.FormatDate,
		"truncate":   services.Truncate,
		"add":        func(a, b int) int { return a + b },
		"pad2":       func(n int) string { return fmt.Sprintf("%02d", n) },
		"categoryHref": func(c *models.Category) string {
			if c == nil || c.Slug.Current == "" {
				return ""
			}
			return "/category/" + c.Slug.Current
		},
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}
}
