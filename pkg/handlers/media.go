package handlers

import (
	"net/http"
	"strconv"

	"pulse-news/pkg/services"

	"github.com/gin-gonic/gin"
)

// ServeImage redirects an asset reference to its CDN URL.
func ServeImage(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Query("ref")
		if ref == "" {
			c.Status(http.StatusBadRequest)
			return
		}

		opts := services.ImageOptions{Auto: true}
		opts.Width, _ = strconv.Atoi(c.Query("w"))
		opts.Height, _ = strconv.Atoi(c.Query("h"))

		target := h.Images.URL(ref, opts)
		if target == "" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.Redirect(http.StatusFound, target)
	}
}
