package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pulse-news/pkg/models"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

// SafeJoin joins target under root/sub, returning "" for paths that escape.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(target)
	if strings.Contains(cleanTarget, "..") || filepath.IsAbs(cleanTarget) {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// Pages serves static pages (about, contact) from markdown files with front
// matter stored under <contentDir>/pages.
type Pages struct {
	dir      string
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
	log      *zap.Logger
}

func NewPages(contentDir string, log *zap.Logger) *Pages {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pages{
		dir:      contentDir,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitize: bluemonday.UGCPolicy(),
		log:      log,
	}
}

// Get loads pages/<slug>.md. Missing or unreadable pages are Empty.
func (p *Pages) Get(slug string) Result[*models.Page] {
	fullPath := SafeJoin(p.dir, "pages", slug+".md")
	if fullPath == "" || slug == "" {
		return Empty[*models.Page]()
	}
	content, err := os.ReadFile(fullPath)
	if err != nil {
		if !os.IsNotExist(err) {
			p.log.Error("Error reading page", zap.String("slug", slug), zap.Error(err))
		}
		return Empty[*models.Page]()
	}

	page, err := p.parse(slug, content)
	if err != nil {
		p.log.Error("Error rendering page", zap.String("slug", slug), zap.Error(err))
		return Empty[*models.Page]()
	}
	return Ok(page)
}

func (p *Pages) parse(slug string, content []byte) (*models.Page, error) {
	fm, body, format, err := ParseFrontMatter(content)
	if err != nil {
		// No front matter: the whole file is the body.
		fm, body, format = map[string]interface{}{}, string(content), ""
	}

	var buf bytes.Buffer
	if err := p.md.Convert([]byte(body), &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	title := slug
	if t, ok := fm["title"].(string); ok && t != "" {
		title = t
	}
	description, _ := fm["description"].(string)

	return &models.Page{
		Slug:        slug,
		Title:       title,
		Description: description,
		FrontMatter: fm,
		HTML:        string(p.sanitize.SanitizeBytes(buf.Bytes())),
		Format:      format,
	}, nil
}
