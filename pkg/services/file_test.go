package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, dir, name, content string) {
	t.Helper()
	pagesDir := filepath.Join(dir, "pages")
	require.NoError(t, os.MkdirAll(pagesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pagesDir, name), []byte(content), 0644))
}

func TestSafeJoin(t *testing.T) {
	assert.Equal(t, filepath.Join("root", "pages", "about.md"), SafeJoin("root", "pages", "about.md"))
	assert.Empty(t, SafeJoin("root", "pages", "../secret.md"))
	assert.Empty(t, SafeJoin("root", "pages", "/etc/passwd"))
}

func TestParseFrontMatterFormats(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  string
		body    string
	}{
		{"yaml", "---\ntitle: Hi\n---\nBody text\n", "yaml", "Body text"},
		{"yaml crlf", "---\r\ntitle: Hi\r\n---\r\nBody text\r\n", "yaml", "Body text"},
		{"toml", "+++\ntitle = \"Hi\"\n+++\n\nBody text", "toml", "Body text"},
		{"json", "{\"title\": \"Hi\"}\nBody text", "json", "Body text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, format, err := ParseFrontMatter([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, "Hi", fm["title"])
			assert.Equal(t, tt.body, body)
			assert.Equal(t, tt.format, format)
		})
	}

	_, _, _, err := ParseFrontMatter([]byte("just text"))
	assert.Error(t, err)
}

func TestPagesGet(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "about.md", "---\ntitle: About Us\ndescription: Who we are\n---\n# Newsroom\n\nWe **report**.\n\n<script>alert(1)</script>\n")
	writePage(t, dir, "contact.md", "+++\ntitle = \"Contact\"\n+++\nWrite to us.")
	writePage(t, dir, "plain.md", "No front matter here.")

	pages := NewPages(dir, nil)

	about, ok := pages.Get("about").Get()
	require.True(t, ok)
	assert.Equal(t, "About Us", about.Title)
	assert.Equal(t, "Who we are", about.Description)
	assert.Equal(t, "yaml", about.Format)
	assert.Contains(t, about.HTML, "<strong>report</strong>")
	assert.Contains(t, about.HTML, "Newsroom</h1>")
	assert.NotContains(t, about.HTML, "<script>")

	contact, ok := pages.Get("contact").Get()
	require.True(t, ok)
	assert.Equal(t, "toml", contact.Format)
	assert.Contains(t, contact.HTML, "<p>Write to us.</p>")

	plain, ok := pages.Get("plain").Get()
	require.True(t, ok)
	assert.Equal(t, "plain", plain.Title)

	assert.True(t, pages.Get("missing").IsEmpty())
	assert.True(t, pages.Get("../about").IsEmpty())
	assert.True(t, pages.Get("").IsEmpty())
}
