package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// assetRefRe matches image asset references: image-<id>-<width>x<height>-<format>.
var assetRefRe = regexp.MustCompile(`^image-([a-zA-Z0-9]+)-(\d+x\d+)-([a-z0-9]+)$`)

// ImageURLBuilder resolves content-store image asset references to CDN URLs.
type ImageURLBuilder struct {
	BaseURL   string
	ProjectID string
	Dataset   string
}

func NewImageURLBuilder(projectID, dataset string) *ImageURLBuilder {
	return &ImageURLBuilder{
		BaseURL:   "https://cdn.sanity.io",
		ProjectID: projectID,
		Dataset:   dataset,
	}
}

// ImageOptions are optional transformations appended as query parameters.
type ImageOptions struct {
	Width  int
	Height int
	Auto   bool // auto=format
}

// URL returns the CDN URL for ref, or "" when ref is not an image reference.
func (b *ImageURLBuilder) URL(ref string, opts ImageOptions) string {
	if b == nil || b.ProjectID == "" {
		return ""
	}
	m := assetRefRe.FindStringSubmatch(ref)
	if m == nil {
		return ""
	}
	u := fmt.Sprintf("%s/images/%s/%s/%s-%s.%s", b.BaseURL, b.ProjectID, b.Dataset, m[1], m[2], m[3])

	q := url.Values{}
	if opts.Width > 0 {
		q.Set("w", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("h", strconv.Itoa(opts.Height))
	}
	if opts.Auto {
		q.Set("auto", "format")
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// AssetURL resolves an image block's asset object: a direct url wins,
// otherwise the _ref is built into a CDN URL.
func (b *ImageURLBuilder) AssetURL(asset map[string]interface{}, opts ImageOptions) string {
	if asset == nil {
		return ""
	}
	if u := stringField(asset, "url"); u != "" {
		return u
	}
	return b.URL(stringField(asset, "_ref"), opts)
}
