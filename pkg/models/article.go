package models

// Article is the canonical, shape-guaranteed article record consumed by the
// page templates and the JSON API.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          Slug      `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	CoverImage    string    `json:"coverImage,omitempty"` // Always a URL, never the nested asset shape
	CoverImageAlt string    `json:"coverImageAlt,omitempty"`
	Author        Author    `json:"author"`
	Category      *Category `json:"category"`
	Tags          []string  `json:"tags"`
	Body          []Block   `json:"body"`
	PublishedAt   string    `json:"publishedAt,omitempty"`
	Featured      bool      `json:"featured"`
	FeaturedVideo string    `json:"featuredVideo,omitempty"`
	SEO           *SEO      `json:"seo,omitempty"`
}

// Slug mirrors the content store's {current: "..."} slug object.
type Slug struct {
	Current string `json:"current"`
}

// Author keeps every key present; missing values serialize as null.
type Author struct {
	ID    *string `json:"id"`
	Name  *string `json:"name"`
	Image *string `json:"image"`
	Bio   *string `json:"bio"`
}

// DisplayName returns the author name or a generic byline.
func (a Author) DisplayName() string {
	if a.Name == nil || *a.Name == "" {
		return "Author"
	}
	return *a.Name
}

// ImageURL returns the avatar URL or "".
func (a Author) ImageURL() string {
	if a.Image == nil {
		return ""
	}
	return *a.Image
}

type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        Slug   `json:"slug"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

type SEO struct {
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
}

// MetaTitle prefers the SEO override over the headline.
func (a *Article) MetaTitle() string {
	if a.SEO != nil && a.SEO.MetaTitle != "" {
		return a.SEO.MetaTitle
	}
	return a.Title
}

// MetaDescription falls back from the SEO override to the excerpt, then the title.
func (a *Article) MetaDescription() string {
	if a.SEO != nil && a.SEO.MetaDescription != "" {
		return a.SEO.MetaDescription
	}
	if a.Excerpt != "" {
		return a.Excerpt
	}
	return a.Title
}
