package models

// SiteConfig holds the publication chrome loaded from site.yml or site.toml.
type SiteConfig struct {
	Name       string    `yaml:"name" toml:"name" json:"name"`
	Tagline    string    `yaml:"tagline" toml:"tagline" json:"tagline"`
	URL        string    `yaml:"url" toml:"url" json:"url"`
	Navigation []NavLink `yaml:"navigation" toml:"navigation" json:"navigation"`
	Ads        AdConfig  `yaml:"ads" toml:"ads" json:"ads"`
}

type NavLink struct {
	Label string `yaml:"label" toml:"label" json:"label"`
	Href  string `yaml:"href" toml:"href" json:"href"`
}

// AdConfig names the ad-network slot ids per placement.
type AdConfig struct {
	Client       string `yaml:"client" toml:"client" json:"client"`
	HeaderSlot   string `yaml:"header_slot" toml:"header_slot" json:"headerSlot"`
	SidebarSlot  string `yaml:"sidebar_slot" toml:"sidebar_slot" json:"sidebarSlot"`
	InArticle    string `yaml:"in_article_slot" toml:"in_article_slot" json:"inArticleSlot"`
	AfterArticle string `yaml:"after_article_slot" toml:"after_article_slot" json:"afterArticleSlot"`
}

// Enabled reports whether an ad-network client id is configured. Slot
// markers are emitted regardless; only the client attribute depends on it.
func (a AdConfig) Enabled() bool { return a.Client != "" }

// DefaultSiteConfig is used when no site file exists.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Name:    "Pulse LS",
		Tagline: "News that matters",
		URL:     "http://localhost:8080",
		Navigation: []NavLink{
			{Label: "Home", Href: "/"},
			{Label: "About", Href: "/about"},
			{Label: "Contact", Href: "/contact"},
		},
		Ads: AdConfig{
			HeaderSlot:   "1234567890",
			SidebarSlot:  "2345678901",
			InArticle:    "3456789012",
			AfterArticle: "4567890123",
		},
	}
}

// Page is a static page (about, contact) rendered from a markdown file.
type Page struct {
	Slug        string                 `json:"slug"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	FrontMatter map[string]interface{} `json:"frontmatter,omitempty"`
	HTML        string                 `json:"html"`
	Format      string                 `json:"format"` // yaml, toml, json
}
