// Package sitecheck reports internal links in a root folder that the static
// server would answer with 404.
package sitecheck

// Report is the result of checking every page under a root folder.
type Report struct {
	// Root is the folder that was checked.
	Root string `json:"root" yaml:"root"`
	// Pages holds one entry per served HTML file, ordered by file path.
	Pages []PageResult `json:"pages" yaml:"pages"`
	// Broken is the total number of broken links over all pages.
	Broken int `json:"broken" yaml:"broken"`
}

// PageResult describes the links found on one page.
type PageResult struct {
	// File is the page path relative to the root folder, slash separated.
	File string `json:"file" yaml:"file"`
	// URL is the request path the server serves the page under.
	URL string `json:"url" yaml:"url"`
	// Title is the text of the page's <title>, if any.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	// Links is the number of internal links checked on the page.
	Links int `json:"links" yaml:"links"`
	// BrokenLinks lists the resolved request paths that have no page.
	BrokenLinks []string `json:"broken_links,omitempty" yaml:"broken_links,omitempty"`
}

// Format selects how a Report is written.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)
