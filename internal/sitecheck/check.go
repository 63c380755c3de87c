package sitecheck

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/f4ah6o/static-server-go/internal/pages"
)

// Run checks every page under root. Each internal link is resolved against
// the URL of the page it appears on and looked up with the same rules the
// server uses.
func Run(root string) (*Report, error) {
	resolver := pages.NewResolver(root)
	report := &Report{Root: root}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		urlPath, ok := pages.URLPath(rel)
		if !ok {
			return nil
		}

		result, err := checkPage(resolver, path, urlPath)
		if err != nil {
			return err
		}
		result.File = filepath.ToSlash(rel)
		report.Pages = append(report.Pages, result)
		report.Broken += len(result.BrokenLinks)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", root, err)
	}
	return report, nil
}

func checkPage(resolver *pages.Resolver, path, urlPath string) (PageResult, error) {
	result := PageResult{URL: urlPath}

	f, err := os.Open(path)
	if err != nil {
		return result, err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return result, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	result.Title = strings.TrimSpace(goquery.NewDocumentFromNode(doc).Find("title").First().Text())

	seen := make(map[string]bool)
	for _, href := range ExtractLinks(doc) {
		target, ok := ResolveLink(urlPath, href)
		if !ok {
			continue
		}
		result.Links++
		if seen[target] {
			continue
		}
		seen[target] = true
		if !resolver.Load(target).Found {
			result.BrokenLinks = append(result.BrokenLinks, target)
		}
	}
	return result, nil
}
