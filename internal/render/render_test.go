package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f4ah6o/static-server-go/internal/pages"
)

func TestPage(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"index.html": `<html><body><h1>Hi</h1><p>Read the <a href="/docs">docs</a>.</p><script>alert(1)</script></body></html>`,
		"guide.html": `<body><nav><a href="/">Home</a></nav><main><h2>Guide</h2><p><strong>Step</strong> one</p></main></body>`,
		"post.html":  clutteredPost,
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	r := pages.NewResolver(root)

	tests := []struct {
		name    string
		path    string
		want    []string
		notWant []string
	}{
		{
			name:    "Whole body",
			path:    "/",
			want:    []string{"# Hi", "[docs](/docs)"},
			notWant: []string{"alert"},
		},
		{
			name:    "Main only",
			path:    "/guide",
			want:    []string{"## Guide", "**Step** one"},
			notWant: []string{"Home"},
		},
		{
			name:    "Article without main",
			path:    "/post",
			want:    []string{"Static sites are served", "keeps the deploy simple"},
			notWant: []string{"Pricing", "Related posts", "Newsletter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := Page(r, tt.path)
			if err != nil {
				t.Fatalf("Page() error = %v", err)
			}
			if !found {
				t.Fatalf("Page(%q) not found", tt.path)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Page(%q) = %q, want it to contain %q", tt.path, got, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("Page(%q) = %q, should not contain %q", tt.path, got, w)
				}
			}
		})
	}
}

const clutteredPost = `<html><head><title>Serving static sites</title></head><body>
<nav class="menu"><ul><li><a href="/">Home</a></li><li><a href="/pricing">Pricing</a></li></ul></nav>
<aside class="sidebar"><h3>Related posts</h3><ul><li><a href="/a">Newsletter</a></li></ul></aside>
<div class="post">
<p>Static sites are served straight from a directory of HTML files, so there is no database to run, no template engine to configure, and nothing to warm up before the first request arrives.</p>
<p>Every request path maps to a file on disk, either the page itself with an html extension or an index file inside a directory of the same name, which keeps the deploy simple and predictable.</p>
<p>When no file matches, the server answers with a short not found page, and when the method is anything other than GET, it refuses the request without reading any file at all.</p>
<p>Because each connection is handled on its own, a slow client never holds up the others, and the whole server fits in a handful of small packages that are easy to read, test, and change.</p>
</div>
</body></html>`

func TestPageNotFound(t *testing.T) {
	got, found, err := Page(pages.NewResolver(t.TempDir()), "/missing")
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if found || got != "" {
		t.Errorf("Page() = %q, %v, want empty and not found", got, found)
	}
}
