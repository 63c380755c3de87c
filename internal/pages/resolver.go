// Package pages maps request paths onto HTML files under a root folder.
//
// The convention is fixed: "/" is served from index.html, any other path
// "/p" from p.html, falling back to p/index.html.
package pages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// NotFoundBody is the body sent when no candidate file could be read.
const NotFoundBody = "Not Found"

var errNotText = errors.New("file is not valid UTF-8 text")

// Page is the outcome of resolving one request path.
type Page struct {
	// Contents is the file text, or NotFoundBody when nothing was found.
	Contents string
	// Found reports whether a candidate file was read successfully.
	// It is set independently of Contents, so a file whose text happens to
	// equal NotFoundBody is still found.
	Found bool
	// File is the path of the file that was read. Empty when not found.
	File string
}

// Resolver resolves request paths against a root folder.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver for the given root folder.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Root returns the root folder.
func (r *Resolver) Root() string {
	return r.root
}

// Candidates returns the files tried for path, in order.
//
// The primary candidate is root/index.html for "/" and root/<p>.html for any
// other path, where <p> is the path with one leading slash removed. ".html"
// is appended even if the path already has an extension or ends in a slash.
// The fallback is root/<p>/index.html. Candidates that would leave the root
// folder are dropped, as are repeats of an earlier candidate.
func (r *Resolver) Candidates(path string) []string {
	stripped := strings.TrimPrefix(path, "/")

	var names []string
	if path == "/" {
		names = append(names, "index.html")
	} else {
		names = append(names, stripped+".html")
	}
	names = append(names, stripped+"/index.html")

	files := make([]string, 0, len(names))
	for _, name := range names {
		rel := filepath.Clean(filepath.FromSlash(name))
		// "/" and "//x" leave a leading separator; keep those under root
		rel = strings.TrimPrefix(rel, string(filepath.Separator))
		if !filepath.IsLocal(rel) {
			continue
		}
		file := filepath.Join(r.root, rel)
		if slices.Contains(files, file) {
			continue
		}
		files = append(files, file)
	}
	return files
}

// Load reads the first readable candidate for path. Read failures are not
// reported; they only move resolution on to the next candidate.
func (r *Resolver) Load(path string) Page {
	for _, file := range r.Candidates(path) {
		contents, err := readText(file)
		if err != nil {
			continue
		}
		return Page{Contents: contents, Found: true, File: file}
	}
	return Page{Contents: NotFoundBody}
}

func readText(file string) (string, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%s: %w", file, errNotText)
	}
	return string(b), nil
}

// URLPath returns the request path under which the server answers with the
// file at rel, a slash or OS separated path relative to the root folder.
// The second result is false for files the server never serves.
func URLPath(rel string) (string, bool) {
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, ".html") {
		return "", false
	}
	if rel == "index.html" {
		return "/", true
	}
	if dir, ok := strings.CutSuffix(rel, "/index.html"); ok {
		return "/" + dir + "/", true
	}
	return "/" + strings.TrimSuffix(rel, ".html"), true
}
