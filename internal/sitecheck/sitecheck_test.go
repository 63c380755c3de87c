package sitecheck

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fatih/color"
	"golang.org/x/net/html"
)

func buildSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html": `<html><head><title> Home </title></head><body>
<a href="/about">About</a>
<a href="docs/">Docs</a>
<a href="/missing">Gone</a>
<a href="https://example.com/">External</a>
<a href="#top">Top</a>
<a href="mailto:someone@example.com">Mail</a>
<a href="/about">About again</a>
</body></html>`,
		"about.html":      `<title>About</title><a href="../">Home</a><a href="contact">Contact</a>`,
		"docs/index.html": `<p><a href="intro">Intro</a> <a href="/about.html">About</a></p>`,
		"docs/intro.html": `<h1>Intro</h1>`,
		"style.css":       `body {}`,
	}
	for rel, contents := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRun(t *testing.T) {
	report, err := Run(buildSite(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []PageResult{
		{File: "about.html", URL: "/about", Title: "About", Links: 2, BrokenLinks: []string{"/contact"}},
		{File: "docs/index.html", URL: "/docs/", Links: 2, BrokenLinks: []string{"/about.html"}},
		{File: "docs/intro.html", URL: "/docs/intro"},
		{File: "index.html", URL: "/", Title: "Home", Links: 4, BrokenLinks: []string{"/missing"}},
	}
	if !reflect.DeepEqual(report.Pages, want) {
		t.Errorf("Run() pages = %+v, want %+v", report.Pages, want)
	}
	if report.Broken != 3 {
		t.Errorf("Run() broken = %d, want 3", report.Broken)
	}
}

func TestRunMissingRoot(t *testing.T) {
	if _, err := Run(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Run() on a missing root should fail")
	}
}

func TestExtractLinks(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div><a href="/a">a</a><a>no href</a><a href="  ">blank</a><p><a href=" b ">b</a></p></div>`))
	if err != nil {
		t.Fatal(err)
	}
	got := ExtractLinks(doc)
	want := []string{"/a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLinks() = %q, want %q", got, want)
	}
	if got := ExtractLinks(nil); len(got) != 0 {
		t.Errorf("ExtractLinks(nil) = %q, want empty", got)
	}
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		href   string
		want   string
		wantOK bool
	}{
		{name: "Absolute path", page: "/docs/", href: "/about", want: "/about", wantOK: true},
		{name: "Relative in directory", page: "/docs/", href: "intro", want: "/docs/intro", wantOK: true},
		{name: "Relative from page", page: "/docs/intro", href: "setup", want: "/docs/setup", wantOK: true},
		{name: "Parent", page: "/docs/intro", href: "../about", want: "/about", wantOK: true},
		{name: "Query and fragment dropped", page: "/", href: "/about?x=1#top", want: "/about", wantOK: true},
		{name: "Space is escaped", page: "/", href: "/my page", want: "/my%20page", wantOK: true},
		{name: "External", page: "/", href: "https://example.com/about", wantOK: false},
		{name: "Protocol relative", page: "/", href: "//cdn.example.com/x", wantOK: false},
		{name: "Mailto", page: "/", href: "mailto:a@b.c", wantOK: false},
		{name: "Fragment only", page: "/", href: "#top", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveLink(tt.page, tt.href)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ResolveLink(%q, %q) = %q, %v, want %q, %v", tt.page, tt.href, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "json", "yaml"} {
		if f, err := ParseFormat(s); err != nil || string(f) != s {
			t.Errorf("ParseFormat(%q) = %q, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(\"xml\") should fail")
	}
}

func TestWrite(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	report, err := Run(buildSite(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, report, FormatText); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{
			"BROKEN / index.html \"Home\"\n",
			"       -> /missing\n",
			"OK     /docs/intro docs/intro.html\n",
			"4 pages, 3 broken links\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, report, FormatJSON); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		var got Report
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if got.Broken != 3 || len(got.Pages) != 4 {
			t.Errorf("decoded report = %+v", got)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, report, FormatYAML); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "broken: 3") || !strings.Contains(out, "- /missing") {
			t.Errorf("yaml output = %s", out)
		}
	})

	if err := Write(&bytes.Buffer{}, report, Format("xml")); err == nil {
		t.Error("Write() with an unknown format should fail")
	}
}
