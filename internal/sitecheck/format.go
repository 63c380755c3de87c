package sitecheck

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// Write renders report to w in the given format.
func Write(w io.Writer, report *Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, report)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeText(w io.Writer, report *Report) error {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	for _, p := range report.Pages {
		mark := ok("OK    ")
		if len(p.BrokenLinks) > 0 {
			mark = bad("BROKEN")
		}
		line := fmt.Sprintf("%s %s %s", mark, p.URL, dim(p.File))
		if p.Title != "" {
			line += fmt.Sprintf(" %q", p.Title)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for _, link := range p.BrokenLinks {
			if _, err := fmt.Fprintf(w, "       -> %s\n", link); err != nil {
				return err
			}
		}
	}

	summary := fmt.Sprintf("%d pages, %d broken links", len(report.Pages), report.Broken)
	if report.Broken > 0 {
		summary = bad(summary)
	} else {
		summary = ok(summary)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}
