// Package main provides static-server, a tiny HTTP server for folders of
// HTML pages, plus tools to check and preview those pages.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/f4ah6o/static-server-go/internal/config"
	"github.com/f4ah6o/static-server-go/internal/logging"
	"github.com/f4ah6o/static-server-go/internal/pages"
	"github.com/f4ah6o/static-server-go/internal/render"
	"github.com/f4ah6o/static-server-go/internal/server"
	"github.com/f4ah6o/static-server-go/internal/sitecheck"
)

const usage = `Usage:
  static-server [flags] [PORT] [FOLDER]   serve FOLDER on localhost:PORT
  static-server check [flags] [FOLDER]    report internal links that would 404
  static-server render [flags] PATH       print the page served at PATH as Markdown

Run a command with -h for its flags.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "check":
			return runCheck(args[1:], stdout, stderr)
		case "render":
			return runRender(args[1:], stdout, stderr)
		case "serve":
			args = args[1:]
		case "help", "-h", "-help", "--help":
			fmt.Fprint(stdout, usage)
			return 0
		}
	}
	return runServe(args, stdout, stderr)
}

func runServe(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("static-server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	port := fs.String("port", config.DefaultPort, "Port to serve on")
	folder := fs.String("folder", config.DefaultRootFolder, "Directory to serve")
	cfgPath := fs.String("config", "", "TOML or YAML config file")
	level := fs.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error (env "+config.LogLevelEnv+")")
	maxConns := fs.Int("max-conns", 0, "Maximum concurrent connections, 0 for no limit")
	readTimeout := fs.Duration("read-timeout", 0, "Request read timeout, 0 for none")
	writeTimeout := fs.Duration("write-timeout", 0, "Response write timeout, 0 for none")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 2 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n%s", fs.Args()[2:], usage)
		return 2
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.LoadFile(*cfgPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)

	// flags given explicitly win over the file and the environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "folder":
			cfg.RootFolder = *folder
		case "log-level":
			cfg.LogLevel = *level
		case "max-conns":
			cfg.MaxConnections = *maxConns
		case "read-timeout":
			cfg.ReadTimeout = *readTimeout
		case "write-timeout":
			cfg.WriteTimeout = *writeTimeout
		}
	})
	if fs.NArg() > 0 {
		cfg.Port = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		cfg.RootFolder = fs.Arg(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid config: %v\n", err)
		return 1
	}

	logger := newLogger(stderr, cfg.LogLevel)

	srv := server.New(cfg, logger)
	ln, err := srv.Listen()
	if err != nil {
		logger.Error("Server error", "err", err)
		return 1
	}

	logger.Info(fmt.Sprintf("Starting server at http://127.0.0.1:%s/", cfg.Port))
	color.New(color.FgCyan).Fprintf(stdout, "🌐 Serving %s at http://%s\n", absPath(cfg.RootFolder), ln.Addr())
	fmt.Fprintln(stdout, "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Serve(ctx, ln); err != nil {
		logger.Error("Server error", "err", err)
		return 1
	}
	logger.Info("Server stopped")
	return 0
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("static-server check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", string(sitecheck.FormatText), "Output format: text, json or yaml")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	f, err := sitecheck.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	root := config.DefaultRootFolder
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	start := time.Now()
	report, err := sitecheck.Run(root)
	if err != nil {
		fmt.Fprintf(stderr, "Check failed: %v\n", err)
		return 1
	}
	if err := sitecheck.Write(stdout, report, f); err != nil {
		fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
		return 1
	}
	if f == sitecheck.FormatText {
		fmt.Fprintf(stdout, "Checked in %s\n", time.Since(start).Round(time.Millisecond))
	}

	if report.Broken > 0 {
		return 1
	}
	return 0
}

func runRender(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("static-server render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	folder := fs.String("folder", config.DefaultRootFolder, "Directory pages are served from")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "render needs exactly one PATH\n%s", usage)
		return 2
	}

	markdown, found, err := render.Page(pages.NewResolver(*folder), fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Render failed: %v\n", err)
		return 1
	}
	if !found {
		color.New(color.FgRed).Fprintf(stderr, "%s: %s\n", fs.Arg(0), pages.NotFoundBody)
		return 1
	}
	fmt.Fprintln(stdout, markdown)
	return 0
}

func newLogger(w io.Writer, levelName string) *slog.Logger {
	level, err := logging.ParseLevel(levelName)
	logger := logging.New(w, level)
	if err != nil {
		logger.Warn("Falling back to default log level", "err", err, "level", level.String())
	}
	return logger
}

func absPath(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
