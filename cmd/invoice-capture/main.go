package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/invoice-capture/internal/extraction"
	"github.com/zombor/invoice-capture/internal/onec"
	"github.com/zombor/invoice-capture/internal/terminal"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	_ = godotenv.Load()

	fs := ff.NewFlagSet("invoice-capture")
	var (
		serverURL   = fs.StringLong("server", "http://localhost:8080", "Scan server base URL")
		timeout     = fs.DurationLong("timeout", 0, "Per-file extraction timeout (0 uses the client default)")
		logLevel    = fs.StringLong("log-level", "warn", "Log level: debug, info, warn or error")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_CAPTURE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs, "invoice-capture [flags] [file...]"))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []extraction.Option
	if *timeout > 0 {
		opts = append(opts, extraction.WithTimeout(*timeout))
	}
	extractor, err := extraction.New(*serverURL, opts...)
	if err != nil {
		slog.Error("Invalid scan server URL", "url", *serverURL, "error", err)
		os.Exit(1)
	}

	submitURL, err := url.JoinPath(*serverURL, "/api/submit")
	if err != nil {
		slog.Error("Invalid scan server URL", "url", *serverURL, "error", err)
		os.Exit(1)
	}
	sender := onec.New(submitURL, "", "")

	session := terminal.NewSession(ctx, os.Stdin, os.Stdout, extractor, sender)
	if paths := fs.GetArgs(); len(paths) > 0 {
		session.Scan(ctx, paths)
	}

	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Session failed", "error", err)
		os.Exit(1)
	}
}
