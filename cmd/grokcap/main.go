package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/grokcap/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := app.LoadEnvFiles(".env"); err != nil {
		log.Warn().Err(err).Msg("loading .env")
	}

	var (
		configPath     string
		outputPath     string
		outputPDF      string
		prefsPath      string
		both           bool
		ssml           bool
		interactive    bool
		batch          bool
		renderPage     bool
		renderShow     bool
		clipboardCmd   string
		browserURL     string
		containerClass string
		ownClass       string
		blockTags      string
		emphasisTag    string
		cacheDir       string
		cacheMaxAge    time.Duration
		cacheClear     bool
		verbose        bool
		showVersion    bool
	)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: grokcap [flags] <page.html | url | ->\n\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&configPath, "config", os.Getenv("GROKCAP_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&outputPath, "o", "", "Write output to this file instead of stdout (.txt added when the name has no dot)")
	flag.StringVar(&outputPDF, "output.pdf", "", "Also write the output as a PDF")
	flag.StringVar(&prefsPath, "prefs", "", "Preference store path (default: user config dir)")
	flag.BoolVar(&both, "both", true, "Include both conversational roles (persisted)")
	flag.BoolVar(&ssml, "ssml", false, "Emit SSML instead of plain text (persisted)")
	flag.BoolVar(&interactive, "interactive", false, "Open an interactive session even when not on a terminal")
	flag.BoolVar(&batch, "batch", false, "Never open an interactive session")
	flag.BoolVar(&renderPage, "render", false, "Render URL inputs in headless Chromium before extracting")
	flag.BoolVar(&renderShow, "render.show", false, "Show the browser window while rendering")
	flag.StringVar(&clipboardCmd, "clipboard.cmd", "", "Command that receives copied text on stdin (default: platform clipboard)")
	flag.StringVar(&browserURL, "browser.url", "", "DevTools WebSocket URL of a running browser for -render")
	flag.StringVar(&containerClass, "page.container", "", "Class marking a message container")
	flag.StringVar(&ownClass, "page.own", "", "Class marking the user's own messages")
	flag.StringVar(&blockTags, "page.blocks", "", "Comma-separated block tags read inside a container")
	flag.StringVar(&emphasisTag, "page.emphasis", "", "Inline tag voiced with prosody in SSML mode")
	flag.StringVar(&cacheDir, "cache.dir", "", "Page cache directory for URL inputs")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Purge cached pages older than this (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear the page cache before fetching")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(app.VersionString())
		return
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := app.Config{
		Input:            flag.Arg(0),
		OutputPath:       outputPath,
		OutputPDFPath:    outputPDF,
		PrefsPath:        prefsPath,
		Render:           renderPage,
		RenderShow:       renderShow,
		ClipboardCommand: clipboardCmd,
		BrowserURL:       browserURL,
		ContainerClass:   containerClass,
		OwnMarkerClass:   ownClass,
		EmphasisTag:      emphasisTag,
		CacheDir:         cacheDir,
		CacheMaxAge:      cacheMaxAge,
		CacheClear:       cacheClear,
		Verbose:          verbose,
	}
	if blockTags != "" {
		cfg.BlockTags = splitTags(blockTags)
	}
	// Only explicit toggles override the stored preferences.
	if set["both"] {
		cfg.IncludeBothRoles = &both
	}
	if set["ssml"] {
		cfg.EmitMarkup = &ssml
	}

	app.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg.Interactive = interactive || (!batch && cfg.OutputPath == "" && isTerminal(os.Stdin) && isTerminal(os.Stdout) && cfg.Input != "" && cfg.Input != "-")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func splitTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}
