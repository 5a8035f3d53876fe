package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/grokcap/internal/assemble"
	"github.com/hyperifyio/grokcap/internal/cache"
	"github.com/hyperifyio/grokcap/internal/clipboard"
	"github.com/hyperifyio/grokcap/internal/extract"
	"github.com/hyperifyio/grokcap/internal/fetch"
	"github.com/hyperifyio/grokcap/internal/prefs"
	"github.com/hyperifyio/grokcap/internal/render"
	"github.com/hyperifyio/grokcap/internal/session"
	"github.com/hyperifyio/grokcap/internal/source"
	"github.com/hyperifyio/grokcap/internal/ssml"
)

type App struct {
	cfg       Config
	in        io.Reader
	out       io.Writer
	loader    source.Loader
	store     prefs.Store
	assembler assemble.Assembler
	clip      clipboard.Writer
}

// Option overrides a collaborator, mainly for tests.
type Option func(*App)

// WithIO sets where commands are read from and output is written to.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) { a.in, a.out = in, out }
}

// WithPrefs replaces the on-disk preference store.
func WithPrefs(s prefs.Store) Option {
	return func(a *App) { a.store = s }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(w clipboard.Writer) Option {
	return func(a *App) { a.clip = w }
}

// WithFetcher replaces the HTTP page fetcher.
func WithFetcher(f source.Fetcher) Option {
	return func(a *App) { a.loader.Fetcher = f }
}

func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	var clip clipboard.Writer = clipboard.System{}
	if cfg.ClipboardCommand != "" {
		clip = clipboard.ParseCommand(cfg.ClipboardCommand)
	}
	a := &App{
		cfg:  cfg,
		clip: clip,
		in:   os.Stdin,
		out:  os.Stdout,
		assembler: assemble.Assembler{
			Selector: extract.Selector{
				ContainerClass: cfg.ContainerClass,
				OwnMarkerClass: cfg.OwnMarkerClass,
				BlockTags:      cfg.BlockTags,
			},
			Extractor: extract.Extractor{
				EmphasisTag: cfg.EmphasisTag,
				Prosody:     ssml.Prosody{Volume: cfg.ProsodyVolume, Rate: cfg.ProsodyRate},
			},
		},
	}

	pages := &cache.PageCache{Dir: cfg.CacheDir}
	if source.IsURL(cfg.Input) && !cfg.Render {
		if cfg.CacheClear {
			if err := pages.Clear(); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("clearing page cache")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := pages.Purge(cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("purging page cache")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged stale pages")
			}
		}
	}
	a.loader = source.Loader{
		Fetcher: &fetch.Client{
			UserAgent:         cfg.UserAgent,
			MaxAttempts:       3,
			PerRequestTimeout: 30 * time.Second,
			Cache:             pages,
		},
		Renderer: render.New(render.Options{
			ControlURL:   cfg.BrowserURL,
			Show:         cfg.RenderShow,
			BrowserBin:   cfg.BrowserBin,
			WaitSelector: render.ClassSelector(cfg.ContainerClass),
			Timeout:      cfg.RenderTimeout,
		}),
		Render: cfg.Render,
	}

	for _, o := range opts {
		o(a)
	}
	a.loader.Stdin = a.in

	if a.store == nil {
		path := cfg.PrefsPath
		if path == "" {
			p, err := prefs.DefaultPath()
			if err != nil {
				log.Warn().Err(err).Msg("no config dir; preferences will not persist")
				a.store = prefs.NewMemoryStore(nil)
			}
			path = p
		}
		if a.store == nil {
			a.store = &prefs.FileStore{Path: path}
		}
	}
	return a, nil
}

func (a *App) Close() {
	// nothing held between runs
}

// Run loads the page, builds the output and either emits it once or hands
// control to the interactive session.
func (a *App) Run(ctx context.Context) error {
	doc, err := a.loader.Load(ctx, a.cfg.Input)
	if err != nil {
		return fmt.Errorf("load %s: %w", a.cfg.Input, err)
	}
	s, err := session.New(doc, session.Config{
		Assembler: a.assembler,
		Prefs:     a.store,
		Clipboard: a.clip,
		Dir:       a.cfg.SaveDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		if !s.Closed() {
			_ = s.Close()
		}
	}()

	if m, changed := a.overrideMode(s.Mode()); changed {
		if err := s.SetMode(m); err != nil {
			log.Warn().Err(err).Msg("saving preferences")
		}
	}
	res := s.Result()
	log.Info().
		Str("title", s.Title()).
		Int("containers", res.Containers).
		Int("blocks", res.Blocks).
		Bool("both_roles", res.Mode.IncludeBothRoles).
		Bool("ssml", res.Mode.EmitMarkup).
		Msg("extracted conversation")

	if a.cfg.Interactive {
		return a.interactive(ctx, s)
	}
	return a.emit(s)
}

func (a *App) overrideMode(m assemble.Mode) (assemble.Mode, bool) {
	next := m
	if a.cfg.IncludeBothRoles != nil {
		next.IncludeBothRoles = *a.cfg.IncludeBothRoles
	}
	if a.cfg.EmitMarkup != nil {
		next.EmitMarkup = *a.cfg.EmitMarkup
	}
	return next, next != m
}

func (a *App) emit(s *session.Session) error {
	if a.cfg.OutputPDFPath != "" {
		if err := writeTranscriptPDF(s.Title(), s.Output(), a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPDFPath).Msg("wrote pdf")
	}
	if a.cfg.OutputPath != "" {
		_, err := s.SaveAs(a.cfg.OutputPath)
		return err
	}
	_, err := io.WriteString(a.out, s.Output())
	return err
}

func (a *App) interactive(ctx context.Context, s *session.Session) error {
	sc := bufio.NewScanner(a.in)
	ask := session.PromptFunc(func(message, def string) (string, bool, error) {
		fmt.Fprintf(a.out, "%s [%s] ", message, def)
		if !sc.Scan() {
			return "", false, sc.Err()
		}
		// an empty line keeps the suggested name, like confirming a
		// pre-filled prompt
		if line := sc.Text(); line != "" {
			return line, true, nil
		}
		return def, true, nil
	})

	a.show(s)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(a.out, menu(s.Mode()))
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return s.Close()
		}
		switch cmd := strings.ToLower(strings.TrimSpace(sc.Text())); cmd {
		case "":
		case "b":
			if err := s.ToggleBothRoles(); err != nil {
				log.Warn().Err(err).Msg("saving preferences")
			}
			a.show(s)
		case "m":
			if err := s.ToggleMarkup(); err != nil {
				log.Warn().Err(err).Msg("saving preferences")
			}
			a.show(s)
		case "p":
			a.show(s)
		case "c":
			label, err := s.Copy(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, label)
		case "s":
			path, err := s.Save(ask)
			if err != nil {
				log.Error().Err(err).Msg("save failed")
				continue
			}
			if path != "" {
				fmt.Fprintf(a.out, "saved %s\n", path)
			}
		case "q":
			return s.Close()
		default:
			fmt.Fprintf(a.out, "unknown command %q\n", cmd)
		}
	}
}

func (a *App) show(s *session.Session) {
	fmt.Fprintln(a.out, strings.Repeat("-", 60))
	fmt.Fprintln(a.out, s.Output())
	fmt.Fprintln(a.out, strings.Repeat("-", 60))
}

func menu(m assemble.Mode) string {
	return fmt.Sprintf("%s Requests (b)  %s SSML (m)  | p print  c copy  s save  q close > ",
		checkbox(m.IncludeBothRoles), checkbox(m.EmitMarkup))
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
