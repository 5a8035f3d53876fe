// Package session owns one extraction session: the parsed page, the current
// mode and the output built from them. A session is created on activation
// and closed when the user is done.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/grokcap/internal/assemble"
	"github.com/hyperifyio/grokcap/internal/clipboard"
	"github.com/hyperifyio/grokcap/internal/extract"
	"github.com/hyperifyio/grokcap/internal/prefs"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// CopiedLabel is the confirmation Copy reports, whether or not the
// clipboard accepted the text.
const CopiedLabel = "Copied!"

// Prompter asks the user for a filename. ok is false when the prompt was
// cancelled.
type Prompter interface {
	Prompt(message, defaultValue string) (answer string, ok bool, err error)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(message, defaultValue string) (string, bool, error)

func (f PromptFunc) Prompt(message, defaultValue string) (string, bool, error) {
	return f(message, defaultValue)
}

// Config wires a session to its collaborators.
type Config struct {
	Assembler assemble.Assembler
	// Prefs persists the toggles and the last filename. Nil uses an
	// in-memory store.
	Prefs     prefs.Store
	Clipboard clipboard.Writer
	// Dir is where relative save names are written. Empty means the
	// working directory.
	Dir string
}

// Session is not safe for concurrent use; it is driven by one loop.
type Session struct {
	cfg    Config
	doc    *extract.Document
	mode   assemble.Mode
	result assemble.Result
	closed bool
}

// New opens a session over doc, restores the stored mode and builds the
// initial output.
func New(doc *extract.Document, cfg Config) (*Session, error) {
	if doc == nil {
		return nil, errors.New("session: nil document")
	}
	if cfg.Prefs == nil {
		cfg.Prefs = prefs.NewMemoryStore(nil)
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.System{}
	}
	if cfg.Assembler.Extractor == nil && cfg.Assembler.Selector.ContainerClass == "" {
		cfg.Assembler = assemble.New()
	}
	s := &Session{cfg: cfg, doc: doc, mode: loadMode(cfg.Prefs)}
	s.Regenerate()
	return s, nil
}

func loadMode(store prefs.Store) assemble.Mode {
	def := assemble.DefaultMode()
	m := def
	var err error
	if m.IncludeBothRoles, err = prefs.Flag(store, prefs.KeyIncludeBothRoles, def.IncludeBothRoles); err != nil {
		log.Warn().Err(err).Str("key", prefs.KeyIncludeBothRoles).Msg("reading preference; using default")
	}
	if m.EmitMarkup, err = prefs.Flag(store, prefs.KeyEmitMarkup, def.EmitMarkup); err != nil {
		log.Warn().Err(err).Str("key", prefs.KeyEmitMarkup).Msg("reading preference; using default")
	}
	return m
}

// Mode returns the current toggles.
func (s *Session) Mode() assemble.Mode { return s.mode }

// Output returns the text of the last build.
func (s *Session) Output() string { return s.result.Text }

// Result returns the last build including its counts.
func (s *Session) Result() assemble.Result { return s.result }

// Title is the page title.
func (s *Session) Title() string { return s.doc.Title }

// Regenerate rebuilds the output from scratch for the current mode.
func (s *Session) Regenerate() {
	s.result = s.cfg.Assembler.Assemble(s.doc.Root, s.mode)
	log.Debug().
		Bool("both_roles", s.mode.IncludeBothRoles).
		Bool("markup", s.mode.EmitMarkup).
		Int("containers", s.result.Containers).
		Int("blocks", s.result.Blocks).
		Int("chars", len(s.result.Text)).
		Msg("output rebuilt")
}

// ToggleBothRoles flips role selection, persists it and rebuilds.
func (s *Session) ToggleBothRoles() error {
	m := s.mode
	m.IncludeBothRoles = !m.IncludeBothRoles
	return s.SetMode(m)
}

// ToggleMarkup flips markup output, persists it and rebuilds.
func (s *Session) ToggleMarkup() error {
	m := s.mode
	m.EmitMarkup = !m.EmitMarkup
	return s.SetMode(m)
}

// SetMode replaces both toggles. The output is rebuilt even when persisting
// fails; the persist error is returned.
func (s *Session) SetMode(m assemble.Mode) error {
	if s.closed {
		return ErrClosed
	}
	s.mode = m
	s.Regenerate()
	if err := prefs.SetFlag(s.cfg.Prefs, prefs.KeyIncludeBothRoles, m.IncludeBothRoles); err != nil {
		return fmt.Errorf("persist %s: %w", prefs.KeyIncludeBothRoles, err)
	}
	if err := prefs.SetFlag(s.cfg.Prefs, prefs.KeyEmitMarkup, m.EmitMarkup); err != nil {
		return fmt.Errorf("persist %s: %w", prefs.KeyEmitMarkup, err)
	}
	return nil
}

// Copy hands the output to the clipboard and returns the confirmation
// label. The label does not depend on whether the write succeeded.
func (s *Session) Copy(ctx context.Context) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	if err := s.cfg.Clipboard.WriteText(ctx, s.result.Text); err != nil {
		log.Debug().Err(err).Msg("clipboard write failed")
	}
	return CopiedLabel, nil
}

// SuggestedFilename is the remembered last filename, or one derived from
// the page title.
func (s *Session) SuggestedFilename() string {
	if v, ok, err := s.cfg.Prefs.Get(prefs.KeyLastFilename); err == nil && ok && v != "" {
		return v
	}
	return DefaultFilename(s.doc.Title)
}

// Save prompts for a filename and writes the output there. A cancelled or
// blank answer returns "" and no error.
func (s *Session) Save(p Prompter) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	answer, ok, err := p.Prompt("Save as (enter filename):", s.SuggestedFilename())
	if err != nil {
		return "", fmt.Errorf("prompt filename: %w", err)
	}
	if !ok {
		return "", nil
	}
	return s.SaveAs(answer)
}

// SaveAs writes the output under name after applying the filename rules.
// It returns the written path, or "" when name is blank.
func (s *Session) SaveAs(name string) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	name = NormalizeFilename(name)
	if name == "" {
		return "", nil
	}
	if err := s.cfg.Prefs.Set(prefs.KeyLastFilename, name); err != nil {
		log.Warn().Err(err).Msg("remembering filename")
	}
	path := name
	if !filepath.IsAbs(path) && s.cfg.Dir != "" {
		path = filepath.Join(s.cfg.Dir, path)
	}
	if err := os.WriteFile(path, []byte(s.result.Text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("bytes", len(s.result.Text)).Msg("saved output")
	return path, nil
}

// Close ends the session and drops its document and output.
func (s *Session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.result = assemble.Result{}
	s.doc = &extract.Document{}
	return nil
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool { return s.closed }
