package app

import (
	"time"

	"github.com/hyperifyio/grokcap/internal/extract"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Input is a file path, "-" for stdin, or an http(s) URL.
	Input         string
	OutputPath    string
	OutputPDFPath string

	// Mode overrides. Nil keeps the stored preference; a value is applied
	// and persisted.
	IncludeBothRoles *bool
	EmitMarkup       *bool

	Interactive bool
	PrefsPath   string
	// SaveDir is where relative save names land. Empty means the working
	// directory.
	SaveDir string

	// Page structure
	ContainerClass string
	OwnMarkerClass string
	BlockTags      []string
	EmphasisTag    string
	ProsodyVolume  string
	ProsodyRate    string

	// Fetching
	UserAgent   string
	CacheDir    string
	CacheMaxAge time.Duration
	CacheClear  bool

	// Rendering
	Render        bool
	RenderShow    bool
	BrowserURL    string
	BrowserBin    string
	RenderTimeout time.Duration

	// ClipboardCommand, when set, replaces the platform clipboard with a
	// helper that reads the text on stdin, e.g. "tmux load-buffer -".
	ClipboardCommand string

	Verbose bool
}

// ApplyDefaults fills fields that are still zero after flags, env and the
// config file have been applied.
func (c *Config) ApplyDefaults() {
	if c.Input == "" {
		c.Input = "-"
	}
	if c.ContainerClass == "" {
		c.ContainerClass = extract.DefaultContainerClass
	}
	if c.OwnMarkerClass == "" {
		c.OwnMarkerClass = extract.DefaultOwnMarkerClass
	}
	if len(c.BlockTags) == 0 {
		c.BlockTags = append([]string(nil), extract.DefaultBlockTags...)
	}
	if c.EmphasisTag == "" {
		c.EmphasisTag = extract.DefaultEmphasisTag
	}
	if c.CacheDir == "" {
		c.CacheDir = ".grokcap-cache"
	}
}
