package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema.
type FileConfig struct {
	Input     string `yaml:"input" json:"input"`
	Output    string `yaml:"output" json:"output"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`
	Prefs     string `yaml:"prefs" json:"prefs"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`

	Page struct {
		ContainerClass string   `yaml:"containerClass" json:"containerClass"`
		OwnClass       string   `yaml:"ownClass" json:"ownClass"`
		BlockTags      []string `yaml:"blockTags" json:"blockTags"`
		EmphasisTag    string   `yaml:"emphasisTag" json:"emphasisTag"`
	} `yaml:"page" json:"page"`

	Prosody struct {
		Volume string `yaml:"volume" json:"volume"`
		Rate   string `yaml:"rate" json:"rate"`
	} `yaml:"prosody" json:"prosody"`

	Fetch struct {
		UserAgent string `yaml:"userAgent" json:"userAgent"`
	} `yaml:"fetch" json:"fetch"`

	Cache struct {
		Dir    string        `yaml:"dir" json:"dir"`
		MaxAge time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear  bool          `yaml:"clear" json:"clear"`
	} `yaml:"cache" json:"cache"`

	Render struct {
		Enable     bool          `yaml:"enable" json:"enable"`
		Show       bool          `yaml:"show" json:"show"`
		BrowserURL string        `yaml:"browserURL" json:"browserURL"`
		BrowserBin string        `yaml:"browserBin" json:"browserBin"`
		Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"render" json:"render"`

	Clipboard struct {
		Command string `yaml:"command" json:"command"`
	} `yaml:"clipboard" json:"clipboard"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for fields that are still
// unset, so flags and env keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	fill := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	fill(&cfg.Input, fc.Input)
	fill(&cfg.OutputPath, fc.Output)
	fill(&cfg.OutputPDFPath, fc.OutputPDF)
	fill(&cfg.PrefsPath, fc.Prefs)
	fill(&cfg.ContainerClass, fc.Page.ContainerClass)
	fill(&cfg.OwnMarkerClass, fc.Page.OwnClass)
	fill(&cfg.EmphasisTag, fc.Page.EmphasisTag)
	fill(&cfg.ProsodyVolume, fc.Prosody.Volume)
	fill(&cfg.ProsodyRate, fc.Prosody.Rate)
	fill(&cfg.UserAgent, fc.Fetch.UserAgent)
	fill(&cfg.CacheDir, fc.Cache.Dir)
	fill(&cfg.BrowserURL, fc.Render.BrowserURL)
	fill(&cfg.BrowserBin, fc.Render.BrowserBin)
	fill(&cfg.ClipboardCommand, fc.Clipboard.Command)

	if len(cfg.BlockTags) == 0 && len(fc.Page.BlockTags) > 0 {
		cfg.BlockTags = append([]string{}, fc.Page.BlockTags...)
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if cfg.RenderTimeout == 0 && fc.Render.Timeout > 0 {
		cfg.RenderTimeout = fc.Render.Timeout
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.Render && fc.Render.Enable {
		cfg.Render = true
	}
	if !cfg.RenderShow && fc.Render.Show {
		cfg.RenderShow = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal validation after defaults are applied.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Input) == "" {
		return errors.New("config: input is required")
	}
	if strings.TrimSpace(cfg.ContainerClass) == "" {
		return errors.New("config: page.containerClass is required")
	}
	if strings.ContainsAny(cfg.ContainerClass, " \t") || strings.ContainsAny(cfg.OwnMarkerClass, " \t") {
		return errors.New("config: class names must be single tokens")
	}
	if cfg.CacheMaxAge < 0 || cfg.RenderTimeout < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.Render && !strings.HasPrefix(strings.ToLower(cfg.Input), "http") {
		return errors.New("config: render needs an http(s) input")
	}
	if cfg.Interactive && cfg.Input == "-" {
		return errors.New("config: interactive mode reads commands from stdin; pass the page as a file or URL")
	}
	return nil
}
