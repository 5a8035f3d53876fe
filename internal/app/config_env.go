package app

import (
	"os"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from GROKCAP_* environment
// variables. Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, key string) {
		if *dst == "" {
			*dst = strings.TrimSpace(os.Getenv(key))
		}
	}
	setString(&cfg.PrefsPath, "GROKCAP_PREFS")
	setString(&cfg.CacheDir, "GROKCAP_CACHE_DIR")
	setString(&cfg.UserAgent, "GROKCAP_USER_AGENT")
	setString(&cfg.BrowserURL, "GROKCAP_BROWSER_URL")
	setString(&cfg.BrowserBin, "GROKCAP_BROWSER_BIN")
	setString(&cfg.ContainerClass, "GROKCAP_CONTAINER_CLASS")
	setString(&cfg.OwnMarkerClass, "GROKCAP_OWN_CLASS")
	setString(&cfg.EmphasisTag, "GROKCAP_EMPHASIS_TAG")
	setString(&cfg.ClipboardCommand, "GROKCAP_CLIPBOARD_CMD")

	if len(cfg.BlockTags) == 0 {
		cfg.BlockTags = splitList(os.Getenv("GROKCAP_BLOCK_TAGS"))
	}

	setDuration := func(dst *time.Duration, key string) {
		if *dst != 0 {
			return
		}
		if s := strings.TrimSpace(os.Getenv(key)); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.CacheMaxAge, "GROKCAP_CACHE_MAX_AGE")
	setDuration(&cfg.RenderTimeout, "GROKCAP_RENDER_TIMEOUT")

	setBool := func(dst *bool, key string) {
		if *dst {
			return
		}
		*dst = truthy(os.Getenv(key))
	}
	setBool(&cfg.Render, "GROKCAP_RENDER")
	setBool(&cfg.RenderShow, "GROKCAP_RENDER_SHOW")
	setBool(&cfg.CacheClear, "GROKCAP_CACHE_CLEAR")
	setBool(&cfg.Verbose, "GROKCAP_VERBOSE")
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// splitList parses a comma or whitespace separated list.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) == 0 {
		return nil
	}
	return fields
}
