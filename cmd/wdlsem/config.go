package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	pkgerrors "github.com/pkg/errors"

	"github.com/gowdl/wdlsem"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/types"
)

const configFileName = "wdlsem.toml"

// projectConfig is wdlsem.toml's shape: an [analysis] table for the
// development-version fallback and per-rule severity overrides, grounded
// on vovakirdan-surge's cmd/surge/project_manifest.go's own
// [package]/[run] TOML tables for surge.toml.
type projectConfig struct {
	Analysis analysisConfig `toml:"analysis"`
}

type analysisConfig struct {
	DevelopmentFallback string            `toml:"development_fallback"`
	Rules               map[string]string `toml:"rules"`
}

// findConfig walks upward from startDir looking for wdlsem.toml, the same
// nearest-ancestor search findSurgeToml performs for surge.toml. It
// reports ok=false, not an error, when no config file exists anywhere
// above startDir: an unconfigured project is the common case, not a
// failure.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, pkgerrors.Wrap(err, "resolving start directory")
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, pkgerrors.Wrapf(err, "stat %q", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// loadConfig reads and decodes wdlsem.toml at path.
func loadConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return projectConfig{}, pkgerrors.Wrapf(err, "parsing %q", path)
	}
	return cfg, nil
}

// resolveOptions loads the nearest wdlsem.toml above startDir, if any,
// and turns it into the analyzer.Option list New expects. A missing
// config file is not an error: the analyzer's own defaults apply.
func resolveOptions(startDir string) ([]analyzer.Option, error) {
	path, ok, err := findConfig(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	var opts []analyzer.Option
	if raw := strings.TrimSpace(cfg.Analysis.DevelopmentFallback); raw != "" {
		v, err := parseConfigVersion(raw)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "%s: [analysis].development_fallback", path)
		}
		opts = append(opts, analyzer.WithDevelopmentFallback(v))
	}
	if len(cfg.Analysis.Rules) > 0 {
		sevs := make(map[string]diag.Severity, len(cfg.Analysis.Rules))
		for rule, raw := range cfg.Analysis.Rules {
			sev, err := parseSeverity(raw)
			if err != nil {
				return nil, pkgerrors.Wrapf(err, "%s: [analysis.rules].%s", path, rule)
			}
			sevs[rule] = sev
		}
		opts = append(opts, analyzer.WithDiagnosticConfig(sevs))
	}
	return opts, nil
}

func parseConfigVersion(s string) (types.Version, error) {
	switch s {
	case "1.0":
		return types.V1_0, nil
	case "1.1":
		return types.V1_1, nil
	case "1.2":
		return types.V1_2, nil
	default:
		return types.Version{}, pkgerrors.Errorf("unrecognized WDL version %q, want one of 1.0, 1.1, 1.2", s)
	}
}

func parseSeverity(s string) (diag.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return diag.Error, nil
	case "warning":
		return diag.Warning, nil
	case "note":
		return diag.Note, nil
	case "off":
		return diag.Off, nil
	default:
		return 0, pkgerrors.Errorf("unrecognized severity %q, want one of error, warning, note, off", s)
	}
}
