package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"cppforge/internal/project"
)

const noManifestMessage = "no cppforge.toml found\nplease specify the source file explicitly, e.g.:\n  cppforge run path/to/main.cpp"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Build   buildConfig   `toml:"build"`
	Run     runConfig     `toml:"run"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type buildConfig struct {
	Compiler string `toml:"compiler"`
	Standard string `toml:"standard"`
}

type runConfig struct {
	Main   string `toml:"main"`
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := project.FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("run", "main") || strings.TrimSpace(cfg.Run.Main) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [run].main", path)
	}
	if cfg.Build.Standard == "" {
		cfg.Build.Standard = "c++17"
	}
	return cfg, nil
}

// resolveRunTarget validates the manifest's main source path.
func resolveRunTarget(manifest *projectManifest) (string, error) {
	if manifest == nil {
		return "", fmt.Errorf("missing project manifest")
	}
	mainRel := strings.TrimSpace(manifest.Config.Run.Main)
	mainPath := filepath.Join(manifest.Root, filepath.FromSlash(mainRel))
	info, err := os.Stat(mainPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [run].main path does not exist: %s", manifest.Path, mainPath)
		}
		return "", fmt.Errorf("%s: failed to stat [run].main: %w", manifest.Path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: [run].main must be a source file, not a directory", manifest.Path)
	}
	if !isCppSource(mainPath) {
		return "", fmt.Errorf("%s: [run].main must be a C++ source file", manifest.Path)
	}
	return mainPath, nil
}

// redirectPath resolves a manifest-relative redirection file; empty
// stays empty (no redirection).
func redirectPath(root, rel string) string {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return ""
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

var cppExtensions = []string{".cpp", ".cc", ".cxx", ".C"}

func isCppSource(path string) bool {
	ext := filepath.Ext(path)
	for _, candidate := range cppExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func outputNameFromPath(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
