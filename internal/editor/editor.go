package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cppforge/internal/toolchain"
)

// ErrCLINotFound reports that no editor CLI is on the search path. This
// is the one hard failure of workspace setup: without the CLI nothing
// downstream works, so callers abort with remediation instructions
// instead of degrading.
var ErrCLINotFound = errors.New(`no VS Code CLI found on the search path (tried code, code-insiders, codium)
install VS Code and enable its shell command, then re-run`)

// cliCandidates in preference order.
var cliCandidates = []string{"code", "code-insiders", "codium"}

// DetectCLI returns the path of the first available editor CLI.
func DetectCLI(lookup toolchain.Lookup) (string, error) {
	for _, name := range cliCandidates {
		if path, err := lookup.FindExecutable(name); err == nil {
			return path, nil
		}
	}
	return "", ErrCLINotFound
}

// InstallExtension invokes the editor CLI to install an extension. The
// runner abstraction keeps this testable without a real editor.
func InstallExtension(ctx context.Context, runner toolchain.Runner, cliPath, extensionID string) error {
	lines, err := runner.Run(ctx, cliPath, "--install-extension", extensionID)
	if err != nil {
		detail := ""
		if len(lines) > 0 {
			detail = ": " + lines[len(lines)-1]
		}
		return fmt.Errorf("failed to install extension %s%s: %w", extensionID, detail, err)
	}
	return nil
}

// Workspace bundles the documents written under .vscode/.
type Workspace struct {
	Properties PropertiesDoc
	Tasks      TasksDoc
	Launch     LaunchDoc
	Settings   SettingsDoc
}

// Write creates root/.vscode and writes all four workspace documents,
// overwriting existing ones.
func (w Workspace) Write(root string) error {
	dir := filepath.Join(root, ".vscode")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", dir, err)
	}
	files := []struct {
		name string
		doc  any
	}{
		{"c_cpp_properties.json", w.Properties},
		{"tasks.json", w.Tasks},
		{"launch.json", w.Launch},
		{"settings.json", w.Settings},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, f.name), f.doc); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
