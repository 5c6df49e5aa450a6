package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindManifest_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "solutions")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := filepath.Join(root, ManifestName)
	if err := os.WriteFile(manifest, []byte("[package]\nname = \"demo\"\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	got, ok, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if !ok {
		t.Fatal("expected manifest to be found")
	}
	if got != manifest {
		t.Errorf("FindManifest = %q, want %q", got, manifest)
	}

	gotRoot, ok, err := FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if !ok || gotRoot != root {
		t.Errorf("FindRoot = %q (ok=%v), want %q", gotRoot, ok, root)
	}
}

func TestFindManifest_NotFound(t *testing.T) {
	_, ok, err := FindManifest(t.TempDir())
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if ok {
		t.Error("expected no manifest in an empty tree")
	}
}
