package toolchain

import "testing"

func TestDetectTool_FirstCandidateWins(t *testing.T) {
	lookup := fakeLookup{strict: map[string]string{
		"g++":     "/usr/bin/g++",
		"clang++": "/usr/bin/clang++",
	}}
	ref, ok := DetectTool(lookup, "g++", "clang++")
	if !ok {
		t.Fatal("expected a detection")
	}
	if ref.Name != "g++" || ref.Path != "/usr/bin/g++" {
		t.Errorf("ref = %+v, want g++ at /usr/bin/g++", ref)
	}
}

func TestDetectTool_FallsThroughMissingCandidates(t *testing.T) {
	lookup := fakeLookup{strict: map[string]string{
		"clang++": "/usr/bin/clang++",
	}}
	ref, ok := DetectTool(lookup, "g++", "clang++")
	if !ok {
		t.Fatal("expected a detection")
	}
	if ref.Name != "clang++" {
		t.Errorf("ref.Name = %q, want clang++", ref.Name)
	}
}

func TestDetectTool_NothingFound(t *testing.T) {
	ref, ok := DetectTool(fakeLookup{}, "g++", "clang++")
	if ok {
		t.Fatal("expected no detection")
	}
	if ref.Name != "g++" || ref.Path != "" {
		t.Errorf("ref = %+v, want first candidate name with empty path", ref)
	}
}
