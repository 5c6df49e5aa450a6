package toolchain

// CompilerRef pairs a command name with its resolved location. Path is
// empty when the lookup missed.
type CompilerRef struct {
	Name string
	Path string
}

// Default candidate order. The setup command installs g++, but a
// preinstalled clang toolchain is accepted as-is.
var (
	DefaultCompilers = []string{"g++", "clang++"}
	DefaultDebuggers = []string{"gdb", "lldb"}
)

// DetectTool returns the first candidate present on the search path.
// The boolean reports whether anything was found; on a miss the
// returned ref carries the first candidate's name with an empty path.
func DetectTool(lookup Lookup, candidates ...string) (CompilerRef, bool) {
	for _, name := range candidates {
		if path, err := lookup.FindExecutable(name); err == nil {
			return CompilerRef{Name: name, Path: path}, true
		}
	}
	if len(candidates) == 0 {
		return CompilerRef{}, false
	}
	return CompilerRef{Name: candidates[0]}, false
}

// DetectCompiler picks the host C++ compiler.
func DetectCompiler(lookup Lookup) (CompilerRef, bool) {
	return DetectTool(lookup, DefaultCompilers...)
}

// DetectDebugger picks the host debugger for launch configurations.
func DetectDebugger(lookup Lookup) (CompilerRef, bool) {
	return DetectTool(lookup, DefaultDebuggers...)
}
