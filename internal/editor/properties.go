// Package editor synthesizes VS Code workspace configuration from
// detected toolchain state.
package editor

import (
	"runtime"

	"cppforge/internal/toolchain"
)

// PropertiesDoc is the c_cpp_properties.json document consumed by the
// C/C++ IntelliSense engine.
type PropertiesDoc struct {
	Configurations []PropertiesConfig `json:"configurations"`
	Version        int                `json:"version"`
}

// PropertiesConfig is a single IntelliSense configuration record.
type PropertiesConfig struct {
	Name             string   `json:"name"`
	IncludePath      []string `json:"includePath"`
	Defines          []string `json:"defines"`
	CompilerPath     string   `json:"compilerPath,omitempty"`
	CStandard        string   `json:"cStandard"`
	CppStandard      string   `json:"cppStandard"`
	IntelliSenseMode string   `json:"intelliSenseMode"`
}

const propertiesVersion = 4

// Properties renders an include-path introspection result into the
// IntelliSense configuration document. The detected entries are
// embedded verbatim after the project-root wildcard; an empty detected
// list is fine and leaves only the wildcard.
func Properties(result toolchain.IncludePathResult) PropertiesDoc {
	includePath := make([]string, 0, len(result.IncludePaths)+1)
	includePath = append(includePath, "${workspaceFolder}/**")
	includePath = append(includePath, result.IncludePaths...)

	return PropertiesDoc{
		Configurations: []PropertiesConfig{{
			Name:             configName(runtime.GOOS),
			IncludePath:      includePath,
			Defines:          []string{},
			CompilerPath:     result.CompilerPath,
			CStandard:        "c17",
			CppStandard:      "c++17",
			IntelliSenseMode: intelliSenseMode(runtime.GOOS),
		}},
		Version: propertiesVersion,
	}
}

func configName(goos string) string {
	switch goos {
	case "darwin":
		return "Mac"
	case "windows":
		return "Win32"
	default:
		return "Linux"
	}
}

func intelliSenseMode(goos string) string {
	switch goos {
	case "darwin":
		return "macos-clang-x64"
	case "windows":
		return "windows-gcc-x64"
	default:
		return "linux-gcc-x64"
	}
}
