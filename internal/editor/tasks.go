package editor

import "cppforge/internal/toolchain"

// TasksDoc is the tasks.json document driving the build shortcut.
type TasksDoc struct {
	Version string `json:"version"`
	Tasks   []Task `json:"tasks"`
}

// Task is a single tasks.json entry.
type Task struct {
	Label   string    `json:"label"`
	Type    string    `json:"type"`
	Command string    `json:"command"`
	Args    []string  `json:"args"`
	Group   TaskGroup `json:"group"`
	Problem []string  `json:"problemMatcher"`
}

// TaskGroup marks the task kind.
type TaskGroup struct {
	Kind      string `json:"kind"`
	IsDefault bool   `json:"isDefault"`
}

// LaunchDoc is the launch.json document for debugging.
type LaunchDoc struct {
	Version        string         `json:"version"`
	Configurations []LaunchConfig `json:"configurations"`
}

// LaunchConfig is a single debug configuration.
type LaunchConfig struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Request       string `json:"request"`
	Program       string `json:"program"`
	Cwd           string `json:"cwd"`
	MIMode        string `json:"MIMode,omitempty"`
	MIDebuggerPth string `json:"miDebuggerPath,omitempty"`
	PreLaunchTask string `json:"preLaunchTask,omitempty"`
	ExternalUI    bool   `json:"externalConsole"`
	StopAtEntry   bool   `json:"stopAtEntry"`
}

// SettingsDoc is the minimal settings.json for the workspace.
type SettingsDoc struct {
	FileAssociations map[string]string `json:"files.associations,omitempty"`
	DefaultStandard  string            `json:"C_Cpp.default.cppStandard,omitempty"`
}

// Tasks builds the default build task for the detected compiler. The
// command uses the resolved compiler path so the task keeps working
// when the shell PATH differs from the editor's.
func Tasks(compiler toolchain.CompilerRef, standard string) TasksDoc {
	command := compiler.Path
	if command == "" {
		command = compiler.Name
	}
	return TasksDoc{
		Version: "2.0.0",
		Tasks: []Task{{
			Label:   "cppforge: build active file",
			Type:    "shell",
			Command: command,
			Args: []string{
				"-g",
				"-std=" + standard,
				"${file}",
				"-o",
				"${fileDirname}/target/debug/${fileBasenameNoExtension}",
			},
			Group:   TaskGroup{Kind: "build", IsDefault: true},
			Problem: []string{"$gcc"},
		}},
	}
}

// Launch builds the debug configuration wired to the build task.
func Launch(debugger toolchain.CompilerRef) LaunchDoc {
	miMode := "gdb"
	if debugger.Name == "lldb" {
		miMode = "lldb"
	}
	return LaunchDoc{
		Version: "0.2.0",
		Configurations: []LaunchConfig{{
			Name:          "cppforge: debug active file",
			Type:          "cppdbg",
			Request:       "launch",
			Program:       "${fileDirname}/target/debug/${fileBasenameNoExtension}",
			Cwd:           "${workspaceFolder}",
			MIMode:        miMode,
			MIDebuggerPth: debugger.Path,
			PreLaunchTask: "cppforge: build active file",
		}},
	}
}

// Settings builds the workspace settings document.
func Settings(standard string) SettingsDoc {
	return SettingsDoc{
		FileAssociations: map[string]string{"*.tpp": "cpp"},
		DefaultStandard:  standard,
	}
}
