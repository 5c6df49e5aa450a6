package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the parsed --ui flag for build and run.
type uiMode int

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// useTUI reports whether the progress TUI should run. Forced modes win;
// auto follows whether stdout is a terminal.
func (m uiMode) useTUI() bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(os.Stdout)
}
