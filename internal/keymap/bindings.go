package keymap

import "strconv"

// Command ids.
const (
	CmdQuit           = "quit"
	CmdSave           = "save"
	CmdPaste          = "paste"
	CmdNextTab        = "next-tab"
	CmdPrevTab        = "prev-tab"
	CmdToggleTheme    = "toggle-theme"
	CmdCycleFont      = "cycle-font-family"
	CmdCycleFontSize  = "cycle-font-size"
	CmdDownload       = "download"
	CmdCopy           = "copy"
	CmdOpenLink       = "open-link"
	CmdLinkifyNow     = "linkify-now"
	CmdHelp           = "toggle-help"
	CmdToggleFooter   = "toggle-footer"
	CmdNewline        = "newline"
	CmdDeleteBack     = "delete-back"
	CmdCursorLeft     = "cursor-left"
	CmdCursorRight    = "cursor-right"
	CmdCursorUp       = "cursor-up"
	CmdCursorDown     = "cursor-down"
	CmdCursorEnd      = "cursor-end"
	CmdSelectLeft     = "select-left"
	CmdSelectRight    = "select-right"
	CmdSelectUp       = "select-up"
	CmdSelectDown     = "select-down"
	CmdScrollUp       = "scroll-up"
	CmdScrollDown     = "scroll-down"
	tabCommandPrefix  = "tab-"
	maxTabShortcuts   = 9
	tabShortcutPrefix = "alt+"
)

// TabCommand returns the command id that activates tab n.
func TabCommand(n int) string {
	return tabCommandPrefix + strconv.Itoa(n)
}

// TabFromCommand returns the tab a tab-N command activates.
func TabFromCommand(cmd string) (int, bool) {
	if len(cmd) <= len(tabCommandPrefix) || cmd[:len(tabCommandPrefix)] != tabCommandPrefix {
		return 0, false
	}
	n, err := strconv.Atoi(cmd[len(tabCommandPrefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	bindings := []Binding{
		// Memo
		{Key: "ctrl+c", Command: CmdQuit, Context: "memo"},
		{Key: "ctrl+q", Command: CmdQuit, Context: "memo"},
		{Key: "ctrl+s", Command: CmdSave, Context: "memo"},
		{Key: "ctrl+d", Command: CmdDownload, Context: "memo"},
		{Key: "ctrl+y", Command: CmdCopy, Context: "memo"},
		{Key: "ctrl+o", Command: CmdOpenLink, Context: "memo"},
		{Key: "ctrl+l", Command: CmdLinkifyNow, Context: "memo"},
		{Key: "f1", Command: CmdHelp, Context: "memo"},
		{Key: "alt+h", Command: CmdToggleFooter, Context: "memo"},

		// Appearance
		{Key: "ctrl+t", Command: CmdToggleTheme, Context: "appearance"},
		{Key: "alt+f", Command: CmdCycleFont, Context: "appearance"},
		{Key: "alt+s", Command: CmdCycleFontSize, Context: "appearance"},

		// Tabs
		{Key: "ctrl+n", Command: CmdNextTab, Context: "tabs"},
		{Key: "ctrl+p", Command: CmdPrevTab, Context: "tabs"},

		// Editor
		{Key: "ctrl+v", Command: CmdPaste, Context: "editor"},
		{Key: "enter", Command: CmdNewline, Context: "editor"},
		{Key: "backspace", Command: CmdDeleteBack, Context: "editor"},
		{Key: "left", Command: CmdCursorLeft, Context: "editor"},
		{Key: "right", Command: CmdCursorRight, Context: "editor"},
		{Key: "up", Command: CmdCursorUp, Context: "editor"},
		{Key: "down", Command: CmdCursorDown, Context: "editor"},
		{Key: "end", Command: CmdCursorEnd, Context: "editor"},
		{Key: "shift+left", Command: CmdSelectLeft, Context: "editor"},
		{Key: "shift+right", Command: CmdSelectRight, Context: "editor"},
		{Key: "shift+up", Command: CmdSelectUp, Context: "editor"},
		{Key: "shift+down", Command: CmdSelectDown, Context: "editor"},
		{Key: "pgup", Command: CmdScrollUp, Context: "editor"},
		{Key: "pgdown", Command: CmdScrollDown, Context: "editor"},
	}
	for n := 1; n <= maxTabShortcuts; n++ {
		bindings = append(bindings, Binding{
			Key:     tabShortcutPrefix + strconv.Itoa(n),
			Command: TabCommand(n),
			Context: "tabs",
		})
	}
	return bindings
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
