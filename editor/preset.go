package editor

import (
	"fmt"
	"strings"
)

// Editor is a preset editor
type Editor int

const (
	Vim Editor = iota + 1
	Neovim
	Emacs
	Nano
	Helix
	Kakoune
	GVim
	MacVim
	Kate
	Gedit
	VSCode
	Sublime
	Notepad
	NotepadPlusPlus
)

// Terminal is a preset terminal emulator for terminal-based editors
type Terminal int

const (
	TerminalNone Terminal = iota
	XTerm
	GnomeTerminal
	Konsole
	Kitty
	Alacritty
	WezTerm
	Foot
)

type availability int

const (
	anyOS availability = iota
	unixOnly
	linuxOnly
	darwinOnly
	windowsOnly
)

func (a availability) allows(p Platform) bool {
	switch a {
	case unixOnly:
		return !p.IsWindows()
	case linuxOnly:
		return !p.IsWindows() && !p.IsDarwin()
	case darwinOnly:
		return p.IsDarwin()
	case windowsOnly:
		return p.IsWindows()
	default:
		return true
	}
}

type editorSpec struct {
	key      string
	command  string
	terminal bool
	// brew marks binaries found under the Homebrew prefix on macOS
	brew  bool
	avail availability
}

var editors = map[Editor]editorSpec{
	Vim:             {key: "vim", command: "vim", terminal: true, avail: unixOnly},
	Neovim:          {key: "neovim", command: "nvim", terminal: true, brew: true, avail: unixOnly},
	Emacs:           {key: "emacs", command: "emacs -nw", terminal: true, brew: true, avail: unixOnly},
	Nano:            {key: "nano", command: "nano", terminal: true, brew: true, avail: unixOnly},
	Helix:           {key: "helix", command: "hx", terminal: true, brew: true, avail: unixOnly},
	Kakoune:         {key: "kakoune", command: "kak", terminal: true, brew: true, avail: unixOnly},
	GVim:            {key: "gvim", command: "gvim -f", avail: linuxOnly},
	MacVim:          {key: "macvim", command: "mvim -f", brew: true, avail: darwinOnly},
	Kate:            {key: "kate", command: "kate --block --new", avail: linuxOnly},
	Gedit:           {key: "gedit", command: "gedit --wait --new-window", avail: linuxOnly},
	VSCode:          {key: "vscode", command: "code --wait --new-window"},
	Sublime:         {key: "sublime", command: "subl --wait --new-window"},
	Notepad:         {key: "notepad", command: "notepad.exe", avail: windowsOnly},
	NotepadPlusPlus: {key: "notepad++", command: `"C:\Program Files\Notepad++\notepad++.exe" -multiInst -nosession`, avail: windowsOnly},
}

type terminalSpec struct {
	key string
	// prefix runs the editor command that follows it in a new window and
	// blocks until the window closes
	prefix    string
	darwinApp string
	avail     availability
}

var terminals = map[Terminal]terminalSpec{
	XTerm:         {key: "xterm", prefix: "xterm -e", avail: linuxOnly},
	GnomeTerminal: {key: "gnome-terminal", prefix: "gnome-terminal --wait --", avail: linuxOnly},
	Konsole:       {key: "konsole", prefix: "konsole --nofork -e", avail: linuxOnly},
	Kitty:         {key: "kitty", prefix: "kitty", darwinApp: "/Applications/kitty.app/Contents/MacOS/kitty", avail: unixOnly},
	Alacritty:     {key: "alacritty", prefix: "alacritty -e", darwinApp: "/Applications/Alacritty.app/Contents/MacOS/alacritty", avail: unixOnly},
	WezTerm:       {key: "wezterm", prefix: "wezterm start --always-new-process --", darwinApp: "/Applications/WezTerm.app/Contents/MacOS/wezterm", avail: unixOnly},
	Foot:          {key: "foot", prefix: "foot", avail: linuxOnly},
}

func (e Editor) String() string {
	if s, ok := editors[e]; ok {
		return s.key
	}
	return fmt.Sprintf("editor(%d)", int(e))
}

func (t Terminal) String() string {
	if t == TerminalNone {
		return "none"
	}
	if s, ok := terminals[t]; ok {
		return s.key
	}
	return fmt.Sprintf("terminal(%d)", int(t))
}

// ParseEditor resolves an editor preset key
func ParseEditor(key string) (Editor, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for e, s := range editors {
		if s.key == key {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown editor preset %q", key)
}

// ParseTerminal resolves a terminal preset key. "none" and "" select no terminal.
func ParseTerminal(key string) (Terminal, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || key == "none" {
		return TerminalNone, nil
	}
	for t, s := range terminals {
		if s.key == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown terminal preset %q", key)
}

// HomebrewPrefix returns where Homebrew installs binaries on macOS
func HomebrewPrefix(p Platform) string {
	if p.Arch == "arm64" {
		return "/opt/homebrew/bin"
	}
	return "/usr/local/bin"
}

// BuildTemplate renders the command template for a preset pair. Terminal
// editors require a terminal; GUI editors ignore it.
func BuildTemplate(p Platform, e Editor, t Terminal) (string, error) {
	es, ok := editors[e]
	if !ok {
		return "", fmt.Errorf("unknown editor %s", e)
	}
	if !es.avail.allows(p) {
		return "", fmt.Errorf("editor %s is not available on %s", es.key, p.OS)
	}

	command := es.command
	if es.brew && p.IsDarwin() {
		command = HomebrewPrefix(p) + "/" + command
	}
	command += ` "` + Placeholder + `"`

	if !es.terminal {
		return command, nil
	}

	if t == TerminalNone {
		return "", fmt.Errorf("editor %s runs in a terminal; choose a terminal preset", es.key)
	}
	ts, ok := terminals[t]
	if !ok {
		return "", fmt.Errorf("unknown terminal %s", t)
	}
	if !ts.avail.allows(p) {
		return "", fmt.Errorf("terminal %s is not available on %s", ts.key, p.OS)
	}

	prefix := ts.prefix
	if p.IsDarwin() && ts.darwinApp != "" {
		_, args, _ := strings.Cut(prefix, " ")
		prefix = strings.TrimSpace(ts.darwinApp + " " + args)
	}
	return prefix + " " + command, nil
}
