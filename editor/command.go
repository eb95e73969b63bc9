package editor

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder is replaced by the temporary file path in command templates
const Placeholder = "/path/to/temp.eml"

// ErrNoPlaceholder is returned for templates without the placeholder
var ErrNoPlaceholder = errors.New("command template does not contain " + Placeholder)

// CommandLine builds the argv that runs template through shell with the
// placeholder replaced by the quoted path. A placeholder already wrapped
// in quotes in the template is replaced together with its quotes.
func CommandLine(p Platform, shell, template, path string) ([]string, error) {
	if strings.TrimSpace(shell) == "" {
		return nil, errors.New("no shell configured")
	}
	if !strings.Contains(template, Placeholder) {
		return nil, ErrNoPlaceholder
	}

	quoted := p.QuotePath(shell, path)
	command := template
	for _, q := range []string{`"`, `'`} {
		command = strings.ReplaceAll(command, q+Placeholder+q, quoted)
	}
	command = strings.ReplaceAll(command, Placeholder, quoted)

	argv := append([]string{shell}, p.ShellArgs(shell)...)
	return append(argv, command), nil
}

// ResolveTemplate picks the command template for a request: an explicit
// template wins, otherwise the editor and terminal preset keys are used
func ResolveTemplate(p Platform, template, editorKey, terminalKey string) (string, error) {
	if strings.TrimSpace(template) != "" {
		return template, nil
	}
	if editorKey == "" {
		return "", errors.New("no editor command configured")
	}
	ed, err := ParseEditor(editorKey)
	if err != nil {
		return "", err
	}
	term := TerminalNone
	if terminalKey != "" {
		if term, err = ParseTerminal(terminalKey); err != nil {
			return "", err
		}
	}
	t, err := BuildTemplate(p, ed, term)
	if err != nil {
		return "", fmt.Errorf("preset %s/%s: %w", editorKey, terminalKey, err)
	}
	return t, nil
}
