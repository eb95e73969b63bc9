package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	linux        = Platform{OS: "linux", Arch: "amd64"}
	darwinARM    = Platform{OS: "darwin", Arch: "arm64"}
	darwinIntel  = Platform{OS: "darwin", Arch: "amd64"}
	windowsAMD64 = Platform{OS: "windows", Arch: "amd64"}
)

func TestCommandLinePerPlatform(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		shell    string
		template string
		path     string
		want     []string
	}{
		{
			name:     "linux bare placeholder",
			platform: linux,
			shell:    "sh",
			template: "vim /path/to/temp.eml",
			path:     "/tmp/a b.eml",
			want:     []string{"sh", "-c", "vim '/tmp/a b.eml'"},
		},
		{
			name:     "linux quoted placeholder",
			platform: linux,
			shell:    "bash",
			template: `kitty nvim "/path/to/temp.eml"`,
			path:     "/tmp/it's.eml",
			want:     []string{"bash", "-c", `kitty nvim '/tmp/it'\''s.eml'`},
		},
		{
			name:     "darwin login shell",
			platform: darwinARM,
			shell:    "/bin/zsh",
			template: "mvim -f '/path/to/temp.eml'",
			path:     "/var/folders/x/T/e.eml",
			want:     []string{"/bin/zsh", "-i", "-l", "-c", "mvim -f '/var/folders/x/T/e.eml'"},
		},
		{
			name:     "windows cmd",
			platform: windowsAMD64,
			shell:    `C:\Windows\System32\cmd.exe`,
			template: `notepad.exe "/path/to/temp.eml"`,
			path:     `C:\Users\me\AppData\Local\Temp\e.eml`,
			want:     []string{`C:\Windows\System32\cmd.exe`, "/C", `notepad.exe "C:\Users\me\AppData\Local\Temp\e.eml"`},
		},
		{
			name:     "windows cmd percent in path",
			platform: windowsAMD64,
			shell:    "cmd",
			template: "notepad.exe /path/to/temp.eml",
			path:     `C:\Users\a%b%\x.eml`,
			want:     []string{"cmd", "/C", `notepad.exe "C:\Users\a%%b%%\x.eml"`},
		},
		{
			name:     "windows powershell",
			platform: windowsAMD64,
			shell:    "pwsh",
			template: "code --wait /path/to/temp.eml",
			path:     `C:\Temp\o'neil.eml`,
			want:     []string{"pwsh", "-NoProfile", "-Command", `code --wait 'C:\Temp\o''neil.eml'`},
		},
		{
			name:     "windows posix shell",
			platform: windowsAMD64,
			shell:    `C:\msys64\usr\bin\bash.exe`,
			template: "vim /path/to/temp.eml",
			path:     `C:\Temp\e.eml`,
			want:     []string{`C:\msys64\usr\bin\bash.exe`, "-c", `vim 'C:\Temp\e.eml'`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CommandLine(tt.platform, tt.shell, tt.template, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandLineErrors(t *testing.T) {
	_, err := CommandLine(linux, "sh", "vim", "/tmp/x.eml")
	assert.ErrorIs(t, err, ErrNoPlaceholder)

	_, err = CommandLine(linux, "", "vim /path/to/temp.eml", "/tmp/x.eml")
	assert.Error(t, err)
}

func TestDefaultShell(t *testing.T) {
	noEnv := func(string) string { return "" }
	withShell := func(string) string { return "/usr/bin/fish" }

	assert.Equal(t, "sh", linux.DefaultShell(noEnv))
	assert.Equal(t, "/usr/bin/fish", linux.DefaultShell(withShell))
	assert.Equal(t, "/bin/zsh", darwinARM.DefaultShell(noEnv))
	assert.Equal(t, "cmd", windowsAMD64.DefaultShell(withShell))
}

func TestBuildTemplate(t *testing.T) {
	tpl, err := BuildTemplate(linux, Neovim, Kitty)
	require.NoError(t, err)
	assert.Equal(t, `kitty nvim "/path/to/temp.eml"`, tpl)

	tpl, err = BuildTemplate(linux, Vim, GnomeTerminal)
	require.NoError(t, err)
	assert.Equal(t, `gnome-terminal --wait -- vim "/path/to/temp.eml"`, tpl)

	tpl, err = BuildTemplate(darwinARM, Neovim, Alacritty)
	require.NoError(t, err)
	assert.Equal(t, `/Applications/Alacritty.app/Contents/MacOS/alacritty -e /opt/homebrew/bin/nvim "/path/to/temp.eml"`, tpl)

	tpl, err = BuildTemplate(darwinIntel, MacVim, TerminalNone)
	require.NoError(t, err)
	assert.Equal(t, `/usr/local/bin/mvim -f "/path/to/temp.eml"`, tpl)

	tpl, err = BuildTemplate(windowsAMD64, VSCode, Kitty)
	require.NoError(t, err, "GUI editors ignore the terminal")
	assert.Equal(t, `code --wait --new-window "/path/to/temp.eml"`, tpl)

	_, err = BuildTemplate(linux, Helix, TerminalNone)
	assert.Error(t, err)
	_, err = BuildTemplate(linux, Notepad, TerminalNone)
	assert.Error(t, err)
	_, err = BuildTemplate(darwinARM, Vim, Konsole)
	assert.Error(t, err)
}

func TestResolveTemplate(t *testing.T) {
	tpl, err := ResolveTemplate(linux, "ed /path/to/temp.eml", "vim", "xterm")
	require.NoError(t, err)
	assert.Equal(t, "ed /path/to/temp.eml", tpl, "explicit template wins")

	tpl, err = ResolveTemplate(linux, "", "Vim", "XTerm")
	require.NoError(t, err)
	assert.Equal(t, `xterm -e vim "/path/to/temp.eml"`, tpl)

	_, err = ResolveTemplate(linux, "", "", "")
	assert.Error(t, err)
	_, err = ResolveTemplate(linux, "", "ed", "")
	assert.Error(t, err)
	_, err = ResolveTemplate(linux, "", "vim", "hyper")
	assert.Error(t, err)
}

func TestPresetKeysRoundtrip(t *testing.T) {
	for e := range editors {
		got, err := ParseEditor(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	for term := range terminals {
		got, err := ParseTerminal(term.String())
		require.NoError(t, err)
		assert.Equal(t, term, got)
	}
	got, err := ParseTerminal("none")
	require.NoError(t, err)
	assert.Equal(t, TerminalNone, got)
}
