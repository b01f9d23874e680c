// Package integration provides embedded shell integration snippets.
package integration

import (
	"bytes"
	_ "embed"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"
)

// ZshFzf contains the zsh shell integration script with fzf support.
//
//go:embed zsh-fzf.sh
var ZshFzf string

// lookPath and executable are replaced in tests.
//
//nolint:gochecknoglobals // Test seams
var (
	lookPath   = exec.LookPath
	executable = os.Executable
)

// Render fills in the zsh interpreter and the path of the running dirscope binary.
func Render() (string, error) {
	zsh, err := lookPath("zsh")
	if err != nil {
		return "", err
	}

	binary, err := executable()
	if err != nil {
		binary = "dirscope"
	}

	tmpl, err := template.New("zsh-fzf").Parse(ZshFzf)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"ZSH":    filepath.ToSlash(zsh),
		"Binary": filepath.ToSlash(binary),
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
