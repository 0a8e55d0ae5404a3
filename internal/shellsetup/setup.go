// Package shellsetup prints the shell function that lets carto change the
// directory of the calling shell. The function runs carto with
// --print-last-dir and cds into whatever it prints; the terminal UI itself
// talks to the controlling tty, so stdout stays free for the path.
package shellsetup

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
)

// FuncName is the name of the generated shell function.
const FuncName = "carto"

type ParentShellFunc func() string

type Config struct {
	DetectParent ParentShellFunc
	// Executable overrides the binary path baked into the snippet.
	Executable string
}

// Write prints the integration snippet for shellOverride, or for the
// detected shell when it is empty, and returns the shell it chose.
func Write(w io.Writer, shellOverride string, cfg Config) (string, error) {
	parent := cfg.DetectParent
	if parent == nil {
		parent = DetectParentShellName
	}

	shell := canonicalShellName(normalizeShellName(shellOverride))
	if shell == "" {
		shell = detectShell(parent)
	}

	exe := cfg.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			exe = FuncName
		}
	}
	_, err := io.WriteString(w, Snippet(shell, exe))
	return shell, err
}

// Snippet renders the function for shell around the binary at exe.
func Snippet(shell, exe string) string {
	quoted := strconv.Quote(exe)
	switch shell {
	case "fish":
		return fmt.Sprintf(`function %[1]s
    if test (count $argv) -gt 0
        command %[2]s $argv
        return $status
    end
    set -l dest (command %[2]s --print-last-dir)
    or return $status
    if test -n "$dest" -a -d "$dest"
        builtin cd -- "$dest"
    end
end
`, FuncName, quoted)
	case "pwsh":
		return fmt.Sprintf(`function %[1]s {
    param([Parameter(ValueFromRemainingArguments=$true)][string[]]$Rest)
    if ($Rest.Count -gt 0) {
        & %[2]s @Rest
        return
    }
    $dest = & %[2]s --print-last-dir
    if ($LASTEXITCODE -eq 0 -and $dest -and (Test-Path -LiteralPath $dest -PathType Container)) {
        Set-Location -LiteralPath $dest
    }
}
`, FuncName, quoted)
	case "tcsh", "csh":
		return fmt.Sprintf("alias %s 'set carto_dest=`%s --print-last-dir` && test -d \"$carto_dest\" && cd \"$carto_dest\"'\n", FuncName, exe)
	case "cmd":
		return fmt.Sprintf(`:: Save as %[1]s.cmd and run "call %[1]s.cmd" from cmd.exe sessions.
@echo off
if "%%~1"=="" (
    for /f "delims=" %%%%d in ('%[2]s --print-last-dir') do (
        if not "%%%%d"=="" cd /d "%%%%d"
    )
    exit /b 0
) else (
    %[2]s %%*
    exit /b %%errorlevel%%
)
`, FuncName, quoted)
	default:
		return fmt.Sprintf(`%[1]s() {
    if [ "$#" -gt 0 ]; then
        command %[2]s "$@"
        return $?
    fi
    dest=$(command %[2]s --print-last-dir) || return $?
    if [ -n "$dest" ] && [ -d "$dest" ]; then
        cd -- "$dest"
    fi
}
`, FuncName, quoted)
	}
}

func detectShell(parent ParentShellFunc) string {
	return detectShellInternal(runtime.GOOS, os.Getenv, parent)
}

func detectShellInternal(goos string, getenv func(string) string, parent ParentShellFunc) string {
	if shell := canonicalShellName(normalizeShellName(getenv("SHELL"))); shell != "" {
		return shell
	}

	if parent != nil {
		if shell := canonicalShellName(normalizeShellName(parent())); shell != "" {
			return shell
		}
	}

	if strings.EqualFold(goos, "windows") {
		if shell := canonicalShellName(normalizeShellName(getenv("COMSPEC"))); shell != "" {
			switch shell {
			case "pwsh", "cmd":
				return shell
			}
		}
		return "pwsh"
	}

	return "bash"
}

func canonicalShellName(name string) string {
	switch name {
	case "powershell":
		return "pwsh"
	case "sh", "ksh", "dash":
		return "bash"
	default:
		return name
	}
}

func normalizeShellName(value string) string {
	value = extractExecutable(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(strings.Trim(value, `"'`), "\\", "/")
	base := strings.ToLower(path.Base(value))
	base = strings.TrimPrefix(base, "-") // login shells
	return strings.TrimSpace(strings.TrimSuffix(base, ".exe"))
}

func extractExecutable(value string) string {
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(value, q) {
			value = value[1:]
			if idx := strings.Index(value, q); idx >= 0 {
				return value[:idx]
			}
			return value
		}
	}
	if idx := strings.IndexAny(value, " \t"); idx >= 0 {
		return value[:idx]
	}
	return value
}
