package shellsetup

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// ResultFilePrefix names the file a finished session leaves its chosen
// folder in, suffixed with the process id.
const ResultFilePrefix = "pathnav_result_"

// ResultFile returns the result file path for the process pid.
func ResultFile(pid int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s%d.txt", ResultFilePrefix, pid))
}

type ParentShellFunc func() string

type Config struct {
	DetectParent ParentShellFunc
	// Executable defaults to os.Executable.
	Executable func() (string, error)
}

const posixSnippet = `pathnav() {
    if [ "$#" -gt 0 ]; then
        command %[1]s "$@"
        return $?
    fi

    command %[1]s &
    pathnav_pid=$!
    wait $pathnav_pid

    result_file="${TMPDIR:-/tmp}/%[2]s$pathnav_pid.txt"
    if [ -f "$result_file" ] && [ ! -L "$result_file" ] && [ -O "$result_file" ]; then
        dest=$(cat "$result_file" 2>/dev/null)
        rm -f "$result_file"
        if [ -d "$dest" ] 2>/dev/null; then
            cd "$dest"
        fi
    else
        rm -f "$result_file" 2>/dev/null
    fi
}
`

const fishSnippet = `function pathnav
    if test (count $argv) -gt 0
        command %[1]s $argv
        return $status
    end

    command %[1]s &
    set pathnav_pid $last_pid
    wait $pathnav_pid

    set tmp $TMPDIR
    test -z "$tmp"; and set tmp /tmp
    set result_file "$tmp/%[2]s$pathnav_pid.txt"
    if test -f "$result_file" -a ! -L "$result_file" -a -O "$result_file"
        set dest (cat "$result_file" 2>/dev/null)
        if test -d "$dest" 2>/dev/null
            builtin cd "$dest"
        end
    end
    rm -f "$result_file" 2>/dev/null
end
`

const pwshSnippet = `function pathnav {
    param([Parameter(ValueFromRemainingArguments=$true)][string[]]$Args)
    if ($Args.Count -gt 0) {
        & %[1]s @Args
        return
    }

    $process = Start-Process -FilePath %[1]s -NoNewWindow -PassThru
    $process.WaitForExit()

    $resultFile = Join-Path $env:TEMP "%[2]s$($process.Id).txt"
    try {
        if (Test-Path $resultFile -PathType Leaf) {
            $dest = Get-Content $resultFile -Raw -ErrorAction SilentlyContinue | ForEach-Object { $_.Trim() }
            if ((Test-Path $dest -PathType Container) -and -not [string]::IsNullOrEmpty($dest)) {
                Set-Location $dest
            }
        }
    } finally {
        Remove-Item $resultFile -ErrorAction SilentlyContinue
    }
}
`

// csh and cmd capture stdout instead of reading the result file.
const cshSnippet = "alias pathnav 'set pathnav_dest=`%[1]s --print-dir` && test -n \"$pathnav_dest\" && cd \"$pathnav_dest\"'\n"

const cmdSnippet = `:: Save as pathnav.cmd and run "call pathnav.cmd" from cmd.exe sessions.
@echo off
if "%%~1"=="" (
    for /f "delims=" %%%%d in ('%[1]s --print-dir') do (
        if not "%%%%d"=="" cd /d "%%%%d"
    )
    exit /b 0
) else (
    %[1]s %%*
    exit /b %%errorlevel%%
)
`

// PrintSetup writes the shell function that runs pathnav and changes into
// the folder it picked.
func PrintSetup(w io.Writer, shellOverride string, cfg Config) error {
	parent := cfg.DetectParent
	if parent == nil {
		parent = DetectParentShellName
	}
	executable := cfg.Executable
	if executable == nil {
		executable = os.Executable
	}

	shell := normalizeShellName(shellOverride)
	if shell == "" {
		shell = detectShell(parent)
	}
	shell = canonicalShellName(shell)

	exe, err := executable()
	if err != nil {
		exe = "pathnav"
	}
	quoted := strconv.Quote(exe)

	var snippet string
	switch shell {
	case "fish":
		snippet = fishSnippet
	case "pwsh":
		snippet = pwshSnippet
	case "tcsh", "csh":
		snippet = cshSnippet
		quoted = exe
	case "cmd":
		snippet = cmdSnippet
	default:
		snippet = posixSnippet
	}
	_, err = fmt.Fprintf(w, snippet, quoted, ResultFilePrefix)
	return err
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
	default:
		return name
	}
}

func normalizeShellName(value string) string {
	value = extractExecutable(value)
	if value == "" {
		return ""
	}

	value = strings.Trim(value, `"'`)
	value = strings.ReplaceAll(value, "\\", "/")
	base := strings.ToLower(path.Base(value))
	base = strings.TrimSuffix(base, ".exe")
	return strings.TrimSpace(base)
}

func extractExecutable(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	for _, quote := range []string{`"`, "'"} {
		if strings.HasPrefix(value, quote) {
			value = value[1:]
			if idx := strings.Index(value, quote); idx >= 0 {
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
