package shellsetup

import (
	"bytes"
	"strings"
	"testing"
)

func TestDetectShellInternal(t *testing.T) {
	tests := []struct {
		name          string
		goos          string
		envShell      string
		envComspec    string
		parent        func() string
		expectedShell string
	}{
		{
			name:          "uses SHELL when set",
			goos:          "linux",
			envShell:      "/bin/zsh",
			expectedShell: "zsh",
		},
		{
			name:          "falls back to parent shell",
			goos:          "linux",
			parent:        func() string { return "/usr/bin/bash" },
			expectedShell: "bash",
		},
		{
			name:          "windows prefers COMSPEC",
			goos:          "windows",
			envComspec:    `C:\Windows\System32\cmd.exe`,
			expectedShell: "cmd",
		},
		{
			name:          "windows fallback",
			goos:          "windows",
			expectedShell: "pwsh",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := func(key string) string {
				switch key {
				case "SHELL":
					return tt.envShell
				case "COMSPEC":
					return tt.envComspec
				default:
					return ""
				}
			}
			got := detectShellInternal(tt.goos, env, tt.parent)
			if got != tt.expectedShell {
				t.Fatalf("detectShellInternal() = %q, want %q", got, tt.expectedShell)
			}
		})
	}
}

func fixedExecutable(path string) func() (string, error) {
	return func() (string, error) { return path, nil }
}

func TestPrintSetupSnippets(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"pathnav() {", `command "/opt/bin/pathnav" &`, `${TMPDIR:-/tmp}/pathnav_result_$pathnav_pid.txt`}},
		{"/usr/bin/zsh", []string{"pathnav() {", "cd \"$dest\""}},
		{"fish", []string{"function pathnav", `"$tmp/pathnav_result_$pathnav_pid.txt"`, "builtin cd"}},
		{"powershell", []string{"function pathnav {", `"pathnav_result_$($process.Id).txt"`}},
		{"tcsh", []string{"alias pathnav", "`/opt/bin/pathnav --print-dir`"}},
		{"cmd", []string{`if "%~1"=="" (`, `('"/opt/bin/pathnav" --print-dir')`, "%%d"}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			var buf bytes.Buffer
			err := PrintSetup(&buf, tt.shell, Config{
				DetectParent: func() string { return "" },
				Executable:   fixedExecutable("/opt/bin/pathnav"),
			})
			if err != nil {
				t.Fatalf("PrintSetup: %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Fatalf("snippet for %s missing %q:\n%s", tt.shell, want, out)
				}
			}
			if strings.Contains(out, "%!") {
				t.Fatalf("formatting error in snippet:\n%s", out)
			}
		})
	}
}

func TestNormalizeShellName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  /bin/bash  ", "bash"},
		{`"C:\Program Files\PowerShell\pwsh.exe" -NoLogo`, "pwsh"},
		{"'/usr/local/bin/fish'", "fish"},
		{"zsh -l", "zsh"},
	}
	for _, tt := range tests {
		if got := normalizeShellName(tt.in); got != tt.want {
			t.Errorf("normalizeShellName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResultFileIsPerProcess(t *testing.T) {
	if ResultFile(1) == ResultFile(2) {
		t.Fatalf("result files must differ per pid")
	}
	if !strings.Contains(ResultFile(42), ResultFilePrefix+"42.txt") {
		t.Fatalf("ResultFile(42) = %q", ResultFile(42))
	}
}
