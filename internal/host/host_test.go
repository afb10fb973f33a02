package host

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type fakeCommander struct {
	output []byte
	err    error
}

func (f fakeCommander) Run() error {
	return f.err
}

func (f fakeCommander) Output() ([]byte, error) {
	return f.output, f.err
}

func (f fakeCommander) CombinedOutput() ([]byte, error) {
	return f.output, f.err
}

func swapCommander(t *testing.T, fake fakeCommander) *[][]string {
	t.Helper()
	var calls [][]string
	original := runExecCommand
	runExecCommand = func(name string, args ...string) commander {
		calls = append(calls, append([]string{name}, args...))
		return fake
	}
	t.Cleanup(func() { runExecCommand = original })
	return &calls
}

func TestResolveSocketPathPrefersFlag(t *testing.T) {
	t.Setenv("TMUX_PINBOARD_SOCKET", "/tmp/env-socket")
	got, err := ResolveSocketPath("/tmp/flag-socket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/tmp/flag-socket" {
		t.Fatalf("expected flag value, got %q", got)
	}
}

func TestResolveSocketPathUsesEnvOverride(t *testing.T) {
	t.Setenv("TMUX_PINBOARD_SOCKET", "/tmp/env-socket")
	t.Setenv("TMUX", "/tmp/tmux-socket,1234,0")
	got, err := ResolveSocketPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/tmp/env-socket" {
		t.Fatalf("expected env override, got %q", got)
	}
}

func TestResolveSocketPathParsesTmuxEnv(t *testing.T) {
	t.Setenv("TMUX_PINBOARD_SOCKET", "")
	t.Setenv("TMUX", "/tmp/tmux-socket,1234,0")
	got, err := ResolveSocketPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/tmp/tmux-socket" {
		t.Fatalf("expected first TMUX field, got %q", got)
	}
}

func TestResolveSocketPathFallsBackToDefault(t *testing.T) {
	t.Setenv("TMUX_PINBOARD_SOCKET", "")
	t.Setenv("TMUX", "")
	t.Setenv("TMUX_TMPDIR", "/var/tmp")
	got, err := ResolveSocketPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "/var/tmp/tmux-") || !strings.HasSuffix(got, "/default") {
		t.Fatalf("expected per-user default path, got %q", got)
	}
}

func TestListCommandsSplitsOutput(t *testing.T) {
	calls := swapCommander(t, fakeCommander{output: []byte("attach-session (attach)\nbind-key (bind)\n")})
	lines, err := ListCommands("/tmp/sock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"attach-session (attach)", "bind-key (bind)"}) {
		t.Fatalf("unexpected lines %v", lines)
	}
	want := [][]string{{"tmux", "-S", "/tmp/sock", "list-commands"}}
	if !reflect.DeepEqual(*calls, want) {
		t.Fatalf("unexpected invocation %v", *calls)
	}
}

func TestListCommandsWrapsError(t *testing.T) {
	swapCommander(t, fakeCommander{output: []byte("no server running"), err: errors.New("exit status 1")})
	_, err := ListCommands("")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no server running") {
		t.Fatalf("expected command output in error, got %v", err)
	}
}

func TestExecutePassesCommandFields(t *testing.T) {
	calls := swapCommander(t, fakeCommander{})
	if err := Execute("/tmp/sock", "run-shell echo hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"tmux", "-S", "/tmp/sock", "run-shell", "echo", "hi"}}
	if !reflect.DeepEqual(*calls, want) {
		t.Fatalf("unexpected invocation %v", *calls)
	}
}

func TestExecuteRejectsEmptyCommand(t *testing.T) {
	swapCommander(t, fakeCommander{})
	if err := Execute("", "   "); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestExecuteWrapsFailure(t *testing.T) {
	swapCommander(t, fakeCommander{output: []byte("unknown command"), err: errors.New("exit status 1")})
	err := Execute("", "bogus-command")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bogus-command") {
		t.Fatalf("expected command name in error, got %v", err)
	}
}
