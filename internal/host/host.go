// Package host wraps all interaction with the tmux server: socket
// resolution, command discovery, command execution, and the current
// session lookup used for board headers.
package host

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

var (
	newTmux = func(socketPath string) (tmuxClient, error) {
		if socketPath != "" {
			return gotmux.NewTmux(socketPath)
		}
		return gotmux.DefaultTmux()
	}

	runExecCommand = func(name string, args ...string) commander {
		return realCommander{cmd: exec.Command(name, args...)}
	}
)

type tmuxClient interface {
	ListClients() ([]*gotmux.Client, error)
	DisplayMessage(target, format string) (string, error)
	Close() error
}

type commander interface {
	Run() error
	Output() ([]byte, error)
	CombinedOutput() ([]byte, error)
}

type realCommander struct {
	cmd *exec.Cmd
}

func (r realCommander) Run() error {
	return r.cmd.Run()
}

func (r realCommander) Output() ([]byte, error) {
	return r.cmd.Output()
}

func (r realCommander) CombinedOutput() ([]byte, error) {
	return r.cmd.CombinedOutput()
}

func baseArgs(socketPath string) []string {
	if strings.TrimSpace(socketPath) == "" {
		return []string{}
	}
	return []string{"-S", socketPath}
}

// ResolveSocketPath determines the tmux socket to talk to, preferring the
// explicit flag value, then environment hints, then the conventional
// per-user default location.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv("TMUX_PINBOARD_SOCKET"); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

// ListCommands returns the raw `tmux list-commands` output lines for the
// server behind socketPath.
func ListCommands(socketPath string) ([]string, error) {
	args := append(baseArgs(socketPath), "list-commands")
	output, err := runExecCommand("tmux", args...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("tmux list-commands failed: %w (output: %s)", err, strings.TrimSpace(string(output)))
	}
	return splitLines(strings.TrimSpace(string(output))), nil
}

// Execute runs a pinned command against the server. The command string is a
// tmux command name, optionally followed by arguments. Unknown commands fail
// on the tmux side; the error is returned for logging but carries no special
// taxonomy here.
func Execute(socketPath, command string) error {
	fields := strings.Fields(strings.TrimSpace(command))
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}
	args := append(baseArgs(socketPath), fields...)
	output, err := runExecCommand("tmux", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("tmux %s failed: %w (output: %s)", fields[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

// CurrentSession reports the session the invoking client belongs to. Empty
// when the server is unreachable or no client is attached.
func CurrentSession(socketPath string) string {
	client, err := newTmux(socketPath)
	if err != nil {
		return ""
	}
	defer client.Close()
	if pane := strings.TrimSpace(os.Getenv("TMUX_PANE")); pane != "" {
		if name, err := client.DisplayMessage(pane, "#{session_name}"); err == nil {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}
	if clients, err := client.ListClients(); err == nil {
		for _, c := range clients {
			if c != nil && !c.ControlMode && c.Session != "" {
				return c.Session
			}
		}
	}
	return ""
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
