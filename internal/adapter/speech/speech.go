// Package speech shells out to user-configured commands for spoken output
// and microphone capture. Both features are opt-in: an empty command yields
// a no-op implementation so the rest of the client never branches on
// whether speech is available.
package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/fluentcli/internal/usecase"
)

// CommandSpeaker speaks text by running a shell command template. The
// {text} placeholder is replaced with the message; without a placeholder
// the text is piped to the command's stdin.
type CommandSpeaker struct {
	command string
	logger  *logrus.Logger
}

// NewSpeaker builds a Speaker from the configured play command. An empty
// command disables speech.
func NewSpeaker(command string, logger *logrus.Logger) usecase.Speaker {
	if strings.TrimSpace(command) == "" {
		return usecase.NopSpeaker{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &CommandSpeaker{command: command, logger: logger}
}

func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	var cmd *exec.Cmd
	if strings.Contains(s.command, "{text}") {
		line := strings.ReplaceAll(s.command, "{text}", shellQuote(text))
		cmd = exec.CommandContext(ctx, "sh", "-c", line)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", s.command)
		cmd.Stdin = strings.NewReader(text)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("play command: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Recorder captures one voice turn and returns the path of the recorded
// audio file.
type Recorder interface {
	Record(ctx context.Context) (string, error)
}

// CommandRecorder records by running a shell command template whose {file}
// placeholder receives the output path. The command itself decides when the
// recording ends (silence detection, fixed duration, key press).
type CommandRecorder struct {
	command string
	logger  *logrus.Logger
}

// NewRecorder builds a Recorder from the configured record command, or nil
// when recording is not configured.
func NewRecorder(command string, logger *logrus.Logger) Recorder {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &CommandRecorder{command: command, logger: logger}
}

func (r *CommandRecorder) Record(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "fluentcli-rec-*")
	if err != nil {
		return "", fmt.Errorf("create recording dir: %w", err)
	}
	file := filepath.Join(dir, "turn.wav")

	line := strings.ReplaceAll(r.command, "{file}", shellQuote(file))
	cmd := exec.CommandContext(ctx, "sh", "-c", line)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("record command: %w", err)
	}
	if _, err := os.Stat(file); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("record command produced no file: %w", err)
	}
	r.logger.WithField("file", file).Debug("voice turn recorded")
	return file, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
