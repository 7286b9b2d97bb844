package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eslsoft/fluentcli/internal/app"
	"github.com/eslsoft/fluentcli/internal/entity"
)

// newContainer builds the dependency container shared by every command.
func newContainer() (*app.Container, func(), error) {
	c, cleanup, err := app.Initialize()
	if err != nil {
		return nil, nil, fmt.Errorf("initialize: %w", err)
	}
	return c, cleanup, nil
}

// sessionContext cancels on SIGINT/SIGTERM so an interrupted command aborts
// its in-flight request instead of leaking it.
func sessionContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// levelFor resolves the difficulty level: flag first, then config.
func levelFor(cmd *cobra.Command, c *app.Container) string {
	if level, _ := cmd.Flags().GetString("level"); level != "" {
		return level
	}
	return c.Config.Conversation.Level
}

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// printMessage renders one transcript entry for the terminal.
func printMessage(msg entity.DisplayMessage) {
	switch {
	case msg.Role == entity.RoleUser:
		fmt.Printf("you> %s\n", msg.Text)
	case msg.Type == entity.MessageTypeFeedback:
		fmt.Printf("  feedback: %s\n", msg.Text)
		printMetadata(msg.Metadata)
	case msg.Type == entity.MessageTypeSummary:
		fmt.Printf("\n=== Session summary ===\n%s\n", msg.Text)
		printMetadata(msg.Metadata)
	default:
		fmt.Printf("ai> %s\n", msg.Text)
	}
}

func printMetadata(md *entity.MessageMetadata) {
	if md == nil {
		return
	}
	if md.GrammarScore != nil {
		fmt.Printf("  grammar: %.0f", *md.GrammarScore)
		if md.PronunciationScore != nil {
			fmt.Printf("  pronunciation: %.0f", *md.PronunciationScore)
		}
		if md.FluencyScore != nil {
			fmt.Printf("  fluency: %.0f", *md.FluencyScore)
		}
		fmt.Println()
	}
	if md.Tips != "" {
		fmt.Printf("  tip: %s\n", md.Tips)
	}
	for _, e := range md.DetectedErrors {
		fmt.Printf("  error: %s\n", e)
	}
}

func stdinReader() *bufio.Reader {
	return bufio.NewReader(os.Stdin)
}
