/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/fluentcli/internal/app"
	"github.com/eslsoft/fluentcli/internal/entity"
	"github.com/eslsoft/fluentcli/internal/usecase"
)

// talkCmd represents the talk command
var talkCmd = &cobra.Command{
	Use:   "talk",
	Short: "Practice a conversation (scenario roleplay or free talk)",
	Long: `Start a conversation session. --topic opens a free-talk session where
typed messages get AI feedback and replies; --scenario starts a scripted
voice roleplay. Inside the session:

  /voice <file>   send a recorded audio turn
  /record         capture a turn with the configured record command
  /continue       reveal the next scripted turn (scenario mode)
  /finish         request the session summary and exit
  /quit           exit without a summary

anything else is sent as a typed message (free talk only).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := sessionContext()
		defer cancel()

		topic, _ := cmd.Flags().GetString("topic")
		scenarioID, _ := cmd.Flags().GetString("scenario")
		level := levelFor(cmd, c)

		if list, _ := cmd.Flags().GetBool("list-scenarios"); list {
			return printScenarios(ctx, c, topic, level)
		}

		var scenario *entity.Scenario
		if scenarioID != "" {
			if scenario, err = findScenario(ctx, c, scenarioID, topic, level); err != nil {
				return err
			}
		} else if topic == "" {
			return errors.New("either --topic or --scenario is required")
		}

		conv := usecase.NewConversation(c.Conversation, c.Speaker, c.Logger)
		if err := conv.Start(ctx, scenario, topic, level); err != nil {
			return err
		}
		return runTalkLoop(ctx, c, conv)
	},
}

func printScenarios(ctx context.Context, c *app.Container, topic, level string) error {
	scenarios, err := c.Conversation.ListScenarios(ctx, topic, level)
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		fmt.Println("No scenarios available.")
		return nil
	}
	for _, s := range scenarios {
		fmt.Printf("%-12s %s\n", s.ID, s.Title)
	}
	return nil
}

func findScenario(ctx context.Context, c *app.Container, id, topic, level string) (*entity.Scenario, error) {
	scenarios, err := c.Conversation.ListScenarios(ctx, topic, level)
	if err != nil {
		return nil, err
	}
	for i := range scenarios {
		if scenarios[i].ID == id {
			return &scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found (try --list-scenarios)", id)
}

func runTalkLoop(ctx context.Context, c *app.Container, conv *usecase.Conversation) error {
	reader := stdinReader()
	printed := printTranscript(conv, 0)

	for {
		if conv.State() == usecase.ConversationComplete && !conv.HasSummary() {
			fmt.Println("\nScenario complete. /finish for a summary, /quit to exit.")
		}

		line, err := readLine(reader, "> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch {
		case line == "/quit":
			return nil

		case line == "/finish":
			if err := conv.Finish(ctx); err != nil {
				fmt.Printf("summary failed: %v\n", err)
				continue
			}
			printTranscript(conv, printed)
			return nil

		case line == "/continue":
			conv.ContinueScenario(ctx)
			printed = printTranscript(conv, printed)

		case line == "/record":
			if c.Recorder == nil {
				fmt.Println("no record command configured (speech.record_command)")
				continue
			}
			file, err := c.Recorder.Record(ctx)
			if err != nil {
				fmt.Printf("recording failed: %v\n", err)
				continue
			}
			printed = sendVoiceTurn(ctx, conv, file, printed)

		case strings.HasPrefix(line, "/voice "):
			file := strings.TrimSpace(strings.TrimPrefix(line, "/voice "))
			printed = sendVoiceTurn(ctx, conv, file, printed)

		case line == "":
			continue

		default:
			if err := conv.SendText(ctx, line); err != nil {
				fmt.Println(inputHint(err))
				continue
			}
			printed = printTranscript(conv, printed)
		}
	}
}

func sendVoiceTurn(ctx context.Context, conv *usecase.Conversation, file string, printed int) int {
	if err := conv.SendVoice(ctx, file); err != nil {
		fmt.Println(inputHint(err))
		return printed
	}
	next := printTranscript(conv, printed)
	if conv.HasPendingStep() {
		fmt.Println("  (/continue for the next line)")
	}
	return next
}

// printTranscript prints messages appended since the last call and returns
// the new high-water mark.
func printTranscript(conv *usecase.Conversation, from int) int {
	msgs := conv.Messages()
	for _, m := range msgs[from:] {
		printMessage(m)
	}
	if s := conv.Suggestions(); len(s) > 0 {
		fmt.Printf("  (try: %s)\n", s[0])
	}
	return len(msgs)
}

func inputHint(err error) string {
	switch {
	case errors.Is(err, entity.ErrWrongMode):
		return "scenario sessions are voice only: /record or /voice <file>"
	case errors.Is(err, entity.ErrPendingStep):
		return "reveal the buffered reply first: /continue"
	case errors.Is(err, entity.ErrSessionComplete):
		return "session is complete: /finish or /quit"
	case errors.Is(err, entity.ErrSessionReadOnly):
		return "viewing a saved session: practice-again to start fresh"
	default:
		return err.Error()
	}
}

func init() {
	rootCmd.AddCommand(talkCmd)

	talkCmd.Flags().String("topic", "", "free-talk topic")
	talkCmd.Flags().String("scenario", "", "scenario id for scripted roleplay")
	talkCmd.Flags().Bool("list-scenarios", false, "list available scenarios and exit")
}
