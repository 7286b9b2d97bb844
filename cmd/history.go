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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/fluentcli/internal/usecase"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved conversation sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := sessionContext()
		defer cancel()

		sessions, err := c.Conversation.ListHistory(ctx)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No saved sessions.")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%-38s %-10s %-14s %s\n", s.ID, s.Mode, s.Level, s.Topic)
		}
		return nil
	},
}

// historyShowCmd represents the history show command
var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Replay a saved session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := sessionContext()
		defer cancel()

		conv := usecase.NewConversation(c.Conversation, c.Speaker, c.Logger)
		if err := conv.LoadHistory(ctx, args[0]); err != nil {
			return err
		}

		fmt.Printf("%s — %s (%s)\n\n", conv.Topic(), conv.Mode(), conv.Level())
		for _, m := range conv.Messages() {
			printMessage(m)
		}

		if again, _ := cmd.Flags().GetBool("practice-again"); again {
			fmt.Println("\nStarting a fresh session with the same setup...")
			if err := conv.PracticeAgain(ctx); err != nil {
				return err
			}
			return runTalkLoop(ctx, c, conv)
		}
		return nil
	},
}

// historyDeleteCmd represents the history delete command
var historyDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newContainer()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := sessionContext()
		defer cancel()

		if err := c.Conversation.DeleteHistory(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyShowCmd.Flags().Bool("practice-again", false, "start a new session with the same topic and level")
}
