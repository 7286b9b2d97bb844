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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/fluentcli/internal/entity"
	"github.com/eslsoft/fluentcli/internal/usecase"
)

// quizCmd represents the quiz command
var quizCmd = &cobra.Command{
	Use:   "quiz <deck-id>",
	Short: "Take a vocabulary quiz generated from a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid deck id %q", args[0])
		}

		c, cleanup, err := newContainer()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := sessionContext()
		defer cancel()

		kind := entity.DeckKindUser
		if public, _ := cmd.Flags().GetBool("public"); public {
			kind = entity.DeckKindPublic
		}

		quiz := usecase.NewQuiz(c.Quiz, c.Logger, deckID)
		if err := quiz.Load(ctx, kind); err != nil {
			return err
		}

		reader := stdinReader()
		for {
			if err := runQuizRound(ctx, reader, quiz); err != nil {
				return err
			}

			fmt.Printf("\nScore: %d/%d\n", quiz.Score(), quiz.Total())
			if missed := quiz.MissedWords(); len(missed) > 0 {
				fmt.Printf("Missed: %s\n", strings.Join(missed, ", "))
			}
			quiz.SubmitResult(ctx)

			again, err := readLine(reader, "Play again? (y/N) ")
			if err != nil || !strings.EqualFold(again, "y") {
				return nil
			}
			quiz.Restart()
		}
	},
}

func runQuizRound(ctx context.Context, reader *bufio.Reader, quiz *usecase.Quiz) error {
	for quiz.State() == usecase.QuizActive {
		q := quiz.Current()
		fmt.Printf("\n[%d/%d] %s\n", quiz.Index()+1, quiz.Total(), q.QuestionText)
		for i, opt := range q.Options {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}

		line, err := readLine(reader, "answer: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		answer := line
		// Multiple choice accepts the option number as shorthand.
		if len(q.Options) > 0 {
			if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(q.Options) {
				answer = q.Options[n-1]
			}
		}

		correct, err := quiz.Answer(answer)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if correct {
			fmt.Println("  correct!")
		} else {
			fmt.Printf("  wrong — the answer is %q\n", q.CorrectAnswer)
		}

		// Fixed feedback window, abandoned cleanly on interrupt.
		select {
		case <-time.After(usecase.FeedbackDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
		quiz.Advance()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(quizCmd)

	quizCmd.Flags().Bool("public", false, "quiz a public deck")
}
