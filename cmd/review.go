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
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eslsoft/fluentcli/internal/entity"
	"github.com/eslsoft/fluentcli/internal/usecase"
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review <deck-id>",
	Short: "Review due flashcards from a deck",
	Long: `Walk the deck's due cards front to back. Enter flips the card; grade
recall with 0 (forgot), 1 (hard), 3 (good) or 5 (easy); q quits. Personal
deck grades feed the spaced-repetition scheduler; --public decks are
practice only and loop until you quit.`,
	Args: cobra.ExactArgs(1),
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

		session := usecase.NewReview(c.Vocabulary, c.Logger, kind, deckID)
		if err := session.Load(ctx); err != nil {
			return err
		}
		if session.State() == usecase.ReviewEmpty {
			fmt.Println("Nothing due. Come back later.")
			return nil
		}

		reader := stdinReader()
		for session.State() == usecase.ReviewActive {
			card := session.Current()
			fmt.Printf("\n[%d/%d] %s", session.Index()+1, session.Len(), card.Word)
			if card.Pronunciation != "" {
				fmt.Printf("  /%s/", card.Pronunciation)
			}
			fmt.Println()

			line, err := readLine(reader, "(enter=flip, 0/1/3/5=grade, q=quit) ")
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}

			switch line {
			case "q":
				return nil
			case "":
				session.Flip()
				if session.Flipped() {
					fmt.Printf("  %s\n", card.Definition)
					if card.ContextSentence != "" {
						fmt.Printf("  e.g. %s\n", card.ContextSentence)
					}
				}
			case "0", "1", "3", "5":
				n, _ := strconv.Atoi(line)
				if err := session.Grade(ctx, entity.ReviewGrade(n)); err != nil {
					fmt.Println(err)
				}
			default:
				fmt.Println("enter to flip, 0/1/3/5 to grade, q to quit")
			}
		}

		fmt.Printf("\nDone — %d cards reviewed.\n", session.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().Bool("public", false, "review a public deck (no progress tracking)")
}
