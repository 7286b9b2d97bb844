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

	"github.com/eslsoft/fluentcli/pkg/filterexpr"
)

// wordsCmd represents the words command
var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List your vocabulary",
	Long: `List the words the platform has collected from your sessions.
--filter narrows the list with a CEL expression over the fields word,
word_type, definition, status and due, e.g.:

  fluentcli words --filter 'status == "learning" && due'
  fluentcli words --filter 'word.startsWith("ph")'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		pred, err := filterexpr.Compile(filter)
		if err != nil {
			return err
		}

		c, cleanup, err := newContainer()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := sessionContext()
		defer cancel()

		words, err := c.Vocabulary.DashboardWords(ctx)
		if err != nil {
			return err
		}
		words = filterexpr.Apply(words, pred)
		if len(words) == 0 {
			fmt.Println("No words matched.")
			return nil
		}

		for _, w := range words {
			fmt.Printf("%-20s %-10s %-8s %s\n", w.Word, w.WordType, w.Status, w.Definition)
		}
		fmt.Printf("\n%d words\n", len(words))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wordsCmd)

	wordsCmd.Flags().String("filter", "", "CEL filter expression")
}
