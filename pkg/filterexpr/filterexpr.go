// Package filterexpr compiles CEL filter expressions into in-memory word
// predicates, so list commands can narrow output with the same expression
// syntax the platform uses for server-side filters.
package filterexpr

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/eslsoft/fluentcli/internal/entity"
)

// Predicate reports whether a word matches a compiled filter.
type Predicate func(entity.Word) bool

// Compile parses and type-checks a filter expression against the word
// schema. Available fields: word, word_type, definition, status (all
// strings) and due (bool, true when the next review date has passed).
// An empty expression compiles to a match-all predicate.
func Compile(expr string) (Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return func(entity.Word) bool { return true }, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("word", cel.StringType),
		cel.Variable("word_type", cel.StringType),
		cel.Variable("definition", cel.StringType),
		cel.Variable("status", cel.StringType),
		cel.Variable("due", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("build filter env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter must evaluate to a boolean, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	return func(w entity.Word) bool {
		out, _, err := program.Eval(activation(w))
		if err != nil {
			return false
		}
		match, ok := out.Value().(bool)
		return ok && match
	}, nil
}

// Apply returns the words matching the predicate, preserving order.
func Apply(words []entity.Word, pred Predicate) []entity.Word {
	if pred == nil {
		return words
	}
	matched := make([]entity.Word, 0, len(words))
	for _, w := range words {
		if pred(w) {
			matched = append(matched, w)
		}
	}
	return matched
}

func activation(w entity.Word) map[string]any {
	return map[string]any{
		"word":       w.Word,
		"word_type":  w.WordType,
		"definition": w.Definition,
		"status":     string(w.Status),
		"due":        isDue(w.NextReviewDate),
	}
}

// isDue parses the server's review date. An absent or unparseable date
// counts as due, matching the review queue's own behavior for new words.
func isDue(date string) bool {
	if date == "" {
		return true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, date); err == nil {
			return !t.After(time.Now())
		}
	}
	return true
}
