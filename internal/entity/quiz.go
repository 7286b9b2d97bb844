package entity

import "strings"

// QuestionKind selects the rendering and answer-checking mode of a quiz
// question.
type QuestionKind string

const (
	// QuestionMCWordToDef: multiple choice, pick the definition for a word.
	QuestionMCWordToDef QuestionKind = "MC_V2D"
	// QuestionMCContextToWord: multiple choice, fill the blank in a context sentence.
	QuestionMCContextToWord QuestionKind = "MC_C2V"
	// QuestionTypeDefToWord: free-text typed recall of the word for a definition.
	QuestionTypeDefToWord QuestionKind = "TYPE_D2V"
)

// SmartQuestion is one generated quiz question. Options is only populated
// for the multiple-choice kinds.
type SmartQuestion struct {
	Word          string       `json:"word"`
	Kind          QuestionKind `json:"type"`
	QuestionText  string       `json:"questionText"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
}

// CheckAnswer reports whether the given answer is correct for this question.
// Multiple-choice kinds compare the chosen option verbatim; typed recall is
// case-insensitive and ignores surrounding whitespace.
func (q SmartQuestion) CheckAnswer(answer string) (bool, error) {
	switch q.Kind {
	case QuestionMCWordToDef, QuestionMCContextToWord:
		return answer == q.CorrectAnswer, nil
	case QuestionTypeDefToWord:
		return strings.EqualFold(strings.TrimSpace(answer), q.CorrectAnswer), nil
	default:
		return false, ErrUnknownQuestion
	}
}
