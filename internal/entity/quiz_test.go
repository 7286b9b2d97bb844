package entity

import (
	"errors"
	"testing"
)

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		name     string
		question SmartQuestion
		answer   string
		want     bool
		wantErr  error
	}{
		{
			name:     "mc verbatim match",
			question: SmartQuestion{Kind: QuestionMCWordToDef, CorrectAnswer: "present everywhere"},
			answer:   "present everywhere",
			want:     true,
		},
		{
			name:     "mc case mismatch is wrong",
			question: SmartQuestion{Kind: QuestionMCContextToWord, CorrectAnswer: "ephemeral"},
			answer:   "Ephemeral",
			want:     false,
		},
		{
			name:     "typed recall ignores case and whitespace",
			question: SmartQuestion{Kind: QuestionTypeDefToWord, CorrectAnswer: "candid"},
			answer:   "  Candid ",
			want:     true,
		},
		{
			name:     "typed recall wrong word",
			question: SmartQuestion{Kind: QuestionTypeDefToWord, CorrectAnswer: "candid"},
			answer:   "canded",
			want:     false,
		},
		{
			name:     "unknown kind",
			question: SmartQuestion{Kind: "MATCHING", CorrectAnswer: "x"},
			answer:   "x",
			wantErr:  ErrUnknownQuestion,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.question.CheckAnswer(tt.answer)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CheckAnswer() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CheckAnswer() = %v, want %v", got, tt.want)
			}
		})
	}
}
