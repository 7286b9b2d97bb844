package entity

import "strings"

// Mode selects between scripted roleplay and open topic conversation.
type Mode string

const (
	ModeScenario Mode = "scenario"
	ModeFree     Mode = "free"
)

// ParseMode converts an arbitrary string into a supported Mode value.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scenario":
		return ModeScenario
	case "free":
		return ModeFree
	default:
		return ModeScenario
	}
}

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// MessageType classifies transcript entries beyond their author.
type MessageType string

const (
	MessageTypeGreeting   MessageType = "greeting"
	MessageTypeReply      MessageType = "reply"
	MessageTypeFeedback   MessageType = "feedback"
	MessageTypeSummary    MessageType = "summary"
	MessageTypeAudioInput MessageType = "audio_input"
	MessageTypeUserInput  MessageType = "user_input"
)

// MessageMetadata carries per-turn evaluation scores the backend attaches to
// feedback and summary messages. All fields are optional.
type MessageMetadata struct {
	GrammarScore       *float64 `json:"grammar_score,omitempty"`
	PronunciationScore *float64 `json:"pronunciation_score,omitempty"`
	FluencyScore       *float64 `json:"fluency_score,omitempty"`
	Tips               string   `json:"tips,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
	DetectedErrors     []string `json:"detected_errors,omitempty"`
	Evaluation         string   `json:"evaluation,omitempty"`
}

// DisplayMessage is one entry of the conversation transcript. The transcript
// is append-only; the single exception is an audio_input placeholder whose
// Text is replaced in place once the server returns the transcription.
type DisplayMessage struct {
	Role      Role             `json:"role"`
	Text      string           `json:"text"`
	Type      MessageType      `json:"type,omitempty"`
	AudioPath string           `json:"audio_path,omitempty"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// Scenario is a scripted roleplay offered for a topic/level pairing.
type Scenario struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PendingStep buffers the next scripted AI turn in scenario mode until the
// user explicitly continues. At most one exists per session.
type PendingStep struct {
	AIReply        DisplayMessage
	NextSuggestion string
}

// HistorySession is a saved conversation listed by the history endpoint.
type HistorySession struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Topic     string `json:"topic"`
	Mode      Mode   `json:"mode"`
	Level     string `json:"level"`
}

// HistoryDetails is a saved conversation with its full transcript.
type HistoryDetails struct {
	HistorySession
	Scenario *Scenario        `json:"scenario,omitempty"`
	Messages []DisplayMessage `json:"messages"`
}
