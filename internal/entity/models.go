package entity

import (
	"time"
)

// TurnRole identifies the author of a chat history entry.
type TurnRole string

const (
	RoleBot  TurnRole = "bot"
	RoleUser TurnRole = "user"
)

// ChatTurn is a single entry of the consultation transcript.
// History is append-only and chronological.
type ChatTurn struct {
	Role TurnRole `json:"role"`
	Text string   `json:"text"`
}

// StructuredQuestion is one multiple-choice follow-up question as parsed
// from the generator output. Options are keyed "A".."D"; a model may omit
// trailing options.
type StructuredQuestion struct {
	Question string `json:"Question"`
	A        string `json:"A,omitempty"`
	B        string `json:"B,omitempty"`
	C        string `json:"C,omitempty"`
	D        string `json:"D,omitempty"`
}

// OptionKeys is the fixed presentation order of option keys.
var OptionKeys = []string{"A", "B", "C", "D"}

// Options returns the non-empty options keyed by letter.
func (q *StructuredQuestion) Options() map[string]string {
	opts := make(map[string]string, 4)
	for key, value := range map[string]string{"A": q.A, "B": q.B, "C": q.C, "D": q.D} {
		if value != "" {
			opts[key] = value
		}
	}
	return opts
}

// Consultation is the server-side record of one patient's ongoing
// pre-diagnosis session. It lives only in the in-memory store; the record
// is mutated exclusively by its owning connection loop.
type Consultation struct {
	ID       string   `json:"session_id"`
	Name     string   `json:"name"`
	Age      int      `json:"age"`
	Gender   string   `json:"gender"`
	Symptoms []string `json:"symptoms"`

	ChatHistory   []ChatTurn        `json:"chat_history"`
	QuestionCount int               `json:"question_count"`
	LastOptions   map[string]string `json:"last_options,omitempty"`
	Ready         bool              `json:"ready_for_diagnosis"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so readers never share slices or maps with the
// owning connection's working record.
func (c *Consultation) Clone() *Consultation {
	cp := *c
	cp.Symptoms = append([]string(nil), c.Symptoms...)
	cp.ChatHistory = append([]ChatTurn(nil), c.ChatHistory...)
	if c.LastOptions != nil {
		cp.LastOptions = make(map[string]string, len(c.LastOptions))
		for k, v := range c.LastOptions {
			cp.LastOptions[k] = v
		}
	}
	return &cp
}

// AppendBot records a bot question in the transcript.
func (c *Consultation) AppendBot(text string) {
	c.ChatHistory = append(c.ChatHistory, ChatTurn{Role: RoleBot, Text: text})
}

// AppendUser records a patient answer in the transcript.
func (c *Consultation) AppendUser(text string) {
	c.ChatHistory = append(c.ChatHistory, ChatTurn{Role: RoleUser, Text: text})
}
