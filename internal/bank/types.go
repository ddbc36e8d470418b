package bank

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Card is a flashcard entry.
type Card struct {
	ID      string `json:"id"`
	Term    string `json:"term"`
	Hint    string `json:"hint,omitempty"`
	Def     string `json:"def"`
	Analogy string `json:"analogy,omitempty"`
	Rarity  string `json:"rarity,omitempty"`
	Parent  string `json:"parent,omitempty"`
}

// QuestionType identifies how a question is answered.
type QuestionType string

const (
	TypeChoice      QuestionType = "choice"
	TypeFill        QuestionType = "fill"
	TypeShortAnswer QuestionType = "shortAnswer"
)

// AllTypes returns the question types in display order.
func AllTypes() []QuestionType {
	return []QuestionType{TypeChoice, TypeFill, TypeShortAnswer}
}

// DisplayName returns a human-readable label for the type.
func (t QuestionType) DisplayName() string {
	switch t {
	case TypeChoice:
		return "Choice"
	case TypeFill:
		return "Fill-in"
	case TypeShortAnswer:
		return "Short answer"
	default:
		return string(t)
	}
}

// Answer holds either an option index (choice) or accepted texts (fill,
// shortAnswer). In bank files it is an integer, a string or a list of strings.
type Answer struct {
	Index int
	Texts []string
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty answer")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Answer{Texts: []string{s}}
	case '[':
		var ss []string
		if err := json.Unmarshal(data, &ss); err != nil {
			return err
		}
		*a = Answer{Texts: ss}
	default:
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return fmt.Errorf("answer must be an index, a string or a list of strings: %w", err)
		}
		*a = Answer{Index: i}
	}
	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.Texts == nil:
		return json.Marshal(a.Index)
	case len(a.Texts) == 1:
		return json.Marshal(a.Texts[0])
	default:
		return json.Marshal(a.Texts)
	}
}

// Question is a quiz entry.
type Question struct {
	Type        QuestionType `json:"type"`
	Question    string       `json:"question"`
	Answer      Answer       `json:"answer"`
	Options     []string     `json:"options,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	Hint        string       `json:"hint,omitempty"`
}

// ID derives a stable identifier from the question's type and text.
func (q Question) ID() string {
	sum := sha256.Sum256([]byte(string(q.Type) + "\x00" + q.Question))
	return "q-" + hex.EncodeToString(sum[:])[:12]
}

// AnswerText renders the canonical answer for display on the card back.
func (q Question) AnswerText() string {
	switch q.Type {
	case TypeChoice:
		if q.Answer.Index >= 0 && q.Answer.Index < len(q.Options) {
			return q.Options[q.Answer.Index]
		}
		return ""
	case TypeFill:
		return strings.Join(q.Answer.Texts, " / ")
	default:
		if len(q.Answer.Texts) == 0 {
			return ""
		}
		return q.Answer.Texts[0]
	}
}

// OptionLabel returns the letter shown next to option i.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}
