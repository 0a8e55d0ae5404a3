package state

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PromptChoice is one accepted answer key.
type PromptChoice struct {
	Key   rune
	Label string
}

// Prompt is a question posted by a background job. The job blocks in Wait
// until the loop calls Answer.
type Prompt struct {
	Message string
	Choices []PromptChoice
	// Default is the answer given when the prompt is dismissed.
	Default rune
	reply   chan rune
}

// NewPrompt creates a prompt accepting the given keys. Dismissing it
// answers def.
func NewPrompt(message string, def rune, choices ...PromptChoice) *Prompt {
	return &Prompt{Message: message, Choices: choices, Default: def, reply: make(chan rune, 1)}
}

// Dismiss answers the prompt with its default.
func (p *Prompt) Dismiss() bool {
	return p.Answer(p.Default)
}

// Accepts reports whether key is one of the choices. Matching is exact, so
// 'o' and 'O' can mean different things.
func (p *Prompt) Accepts(key rune) bool {
	for _, c := range p.Choices {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Answer delivers key to the waiting job. It returns false for keys the
// prompt does not accept or when an answer was already given.
func (p *Prompt) Answer(key rune) bool {
	if !p.Accepts(key) {
		return false
	}
	select {
	case p.reply <- key:
		return true
	default:
		return false
	}
}

// Wait blocks until the prompt is answered or ctx ends.
func (p *Prompt) Wait(ctx context.Context) (rune, bool) {
	select {
	case key := <-p.reply:
		return key, true
	case <-ctx.Done():
		return 0, false
	}
}

// Hint renders the choices as "[o]verwrite [r]ename".
func (p *Prompt) Hint() string {
	parts := make([]string, 0, len(p.Choices))
	for _, c := range p.Choices {
		label := c.Label
		if label == "" {
			label = string(c.Key)
		}
		if idx := strings.IndexFunc(label, func(r rune) bool { return unicode.ToLower(r) == unicode.ToLower(c.Key) }); idx >= 0 {
			_, size := utf8.DecodeRuneInString(label[idx:])
			label = label[:idx] + "[" + label[idx:idx+size] + "]" + label[idx+size:]
		} else {
			label = "[" + string(c.Key) + "] " + label
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}
