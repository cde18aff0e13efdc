package testutil

import (
	"context"
	"fmt"

	"todo/internal/prompt"
)

// Answer is one scripted prompt response.
type Answer struct {
	Value     string
	Cancelled bool
}

// Reply answers with a value.
func Reply(v string) Answer { return Answer{Value: v} }

// Cancel answers by cancelling.
func Cancel() Answer { return Answer{Cancelled: true} }

// ScriptedPrompter answers prompts from a fixed script and records what it was asked.
type ScriptedPrompter struct {
	Answers []Answer

	// Asked records "label=initial" for each prompt.
	Asked []string
}

// Prompt implements prompt.Prompter.
func (p *ScriptedPrompter) Prompt(ctx context.Context, label, initial string) (string, error) {
	p.Asked = append(p.Asked, label+"="+initial)
	if len(p.Answers) == 0 {
		return "", fmt.Errorf("unexpected prompt: %s", label)
	}
	a := p.Answers[0]
	p.Answers = p.Answers[1:]
	if a.Cancelled {
		return "", prompt.ErrCancelled
	}
	return a.Value, nil
}
