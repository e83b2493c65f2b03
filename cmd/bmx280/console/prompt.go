package console

import (
	"slices"
	"strings"

	"github.com/chzyer/readline"
)

const (
	Yes = "y"
	No  = "n"
)

// Confirm asks a yes/no question defaulting to no. Any read error counts as no.
func Confirm(question string) bool {
	answer, err := Prompt(question, No, Yes)
	return err == nil && answer == Yes
}

// Prompt reads one line. With choices, the answer is normalized to one of them and the
// first choice is returned for empty or unknown input.
func Prompt(question string, choices ...string) (string, error) {
	if len(choices) > 0 {
		others := strings.Join(choices[1:], "/")
		question = question + " [" + strings.ToUpper(choices[0]) + "/" + others + "]: "
	}
	rl, err := readline.New(question)
	if err != nil {
		return "", err
	}
	defer func() { _ = rl.Close() }()
	response, err := rl.Readline()
	if err != nil {
		return "", err
	}
	if len(choices) == 0 {
		return response, nil
	}
	normalized := strings.ToLower(strings.TrimSpace(response))
	if slices.Contains(choices, normalized) {
		return normalized, nil
	}
	return choices[0], nil
}
