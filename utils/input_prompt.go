package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/meysamhadeli/aboutwriter/constants/lipgloss"
)

// ConfirmPrompt writes a yes/no question to w and reports whether the answer
// read from reader was yes. An empty answer or end of input counts as no.
func ConfirmPrompt(w io.Writer, reader *bufio.Reader, question string) (bool, error) {
	fmt.Fprint(w, lipgloss.BlueSky.Render(question+" (y/N): "))

	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("error reading input: %w", err)
	}
	return isYes(answer), nil
}

// ConfirmPromptWithContext is ConfirmPrompt with cancellation support.
func ConfirmPromptWithContext(ctx context.Context, w io.Writer, reader *bufio.Reader, question string) (bool, error) {
	type answer struct {
		yes bool
		err error
	}
	answerChan := make(chan answer, 1)

	go func() {
		yes, err := ConfirmPrompt(w, reader, question)
		answerChan <- answer{yes, err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(w)
		return false, ctx.Err()
	case a := <-answerChan:
		return a.yes, a.err
	}
}

func isYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
