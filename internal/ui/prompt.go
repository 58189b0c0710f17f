package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParameterSource supplies curation parameters outside the TUI, for plain
// terminal sessions and tests.
type ParameterSource interface {
	// Prompt asks one question and returns the answer, or the fallback when
	// the answer is blank.
	Prompt(label, fallback string) (string, error)
}

// StdinSource implements [ParameterSource] with line-based prompts.
type StdinSource struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewStdinSource creates a prompt source reading from in and writing
// questions to out.
func NewStdinSource(in io.Reader, out io.Writer) *StdinSource {
	return &StdinSource{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// Prompt writes the label and reads one line. EOF with no input returns the
// fallback.
func (s *StdinSource) Prompt(label, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(s.writer, "%s [%s]: ", label, fallback)
	} else {
		fmt.Fprintf(s.writer, "%s: ", label)
	}

	line, err := s.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}
