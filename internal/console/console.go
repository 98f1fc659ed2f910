// Package console wraps the line-oriented terminal dialogue of a game.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console reads trimmed lines and writes prompts. It is owned by a single game loop.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// New builds a Console reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// ReadLine returns the next line with surrounding whitespace removed.
// At end of input it returns "" and io.EOF.
func (c *Console) ReadLine() (string, error) {
	if c.in.Scan() {
		return strings.TrimSpace(c.in.Text()), nil
	}
	if err := c.in.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return "", io.EOF
}

// Prompt writes msg without a newline and reads the answer.
func (c *Console) Prompt(msg string) (string, error) {
	c.Print(msg)
	return c.ReadLine()
}

// Print writes msg as is.
func (c *Console) Print(msg string) {
	_, _ = io.WriteString(c.out, msg)
}

// Println writes msg followed by a newline.
func (c *Console) Println(msg string) {
	_, _ = io.WriteString(c.out, msg+"\n")
}

// Printf writes a formatted message.
func (c *Console) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// IsEOF reports whether err marks the end of input.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
