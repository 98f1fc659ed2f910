package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadLineTrimsAndReportsEOF(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("  alice \n\n42"), &out)

	for _, want := range []string{"alice", "", "42"} {
		got, err := c.ReadLine()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}

	got, err := c.ReadLine()
	if !IsEOF(err) || got != "" {
		t.Fatalf("expected EOF, got %q %v", got, err)
	}
}

func TestPromptWritesMessage(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("bob\n"), &out)

	got, err := c.Prompt("Enter your name: ")
	if err != nil || got != "bob" {
		t.Fatalf("unexpected prompt result %q %v", got, err)
	}
	if out.String() != "Enter your name: " {
		t.Fatalf("unexpected output %q", out.String())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReadLineWrapsReaderErrors(t *testing.T) {
	c := New(failingReader{}, &bytes.Buffer{})
	_, err := c.ReadLine()
	if err == nil || IsEOF(err) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}
