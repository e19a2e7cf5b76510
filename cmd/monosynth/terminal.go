package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// terminal reads single key presses from stdin, in raw mode when stdin is a
// terminal.
type terminal struct {
	in       *os.File
	out      io.Writer
	fd       int
	oldState *term.State
}

func openTerminal(in *os.File, out io.Writer) (*terminal, error) {
	t := &terminal{in: in, out: out, fd: int(in.Fd())}
	if !term.IsTerminal(t.fd) {
		return t, nil
	}

	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}
	t.oldState = oldState
	return t, nil
}

// keys delivers each byte read until stdin closes.
func (t *terminal) keys() <-chan byte {
	ch := make(chan byte)
	go func() {
		defer close(ch)
		buf := make([]byte, 1)
		for {
			n, err := t.in.Read(buf)
			if n > 0 {
				ch <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// println writes a status line. Raw mode needs an explicit carriage return.
func (t *terminal) println(s string) {
	if t.oldState != nil {
		fmt.Fprintf(t.out, "%s\r\n", s)
		return
	}
	fmt.Fprintln(t.out, s)
}

func (t *terminal) restore() {
	if t.oldState != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}
