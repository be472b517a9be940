package main

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// lineSource reads one line of input at a time, with history
// navigation when the input/output pair is a real terminal. It is a
// scaled-down version of a full raw-mode line editor: cursor
// movement is append-at-end only (no left/right/home/end), which
// covers everything a formula console needs without the bulk of a
// general-purpose editor.
type lineSource struct {
	tty *ttyLines
	sc  *bufio.Scanner
}

func newLineSource(in io.Reader, out io.Writer) *lineSource {
	if tty, ok := newTTYLines(in, out); ok {
		return &lineSource{tty: tty}
	}
	return &lineSource{sc: bufio.NewScanner(in)}
}

func (s *lineSource) Close() {
	if s.tty != nil {
		s.tty.Close()
	}
}

// ReadLine reads one line, printing prompt first. ok is false on EOF
// or interrupt (Ctrl-C/Ctrl-D on an empty line).
func (s *lineSource) ReadLine(prompt string) (line string, ok bool) {
	if s.tty != nil {
		return s.tty.readLine(prompt)
	}
	os.Stdout.WriteString(prompt)
	if !s.sc.Scan() {
		return "", false
	}
	return s.sc.Text(), true
}

type ttyEvent struct {
	b   byte
	err error
}

type ttyLines struct {
	in      *os.File
	out     io.Writer
	state   *term.State
	events  chan ttyEvent
	history []string
}

func newTTYLines(in io.Reader, out io.Writer) (*ttyLines, bool) {
	inFile, ok := in.(*os.File)
	if !ok {
		return nil, false
	}
	outFile, ok := out.(*os.File)
	if !ok {
		return nil, false
	}
	if !term.IsTerminal(int(inFile.Fd())) || !term.IsTerminal(int(outFile.Fd())) {
		return nil, false
	}
	state, err := term.MakeRaw(int(inFile.Fd()))
	if err != nil {
		return nil, false
	}

	t := &ttyLines{in: inFile, out: out, state: state, events: make(chan ttyEvent, 128)}
	go t.readBytes()
	return t, true
}

func (t *ttyLines) Close() {
	if t == nil || t.state == nil {
		return
	}
	_ = term.Restore(int(t.in.Fd()), t.state)
}

func (t *ttyLines) readBytes() {
	defer close(t.events)
	buf := make([]byte, 1)
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			t.events <- ttyEvent{b: buf[0]}
		}
		if err != nil {
			t.events <- ttyEvent{err: err}
			return
		}
	}
}

func (t *ttyLines) readLine(prompt string) (string, bool) {
	line := make([]byte, 0, 64)
	historyIndex := len(t.history)
	io.WriteString(t.out, prompt)

	for ev := range t.events {
		if ev.err != nil {
			return "", false
		}
		switch ev.b {
		case '\r', '\n':
			io.WriteString(t.out, "\r\n")
			entered := string(line)
			t.appendHistory(entered)
			return entered, true
		case 0x03: // Ctrl+C
			io.WriteString(t.out, "^C\r\n")
			return "", false
		case 0x04: // Ctrl+D
			if len(line) == 0 {
				io.WriteString(t.out, "\r\n")
				return "", false
			}
		case 0x7f, 0x08: // Backspace
			if len(line) > 0 {
				line = line[:len(line)-1]
				t.redraw(prompt, line)
			}
		case 0x1b: // Escape sequence: only up/down history is handled
			next, ok := t.readByte()
			if !ok || next != '[' {
				continue
			}
			code, ok := t.readByte()
			if !ok {
				continue
			}
			switch code {
			case 'A': // Up
				if len(t.history) == 0 {
					continue
				}
				if historyIndex > 0 {
					historyIndex--
				}
				line = []byte(t.history[historyIndex])
				t.redraw(prompt, line)
			case 'B': // Down
				if historyIndex < len(t.history)-1 {
					historyIndex++
					line = []byte(t.history[historyIndex])
				} else {
					historyIndex = len(t.history)
					line = line[:0]
				}
				t.redraw(prompt, line)
			}
		default:
			if ev.b >= 0x20 || ev.b == '\t' {
				line = append(line, ev.b)
				t.redraw(prompt, line)
			}
		}
	}
	return "", false
}

func (t *ttyLines) readByte() (byte, bool) {
	ev, ok := <-t.events
	if !ok || ev.err != nil {
		return 0, false
	}
	return ev.b, true
}

func (t *ttyLines) redraw(prompt string, line []byte) {
	io.WriteString(t.out, "\r"+prompt+string(line)+"\x1b[K")
}

func (t *ttyLines) appendHistory(line string) {
	if line == "" {
		return
	}
	if n := len(t.history); n > 0 && t.history[n-1] == line {
		return
	}
	t.history = append(t.history, line)
}
