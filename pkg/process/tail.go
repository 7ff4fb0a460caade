package process

import (
	"bytes"
	"strings"
)

// tailWriter keeps the last n complete lines written to it. exec.Cmd
// serializes writes when Stdout and Stderr are the same writer.
type tailWriter struct {
	n       int
	lines   []string
	partial bytes.Buffer
}

func newTailWriter(n int) *tailWriter {
	return &tailWriter{n: n}
}

func (t *tailWriter) Write(p []byte) (int, error) {
	written := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			t.partial.Write(p)
			break
		}
		t.partial.Write(p[:i])
		t.push(t.partial.String())
		t.partial.Reset()
		p = p[i+1:]
	}
	return written, nil
}

func (t *tailWriter) push(line string) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.n {
		t.lines = t.lines[len(t.lines)-t.n:]
	}
}

// Lines returns the retained lines, including a trailing unterminated line.
func (t *tailWriter) Lines() []string {
	if t.partial.Len() > 0 {
		t.push(t.partial.String())
		t.partial.Reset()
	}
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}
