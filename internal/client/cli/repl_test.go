package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
}

func (f *fakeExec) record(s string) error { f.calls = append(f.calls, s); return nil }

func (f *fakeExec) Select(_ context.Context, path string) error { return f.record("select " + path) }
func (f *fakeExec) Upload(context.Context) error                { return f.record("upload") }
func (f *fakeExec) Retrieve(_ context.Context, id string) error { return f.record("retrieve " + id) }
func (f *fakeExec) UseUploaded(context.Context) error           { return f.record("use") }
func (f *fakeExec) Status(context.Context) error                { return f.record("status") }
func (f *fakeExec) WhoAmI(context.Context) error                { return f.record("whoami") }
func (f *fakeExec) Connect(_ context.Context, a string) error   { return f.record("connect " + a) }
func (f *fakeExec) Disconnect(context.Context) error            { return f.record("disconnect") }
func (f *fakeExec) Reset(context.Context) error                 { return f.record("reset") }

func TestRunREPL_Dispatch(t *testing.T) {
	var buf bytes.Buffer

	input := strings.NewReader(strings.Join([]string{
		"help",
		"select /tmp/my cat.png",
		"",
		"upload",
		"use",
		"retrieve",
		"retrieve   abc  ",
		"status",
		"whoami",
		"connect",
		"connect 0xabc",
		"disconnect",
		"reset",
		"foobar",
		"exit",
		"upload",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, &buf, func() string { return "status" }, bufio.NewScanner(input), false)

	assert.Equal(t, []string{
		"select /tmp/my cat.png",
		"upload",
		"use",
		"retrieve ",
		"retrieve abc",
		"status",
		"whoami",
		"connect 0xabc",
		"disconnect",
		"reset",
	}, exec.calls)

	out := buf.String()
	assert.Contains(t, out, "Available commands")
	assert.Contains(t, out, "Usage: connect <address>")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "Bye!")
	assert.NotContains(t, out, "bk status>")
}

func TestRunREPL_PromptWhenInteractive(t *testing.T) {
	var buf bytes.Buffer

	runREPL(context.Background(), &fakeExec{}, &buf, func() string { return "(0xabc)" }, bufio.NewScanner(strings.NewReader("quit\n")), true)

	assert.Equal(t, "bk (0xabc)> Bye!\n", buf.String())
}

func TestRunREPL_EOF(t *testing.T) {
	exec := &fakeExec{}

	runREPL(context.Background(), exec, io.Discard, func() string { return "" }, bufio.NewScanner(strings.NewReader("status")), false)

	assert.Equal(t, []string{"status"}, exec.calls)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type blockingReader struct{ ch chan struct{} }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.ch
	return 0, nil
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	var buf syncBuffer
	ctx, cancel := context.WithCancel(context.Background())

	r := blockingReader{ch: make(chan struct{})}
	t.Cleanup(func() { close(r.ch) })

	done := make(chan struct{})
	go func() {
		runREPL(ctx, &fakeExec{}, &buf, func() string { return "" }, bufio.NewScanner(r), false)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("REPL did not stop after cancel")
	}
	assert.Equal(t, "Bye!\n", buf.String())
}

func TestApp_RootWritesToAppOutput(t *testing.T) {
	app, _, out, _ := newTestApp(t)

	app.Root(context.Background(), strings.NewReader("help\nselect\nbogus\nexit\n"))

	got := out.String()
	assert.Contains(t, got, "Available commands")
	assert.Contains(t, got, "Usage: select <path>")
	assert.Contains(t, got, "Unknown command: bogus")
	assert.Contains(t, got, "Bye!")
}
