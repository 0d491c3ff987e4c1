package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const helpText = `Available commands:
  select <path>      choose an image to upload
  upload             encrypt and upload the selected image
  retrieve [blobId]  show the encrypted blob URL (defaults to the current query)
  use                copy the last uploaded blob id into the retrieval query
  status             show the current state
  whoami             show the connected wallet address
  connect <address>  connect a wallet address
  disconnect         forget the wallet address
  reset              clear the selected file, results and messages
  exit | quit        leave the program`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Select(ctx context.Context, path string) error
	Upload(ctx context.Context) error
	Retrieve(ctx context.Context, blobID string) error
	UseUploaded(ctx context.Context) error
	Status(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Connect(ctx context.Context, address string) error
	Disconnect(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, when ctx is canceled, or
// when the user types "exit" or "quit". Messages and the prompt go to out;
// the prompt, showing statusFn, is printed only when interactive is set.
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, out io.Writer, statusFn func() string, scanner *bufio.Scanner, interactive bool) {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		if interactive {
			fmt.Fprintf(out, "bk %s> ", statusFn())
		}

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Bye!")
			return
		case l, ok := <-lines:
			if !ok {
				return
			}
			line = l
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))

		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)

		case "select":
			_ = a.Select(ctx, arg)

		case "upload":
			_ = a.Upload(ctx)

		case "retrieve":
			_ = a.Retrieve(ctx, arg)

		case "use":
			_ = a.UseUploaded(ctx)

		case "status":
			_ = a.Status(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "connect":
			if arg == "" {
				fmt.Fprintln(out, "Usage: connect <address>")
				continue
			}
			_ = a.Connect(ctx, arg)

		case "disconnect":
			_ = a.Disconnect(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
