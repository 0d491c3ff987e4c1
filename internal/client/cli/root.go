package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/blobkeeper/internal/client/config"
	"github.com/dmitrijs2005/blobkeeper/internal/identity"
	"github.com/spf13/cobra"
)

// Root runs the interactive REPL until the user exits or ctx is canceled.
func (a *App) Root(ctx context.Context, in io.Reader) {
	interactive := isTerminal()
	if interactive {
		fmt.Fprintln(a.out, "Welcome to blobkeeper (type 'help' for commands)")
	}
	runREPL(ctx, a, a.out, a.getStatus, bufio.NewScanner(in), interactive)
}

func (a *App) getStatus() string {
	s := a.ctrl.Snapshot()
	status := "(not connected)"
	if addr, ok := a.ident.CurrentAddress(); ok {
		status = "(" + identity.Short(addr) + ")"
	}
	if s.FileName != "" {
		status += " [" + s.FileName + "]"
	}
	return status
}

// NewRootCommand builds the blobkeeper command tree. Without a subcommand
// the REPL is started.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "blobkeeper",
		Short:         "Encrypt images and store them on Walrus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := config.RegisterFlags(root.PersistentFlags())

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig(flags)
		if err != nil {
			return err
		}
		app, err = NewApp(cmd.Context(), cfg, in, out, errOut)
		return err
	}

	repl := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.Root(cmd.Context(), in)
			return nil
		},
	}
	root.RunE = repl.RunE
	root.Args = cobra.NoArgs

	var (
		putRaw      bool
		contentType string
	)
	put := &cobra.Command{
		Use:   "put <file>",
		Short: "Encrypt an image and upload it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if putRaw {
				return app.PutRaw(cmd.Context(), args[0], contentType)
			}
			if cmd.Flags().Changed("content-type") {
				return errors.New("--content-type requires --raw")
			}
			return app.Put(cmd.Context(), args[0])
		},
	}
	put.Flags().BoolVar(&putRaw, "raw", false, "upload the file without encryption")
	put.Flags().StringVar(&contentType, "content-type", "", "Content-Type sent with --raw (default: detected type)")

	url := &cobra.Command{
		Use:   "url <blobId>",
		Short: "Print the URL of an encrypted blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Retrieve(cmd.Context(), args[0])
		},
	}

	var getOpts GetOptions
	get := &cobra.Command{
		Use:   "get <blobId>",
		Short: "Download a blob through the decrypt path",
		Long: `Download a blob through the decrypt path. Without --session the
encrypted bytes are saved as-is. With --session a session key is issued and
presented, which fails until policy authorization is available.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Get(cmd.Context(), args[0], getOpts)
		},
	}
	get.Flags().StringVarP(&getOpts.Out, "out", "o", "", "output file (default <download-dir>/<blobId>.bin)")
	get.Flags().StringVar(&getOpts.EncryptionID, "encryption-id", "", "encryption id returned by put")
	get.Flags().BoolVar(&getOpts.WithSession, "session", false, "present a session key")

	details := &cobra.Command{
		Use:   "details <encryptionId>",
		Short: "Show the policy parameters of an encryption id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Details(cmd.Context(), args[0])
		},
	}

	root.AddCommand(repl, put, url, get, details)
	return root
}

// Execute runs the command tree against the process streams.
func Execute(ctx context.Context) error {
	cmd := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
