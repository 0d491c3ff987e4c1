package cli

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/blobkeeper/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(stdin), &out, io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	quietTerminal(t)

	fw := &fakeWalrus{blobs: map[string][]byte{}}
	srv := httptest.NewServer(fw)
	t.Cleanup(srv.Close)

	common := []string{"--publisher", srv.URL, "--aggregator", srv.URL, "--wallet", "0xabc", "--download-dir", t.TempDir()}

	out, err := runRoot(t, "", append([]string{"put", writeImage(t, "cat.png", 4)}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Blob ID: blobA")

	out, err = runRoot(t, "", append([]string{"url", "blobA"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, srv.URL+"/v1/blobs/blobA")

	out, err = runRoot(t, "", append([]string{"get", "blobA"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "blobA.bin")

	out, err = runRoot(t, "", append([]string{"details", "0x01020304050607"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "0102030405060")
	assert.Contains(t, out, "differs")
}

func TestRootCommand_PutRaw(t *testing.T) {
	quietTerminal(t)

	fw := &fakeWalrus{blobs: map[string][]byte{}}
	srv := httptest.NewServer(fw)
	t.Cleanup(srv.Close)
	common := []string{"--publisher", srv.URL, "--aggregator", srv.URL}
	path := writeImage(t, "cat.png", 4)

	out, err := runRoot(t, "", append([]string{"put", "--raw", "--content-type", "image/x-demo", path}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, srv.URL+"/v1/blobs/blobA")
	assert.Equal(t, "image/x-demo", fw.contentType())

	_, err = runRoot(t, "", append([]string{"put", "--content-type", "image/png", path}, common...)...)
	assert.ErrorContains(t, err, "--content-type requires --raw")
}

func TestRootCommand_DefaultsToREPL(t *testing.T) {
	quietTerminal(t)

	fw := &fakeWalrus{blobs: map[string][]byte{}}
	srv := httptest.NewServer(fw)
	t.Cleanup(srv.Close)

	stdin := strings.Join([]string{
		"select " + writeImage(t, "cat.png", 4),
		"upload",
		"use",
		"retrieve",
		"exit",
	}, "\n")

	out, err := runRoot(t, stdin, "--publisher", srv.URL, "--aggregator", srv.URL, "-w", "0xabc")
	require.NoError(t, err)
	assert.Contains(t, out, "Selected cat.png")
	assert.Contains(t, out, "Blob ID: blobA")
	assert.Contains(t, out, srv.URL+"/v1/blobs/blobA")
}

func TestRootCommand_ConfigErrors(t *testing.T) {
	quietTerminal(t)

	_, err := runRoot(t, "", "url", "x", "--threshold", "9")
	assert.ErrorIs(t, err, config.ErrInvalidThreshold)

	_, err = runRoot(t, "", "url")
	assert.Error(t, err)

	_, err = runRoot(t, "", "put", "/nonexistent.png", "--wallet", "0xabc")
	assert.Error(t, err)
}
