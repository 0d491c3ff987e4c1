package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/blobkeeper/internal/blobstore"
	"github.com/dmitrijs2005/blobkeeper/internal/common"
	"github.com/dmitrijs2005/blobkeeper/internal/logging"
	"github.com/dmitrijs2005/blobkeeper/internal/seal"
	"github.com/dmitrijs2005/blobkeeper/internal/session"
	"github.com/dmitrijs2005/blobkeeper/internal/walrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPolicy  = "0xca700b2604763639ba3fbf0237d4f1ab34470ac509d407d34030621b1a254747"
	testPackage = "0xcfedf4e2445497ba1a5d57349d6fc116b194eca41524f46f593c63a7a70a8eab"
)

var testServers = []string{"0x01", "0x02", "0x03", "0x04"}

type memFile struct {
	name string
	data []byte
	err  error
}

func (f *memFile) Name() string             { return f.name }
func (f *memFile) Size() int64              { return int64(len(f.data)) }
func (f *memFile) ReadAll() ([]byte, error) { return f.data, f.err }

type fakeEncryptor struct {
	out []byte
	err error
	got seal.Request
}

func (f *fakeEncryptor) Encrypt(_ context.Context, req seal.Request) ([]byte, error) {
	f.got = req
	return f.out, f.err
}

type fakeCredential struct{ expired bool }

func (f fakeCredential) Subject() string        { return "0xabc" }
func (f fakeCredential) Expired(time.Time) bool { return f.expired }

func testConfig() Config {
	return Config{
		PolicyObjectID: testPolicy,
		PackageID:      testPackage,
		Threshold:      2,
		KeyServers:     testServers,
	}
}

func newGateway(t *testing.T, h http.HandlerFunc, enc seal.Encryptor) (*Gateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	backend := walrus.NewClient(walrus.Config{
		PublisherURL:  srv.URL,
		AggregatorURL: srv.URL,
		Epochs:        5,
		HTTPClient:    srv.Client(),
	})
	return New(backend, enc, testConfig(), logging.Discard()), srv
}

func newlyCreated(blobID, objectID string) string {
	b, _ := json.Marshal(map[string]any{
		"newlyCreated": map[string]any{
			"blobObject": map[string]any{"id": objectID, "blobId": blobID},
		},
	})
	return string(b)
}

func TestStore_NewlyCreated(t *testing.T) {
	enc := &fakeEncryptor{out: []byte("ciphertext")}
	var gotBody []byte
	var gotQuery string
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/v1/blobs", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, newlyCreated("abc", "0xobj"))
	}, enc)

	out := g.Store(context.Background(), &memFile{name: "cat.png", data: []byte("plain")}, "0xowner")

	require.True(t, out.Success, out.Error)
	assert.Equal(t, "abc", out.BlobID)
	assert.Equal(t, "0xobj", out.SuiRef)
	assert.Empty(t, out.Error)
	assert.Equal(t, "epochs=5", gotQuery)
	assert.Equal(t, []byte("ciphertext"), gotBody)

	assert.Equal(t, out.EncryptionID, enc.got.ID)
	assert.Equal(t, 2, enc.got.Threshold)
	assert.Equal(t, testPackage, enc.got.PackageID)
	assert.Equal(t, []byte("plain"), enc.got.Data)

	policy, nonce, err := seal.SplitEncryptionID(out.EncryptionID)
	require.NoError(t, err)
	assert.Len(t, nonce, seal.NonceSize)
	want, _ := seal.DecodeHex(testPolicy)
	assert.Equal(t, want, policy)
}

func TestStore_AlreadyCertified(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"alreadyCertified":{"blobId":"def","event":{"txDigest":"0xtx"}}}`)
	}, &fakeEncryptor{out: []byte("x")})

	out := g.Store(context.Background(), &memFile{name: "a.png", data: []byte("a")}, "0xowner")

	require.True(t, out.Success, out.Error)
	assert.Equal(t, "def", out.BlobID)
	assert.Equal(t, "0xtx", out.SuiRef)
}

func TestStore_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		enc      *fakeEncryptor
		file     File
		owner    string
		contains []string
		noCall   bool
	}{
		{
			name: "publisher 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "server error", http.StatusInternalServerError)
			},
			enc:      &fakeEncryptor{out: []byte("x")},
			file:     &memFile{name: "a.png", data: []byte("a")},
			owner:    "0xowner",
			contains: []string{"500", "server error"},
		},
		{
			name: "unrecognized envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"somethingElse":{}}`)
			},
			enc:      &fakeEncryptor{out: []byte("x")},
			file:     &memFile{name: "a.png", data: []byte("a")},
			owner:    "0xowner",
			contains: []string{"unexpected"},
		},
		{
			name:     "encryptor fails",
			enc:      &fakeEncryptor{err: errors.New("key servers unreachable")},
			file:     &memFile{name: "a.png", data: []byte("a")},
			owner:    "0xowner",
			contains: []string{"key servers unreachable"},
			noCall:   true,
		},
		{
			name:     "nil file",
			enc:      &fakeEncryptor{},
			owner:    "0xowner",
			contains: []string{"no file"},
			noCall:   true,
		},
		{
			name:     "empty owner",
			enc:      &fakeEncryptor{},
			file:     &memFile{name: "a.png", data: []byte("a")},
			contains: []string{"owner"},
			noCall:   true,
		},
		{
			name:     "empty file",
			enc:      &fakeEncryptor{},
			file:     &memFile{name: "a.png"},
			owner:    "0xowner",
			contains: []string{"empty"},
			noCall:   true,
		},
		{
			name:     "read error",
			enc:      &fakeEncryptor{},
			file:     &memFile{name: "a.png", err: errors.New("disk gone")},
			owner:    "0xowner",
			contains: []string{"disk gone"},
			noCall:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				if tt.handler != nil {
					tt.handler(w, r)
				}
			}, tt.enc)

			out := g.Store(context.Background(), tt.file, tt.owner)

			assert.False(t, out.Success)
			assert.Empty(t, out.BlobID)
			assert.Empty(t, out.EncryptionID)
			for _, s := range tt.contains {
				assert.Contains(t, out.Error, s)
			}
			if tt.noCall {
				assert.Zero(t, calls.Load())
			}
		})
	}
}

func TestStore_WithLocalSealer(t *testing.T) {
	sealer, err := seal.NewLocalSealer([]byte("seed"), testServers)
	require.NoError(t, err)

	var stored []byte
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		stored, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, newlyCreated("abc", "0xobj"))
	}, sealer)

	out := g.Store(context.Background(), &memFile{name: "a.png", data: []byte("pixels")}, "0xowner")
	require.True(t, out.Success, out.Error)
	assert.NotContains(t, string(stored), "pixels")

	plain, err := sealer.Open(context.Background(), stored, testServers[:2])
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), plain)
}

func TestStore_EncryptionIDsDiffer(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, newlyCreated("abc", "0xobj"))
	}, &fakeEncryptor{out: []byte("x")})

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		out := g.Store(context.Background(), &memFile{name: "a.png", data: []byte("a")}, "0xowner")
		require.True(t, out.Success)
		require.False(t, seen[out.EncryptionID], "duplicate id %s", out.EncryptionID)
		seen[out.EncryptionID] = true
	}
}

func TestRetrieveURL_IsPure(t *testing.T) {
	var calls atomic.Int32
	g, srv := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, &fakeEncryptor{})

	first := g.RetrieveURL("abc")
	second := g.RetrieveURL("abc")

	assert.Equal(t, srv.URL+"/v1/blobs/abc", first)
	assert.Equal(t, first, second)
	assert.Zero(t, calls.Load())
}

func TestStoreData_SendsContentType(t *testing.T) {
	var gotType string
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, newlyCreated("raw", "0xobj"))
	}, &fakeEncryptor{})

	id, err := g.StoreData(context.Background(), []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "raw", id)
	assert.Equal(t, "image/png", gotType)

	_, err = g.StoreData(context.Background(), nil, "image/png")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRetrieve(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/blobs/abc":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("cipher"))
		default:
			http.Error(w, "blob not found", http.StatusNotFound)
		}
	}, &fakeEncryptor{})

	blob, err := g.Retrieve(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, &blobstore.Blob{Data: []byte("cipher"), ContentType: "application/octet-stream"}, blob)

	_, err = g.Retrieve(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransport)
	assert.Contains(t, err.Error(), "404")

	_, err = g.Retrieve(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRetrieveAndDecrypt(t *testing.T) {
	ciphertext := []byte{0x00, 0x01, 0xfe, 0xff}
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(ciphertext)
	}, &fakeEncryptor{})

	t.Run("no credential returns ciphertext", func(t *testing.T) {
		got, err := g.RetrieveAndDecrypt(context.Background(), "abc", "enc", nil)
		require.NoError(t, err)
		assert.Equal(t, ciphertext, got)
	})

	t.Run("nil session key returns ciphertext", func(t *testing.T) {
		var key *session.Key
		got, err := g.RetrieveAndDecrypt(context.Background(), "abc", "enc", key)
		require.NoError(t, err)
		assert.Equal(t, ciphertext, got)
	})

	t.Run("credential requires authorization", func(t *testing.T) {
		for _, cred := range []session.Credential{fakeCredential{}, fakeCredential{expired: true}} {
			got, err := g.RetrieveAndDecrypt(context.Background(), "abc", "enc", cred)
			assert.Nil(t, got)
			require.ErrorIs(t, err, common.ErrAuthorizationRequired)
			assert.Contains(t, err.Error(), "session key")
		}
	})

	t.Run("real session key is refused", func(t *testing.T) {
		key, err := session.Issue("0xabc", testPackage, time.Minute, []byte("secret"))
		require.NoError(t, err)

		_, err = g.RetrieveAndDecrypt(context.Background(), "abc", "enc", key)
		assert.ErrorIs(t, err, common.ErrAuthorizationRequired)
	})
}

func TestEncryptionDetails(t *testing.T) {
	g := New(walrus.NewClient(walrus.Config{}), &fakeEncryptor{}, testConfig(), logging.Discard())

	d := g.EncryptionDetails("deadbeef")

	assert.Equal(t, EncryptionDetails{
		EncryptionID:   "deadbeef",
		PolicyObjectID: testPolicy,
		PackageID:      testPackage,
		Threshold:      2,
		ServerCount:    4,
	}, d)
}
