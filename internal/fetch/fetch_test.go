package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/toolsync/internal/failure"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func clientWithBody(body string, contentLength int64) *http.Client {
	return &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode:    http.StatusOK,
			Status:        "200 OK",
			ContentLength: contentLength,
			Body:          io.NopCloser(strings.NewReader(body)),
			Request:       req,
		}, nil
	})}
}

func newDest(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dest := filepath.Join(dir, "yt-dlp.exe")
	if content != "" {
		require.NoError(t, os.WriteFile(dest, []byte(content), 0o644))
	}
	return dir, dest
}

func assertOnlyDest(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"yt-dlp.exe"}, names, "staging file must not be left behind")
}

func TestInstallReplacesDestination(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("new binary"))
	}))
	t.Cleanup(server.Close)
	dir, dest := newDest(t, "old binary")

	f := New(WithHTTPClient(server.Client()), WithUserAgent("toolsync/test"))
	require.NoError(t, f.Install(context.Background(), server.URL+"/yt-dlp.exe", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new binary", string(data))
	assert.Equal(t, "toolsync/test", gotUA)
	assertOnlyDest(t, dir)
}

func TestInstallCreatesMissingDestination(t *testing.T) {
	dir, dest := newDest(t, "")

	f := New(WithHTTPClient(clientWithBody("fresh", 5)))
	require.NoError(t, f.Install(context.Background(), "https://example.test/a", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
	assertOnlyDest(t, dir)
}

func TestInstallFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/latest/download/yt-dlp.exe", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/objects/abc", http.StatusFound)
	})
	mux.HandleFunc("/objects/abc", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("redirected"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	_, dest := newDest(t, "")

	f := New(WithHTTPClient(server.Client()))
	require.NoError(t, f.Install(context.Background(), server.URL+"/latest/download/yt-dlp.exe", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "redirected", string(data))
}

func TestInstallSizeMismatchLeavesDestination(t *testing.T) {
	dir, dest := newDest(t, "old binary")

	f := New(WithHTTPClient(clientWithBody("short", 100)))
	err := f.Install(context.Background(), "https://example.test/a", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrSizeMismatch)

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "old binary", string(data))
	assertOnlyDest(t, dir)
}

func TestInstallTruncatedConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write([]byte("partial"))
	}))
	t.Cleanup(server.Close)
	dir, dest := newDest(t, "old binary")

	f := New(WithHTTPClient(server.Client()))
	err := f.Install(context.Background(), server.URL, dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrSizeMismatch)

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "old binary", string(data))
	assertOnlyDest(t, dir)
}

func TestInstallEmptyBody(t *testing.T) {
	dir, dest := newDest(t, "old binary")

	f := New(WithHTTPClient(clientWithBody("", -1)))
	err := f.Install(context.Background(), "https://example.test/a", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrSizeMismatch)
	assertOnlyDest(t, dir)
}

func TestInstallUnknownLengthAccepted(t *testing.T) {
	_, dest := newDest(t, "")

	f := New(WithHTTPClient(clientWithBody("streamed", -1)))
	require.NoError(t, f.Install(context.Background(), "https://example.test/a", dest))
}

func TestInstallTooLarge(t *testing.T) {
	dir, dest := newDest(t, "old")

	f := New(WithHTTPClient(clientWithBody("0123456789", -1)), WithMaxBytes(4))
	err := f.Install(context.Background(), "https://example.test/a", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrSizeMismatch)
	assertOnlyDest(t, dir)
}

func TestInstallNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	t.Cleanup(server.Close)
	dir, dest := newDest(t, "old")

	err := New(WithHTTPClient(server.Client())).Install(context.Background(), server.URL, dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrNetwork)

	var fe *failure.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.Code)
	assertOnlyDest(t, dir)
}

func TestInstallTransportError(t *testing.T) {
	dir, dest := newDest(t, "old")
	client := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset")
	})}

	err := New(WithHTTPClient(client)).Install(context.Background(), "https://example.test/a", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrNetwork)
	assertOnlyDest(t, dir)
}

func TestInstallVerifierRejects(t *testing.T) {
	dir, dest := newDest(t, "old")
	var staged string
	reject := func(path string) error {
		staged = path
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
		return failure.New(failure.KindSecurity, "verify", path, errors.New("bad signature"))
	}

	err := New(WithHTTPClient(clientWithBody("payload", 7))).Install(context.Background(), "https://example.test/a", dest, reject)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrSecurity)
	assert.Equal(t, dir, filepath.Dir(staged), "staging file is a sibling of the destination")
	assert.NotEqual(t, dest, staged)

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(data))
	assertOnlyDest(t, dir)
}

func TestInstallReplaceFailure(t *testing.T) {
	orig := replaceFunc
	replaceFunc = func(string, string) error { return os.ErrPermission }
	t.Cleanup(func() { replaceFunc = orig })
	dir, dest := newDest(t, "old")

	err := New(WithHTTPClient(clientWithBody("new", 3))).Install(context.Background(), "https://example.test/a", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrFilesystem)
	assert.ErrorIs(t, err, os.ErrPermission)

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(data))
	assertOnlyDest(t, dir)
}

func TestInstallStagingCreateFailure(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "yt-dlp.exe")

	err := New(WithHTTPClient(clientWithBody("new", 3))).Install(context.Background(), "https://example.test/a", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrFilesystem)
}

func TestInstallChmodFailure(t *testing.T) {
	orig := osChmod
	osChmod = func(string, os.FileMode) error { return os.ErrPermission }
	t.Cleanup(func() { osChmod = orig })
	dir, dest := newDest(t, "old")

	err := New(WithHTTPClient(clientWithBody("new", 3))).Install(context.Background(), "https://example.test/a", dest)
	assert.ErrorIs(t, err, failure.ErrFilesystem)
	assertOnlyDest(t, dir)
}

func TestFetchBytes(t *testing.T) {
	f := New(WithHTTPClient(clientWithBody("sig", 3)))

	data, err := f.FetchBytes(context.Background(), "https://example.test/a.minisig", 64)
	require.NoError(t, err)
	assert.Equal(t, "sig", string(data))

	_, err = f.FetchBytes(context.Background(), "https://example.test/a.minisig", 2)
	assert.ErrorIs(t, err, failure.ErrSizeMismatch)
}

func TestFetchBytesLengthMismatch(t *testing.T) {
	f := New(WithHTTPClient(clientWithBody("sig", 10)))

	_, err := f.FetchBytes(context.Background(), "https://example.test/a.minisig", 64)
	assert.ErrorIs(t, err, failure.ErrSizeMismatch)
}
