// Package fetch downloads an artifact next to its destination, validates it, and swaps it into place.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/messages"
)

// DefaultMaxBytes bounds a single artifact download.
const DefaultMaxBytes = int64(512 << 20)

const defaultUserAgent = "toolsync/dev"

var (
	osCreateTemp = os.CreateTemp
	osChmod      = os.Chmod
	osStat       = os.Stat
	replaceFunc  = replaceFile
)

// Verifier inspects the fully staged file before it replaces the destination.
// A non-nil error aborts the install and leaves the destination untouched.
type Verifier func(stagedPath string) error

// Fetcher downloads artifacts over HTTP.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.httpClient = c
		}
	}
}

// WithUserAgent sets the User-Agent header sent with downloads.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBytes caps the accepted download size. Values <= 0 keep the default.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// New returns a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		userAgent:  defaultUserAgent,
		maxBytes:   DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Install downloads url into a sibling staging file of destPath and, once the
// staged file passes size validation and every verifier, replaces destPath with it.
// destPath is either the prior file or the complete new file at every point;
// on failure the staging file is removed and destPath is not modified.
func (f *Fetcher) Install(ctx context.Context, url string, destPath string, verifiers ...Verifier) error {
	tmp, err := osCreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".tmp-*")
	if err != nil {
		return failure.Filesystem(messages.FetchCreateStagingOp, destPath, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	expected, err := f.download(ctx, url, tmp)
	if err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return failure.Filesystem(messages.FetchSyncStagingOp, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return failure.Filesystem(messages.FetchCloseStagingOp, tmpName, err)
	}

	if err := validateStaged(tmpName, expected); err != nil {
		return err
	}
	for _, verify := range verifiers {
		if err := verify(tmpName); err != nil {
			return err
		}
	}

	if err := osChmod(tmpName, 0o755); err != nil {
		return failure.Filesystem(messages.FetchChmodStagingOp, tmpName, err)
	}
	if err := replaceFunc(tmpName, destPath); err != nil {
		return failure.Filesystem(messages.FetchReplaceOp, destPath, err)
	}
	committed = true
	return nil
}

// FetchBytes downloads a small resource into memory, rejecting bodies larger than limit.
func (f *Fetcher) FetchBytes(ctx context.Context, url string, limit int64) ([]byte, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, classifyCopyError(url, int64(len(data)), err)
	}
	if int64(len(data)) > limit {
		return nil, failure.Newf(failure.KindSizeMismatch, messages.FetchDownloadOp, url, messages.FetchTooLargeFmt, limit)
	}
	if resp.ContentLength > 0 && int64(len(data)) != resp.ContentLength {
		return nil, failure.Newf(failure.KindSizeMismatch, messages.FetchValidateOp, url, messages.FetchSizeMismatchFmt, len(data), resp.ContentLength)
	}
	return data, nil
}

// download streams url into dest and returns the transport-reported length (<= 0 when unknown).
func (f *Fetcher) download(ctx context.Context, url string, dest *os.File) (int64, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	n, err := io.Copy(dest, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return 0, classifyCopyError(url, n, err)
	}
	if n > f.maxBytes {
		return 0, failure.Newf(failure.KindSizeMismatch, messages.FetchDownloadOp, url, messages.FetchTooLargeFmt, f.maxBytes)
	}
	return resp.ContentLength, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, failure.New(failure.KindNetwork, messages.FetchCreateRequestOp, url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, failure.New(failure.KindNetwork, messages.FetchDownloadOp, url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &failure.Error{
			Kind: failure.KindNetwork,
			Op:   messages.FetchDownloadOp,
			Path: url,
			Code: resp.StatusCode,
			Err:  fmt.Errorf(messages.FetchUnexpectedStatusFmt, resp.Status),
		}
	}
	return resp, nil
}

// classifyCopyError separates a short body from local write failures and other transport errors.
func classifyCopyError(url string, n int64, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &failure.Error{
			Kind: failure.KindSizeMismatch,
			Op:   messages.FetchDownloadOp,
			Path: url,
			Err:  fmt.Errorf(messages.FetchTruncatedFmt+": %w", n, err),
		}
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return failure.Filesystem(messages.FetchDownloadOp, pathErr.Path, err)
	}
	return failure.New(failure.KindNetwork, messages.FetchDownloadOp, url, err)
}

// validateStaged requires a non-empty file whose size equals expected when expected is known.
func validateStaged(path string, expected int64) error {
	info, err := osStat(path)
	if err != nil {
		return failure.Filesystem(messages.FetchStatStagingOp, path, err)
	}
	size := info.Size()
	if size == 0 {
		return failure.New(failure.KindSizeMismatch, messages.FetchValidateOp, path, errors.New(messages.FetchEmpty))
	}
	if expected > 0 && size != expected {
		return failure.Newf(failure.KindSizeMismatch, messages.FetchValidateOp, path, messages.FetchSizeMismatchFmt, size, expected)
	}
	return nil
}
