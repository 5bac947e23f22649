// Package failure defines the typed errors returned by the update transaction.
//
// Every component returns a *Error carrying a Kind. Callers classify failures
// with errors.Is against the Err* sentinels and read details (operation, path,
// platform code) with errors.As.
package failure

import (
	"errors"
	"fmt"
	"syscall"
)

// Kind classifies a failure.
type Kind int

// Failure kinds.
const (
	KindUnknown Kind = iota
	KindNetwork
	KindProtocol
	KindNotFound
	KindSizeMismatch
	KindFilesystem
	KindSecurity
	KindExternalTool
	KindInvalidTarget
)

// Sentinels matched by errors.Is for each Kind.
var (
	ErrNetwork       = errors.New("network error")
	ErrProtocol      = errors.New("protocol error")
	ErrNotFound      = errors.New("not found")
	ErrSizeMismatch  = errors.New("size mismatch")
	ErrFilesystem    = errors.New("filesystem error")
	ErrSecurity      = errors.New("security error")
	ErrExternalTool  = errors.New("external tool error")
	ErrInvalidTarget = errors.New("invalid target")
)

var sentinels = map[Kind]error{
	KindNetwork:       ErrNetwork,
	KindProtocol:      ErrProtocol,
	KindNotFound:      ErrNotFound,
	KindSizeMismatch:  ErrSizeMismatch,
	KindFilesystem:    ErrFilesystem,
	KindSecurity:      ErrSecurity,
	KindExternalTool:  ErrExternalTool,
	KindInvalidTarget: ErrInvalidTarget,
}

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "NetworkError"
	case KindProtocol:
		return "ProtocolError"
	case KindNotFound:
		return "NotFound"
	case KindSizeMismatch:
		return "SizeMismatchError"
	case KindFilesystem:
		return "FilesystemError"
	case KindSecurity:
		return "SecurityError"
	case KindExternalTool:
		return "ExternalToolError"
	case KindInvalidTarget:
		return "InvalidTargetError"
	default:
		return "UnknownError"
	}
}

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "replace artifact".
	Op string
	// Path is the file or URL the operation acted on, if any.
	Path string
	// Code is the platform error code (errno, Win32 error, or exit status); 0 when unknown.
	Code int
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (code %d)", msg, e.Code)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := sentinels[e.Kind]
	return ok && target == sentinel
}

// New returns a classified error.
func New(kind Kind, op string, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Newf returns a classified error whose cause is a formatted message.
func Newf(kind Kind, op string, path string, format string, args ...any) *Error {
	return New(kind, op, path, fmt.Errorf(format, args...))
}

// Filesystem returns a KindFilesystem error carrying the platform code found in err.
func Filesystem(op string, path string, err error) *Error {
	return &Error{Kind: KindFilesystem, Op: op, Path: path, Code: PlatformCode(err), Err: err}
}

// PlatformCode extracts errno (or the Win32 error number) from err, or 0.
func PlatformCode(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
