package protect

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/messages"
)

// PathPlaceholder in CommandTier.Args is replaced with the artifact path.
const PathPlaceholder = "{path}"

var execCommandContext = exec.CommandContext

// CommandTier applies the tier by running an external command.
// The artifact path replaces every PathPlaceholder in Args, or is appended when Args has none.
type CommandTier struct {
	Name string
	Args []string
}

// ApplyProtectionTier runs the command and fails with an ExternalTool error on a non-zero exit.
func (c CommandTier) ApplyProtectionTier(ctx context.Context, path string) error {
	args := make([]string, 0, len(c.Args)+1)
	substituted := false
	for _, arg := range c.Args {
		if strings.Contains(arg, PathPlaceholder) {
			arg = strings.ReplaceAll(arg, PathPlaceholder, path)
			substituted = true
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, path)
	}

	// #nosec G204 -- the command comes from the operator's configuration.
	cmd := execCommandContext(ctx, c.Name, args...)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	detail := strings.TrimSpace(string(out))
	if detail == "" {
		detail = err.Error()
	}
	return &failure.Error{
		Kind: failure.KindExternalTool,
		Op:   messages.ProtectTierOp,
		Path: path,
		Code: code,
		Err:  fmt.Errorf(messages.ProtectToolFailedFmt, c.Name, detail),
	}
}

func (c CommandTier) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// NoopTier is used on platforms without a protection tier. It always succeeds.
type NoopTier struct{}

// ApplyProtectionTier does nothing.
func (NoopTier) ApplyProtectionTier(context.Context, string) error {
	return nil
}

func (NoopTier) String() string {
	return messages.ProtectTierCommandNone
}
