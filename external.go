package word2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/alnah/go-word2pdf/internal/assets"
	"github.com/alnah/go-word2pdf/internal/fileutil"
	"github.com/alnah/go-word2pdf/internal/process"
	"github.com/alnah/go-word2pdf/internal/textenc"
)

// externalSupported reports whether Word automation can run on this
// platform.
var externalSupported = func() bool {
	return runtime.GOOS == "windows"
}

// ExternalSupported reports whether the external strategy exists on this
// platform.
func ExternalSupported() bool {
	return externalSupported()
}

// waitDelay bounds how long a cancelled script may keep its output pipe open.
const waitDelay = 5 * time.Second

// automation is an embedded script extracted to disk on first use.
// The result, including an extraction error, is kept for the process
// lifetime; the temporary directory is left for the OS to reclaim.
type automation struct {
	path func() (string, error)
}

func newAutomation(name string, content []byte) *automation {
	return &automation{
		path: sync.OnceValues(func() (string, error) {
			p, _, err := fileutil.ExtractToTempDir(name, content)
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrScriptExtract, err)
			}
			return p, nil
		}),
	}
}

// wordAutomation is the Word automation script shared by every converter.
var wordAutomation = newAutomation(assets.ScriptName, assets.AutomationScript())

// externalRenderer converts documents by running the automation script:
//
//	<interpreter> <script> <source> /o:<destination>
//
// The exit status is not trusted; the conversion succeeded if and only if the
// destination file exists afterwards.
type externalRenderer struct {
	interpreter string
	timeout     time.Duration // 0 = none
	script      *automation
	logger      hclog.Logger
}

func newExternalRenderer(interpreter string, timeout time.Duration, script *automation, logger hclog.Logger) *externalRenderer {
	return &externalRenderer{
		interpreter: interpreter,
		timeout:     timeout,
		script:      script,
		logger:      logger,
	}
}

// prepare extracts the script.
func (r *externalRenderer) prepare() error {
	_, err := r.script.path()
	return err
}

// Render runs the script for req.
func (r *externalRenderer) Render(ctx context.Context, req *Request) error {
	script, err := r.script.path()
	if err != nil {
		return err
	}

	// A leftover file from an earlier run would read as success.
	if err := os.Remove(req.Destination); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: removing stale output: %v", ErrExternalConversion, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// #nosec G204 -- interpreter comes from configuration, arguments are paths
	cmd := exec.CommandContext(ctx, r.interpreter, script, req.Source, "/o:"+req.Destination)
	process.SetProcessGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	r.logger.Debug("running automation script", "interpreter", r.interpreter, "source", req.Source)
	out, runErr := cmd.CombinedOutput()

	if fileutil.FileExists(req.Destination) {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrExternalConversion, err)
	}

	if errors.Is(runErr, exec.ErrNotFound) {
		return fmt.Errorf("%w: starting %s: %w", ErrExternalConversion, r.interpreter, ErrExternalUnavailable)
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return fmt.Errorf("%w: starting %s: %v", ErrExternalConversion, r.interpreter, runErr)
	}

	text, charset := textenc.Decode(out)
	r.logger.Debug("automation script produced no file", "charset", charset, "output_bytes", len(out))
	return fmt.Errorf("%w: script output: %s", ErrExternalConversion, strings.TrimSpace(text))
}
