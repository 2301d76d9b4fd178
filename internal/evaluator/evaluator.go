// Package evaluator runs one generated solution against one benchmark
// problem in an isolated working directory and reports pass/fail.
//
// Every failure mode (writing the harness, process launch, nonzero exit,
// timeout) collapses to a failed verdict. The evaluator never returns
// an error to its caller once constructed.
package evaluator

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/kaizenhq/kaizen/internal/models"
)

//go:embed data/harness.py.tmpl
var harnessTemplateText string

var harnessTemplate = template.Must(template.New("harness").Parse(harnessTemplateText))

// DefaultTimeout is the wall-clock limit per evaluation.
const DefaultTimeout = 10 * time.Second

// LanguagePython is the reference interpreter path.
const LanguagePython = "python"

// maxErrorOutput bounds how much stderr is kept on a failed verdict.
const maxErrorOutput = 2048

// Verdict is the outcome of one evaluation attempt.
type Verdict struct {
	Passed     bool
	Error      string
	DurationMs int64
}

// Evaluator evaluates candidate solutions in per-call working directories
// under a shared evaluation root. Safe for concurrent use: evaluations share
// no mutable state.
type Evaluator struct {
	root      string
	timeout   time.Duration
	pythonBin string
	keepWork  bool
	logger    *zap.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout overrides the per-evaluation wall-clock limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithPythonBin overrides interpreter resolution.
func WithPythonBin(bin string) Option {
	return func(e *Evaluator) { e.pythonBin = bin }
}

// WithKeepWorkdirs retains working directories after evaluation, for
// debugging failed candidates.
func WithKeepWorkdirs() Option {
	return func(e *Evaluator) { e.keepWork = true }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

// New creates an evaluator rooted at dir, creating it if needed.
// An uncreatable root is fatal for the whole pipeline.
func New(dir string, opts ...Option) (*Evaluator, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating evaluation root %s: %w", dir, err)
	}

	e := &Evaluator{
		root:    dir,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.pythonBin == "" {
		e.pythonBin = resolvePythonBin()
	}
	return e, nil
}

// resolvePythonBin prefers python3 but verifies it actually runs: on
// Windows the Microsoft Store registers a python3.exe stub that just prints
// an install hint and exits nonzero.
func resolvePythonBin() string {
	if path, err := exec.LookPath("python3"); err == nil {
		if exec.Command(path, "--version").Run() == nil {
			return "python3"
		}
	}
	return "python"
}

// Evaluate runs source against the problem's reference test and reports the
// verdict. The candidate runs as a child process in a fresh working
// directory under a hard wall-clock timeout; a crashing or hanging candidate
// cannot block the caller beyond that timeout.
func (e *Evaluator) Evaluate(ctx context.Context, p models.Problem, source string) Verdict {
	start := time.Now()

	fail := func(msg string) Verdict {
		return Verdict{Passed: false, Error: msg, DurationMs: time.Since(start).Milliseconds()}
	}

	if p.Language != LanguagePython {
		return fail(fmt.Sprintf("unsupported language %q", p.Language))
	}

	workdir, err := e.makeWorkdir()
	if err != nil {
		return fail(fmt.Sprintf("creating working directory: %v", err))
	}
	if !e.keepWork {
		defer func() {
			if rmErr := os.RemoveAll(workdir); rmErr != nil {
				e.logger.Warn("removing evaluation workdir", zap.String("dir", workdir), zap.Error(rmErr))
			}
		}()
	}

	if err := e.writeHarness(workdir, p, source); err != nil {
		return fail(fmt.Sprintf("writing harness: %v", err))
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.pythonBin, "harness.py")
	cmd.Dir = workdir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	durationMs := time.Since(start).Milliseconds()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		e.logger.Debug("evaluation timed out",
			zap.String("problem", p.ID), zap.Duration("timeout", e.timeout))
		return Verdict{
			Passed:     false,
			Error:      fmt.Sprintf("evaluation timed out after %s", e.timeout),
			DurationMs: durationMs,
		}
	}

	if runErr != nil {
		return Verdict{
			Passed:     false,
			Error:      formatRunError(runErr, stderr.String()),
			DurationMs: durationMs,
		}
	}

	return Verdict{Passed: true, DurationMs: durationMs}
}

// makeWorkdir allocates a uniquely named directory so that concurrent
// evaluations never share filesystem state.
func (e *Evaluator) makeWorkdir() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	dir := filepath.Join(e.root, "eval-"+hex.EncodeToString(buf[:]))
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func (e *Evaluator) writeHarness(workdir string, p models.Problem, source string) error {
	if err := os.WriteFile(filepath.Join(workdir, "solution.py"), []byte(source), 0644); err != nil {
		return err
	}

	var harness bytes.Buffer
	if err := harnessTemplate.Execute(&harness, p); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(workdir, "harness.py"), harness.Bytes(), 0644)
}

func formatRunError(err error, stderr string) string {
	msg := err.Error()
	if tail := strings.TrimSpace(stderr); tail != "" {
		if len(tail) > maxErrorOutput {
			tail = tail[len(tail)-maxErrorOutput:]
		}
		msg = msg + ": " + tail
	}
	return msg
}
