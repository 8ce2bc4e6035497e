package system

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/OpenNHP/opennhp/nhp/log"

	"github.com/YongboStudio/WinToolbox/common"
)

type RunOptions struct {
	// Shell runs the joined argv through the platform shell.
	Shell bool
	// Encoding names the codepage of the command output. Empty means the
	// console output codepage of this machine.
	Encoding string
}

type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs external commands. Services depend on it so tests can swap in a fake.
type Executor interface {
	Run(ctx context.Context, argv []string, opts RunOptions) (*Output, error)
	Start(path string, args ...string) error
}

type Runner struct {
	encodingOnce sync.Once
	encoding     string
}

func NewRunner() *Runner {
	return &Runner{}
}

// NewRunnerWithEncoding skips console codepage detection.
func NewRunnerWithEncoding(encoding string) *Runner {
	r := &Runner{encoding: encoding}
	r.encodingOnce.Do(func() {})
	return r
}

func (r *Runner) defaultEncoding() string {
	r.encodingOnce.Do(func() {
		r.encoding = consoleEncoding()
		log.Debug("console output encoding: %s", r.encoding)
	})
	return r.encoding
}

// Run waits for the command and decodes its output. A command that cannot be
// started returns *common.SpawnError; a non-zero exit is reported through
// Output.ExitCode with a nil error.
func (r *Runner) Run(ctx context.Context, argv []string, opts RunOptions) (*Output, error) {
	if len(argv) == 0 {
		return nil, &common.ValidationError{Field: "command"}
	}
	name, args := argv[0], argv[1:]
	if opts.Shell {
		name, args = shellCommand(argv)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	out := &Output{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			log.Error("start command %s fail: %v", argv[0], err)
			return nil, &common.SpawnError{Name: argv[0], Err: err}
		}
		out.ExitCode = exitErr.ExitCode()
	}

	enc := opts.Encoding
	if enc == "" {
		enc = r.defaultEncoding()
	}
	out.Stdout = Decode(stdout.Bytes(), enc)
	out.Stderr = Decode(stderr.Bytes(), enc)
	log.Debug("command %s exited with code %d", strings.Join(argv, " "), out.ExitCode)
	return out, nil
}

// Start launches a program detached from this process without a console window.
func (r *Runner) Start(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	cmd.Dir = filepath.Dir(path)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return &common.SpawnError{Name: filepath.Base(path), Err: err}
	}
	return cmd.Process.Release()
}

// OpenDirectory shows dir in the platform file manager.
func OpenDirectory(e Executor, dir string) error {
	name, args := fileManager(dir)
	return e.Start(name, args...)
}
