package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fatih/color"
)

// CmdRunner holds the metadata for one external tool invocation.
type CmdRunner struct {
	Executable string
	Arguments  []string

	cmd   *exec.Cmd
	quiet bool
}

// Cmd builds a command runner for a specific executable.
func Cmd(ctx context.Context, executable string, opts ...RunnerOpt) (*CmdRunner, error) {
	cmd := exec.CommandContext(ctx, executable)

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	r := CmdRunner{
		Executable: executable,
		cmd:        cmd,
	}

	for _, opt := range opts {
		if err := opt(&r); err != nil {
			return nil, err
		}
	}

	cmd.Args = append([]string{executable}, r.Arguments...)

	return &r, nil
}

// Exec runs the command, pretty printing the invocation and its timing.
// The returned error wraps the tool's non-zero exit status untouched.
func (r *CmdRunner) Exec() error {
	var err error

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red(" ✘ %s\n\n", elapsed)
			return
		}
		color.Green(" ✔ %s\n\n", elapsed)
	}()

	if !r.quiet {
		logcmd(fmt.Sprint(r.Executable, " ", strings.Join(r.Arguments, " ")))
	}

	err = r.cmd.Run()
	if err != nil {
		return fmt.Errorf("%s: %w", r.Executable, err)
	}

	return nil
}

// Run is a helper function to avoid repetition while gracefully handling errors.
func Run(ctx context.Context, program string, opts ...RunnerOpt) error {
	rnr, err := Cmd(ctx, program, opts...)
	if err != nil {
		return err
	}

	return rnr.Exec()
}

// fancy-ish log of a command invocation.
func logcmd(text string) {
	fmt.Println(
		color.MagentaString(" ⌘"),
		color.New(color.Bold).Sprint(text),
	)
}

// RunnerOpt allows customizing the behavior of the command runner.
type RunnerOpt func(r *CmdRunner) error

// WithArgs command arguments.
func WithArgs(args ...string) RunnerOpt {
	return func(r *CmdRunner) error {
		r.Arguments = args
		return nil
	}
}

// WithEnv sets up environment variables for the command.
func WithEnv(vars ...string) RunnerOpt {
	return func(r *CmdRunner) error {
		r.cmd.Env = os.Environ()
		for _, vrb := range vars {
			items := strings.SplitN(vrb, "=", 2)
			if len(items) != 2 {
				return fmt.Errorf("invalid env format; %s doesn't match NAME=value expectation", vrb)
			}
			r.cmd.Env = append(r.cmd.Env, vrb)
		}
		return nil
	}
}

// WithDir sets the directory where the command should be run inside.
func WithDir(dir string) RunnerOpt {
	return func(r *CmdRunner) error {
		r.cmd.Dir = dir
		return nil
	}
}

// WithStdOut set up stdout writer.
func WithStdOut(w io.Writer) RunnerOpt {
	return func(r *CmdRunner) error {
		r.cmd.Stdout = w
		return nil
	}
}

// WithoutNoise silences all output for the command; useful when handling
// that on the caller side.
func WithoutNoise() RunnerOpt {
	return func(r *CmdRunner) error {
		r.quiet = true
		r.cmd.Stdout = nil
		r.cmd.Stderr = nil

		return nil
	}
}
