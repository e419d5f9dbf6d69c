// Package docker cleans the container-runtime cache. Docker's storage is
// not cleaned through file deletion; the adapter shells out to the docker
// CLI and runs its prune commands.
package docker

import (
	"context"
	"os/exec"
	"strings"

	"github.com/glorpus-work/clearcache/internal/logger"
	"github.com/glorpus-work/clearcache/pkg/errors"
)

// CommandRunner executes one external command and returns its combined
// output. The indirection keeps the adapter testable without a docker
// daemon.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Adapter issues prune commands to the Docker runtime.
type Adapter struct {
	runner  CommandRunner
	dryRun  bool
	verbose bool
}

// NewAdapter creates an adapter backed by the docker CLI.
func NewAdapter(dryRun, verbose bool) *Adapter {
	return NewAdapterWithRunner(execRunner{}, dryRun, verbose)
}

// NewAdapterWithRunner creates an adapter with a caller-supplied command
// runner.
func NewAdapterWithRunner(runner CommandRunner, dryRun, verbose bool) *Adapter {
	return &Adapter{runner: runner, dryRun: dryRun, verbose: verbose}
}

// Prune removes Docker's disposable state: a system-wide prune followed by
// a volume prune, each synchronous. In dry-run mode it only describes the
// commands. A failure of either command surfaces as one aggregate error.
func (a *Adapter) Prune(ctx context.Context) error {
	if a.dryRun {
		logger.Info("would run Docker cleanup commands", logger.Fields{
			"commands": "docker system prune -af, docker volume prune -f",
		})
		return nil
	}

	if _, err := a.runner.Run(ctx, "docker", "--version"); err != nil {
		return errors.ErrDockerUnavailable
	}

	if out, err := a.runner.Run(ctx, "docker", "system", "prune", "-af"); err != nil {
		return errors.Wrapf(errors.ErrDockerPrune, "system prune: %s", strings.TrimSpace(string(out)))
	}

	if out, err := a.runner.Run(ctx, "docker", "volume", "prune", "-f"); err != nil {
		return errors.Wrapf(errors.ErrDockerPrune, "volume prune: %s", strings.TrimSpace(string(out)))
	}

	if a.verbose {
		logger.Success("Docker caches cleaned")
	}
	return nil
}
