package hook

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/pranav1211/bmb-content-server/internal/event"
)

// Runner executes an external sync command after every successful
// mutation. Failures are logged and never retried or propagated; the
// caller has already been answered by the time the hook runs.
type Runner struct {
	command string
	workDir string
}

func NewRunner(command string, workDir string) *Runner {
	return &Runner{command: strings.TrimSpace(command), workDir: workDir}
}

// Start consumes the bus until ctx is cancelled. With no command
// configured it still drains the subscription so publishers never back up.
func (r *Runner) Start(ctx context.Context, bus event.Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if r.command == "" {
				continue
			}
			r.run(ctx, e)
		}
	}
}

func (r *Runner) run(ctx context.Context, e event.Event) {
	cmd := exec.CommandContext(ctx, "sh", "-c", r.command)
	cmd.Dir = r.workDir

	output, err := cmd.CombinedOutput()
	if err != nil {
		slog.Error("sync hook failed", "event", string(e.Type), "error", err, "output", strings.TrimSpace(string(output)))
		return
	}

	slog.Info("sync hook ran", "event", string(e.Type))
}
