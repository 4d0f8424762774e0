package checks

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cratedoctor/cratedoctor/pkg/config"
	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
	"github.com/cratedoctor/cratedoctor/pkg/logger"
	"github.com/cratedoctor/cratedoctor/pkg/project"
)

// DefaultExternalTimeout bounds each network or subprocess check.
const DefaultExternalTimeout = 10 * time.Second

// timeoutGrace is how long the executor keeps listening after an external
// check's deadline, so a check that noticed the cancellation itself can still
// deliver its own degraded findings instead of the generic timeout one.
const timeoutGrace = 250 * time.Millisecond

// Options tunes one executor run. The zero value picks sensible defaults.
type Options struct {
	// Jobs caps how many checks run concurrently. Zero means GOMAXPROCS.
	Jobs int
	// ExternalTimeout bounds each network or subprocess check. Zero means
	// DefaultExternalTimeout; negative disables the per-check deadline.
	ExternalTimeout time.Duration
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) externalTimeout() time.Duration {
	if o.ExternalTimeout == 0 {
		return DefaultExternalTimeout
	}
	if o.ExternalTimeout < 0 {
		return 0
	}
	return o.ExternalTimeout
}

// Execute runs every enabled check against the project and assembles the
// report. Checks run concurrently on a bounded pool; each one is isolated, so
// a panicking or stalled check costs at most its own findings. The findings
// slice handed to the report is assembled in catalog order regardless of
// completion order, which together with the report's sort makes the output
// deterministic.
func Execute(ctx context.Context, pctx *project.Context, cfg *config.Config, clients Clients, opts Options) *diagnostics.Report {
	var enabled []Check
	for _, chk := range Catalog() {
		if cfg.IsEnabled(chk.Code) {
			enabled = append(enabled, chk)
		} else {
			logger.Debugf("executor: check %s disabled by configuration", chk.Code)
		}
	}

	results := make([][]diagnostics.Finding, len(enabled))
	g := new(errgroup.Group)
	g.SetLimit(opts.jobs())
	for i, chk := range enabled {
		i, chk := i, chk
		g.Go(func() error {
			results[i] = runCheck(ctx, chk, pctx, clients, opts.externalTimeout())
			return nil
		})
	}
	_ = g.Wait()

	var findings []diagnostics.Finding
	for _, fs := range results {
		findings = append(findings, fs...)
	}
	return diagnostics.NewReport(findings)
}

// runCheck executes one check with panic isolation and, for external kinds, a
// deadline. The check body runs on its own goroutine so a check that ignores
// cancellation cannot stall the pool: the executor stops waiting at the
// deadline and reports the timeout under the check's own code.
func runCheck(ctx context.Context, chk Check, pctx *project.Context, clients Clients, timeout time.Duration) []diagnostics.Finding {
	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if chk.Kind.External() && timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	done := make(chan []diagnostics.Finding, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("check %s panicked: %v", chk.Code, r)
				done <- []diagnostics.Finding{diagnostics.NewFinding(chk.Code, diagnostics.SeverityWarning,
					fmt.Sprintf("Check %q failed internally: %v.", chk.Name, r))}
			}
		}()
		done <- chk.Run(runCtx, pctx, clients)
	}()

	select {
	case findings := <-done:
		return findings
	case <-runCtx.Done():
	}
	select {
	case findings := <-done:
		return findings
	case <-time.After(timeoutGrace):
	}
	if ctx.Err() != nil {
		// The whole run was cancelled, not this one check.
		return nil
	}
	logger.Errorf("check %s did not finish within %s", chk.Code, timeout)
	f := diagnostics.NewFinding(chk.Code, diagnostics.SeverityWarning,
		fmt.Sprintf("Check %q timed out after %s; its results are unavailable.", chk.Name, timeout))
	return []diagnostics.Finding{f}
}
