// Package pipeline composes tool invocations into Unix-pipe-style chains:
// strictly sequential execution, stdout-to-stdin threading, short-circuit
// failure, and optional intermediate-result capture.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fwojciec/toolpipe"
	"github.com/fwojciec/toolpipe/cache"
	"github.com/fwojciec/toolpipe/schema"
)

// Resolver maps a tool name to its Runner. Built-in executors and adapter
// registries both satisfy it.
type Resolver interface {
	Resolve(name string) (toolpipe.Runner, bool)
}

// Composer executes pipeline requests. Each run owns its own invocation
// state; a Composer is safe for concurrent use by independent pipelines.
type Composer struct {
	manifests toolpipe.ManifestSource
	runners   Resolver
	perm      toolpipe.PermissionFunc
	store     *cache.Store
	log       logrus.FieldLogger
}

// Option configures a Composer.
type Option func(*Composer)

// WithPermission sets the permission gate queried before file-touching
// steps. Default allows everything.
func WithPermission(perm toolpipe.PermissionFunc) Option {
	return func(c *Composer) { c.perm = perm }
}

// WithCache sets the result store; large final outputs are cached and
// replaced by their summary.
func WithCache(store *cache.Store) Option {
	return func(c *Composer) { c.store = store }
}

// WithLogger sets the structured logger. Default discards.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Composer) { c.log = log }
}

// New creates a Composer over a manifest source and a runner resolver.
func New(manifests toolpipe.ManifestSource, runners Resolver, opts ...Option) *Composer {
	c := &Composer{
		manifests: manifests,
		runners:   runners,
		perm:      toolpipe.AllowAll,
		log:       discardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run executes the request's commands strictly in order, threading each
// step's output into the next step's stdin. The first failing step halts
// the pipeline; its tool name and its own error text are surfaced verbatim.
// The error return is reserved for boundary validation of the request
// itself.
func (c *Composer) Run(ctx context.Context, req toolpipe.PipelineRequest) (*toolpipe.PipelineResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	run := &stepRun{req: req}
	var piped []byte

	for i, step := range req.Commands {
		run.executed = i + 1

		if ctx.Err() != nil {
			return run.fail(step.Tool, toolpipe.KindCanceled,
				fmt.Sprintf("%v: %v", toolpipe.ErrCanceled, ctx.Err())), nil
		}

		manifest, err := c.manifests.GetManifest(step.Tool)
		if err != nil {
			return run.fail(step.Tool, toolpipe.KindValidation, err.Error()), nil
		}

		if err := schema.ValidateArgs(manifest, step.Args); err != nil {
			return run.fail(step.Tool, toolpipe.KindValidation, err.Error()), nil
		}

		conv, err := toolpipe.ConvertArguments(manifest, step.Args)
		if err != nil {
			return run.fail(step.Tool, toolpipe.KindValidation, err.Error()), nil
		}

		if manifest.Execution.FileAccess != "" && manifest.Execution.FileAccess != toolpipe.FileAccessNone {
			allowed, permErr := c.perm(ctx, step.Tool, step.Args)
			if permErr != nil {
				return run.fail(step.Tool, toolpipe.KindPermission, permErr.Error()), nil
			}
			if !allowed {
				return run.fail(step.Tool, toolpipe.KindPermission,
					toolpipe.ErrPermission.Error()), nil
			}
		}

		runner, ok := c.runners.Resolve(step.Tool)
		if !ok {
			return run.fail(step.Tool, toolpipe.KindValidation,
				fmt.Sprintf("no runner registered: %v", toolpipe.ErrToolNotFound)), nil
		}

		// An explicitly supplied binary argument wins; otherwise the
		// previous step's output is the payload.
		stdin := conv.StdinBinary
		if stdin == nil {
			stdin = piped
		}

		c.log.WithFields(logrus.Fields{
			"tool": step.Tool,
			"step": i,
			"args": len(conv.CLIArgs) - 1,
		}).Debug("executing pipeline step")

		res, runErr := runner.Run(ctx, toolpipe.Invocation{
			Manifest: manifest,
			Args:     step.Args,
			CLI:      conv.CLIArgs,
			Stdin:    stdin,
		})
		if runErr != nil {
			if ctx.Err() != nil {
				return run.fail(step.Tool, toolpipe.KindCanceled,
					fmt.Sprintf("%v: %v", toolpipe.ErrCanceled, runErr)), nil
			}
			res = toolpipe.Failure(runErr.Error())
		}

		run.record(res)
		if !res.Success {
			return run.fail(step.Tool, toolpipe.KindExecution, res.Error), nil
		}

		// Thread output to the next step: binary form preferred, UTF-8 of
		// the text view as fallback. Preserves fidelity whenever the
		// upstream step produced bytes.
		if res.StdoutBinary != nil {
			piped = res.StdoutBinary
		} else {
			piped = []byte(res.Stdout)
		}
	}

	return run.finish(c), nil
}

// stepRun accumulates per-run state: attempted step count and, in debug
// mode, every intermediate result.
type stepRun struct {
	req      toolpipe.PipelineRequest
	executed int
	results  []*toolpipe.ExecutionResult
	last     *toolpipe.ExecutionResult
}

func (r *stepRun) record(res *toolpipe.ExecutionResult) {
	r.last = res
	if r.req.Debug {
		r.results = append(r.results, res)
	}
}

func (r *stepRun) fail(tool string, kind toolpipe.ErrorKind, msg string) *toolpipe.PipelineResult {
	// Identify the failing tool without doubling a prefix the tool itself
	// already added.
	if !strings.HasPrefix(msg, tool+":") {
		msg = fmt.Sprintf("%s: %s", tool, msg)
	}
	return &toolpipe.PipelineResult{
		Success:             false,
		Error:               msg,
		ErrorKind:           kind,
		CommandsExecuted:    r.executed,
		IntermediateResults: r.results,
	}
}

func (r *stepRun) finish(c *Composer) *toolpipe.PipelineResult {
	output := ""
	if r.last != nil {
		output = r.last.Stdout
	}

	if c.store != nil && len(output) > cache.SummarizeThreshold {
		lastTool := r.req.Commands[len(r.req.Commands)-1].Tool
		_, summary := c.store.StoreAndSummarize(lastTool, output, cache.Metadata{})
		output = summary
	}

	return &toolpipe.PipelineResult{
		Success:             true,
		Output:              output,
		CommandsExecuted:    r.executed,
		IntermediateResults: r.results,
	}
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(nopWriter{})
	return log
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
