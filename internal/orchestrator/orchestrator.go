// Package orchestrator drives the check registry against the selected
// pipeline and collects one report per check.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/postgres-ai/checkup/internal/adapter"
	"github.com/postgres-ai/checkup/internal/checks"
	"github.com/postgres-ai/checkup/internal/eventbus"
	"github.com/postgres-ai/checkup/internal/metrics"
	"github.com/postgres-ai/checkup/internal/models"
	"github.com/postgres-ai/checkup/internal/report"
)

// Orchestrator runs every registered check sequentially over one shared
// executor and metrics client, isolating failures per check.
//
// The run degrades gracefully:
//   - A failing check yields a report carrying the error; the batch
//     always completes and every registered check id gets a report.
//   - A missing event bus only disables delivery; results are still
//     returned to the caller.
type Orchestrator struct {
	executor adapter.Executor
	metrics  *metrics.Client

	// Optional report delivery
	publisher *eventbus.Publisher

	mode     checks.Mode
	nodeName string

	windowStart time.Time
	windowEnd   time.Time

	topQueries   int
	queryTimeout time.Duration
}

// Options configures one Orchestrator.
type Options struct {
	Executor  adapter.Executor
	Metrics   *metrics.Client
	Publisher *eventbus.Publisher

	Mode     checks.Mode
	NodeName string

	WindowStart time.Time
	WindowEnd   time.Time

	TopQueries   int
	QueryTimeout time.Duration
}

// New creates an Orchestrator. Nothing runs until Run is called.
func New(opts Options) *Orchestrator {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 30 * time.Second
	}
	if opts.TopQueries <= 0 {
		opts.TopQueries = 50
	}
	return &Orchestrator{
		executor:     opts.Executor,
		metrics:      opts.Metrics,
		publisher:    opts.Publisher,
		mode:         opts.Mode,
		nodeName:     opts.NodeName,
		windowStart:  opts.WindowStart,
		windowEnd:    opts.WindowEnd,
		topQueries:   opts.TopQueries,
		queryTimeout: opts.QueryTimeout,
	}
}

// Run executes every registered check once and returns one report per
// check id. The returned map's key set always equals the registry's key
// set: a failing handler produces a report whose node result carries the
// error and empty data, and the batch continues. Checks run one at a
// time because they share one connection pool and one HTTP client.
func (o *Orchestrator) Run(ctx context.Context) map[string]*models.Report {
	log.Printf("Starting checkup run (mode: %s, node: %s)", o.mode, o.nodeName)

	// Fetched once per run and threaded through the env, so two
	// concurrent runs never share stale cached state.
	env := &checks.Env{
		Executor:        o.executor,
		Metrics:         o.metrics,
		NodeName:        o.nodeName,
		PostgresVersion: o.fetchVersion(ctx),
		WindowStart:     o.windowStart,
		WindowEnd:       o.windowEnd,
		TopQueries:      o.topQueries,
	}

	handlers := checks.Handlers(o.mode)
	titles := checks.Titles()

	out := make(map[string]*models.Report, len(handlers))
	for _, id := range checks.IDs() {
		rep := report.New(id, titles[id], o.nodeName)

		data, err := o.runHandler(ctx, handlers[id], env)
		if err != nil {
			log.Printf("Check %s failed: %v", id, err)
		} else {
			log.Printf("Check %s completed", id)
		}
		report.AttachResult(rep, o.nodeName, data, env.PostgresVersion, err)

		o.publish(rep)
		out[id] = rep
	}

	log.Printf("Checkup run finished: %d reports", len(out))
	return out
}

// runHandler bounds one check by the query timeout and converts a panic
// into the same error path as a returned error, so one broken handler
// never aborts the batch.
func (o *Orchestrator) runHandler(ctx context.Context, h checks.Handler, env *checks.Env) (data map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("check handler panic: %v", r)
		}
	}()

	checkCtx, cancel := context.WithTimeout(ctx, o.queryTimeout)
	defer cancel()

	return h(checkCtx, env)
}

func (o *Orchestrator) fetchVersion(ctx context.Context) string {
	versionCtx, cancel := context.WithTimeout(ctx, o.queryTimeout)
	defer cancel()

	rows, err := o.executor.Execute(versionCtx, `select version() as version`)
	if err != nil {
		log.Printf("Warning: failed to fetch postgres version: %v", err)
		return ""
	}
	if len(rows) != 1 {
		log.Printf("Warning: version query returned %d rows", len(rows))
		return ""
	}
	version, err := rows[0].String("version")
	if err != nil {
		return ""
	}
	return version
}

func (o *Orchestrator) publish(rep *models.Report) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishReport(rep); err != nil {
		log.Printf("Warning: failed to publish report %s: %v", rep.CheckID, err)
	}
}
