// Package engine turns decoded requests into replies. It owns the
// store and is the single place where a request frame becomes a typed
// command, is executed, and has its outcome recorded.
package engine

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/emberdb/emberdb/internal/command"
	"github.com/emberdb/emberdb/internal/hotkeys"
	"github.com/emberdb/emberdb/internal/metrics"
	"github.com/emberdb/emberdb/internal/resp"
	"github.com/emberdb/emberdb/internal/store"
)

// Stats holds a point-in-time view of engine counters for the stats
// endpoint.
type Stats struct {
	UptimeSeconds int64           `json:"uptime_seconds"`
	TotalCommands int64           `json:"total_commands"`
	ParseErrors   int64           `json:"parse_errors"`
	ScalarKeys    int             `json:"scalar_keys"`
	HashKeys      int             `json:"hash_keys"`
	SetKeys       int             `json:"set_keys"`
	HotKeys       []hotkeys.Entry `json:"hot_keys"`
}

// Engine dispatches commands against the store. It is safe for
// concurrent use by multiple goroutines.
type Engine struct {
	store   *store.Store
	hot     *hotkeys.Tracker
	metrics *metrics.Metrics
	log     *zap.Logger

	startTime     time.Time
	totalCommands atomic.Int64
	parseErrors   atomic.Int64
}

// New creates an Engine over st. The metrics instance may be shared
// with the servers; the logger must not be nil (use zap.NewNop in
// tests).
func New(st *store.Store, m *metrics.Metrics, log *zap.Logger) *Engine {
	return &Engine{
		store:     st,
		hot:       hotkeys.New(100, 60*time.Second),
		metrics:   m,
		log:       log,
		startTime: time.Now(),
	}
}

// Store returns the underlying store.
func (e *Engine) Store() *store.Store { return e.store }

// Dispatch parses req into a command, executes it, and returns the
// reply frame. Parse failures are rendered as protocol error frames
// and never touch the store.
func (e *Engine) Dispatch(req resp.Frame) resp.Frame {
	e.totalCommands.Add(1)

	cmd, err := command.Parse(req)
	if err != nil {
		e.parseErrors.Add(1)
		e.metrics.ParseErrors.Inc()
		e.log.Debug("rejected request", zap.Error(err))
		return resp.ErrorFrame("ERR " + err.Error())
	}

	e.metrics.Commands.WithLabelValues(cmd.Name()).Inc()
	if k, ok := cmd.(command.Keyed); ok {
		e.hot.Record(k.Key())
	}
	return cmd.Execute(e.store)
}

// Stats returns a snapshot of engine counters.
func (e *Engine) Stats() Stats {
	scalars, hashes, sets := e.store.Sizes()
	return Stats{
		UptimeSeconds: int64(time.Since(e.startTime).Seconds()),
		TotalCommands: e.totalCommands.Load(),
		ParseErrors:   e.parseErrors.Load(),
		ScalarKeys:    scalars,
		HashKeys:      hashes,
		SetKeys:       sets,
		HotKeys:       e.hot.Top(10),
	}
}

// Close releases engine resources.
func (e *Engine) Close() {
	e.hot.Close()
}
