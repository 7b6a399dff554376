package bridge

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/kmattheis/scenebridge/lib/host"
	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("bridge")

// DefaultExecTimeout bounds how long a caller waits for the host loop to
// execute a command.
const DefaultExecTimeout = 5 * time.Second

var (
	unknownTotal    = metrics.NewCounter("scenebridge_commands_unknown_total")
	timeoutsTotal   = metrics.NewCounter("scenebridge_command_timeouts_total")
	cancelledTotal  = metrics.NewCounter("scenebridge_commands_cancelled_total")
	discardedTotal  = metrics.NewCounter("scenebridge_results_discarded_total")
	commandDuration = metrics.NewHistogram("scenebridge_command_duration_seconds")
	queueWait       = metrics.NewHistogram("scenebridge_queue_wait_seconds")
)

// pendingExecution is the completion slot for one scheduled command. The
// done channel is 1-buffered and written at most once, so the host loop
// never blocks on a caller that has already given up.
type pendingExecution struct {
	cmd       *common.Command
	done      chan *common.Response
	cancelled atomic.Bool
	submitted time.Time
}

// NewBridge creates a bridge that executes commands on the given runner.
// A non-positive timeout falls back to DefaultExecTimeout.
func NewBridge(runner host.Runner, dispatcher *Dispatcher, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultExecTimeout
	}
	return &Bridge{
		runner:     runner,
		dispatcher: dispatcher,
		timeout:    timeout,
	}
}

// Bridge hands commands from connection goroutines to the host loop and
// waits for their results. It is safe for concurrent use: any number of
// callers may Execute at once, the runner serializes the actual work.
type Bridge struct {
	runner     host.Runner
	dispatcher *Dispatcher
	timeout    time.Duration
}

// Execute resolves the command, schedules it on the host loop and blocks
// until the result arrives or the timeout elapses. It never blocks longer
// than the configured timeout and always returns a non-nil Response.
//
// Unknown command types are rejected without scheduling anything. On
// timeout the pending execution is cancelled: if the host loop has not
// started the command yet it skips it entirely, otherwise the late result
// is discarded.
func (b *Bridge) Execute(cmd *common.Command) *common.Response {
	if cmd == nil {
		return common.NewErrorResponse("Invalid command")
	}

	handler, ok := b.dispatcher.Resolve(cmd.Type)
	if !ok {
		unknownTotal.Inc()
		return common.NewErrorResponsef("Unknown command: %s", cmd.Type)
	}

	// Resolved types only, so the label set is bounded by the dispatch table
	metrics.GetOrCreateCounter(fmt.Sprintf("scenebridge_commands_total{command=%q}", cmd.Type)).Inc()

	pending := &pendingExecution{
		cmd:       cmd,
		done:      make(chan *common.Response, 1),
		submitted: time.Now(),
	}

	task := &host.Task{
		Name: cmd.Type,
		Run:  func() { b.run(pending, handler) },
	}
	if err := b.runner.Schedule(task); err != nil {
		return common.NewErrorResponsef("%v", err)
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case resp := <-pending.done:
		return resp
	case <-timer.C:
		pending.cancelled.Store(true)
		timeoutsTotal.Inc()
		Logger.Warningf("command %q timed out after %v", cmd.Type, b.timeout)
		return common.NewErrorResponse("Command execution timeout")
	}
}

// run is the task body, executed on the host loop goroutine.
func (b *Bridge) run(p *pendingExecution, handler HandlerFunc) {
	queueWait.UpdateDuration(p.submitted)

	// The caller gave up while we were queued, leave the scene untouched
	if p.cancelled.Load() {
		cancelledTotal.Inc()
		return
	}

	start := time.Now()
	resp := invoke(handler, p.cmd)
	commandDuration.UpdateDuration(start)

	// The caller gave up while we were executing, drop the result
	if p.cancelled.Load() {
		discardedTotal.Inc()
		return
	}
	p.done <- resp
}

// invoke runs the handler and converts panics into error Responses so a
// faulty handler can never take down the host loop or leave the caller
// waiting.
func invoke(handler HandlerFunc, cmd *common.Command) (resp *common.Response) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("handler for %q panicked: %v", cmd.Type, r)
			resp = common.NewErrorResponsef("%v", r)
		}
	}()

	resp = handler(cmd.Params)
	if resp == nil {
		resp = common.NewErrorResponsef("handler for %q returned no response", cmd.Type)
	}
	return
}
