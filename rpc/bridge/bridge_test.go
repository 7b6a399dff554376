package bridge

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kmattheis/scenebridge/lib/host"
	"github.com/kmattheis/scenebridge/rpc/common"
	"github.com/stretchr/testify/require"
)

// newTestBridge wires a bridge to a fresh host loop with a short timeout
func newTestBridge(t *testing.T, timeout time.Duration) (*Bridge, *Dispatcher, *host.Loop) {
	t.Helper()
	loop := host.NewLoop()
	t.Cleanup(loop.Stop)
	dispatcher := NewDispatcher()
	return NewBridge(loop, dispatcher, timeout), dispatcher, loop
}

// drain schedules a sentinel task and waits until the loop has reached it,
// which means every previously queued task has completed
func drain(t *testing.T, loop *host.Loop) {
	t.Helper()
	done := make(chan struct{})
	err := loop.Schedule(&host.Task{Name: "drain", Run: func() { close(done) }})
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("host loop did not drain in time")
	}
}

func TestExecuteSuccess(t *testing.T) {
	bridge, dispatcher, _ := newTestBridge(t, time.Second)

	dispatcher.Register("ping", func(params map[string]interface{}) *common.Response {
		return common.NewSuccessResponse(map[string]interface{}{"pong": params["n"]})
	})

	resp := bridge.Execute(common.NewCommand("ping", map[string]interface{}{"n": 42}))

	require.Equal(t, common.StatusSuccess, resp.Status)
	require.Empty(t, resp.Message)
	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, 42, result["pong"])
}

func TestExecuteUnknownCommand(t *testing.T) {
	runner := &spyRunner{}
	dispatcher := NewDispatcher()

	var invoked atomic.Bool
	dispatcher.Register("known", func(params map[string]interface{}) *common.Response {
		invoked.Store(true)
		return common.NewSuccessResponse(nil)
	})

	bridge := NewBridge(runner, dispatcher, time.Second)
	resp := bridge.Execute(common.NewCommand("warp", nil))

	require.Equal(t, common.StatusError, resp.Status)
	require.Equal(t, "Unknown command: warp", resp.Message)

	// Nothing may reach the host for an unresolvable command
	require.Zero(t, runner.scheduled.Load())
	require.False(t, invoked.Load())
}

func TestExecuteTimeout(t *testing.T) {
	bridge, dispatcher, loop := newTestBridge(t, 50*time.Millisecond)

	release := make(chan struct{})
	dispatcher.Register("slow", func(params map[string]interface{}) *common.Response {
		<-release
		return common.NewSuccessResponse(nil)
	})
	dispatcher.Register("fast", func(params map[string]interface{}) *common.Response {
		return common.NewSuccessResponse(nil)
	})

	start := time.Now()
	resp := bridge.Execute(common.NewCommand("slow", nil))
	elapsed := time.Since(start)

	require.Equal(t, common.StatusError, resp.Status)
	require.Equal(t, "Command execution timeout", resp.Message)
	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	require.Less(t, elapsed, 2*time.Second)

	// The loop recovers once the stale handler returns
	close(release)
	drain(t, loop)

	resp = bridge.Execute(common.NewCommand("fast", nil))
	require.Equal(t, common.StatusSuccess, resp.Status)
}

func TestExecuteCancelledCommandSkipsEffects(t *testing.T) {
	bridge, dispatcher, loop := newTestBridge(t, 50*time.Millisecond)

	started := make(chan struct{})
	release := make(chan struct{})
	var touched atomic.Bool

	dispatcher.Register("blocker", func(params map[string]interface{}) *common.Response {
		close(started)
		<-release
		return common.NewSuccessResponse(nil)
	})
	dispatcher.Register("effect", func(params map[string]interface{}) *common.Response {
		touched.Store(true)
		return common.NewSuccessResponse(nil)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		bridge.Execute(common.NewCommand("blocker", nil))
	}()
	<-started

	// Queued behind the blocker, this command times out before it runs
	resp := bridge.Execute(common.NewCommand("effect", nil))
	require.Equal(t, common.StatusError, resp.Status)
	require.Equal(t, "Command execution timeout", resp.Message)

	close(release)
	wg.Wait()
	drain(t, loop)

	// The cancelled command must never have touched any state
	require.False(t, touched.Load())
}

func TestExecutePanicIsolation(t *testing.T) {
	bridge, dispatcher, _ := newTestBridge(t, time.Second)

	dispatcher.Register("explode", func(params map[string]interface{}) *common.Response {
		panic("object storage corrupted")
	})
	dispatcher.Register("ping", func(params map[string]interface{}) *common.Response {
		return common.NewSuccessResponse(nil)
	})

	resp := bridge.Execute(common.NewCommand("explode", nil))
	require.Equal(t, common.StatusError, resp.Status)
	require.Equal(t, "object storage corrupted", resp.Message)

	// The loop survives and keeps serving
	resp = bridge.Execute(common.NewCommand("ping", nil))
	require.Equal(t, common.StatusSuccess, resp.Status)
}

func TestExecuteNilResponseFromHandler(t *testing.T) {
	bridge, dispatcher, _ := newTestBridge(t, time.Second)

	dispatcher.Register("void", func(params map[string]interface{}) *common.Response {
		return nil
	})

	resp := bridge.Execute(common.NewCommand("void", nil))
	require.Equal(t, common.StatusError, resp.Status)
	require.Contains(t, resp.Message, "returned no response")
}

func TestExecuteSerializesHandlers(t *testing.T) {
	bridge, dispatcher, _ := newTestBridge(t, 10*time.Second)

	// Deliberately unsynchronized counter. Handlers run on a single
	// goroutine, so this must be exact (and race free under -race).
	counter := 0
	dispatcher.Register("incr", func(params map[string]interface{}) *common.Response {
		counter++
		return common.NewSuccessResponse(counter)
	})

	const (
		goroutines = 10
		perG       = 20
	)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				resp := bridge.Execute(common.NewCommand("incr", nil))
				if resp.Status != common.StatusSuccess {
					t.Errorf("Expected success, got %s: %s", resp.Status, resp.Message)
					return
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, goroutines*perG, counter)
}

func TestExecuteAfterStop(t *testing.T) {
	loop := host.NewLoop()
	dispatcher := NewDispatcher()
	dispatcher.Register("ping", func(params map[string]interface{}) *common.Response {
		return common.NewSuccessResponse(nil)
	})
	bridge := NewBridge(loop, dispatcher, time.Second)

	loop.Stop()

	resp := bridge.Execute(common.NewCommand("ping", nil))
	require.Equal(t, common.StatusError, resp.Status)
	require.Equal(t, host.ErrStopped.Error(), resp.Message)
}

func TestExecuteNilCommand(t *testing.T) {
	bridge, _, _ := newTestBridge(t, time.Second)

	resp := bridge.Execute(nil)
	require.Equal(t, common.StatusError, resp.Status)
}

func TestExecuteConcurrentMixedCommands(t *testing.T) {
	bridge, dispatcher, _ := newTestBridge(t, 10*time.Second)

	dispatcher.Register("echo", func(params map[string]interface{}) *common.Response {
		return common.NewSuccessResponse(params["id"])
	})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				id := fmt.Sprintf("%d-%d", g, i)
				resp := bridge.Execute(common.NewCommand("echo", map[string]interface{}{"id": id}))
				if resp.Status != common.StatusSuccess {
					t.Errorf("Expected success, got %s", resp.Message)
					return
				}
				// Every caller must receive exactly its own result
				if resp.Result != id {
					t.Errorf("Expected result %q, got %v", id, resp.Result)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// spyRunner records scheduling without executing anything
type spyRunner struct {
	scheduled atomic.Int32
}

func (r *spyRunner) Schedule(t *host.Task) error {
	r.scheduled.Add(1)
	return nil
}
