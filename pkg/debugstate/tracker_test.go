package debugstate

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmockd/feignbridge/pkg/logging"
)

func TestTracker_InitiallyRunning(t *testing.T) {
	tr := New(nil)
	assert.False(t, tr.Suspended())
	assert.Empty(t, tr.Sessions())
}

func TestTracker_ResumeFiresOnTransitionOnly(t *testing.T) {
	tr := New(nil)
	var fired atomic.Int32
	tr.OnResume(func() { fired.Add(1) })

	tr.Resume()
	assert.Zero(t, fired.Load(), "resume while running must not fire")

	tr.Suspend()
	tr.Suspend()
	assert.True(t, tr.Suspended())

	tr.Resume()
	assert.False(t, tr.Suspended())
	assert.Equal(t, int32(1), fired.Load())

	tr.Resume()
	assert.Equal(t, int32(1), fired.Load())
}

func TestTracker_MultipleSessions(t *testing.T) {
	tr := New(nil)
	var fired atomic.Int32
	tr.OnResume(func() { fired.Add(1) })

	tr.SuspendSession("b")
	tr.SuspendSession("a")
	assert.Equal(t, []string{"a", "b"}, tr.Sessions())

	tr.ResumeSession("a")
	assert.True(t, tr.Suspended(), "b is still paused")
	assert.Zero(t, fired.Load())

	tr.EndSession("b")
	assert.False(t, tr.Suspended())
	assert.Equal(t, int32(1), fired.Load())
}

func TestTracker_ListenerMayQueryState(t *testing.T) {
	tr := New(nil)
	tr.OnResume(func() {
		// Must not deadlock.
		assert.False(t, tr.Suspended())
	})
	tr.Suspend()
	tr.Resume()
}

func TestTracker_Logs(t *testing.T) {
	rec, log := logging.NewRecorder()
	tr := New(log)
	tr.SuspendSession("s1")
	tr.ResumeSession("s1")

	assert.Equal(t, []string{"debug session paused", "debug session resumed"}, rec.Messages(logging.LevelInfo))
}

func TestTracker_Concurrent(t *testing.T) {
	tr := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Suspend()
			_ = tr.Suspended()
			tr.Resume()
		}()
	}
	wg.Wait()
	assert.False(t, tr.Suspended())
}
