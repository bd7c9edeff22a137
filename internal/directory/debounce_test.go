package directory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncer_BurstRunsOnceWithLastValue(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(300*time.Millisecond, rec.record)

	d.Trigger("a")
	time.Sleep(50 * time.Millisecond)
	d.Trigger("an")
	time.Sleep(50 * time.Millisecond)
	d.Trigger("ann")

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)

	// No stale timer fires after the last one
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, []string{"ann"}, rec.snapshot())
}

func TestDebouncer_SeparatePausesRunSeparately(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Trigger("first")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	d.Trigger("second")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, rec.snapshot())
}

func TestDebouncer_TriggerAfterCancelStillRuns(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Trigger("old")
	d.Cancel()
	d.Trigger("new")

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, []string{"new"}, rec.snapshot())
}

func TestDebouncer_CancelDropsPendingValue(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Trigger("x")
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestDebouncer_StopIgnoresLaterTriggers(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(10*time.Millisecond, rec.record)

	d.Stop()
	d.Trigger("x")

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}
