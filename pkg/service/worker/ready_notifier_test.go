package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/service/worker"
)

type mockStatus struct {
	mu     sync.Mutex
	locked bool
	err    error
	calls  int
}

func (m *mockStatus) set(locked bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked = locked
	m.err = err
}

func (m *mockStatus) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockStatus) Status(ctx context.Context) (model.DailyStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return model.DailyStatus{}, m.err
	}
	return model.DailyStatus{IsLocked: m.locked}, nil
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (m *mockNotifier) Notify(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, text)
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func TestReadyNotifierCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies when the lock expires", func(t *testing.T) {
		status := &mockStatus{}
		notifier := &mockNotifier{}
		w := worker.NewReadyNotifier(status, notifier, time.Hour)

		// unlocked to unlocked: nothing
		gt.NoError(t, w.Check(ctx))
		gt.Value(t, notifier.count()).Equal(0)

		// unlocked to locked: nothing
		status.set(true, nil)
		gt.NoError(t, w.Check(ctx))
		gt.Value(t, notifier.count()).Equal(0)

		// locked to unlocked: one message
		status.set(false, nil)
		gt.NoError(t, w.Check(ctx))
		gt.Value(t, notifier.count()).Equal(1)
		gt.Value(t, notifier.messages[0]).Equal(worker.ReadyMessage)

		// stays unlocked: no repeat
		gt.NoError(t, w.Check(ctx))
		gt.Value(t, notifier.count()).Equal(1)
	})

	t.Run("status error keeps previous state", func(t *testing.T) {
		status := &mockStatus{}
		notifier := &mockNotifier{}
		w := worker.NewReadyNotifier(status, notifier, time.Hour)

		status.set(true, nil)
		gt.NoError(t, w.Check(ctx))

		status.set(false, errors.New("store down"))
		gt.Value(t, w.Check(ctx)).NotNil()

		status.set(false, nil)
		gt.NoError(t, w.Check(ctx))
		gt.Value(t, notifier.count()).Equal(1)
	})

	t.Run("notifier error is returned", func(t *testing.T) {
		status := &mockStatus{}
		notifier := &mockNotifier{err: errors.New("slack down")}
		w := worker.NewReadyNotifier(status, notifier, time.Hour)

		status.set(true, nil)
		gt.NoError(t, w.Check(ctx))
		status.set(false, nil)
		gt.Value(t, w.Check(ctx)).NotNil()
	})
}

func TestReadyNotifierStartStop(t *testing.T) {
	status := &mockStatus{}
	status.set(true, nil)
	notifier := &mockNotifier{}

	w := worker.NewReadyNotifier(status, notifier, 10*time.Millisecond)
	gt.NoError(t, w.Start(context.Background())).Required()

	deadline := time.Now().Add(2 * time.Second)
	for status.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	status.set(false, nil)

	for notifier.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	w.Stop()

	gt.Value(t, notifier.count()).Equal(1)

	t.Run("rejects non-positive interval", func(t *testing.T) {
		w := worker.NewReadyNotifier(status, notifier, 0)
		gt.Value(t, w.Start(context.Background())).NotNil()
		w.Stop()
	})
}
