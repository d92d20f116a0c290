package workpool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger { return zerolog.Nop() }

func TestSubmitRunsTaskAndReturnsResult(t *testing.T) {
	p := New(2, 4, testLogger())
	defer p.Shutdown()

	f := p.Submit(context.Background(), Task{Run: func(ctx context.Context) (any, error) {
		return 42, nil
	}})
	result, err := f.Wait()
	require.NoError(t, err)
	require.Equal(t, 42, result)
}

func TestSubmitPropagatesError(t *testing.T) {
	p := New(1, 1, testLogger())
	defer p.Shutdown()

	wantErr := errors.New("boom")
	f := p.Submit(context.Background(), Task{Run: func(ctx context.Context) (any, error) {
		return nil, wantErr
	}})
	_, err := f.Wait()
	require.ErrorIs(t, err, wantErr)
}

func TestSubmitRecoversPanic(t *testing.T) {
	p := New(1, 1, testLogger())
	defer p.Shutdown()

	f := p.Submit(context.Background(), Task{Run: func(ctx context.Context) (any, error) {
		panic("opcode blew up")
	}})
	_, err := f.Wait()
	require.Error(t, err)
}

func TestSubmitAllPreservesOrder(t *testing.T) {
	p := New(4, 8, testLogger())
	defer p.Shutdown()

	tasks := make([]Task, 10)
	for i := 0; i < 10; i++ {
		i := i
		tasks[i] = Task{Run: func(ctx context.Context) (any, error) {
			return i, nil
		}}
	}
	results, errs := p.SubmitAll(context.Background(), tasks)
	for i := 0; i < 10; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, i, results[i])
	}
}

func TestSubmitCancelledContext(t *testing.T) {
	p := New(1, 0, testLogger())
	defer p.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := p.Submit(ctx, Task{Run: func(ctx context.Context) (any, error) {
		return nil, nil
	}})
	_, err := f.Wait()
	require.ErrorIs(t, err, context.Canceled)
}

func TestShutdownStopsWorkers(t *testing.T) {
	p := New(2, 2, testLogger())
	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return")
	}
}
