package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_EmitInRegistrationOrder(t *testing.T) {
	var ev Event[ActivationEventArgs]
	var order []string

	ev.Subscribe(func(_ any, _ ActivationEventArgs) { order = append(order, "first") })
	ev.Subscribe(func(_ any, _ ActivationEventArgs) { order = append(order, "second") })

	ev.Emit(nil, ActivationEventArgs{WasInitialized: true})
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 2, ev.Len())
}

func TestEvent_UnsubscribeDuringEmit(t *testing.T) {
	var ev Event[DeactivationEventArgs]
	calls := 0

	var unsubscribe func()
	unsubscribe = ev.Subscribe(func(_ any, _ DeactivationEventArgs) {
		calls++
		unsubscribe()
	})

	ev.Emit(nil, DeactivationEventArgs{})
	ev.Emit(nil, DeactivationEventArgs{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, ev.Len())
}

func TestEvent_SenderAndArgsAreForwarded(t *testing.T) {
	var ev Event[PropertyChangedEventArgs]
	var gotSender any
	var gotArgs PropertyChangedEventArgs

	ev.Subscribe(func(sender any, args PropertyChangedEventArgs) {
		gotSender = sender
		gotArgs = args
	})
	ev.Emit("owner", PropertyChangedEventArgs{PropertyName: "IsActive"})

	assert.Equal(t, "owner", gotSender)
	assert.Equal(t, "IsActive", gotArgs.PropertyName)
}

func TestAsyncEvent_WaitsForAllHandlers(t *testing.T) {
	var ev AsyncEvent[DeactivationEventArgs]
	var done atomic.Int32

	for i := 0; i < 3; i++ {
		ev.Subscribe(func(_ context.Context, _ any, args DeactivationEventArgs) error {
			time.Sleep(10 * time.Millisecond)
			assert.True(t, args.WasClosed)
			done.Add(1)
			return nil
		})
	}

	require.NoError(t, ev.Invoke(context.Background(), nil, DeactivationEventArgs{WasClosed: true}))
	assert.Equal(t, int32(3), done.Load())
}

func TestAsyncEvent_ReturnsHandlerError(t *testing.T) {
	var ev AsyncEvent[DeactivationEventArgs]
	sentinel := errors.New("handler failed")
	var completed atomic.Bool

	ev.Subscribe(func(context.Context, any, DeactivationEventArgs) error { return sentinel })
	ev.Subscribe(func(context.Context, any, DeactivationEventArgs) error {
		time.Sleep(5 * time.Millisecond)
		completed.Store(true)
		return nil
	})

	err := ev.Invoke(context.Background(), nil, DeactivationEventArgs{})
	assert.ErrorIs(t, err, sentinel)
	assert.True(t, completed.Load(), "slow handler should still complete before Invoke returns")
}

func TestAsyncEvent_NoHandlers(t *testing.T) {
	var ev AsyncEvent[DeactivationEventArgs]
	assert.NoError(t, ev.Invoke(context.Background(), nil, DeactivationEventArgs{}))

	unsubscribe := ev.Subscribe(func(context.Context, any, DeactivationEventArgs) error { return nil })
	assert.Equal(t, 1, ev.Len())
	unsubscribe()
	ev.Clear()
	assert.Equal(t, 0, ev.Len())
}
