package platform

import (
	"context"
	"testing"

	"github.com/hupe1980/screenmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_RunsInline(t *testing.T) {
	p := New()
	ran := 0
	p.OnUIThread(func() { ran++ })
	p.BeginOnUIThread(func() { ran++ })
	p.ExecuteOnFirstLoad(func() { ran++ })
	require.NoError(t, p.OnUIThreadAsync(context.Background(), func(context.Context) error { ran++; return nil }))

	assert.Equal(t, 4, ran)
	assert.True(t, p.PropertyChangeNotificationsOnUIThread())
	assert.False(t, p.InDesignMode())
}

func TestDefault_OnUIThreadAsyncHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New().OnUIThreadAsync(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDefault_CloseActionResolver(t *testing.T) {
	var gotResult *bool
	p := &Default{CloseActionResolver: func(_ any, dialogResult *bool) core.CloseAction {
		return func(context.Context) error {
			gotResult = dialogResult
			return nil
		}
	}}

	ok := true
	require.NoError(t, p.GetViewCloseAction("vm", &ok)(context.Background()))
	require.NotNil(t, gotResult)
	assert.True(t, *gotResult)

	assert.NoError(t, New().GetViewCloseAction("vm", nil)(context.Background()))
}

func TestSetCurrent(t *testing.T) {
	custom := &Default{DesignMode: true}
	restore := SetCurrent(custom)
	assert.Same(t, custom, Current())
	restore()
	assert.NotSame(t, custom, Current())
}
