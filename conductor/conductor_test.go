package conductor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/screenmesh/conductor"
	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/internal/testutil"
	"github.com/hupe1980/screenmesh/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConductor_SwitchClosesPreviousBeforeActivatingNext(t *testing.T) {
	ctx := context.Background()
	j := testutil.NewJournal()
	a := testutil.NewScreenBuilder("A").Journal(j).Build()
	b := testutil.NewScreenBuilder("B").Journal(j).Build()

	c := conductor.New("Shell")
	rec := &testutil.ProcessedRecorder{}
	c.OnActivationProcessed(rec.Handler())

	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.ActivateItem(ctx, a))
	assert.True(t, a.IsActive())
	assert.Equal(t, core.Parent(c), a.Parent())

	j.Reset()
	require.NoError(t, c.ActivateItem(ctx, b))

	assert.Equal(t, []string{
		"A:can_close",
		"A:AttemptingDeactivation", "A:deactivate(close)", "A:Deactivated(close)",
		"B:initialize", "B:activate", "B:Activated(init)",
	}, j.Entries())
	assert.Equal(t, 1, j.Count("A:deactivate(close)"))

	assert.Same(t, b, c.ActiveItem())
	assert.Equal(t, []core.Child{b}, c.Children())
	assert.Nil(t, a.Parent())
	assert.False(t, a.IsInitialized())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Same(t, b, last.Item)
	assert.True(t, last.Success)
}

func TestConductor_ReselectRunsOnlyActivateHook(t *testing.T) {
	ctx := context.Background()
	j := testutil.NewJournal()
	a := testutil.NewScreenBuilder("A").Journal(j).Build()

	c := conductor.New("Shell")
	rec := &testutil.ProcessedRecorder{}
	c.OnActivationProcessed(rec.Handler())

	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.ActivateItem(ctx, a))
	j.Reset()

	require.NoError(t, c.ActivateItem(ctx, a))
	assert.Equal(t, []string{"A:activate"}, j.Entries())
	assert.Len(t, rec.Events(), 2)
}

func TestConductor_ReselectWhileInactiveIsNoOp(t *testing.T) {
	ctx := context.Background()
	j := testutil.NewJournal()
	a := testutil.NewScreenBuilder("A").Journal(j).Build()

	c := conductor.New("Shell")
	require.NoError(t, c.ActivateItem(ctx, a))
	require.NoError(t, c.ActivateItem(ctx, a))

	assert.Empty(t, j.Entries())
	assert.False(t, a.IsActive())
}

func TestConductor_VetoKeepsCurrentItem(t *testing.T) {
	ctx := context.Background()
	j := testutil.NewJournal()
	a := testutil.NewScreenBuilder("A").Journal(j).VetoClose().Build()
	b := testutil.NewScreenBuilder("B").Journal(j).Build()

	c := conductor.New("Shell")
	rec := &testutil.ProcessedRecorder{}
	c.OnActivationProcessed(rec.Handler())

	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.ActivateItem(ctx, a))
	require.NoError(t, c.ActivateItem(ctx, b))

	assert.Same(t, a, c.ActiveItem())
	assert.True(t, a.IsActive())
	assert.Empty(t, j.Filter("B:"))
	assert.Nil(t, b.Parent())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Same(t, b, last.Item)
	assert.False(t, last.Success)
}

func TestConductor_ActivatesItemWithItself(t *testing.T) {
	ctx := context.Background()
	a := screen.New("A")
	c := conductor.New("Shell")

	require.NoError(t, c.ActivateItem(ctx, a))
	assert.False(t, a.IsActive())

	require.NoError(t, c.Activate(ctx))
	assert.True(t, a.IsActive())

	require.NoError(t, c.Deactivate(ctx, false))
	assert.False(t, a.IsActive())
	assert.True(t, a.IsInitialized())
	assert.Same(t, a, c.ActiveItem())
}

func TestConductor_CloseReleasesActiveItem(t *testing.T) {
	ctx := context.Background()
	a := screen.New("A")
	c := conductor.New("Shell")

	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.ActivateItem(ctx, a))
	require.NoError(t, c.Deactivate(ctx, true))

	assert.False(t, a.IsInitialized())
	assert.Nil(t, a.Parent())
	assert.Nil(t, c.ActiveItem())
	assert.Empty(t, c.Children())
}

func TestConductor_DeactivateItem(t *testing.T) {
	ctx := context.Background()
	a := screen.New("A")
	other := screen.New("Other")
	c := conductor.New("Shell")

	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.ActivateItem(ctx, a))

	require.NoError(t, c.DeactivateItem(ctx, other, true))
	assert.True(t, a.IsActive())

	require.NoError(t, c.DeactivateItem(ctx, a, true))
	assert.Nil(t, c.ActiveItem())
	assert.False(t, a.IsInitialized())
	assert.Nil(t, a.Parent())
}

type document struct {
	*screen.Screen
	path string
}

func newDocument(path string) *document {
	d := &document{path: path}
	d.Screen = screen.New(path, screen.WithSender(d))
	return d
}

func TestConductor_ChildClosesItselfThroughParent(t *testing.T) {
	ctx := context.Background()
	d := newDocument("notes.txt")
	c := conductor.New("Editor")

	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.ActivateItem(ctx, d))

	// TryClose hands the embedded screen to the conductor; identity resolves by ID.
	require.NoError(t, d.TryClose(ctx, nil))
	assert.Nil(t, c.ActiveItem())
	assert.False(t, d.IsInitialized())
}

func TestConductor_ChildInitializationFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("no database")
	a := testutil.NewScreenBuilder("A").FailInitialize(boom).Build()

	c := conductor.New("Shell")
	require.NoError(t, c.Activate(ctx))

	err := c.ActivateItem(ctx, a)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, core.IsInitializationFailure(err))
	assert.False(t, a.IsInitialized())
	assert.Nil(t, c.ActiveItem())
	assert.Nil(t, a.Parent())
}

func TestConductor_SwitchToFailingItemReleasesBoth(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	a := testutil.NewScreenBuilder("A").Build()
	b := testutil.NewScreenBuilder("B").FailActivate(boom).Build()

	c := conductor.New("Shell")
	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.ActivateItem(ctx, a))

	err := c.ActivateItem(ctx, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.Nil(t, c.ActiveItem())
	assert.Empty(t, c.Children())
	assert.False(t, a.IsInitialized())
	assert.Nil(t, a.Parent())
	assert.False(t, b.IsActive())
	assert.Nil(t, b.Parent())
}

func TestConductor_DeactivateWithoutCloseDetachesItem(t *testing.T) {
	ctx := context.Background()
	a := screen.New("A")
	c := conductor.New("Shell")

	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.ActivateItem(ctx, a))
	require.NoError(t, c.DeactivateItem(ctx, a, false))

	assert.Nil(t, c.ActiveItem())
	assert.Empty(t, c.Children())
	assert.False(t, a.IsActive())
	assert.True(t, a.IsInitialized())
	assert.Nil(t, a.Parent())

	// The item can be conducted again afterwards.
	require.NoError(t, c.ActivateItem(ctx, a))
	assert.True(t, a.IsActive())
	assert.Equal(t, core.Parent(c), a.Parent())
}

func TestConductor_NestedConductorFailureSurfacesThroughParent(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	inner := conductor.New("Inner")
	require.NoError(t, inner.ActivateItem(ctx, testutil.NewScreenBuilder("A").FailInitialize(boom).Build()))

	outer := conductor.New("Outer")
	require.NoError(t, outer.ActivateItem(ctx, inner))

	err := outer.Activate(ctx)
	require.Error(t, err)
	assert.True(t, core.IsInitializationFailure(err))
	assert.False(t, outer.IsActive())
	assert.False(t, inner.IsActive())
}

func TestConductor_CanClose(t *testing.T) {
	ctx := context.Background()
	c := conductor.New("Shell")

	ok, err := c.CanClose(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.ActivateItem(ctx, testutil.NewScreenBuilder("A").VetoClose().Build()))
	ok, err = c.CanClose(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConductor_ActiveItemPropertyChange(t *testing.T) {
	ctx := context.Background()
	c := conductor.New("Shell")

	var changes int
	c.OnPropertyChanged(func(_ any, e core.PropertyChangedEventArgs) {
		if e.PropertyName == conductor.PropActiveItem {
			changes++
		}
	})

	a := screen.New("A")
	require.NoError(t, c.ActivateItem(ctx, a))
	require.NoError(t, c.ActivateItem(ctx, a))
	require.NoError(t, c.ActivateItem(ctx, screen.New("B")))
	assert.Equal(t, 2, changes)
}

func TestConductor_SenderIsConductor(t *testing.T) {
	c := conductor.New("Shell")
	var sender any
	c.OnActivated(func(s any, _ core.ActivationEventArgs) { sender = s })

	require.NoError(t, c.Activate(context.Background()))
	assert.Same(t, c, sender)
}

func TestConductor_Dispose(t *testing.T) {
	ctx := context.Background()
	inner := conductor.NewOneActive("Inner")
	leaf := screen.New("Leaf")
	require.NoError(t, inner.ActivateItem(ctx, leaf))

	outer := conductor.New("Outer")
	require.NoError(t, outer.ActivateItem(ctx, inner))

	var events int
	outer.OnActivationProcessed(func(any, core.ActivationProcessedEventArgs) { events++ })

	outer.Dispose()
	outer.Dispose()

	assert.Nil(t, outer.ActiveItem())
	assert.Nil(t, inner.Parent())
	assert.Empty(t, inner.Children(), "children are disposed too")
	assert.Nil(t, leaf.Parent())

	err := outer.ActivateItem(ctx, screen.New("Late"))
	assert.ErrorIs(t, err, core.ErrDisposed)
	assert.ErrorIs(t, inner.ActivateItem(ctx, leaf), core.ErrDisposed)
	assert.Zero(t, events)

	_, err = outer.CanClose(ctx)
	assert.ErrorIs(t, err, core.ErrDisposed)
}

func TestConductor_OwnHooksRunBeforeChildren(t *testing.T) {
	ctx := context.Background()
	j := testutil.NewJournal()
	a := testutil.NewScreenBuilder("A").Journal(j).WithoutEvents().Build()

	c := conductor.New("Shell",
		conductor.WithInitializeHook(func(context.Context) error { j.Record("Shell:initialize"); return nil }),
		conductor.WithActivateHook(func(context.Context) error { j.Record("Shell:activate"); return nil }),
		conductor.WithDeactivateHook(func(context.Context, bool) error { j.Record("Shell:deactivate"); return nil }),
	)
	require.NoError(t, c.ActivateItem(ctx, a))
	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.Deactivate(ctx, false))

	assert.Equal(t, []string{
		"Shell:initialize", "Shell:activate", "A:initialize", "A:activate",
		"Shell:deactivate", "A:deactivate",
	}, j.Entries())
}
