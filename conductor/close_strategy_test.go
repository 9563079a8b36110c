package conductor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/screenmesh/conductor"
	"github.com/hupe1980/screenmesh/core"
	"github.com/hupe1980/screenmesh/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockGuard is a screen whose close guard is driven by testify/mock.
type mockGuard struct {
	*screen.Screen
	mock.Mock
}

func newMockGuard(name string) *mockGuard {
	g := &mockGuard{}
	g.Screen = screen.New(name, screen.WithSender(g))
	return g
}

func (g *mockGuard) CanClose(ctx context.Context) (bool, error) {
	args := g.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// plainChild has no guard and no lifecycle.
type plainChild struct {
	parent core.Parent
}

func (p *plainChild) Parent() core.Parent     { return p.parent }
func (p *plainChild) SetParent(pr core.Parent) { p.parent = pr }

func TestDefaultCloseStrategy_AsksEveryGuard(t *testing.T) {
	ctx := context.Background()
	a, b, c := newMockGuard("A"), newMockGuard("B"), newMockGuard("C")
	a.On("CanClose", mock.Anything).Return(true, nil).Once()
	b.On("CanClose", mock.Anything).Return(false, nil).Once()
	c.On("CanClose", mock.Anything).Return(true, nil).Once()

	result, err := conductor.DefaultCloseStrategy{}.Execute(ctx, []core.Child{a, b, c})
	require.NoError(t, err)

	assert.False(t, result.CloseCanOccur)
	require.Len(t, result.Closable, 2)
	assert.Same(t, a, result.Closable[0])
	assert.Same(t, c, result.Closable[1])

	a.AssertExpectations(t)
	b.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestDefaultCloseStrategy_UnguardedAndNilCandidates(t *testing.T) {
	p := &plainChild{}

	result, err := conductor.DefaultCloseStrategy{}.Execute(context.Background(), []core.Child{nil, p})
	require.NoError(t, err)
	assert.True(t, result.CloseCanOccur)
	assert.Equal(t, []core.Child{p}, result.Closable)

	result, err = conductor.DefaultCloseStrategy{}.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, result.CloseCanOccur)
	assert.Empty(t, result.Closable)
}

func TestDefaultCloseStrategy_GuardErrorPropagates(t *testing.T) {
	boom := errors.New("guard exploded")
	g := newMockGuard("A")
	g.On("CanClose", mock.Anything).Return(false, boom)

	_, err := conductor.DefaultCloseStrategy{}.Execute(context.Background(), []core.Child{g})
	assert.ErrorIs(t, err, boom)
}

func TestFuncCloseStrategy(t *testing.T) {
	var seen []core.Child
	s := conductor.FuncCloseStrategy(func(_ context.Context, candidates []core.Child) (core.CloseResult, error) {
		seen = candidates
		return core.CloseResult{CloseCanOccur: false}, nil
	})

	p := &plainChild{}
	result, err := s.Execute(context.Background(), []core.Child{p})
	require.NoError(t, err)
	assert.False(t, result.CloseCanOccur)
	assert.Equal(t, []core.Child{p}, seen)
}

func TestDetermineNextItemToActivate(t *testing.T) {
	a, b, c := &plainChild{}, &plainChild{}, &plainChild{}
	list := []core.Child{a, b, c}

	tests := []struct {
		name      string
		list      []core.Child
		lastIndex int
		want      core.Child
	}{
		{"middle selects previous", list, 1, a},
		{"first selects second", list, 0, b},
		{"last selects previous", list, 2, b},
		{"single item has no successor", []core.Child{a}, 0, nil},
		{"unknown index has no successor", list, -1, nil},
		{"empty list", nil, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conductor.DetermineNextItemToActivate(tt.list, tt.lastIndex)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Same(t, tt.want, got)
		})
	}
}
