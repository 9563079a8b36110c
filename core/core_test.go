package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainChild struct {
	name   string
	parent Parent
}

func (c *plainChild) Parent() Parent     { return c.parent }
func (c *plainChild) SetParent(p Parent) { c.parent = p }

type idChild struct {
	plainChild
	id string
}

func (c *idChild) ID() string { return c.id }

func TestSameItem(t *testing.T) {
	a := &plainChild{name: "a"}
	b := &plainChild{name: "b"}

	assert.True(t, SameItem(a, a))
	assert.False(t, SameItem(a, b))
	assert.False(t, SameItem(nil, a))
	assert.False(t, SameItem(nil, nil))

	x1 := &idChild{id: "x"}
	x2 := &idChild{id: "x"}
	assert.True(t, SameItem(x1, x2), "identifiable items compare by ID")
	assert.False(t, SameItem(x1, a))
}

func TestIndexOfContainsWithout(t *testing.T) {
	a, b, c := &plainChild{name: "a"}, &plainChild{name: "b"}, &plainChild{name: "c"}
	list := []Child{a, b, c}

	assert.Equal(t, 1, IndexOf(list, b))
	assert.Equal(t, -1, IndexOf(list, &plainChild{}))
	assert.True(t, Contains(list, c))
	assert.Equal(t, []Child{b}, Without(list, a, c))
	assert.Len(t, list, 3, "Without must not modify its input")
}

func TestAsChild(t *testing.T) {
	c, err := AsChild(&plainChild{name: "ok"})
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = AsChild("not a child")
	assert.ErrorIs(t, err, ErrInvalidItem)
	assert.Contains(t, err.Error(), "string")

	_, err = AsChild(nil)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestLifecycleError(t *testing.T) {
	base := errors.New("db down")
	err := fmt.Errorf("wrap: %w", &LifecycleError{Op: OpInitialize, Screen: "Orders", Err: base})

	assert.ErrorIs(t, err, base)
	assert.True(t, IsInitializationFailure(err))
	assert.False(t, IsCanceled(err))
	assert.Contains(t, err.Error(), `initialize "Orders" failed`)

	canceled := &LifecycleError{Op: OpInitialize, Err: context.Canceled}
	assert.True(t, IsCanceled(canceled))
	assert.False(t, IsInitializationFailure(canceled))
	assert.Equal(t, "initialize failed: context canceled", canceled.Error())
}
