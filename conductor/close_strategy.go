package conductor

import (
	"context"

	"github.com/hupe1980/screenmesh/core"
)

// DefaultCloseStrategy asks every candidate implementing core.GuardClose
// whether it may close. All guards are consulted even after a veto, so
// Closable always lists every permitting candidate. Candidates without a
// guard are closable; nil candidates are ignored.
type DefaultCloseStrategy struct{}

var _ core.CloseStrategy = DefaultCloseStrategy{}

// Execute implements core.CloseStrategy.
func (DefaultCloseStrategy) Execute(ctx context.Context, candidates []core.Child) (core.CloseResult, error) {
	result := core.CloseResult{CloseCanOccur: true}

	for _, c := range candidates {
		if c == nil {
			continue
		}

		if guard, ok := c.(core.GuardClose); ok {
			canClose, err := guard.CanClose(ctx)
			if err != nil {
				return core.CloseResult{}, err
			}
			if !canClose {
				result.CloseCanOccur = false
				continue
			}
		}

		result.Closable = append(result.Closable, c)
	}

	return result, nil
}

// FuncCloseStrategy adapts a function to core.CloseStrategy.
type FuncCloseStrategy func(ctx context.Context, candidates []core.Child) (core.CloseResult, error)

// Execute implements core.CloseStrategy.
func (f FuncCloseStrategy) Execute(ctx context.Context, candidates []core.Child) (core.CloseResult, error) {
	return f(ctx, candidates)
}

// DetermineNextItemToActivate picks the successor of the item at lastIndex
// after it closes: the previous item, or the second item when the first one
// closes. It returns nil when no successor exists.
func DetermineNextItemToActivate(list []core.Child, lastIndex int) core.Child {
	probe := lastIndex - 1

	if probe == -1 && len(list) > 1 {
		return list[1]
	}
	if probe > -1 && probe < len(list)-1 {
		return list[probe]
	}
	return nil
}
