package host

import (
	"context"
	"fmt"

	"github.com/hupe1980/screenmesh/conductor"
	"github.com/hupe1980/screenmesh/core"
)

// RootConductor is the conductor at the top of a host's screen tree.
type RootConductor interface {
	core.Screen
	core.Conductor
}

// Root kinds accepted by NewRoot.
const (
	RootSingle    = "conductor"
	RootOneActive = "one_active"
	RootAllActive = "all_active"
)

// Close strategy names accepted by CloseStrategyByName.
const (
	CloseStrategyDefault = "default"
	CloseStrategyForce   = "force"
)

// ForceCloseStrategy lets every candidate close without asking its guard.
var ForceCloseStrategy core.CloseStrategy = conductor.FuncCloseStrategy(
	func(_ context.Context, candidates []core.Child) (core.CloseResult, error) {
		result := core.CloseResult{CloseCanOccur: true}
		for _, c := range candidates {
			if c != nil {
				result.Closable = append(result.Closable, c)
			}
		}
		return result, nil
	},
)

// NewRoot builds a root conductor of the given kind.
func NewRoot(kind, name string, optFns ...func(o *conductor.Options)) (RootConductor, error) {
	switch kind {
	case RootSingle:
		return conductor.New(name, optFns...), nil
	case RootOneActive, "":
		return conductor.NewOneActive(name, optFns...), nil
	case RootAllActive:
		return conductor.NewAllActive(name, optFns...), nil
	default:
		return nil, fmt.Errorf("unknown root kind %q", kind)
	}
}

// CloseStrategyByName resolves a configured close strategy.
func CloseStrategyByName(name string) (core.CloseStrategy, error) {
	switch name {
	case CloseStrategyDefault, "":
		return conductor.DefaultCloseStrategy{}, nil
	case CloseStrategyForce:
		return ForceCloseStrategy, nil
	default:
		return nil, fmt.Errorf("unknown close strategy %q", name)
	}
}
