package manifest

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/screenmesh/conductor"
	"github.com/hupe1980/screenmesh/host"
	"github.com/hupe1980/screenmesh/logging"
)

// RunOptions configures a Runner. Values set in the manifest take
// precedence over RootKind and CloseStrategy.
type RunOptions struct {
	RootKind      string
	CloseStrategy string
	Logger        logging.Logger
	Callbacks     []host.Callback
}

// Runner executes a manifest's script against a freshly built host.
type Runner struct {
	manifest *Manifest
	host     *host.Host
	journal  *Journal
	logger   logging.Logger
}

// NewRunner builds the host and the screen tree described by m.
func NewRunner(ctx context.Context, m *Manifest, optFns ...func(o *RunOptions)) (*Runner, error) {
	opts := RunOptions{
		RootKind:      host.RootOneActive,
		CloseStrategy: host.CloseStrategyDefault,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	if m.Root != "" {
		opts.RootKind = m.Root
	}
	if m.CloseStrategy != "" {
		opts.CloseStrategy = m.CloseStrategy
	}

	strategy, err := host.CloseStrategyByName(opts.CloseStrategy)
	if err != nil {
		return nil, err
	}
	root, err := host.NewRoot(opts.RootKind, "root",
		conductor.WithCloseStrategy(strategy),
		conductor.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		manifest: m,
		journal:  &Journal{},
		logger:   opts.Logger,
		host: host.New(func(o *host.Options) {
			o.Root = root
			o.Logger = opts.Logger
			o.Callbacks = opts.Callbacks
		}),
	}
	r.journal.observe("root", root)

	b := &builder{journal: r.journal, logger: opts.Logger}
	for _, n := range m.Screens {
		s, err := b.build(ctx, n)
		if err != nil {
			return nil, err
		}
		if err := r.host.Register(n.Name, s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Host returns the host the script runs against.
func (r *Runner) Host() *host.Host { return r.host }

// Journal returns the run journal.
func (r *Runner) Journal() *Journal { return r.journal }

// Run executes every step in order. A step failing without expect_error, or
// a step marked expect_error that succeeds, stops the run.
func (r *Runner) Run(ctx context.Context) error {
	for i, step := range r.manifest.Script {
		r.journal.record("> %s", step)
		r.logger.Debug("Running step", "index", i, "op", step.Op, "screen", step.Screen)

		outcome, err := r.exec(ctx, step)
		switch {
		case err != nil:
			r.journal.record("< %s: error: %v", step, err)
		case outcome != "":
			r.journal.record("< %s: %s", step, outcome)
		default:
			r.journal.record("< %s: ok", step)
		}

		if err != nil && !step.ExpectError {
			return fmt.Errorf("step %d (%s): %w", i, step, err)
		}
		if err == nil && step.ExpectError {
			return fmt.Errorf("step %d (%s): %w", i, step, ErrUnexpectedSuccess)
		}
	}
	return nil
}

// ErrUnexpectedSuccess reports a step marked expect_error that succeeded.
var ErrUnexpectedSuccess = errors.New("expected an error")

func (r *Runner) exec(ctx context.Context, step Step) (string, error) {
	var err error
	switch step.Op {
	case OpStart:
		_, err = r.host.Start(ctx)
	case OpOpen:
		_, err = r.host.Open(ctx, step.Screen)
	case OpClose:
		_, err = r.host.Close(ctx, step.Screen)
	case OpDeactivate:
		_, err = r.host.Deactivate(ctx, step.Screen)
	case OpCanClose:
		ok, cerr := r.host.CanClose(ctx)
		if cerr != nil {
			return "", cerr
		}
		return fmt.Sprintf("%t", ok), nil
	case OpShutdown:
		_, err = r.host.Shutdown(ctx)
	default:
		err = fmt.Errorf("unknown op %q", step.Op)
	}
	return "", err
}
