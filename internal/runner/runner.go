package runner

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"conditionscript/internal/engine"
	"conditionscript/internal/message"
	"conditionscript/internal/script"
)

// ErrNotBoolean is matched when a predicate evaluates to a non-boolean value
var ErrNotBoolean = errors.New("predicate is not boolean")

// NotBooleanError reports the value a predicate produced instead of a boolean
type NotBooleanError struct {
	Predicate string
	Value     any
}

func (e *NotBooleanError) Error() string {
	return fmt.Sprintf("predicate %q evaluated to %s (%T), not a boolean", e.Predicate, engine.Text(e.Value), e.Value)
}

func (e *NotBooleanError) Unwrap() error { return ErrNotBoolean }

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger used for per-predicate debug output
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLib adds a library that stays loaded across ResetLibs
func WithLib(lib engine.Lib) Option {
	return func(r *Runner) {
		r.base = append(r.base, lib)
	}
}

// WithPersistentEnv keeps one environment across runs, so variables bound
// by where in one predicate stay visible to the next until Reset
func WithPersistentEnv() Option {
	return func(r *Runner) {
		r.persistent = true
	}
}

// Runner compiles and evaluates predicates.
// Each run gets a fresh environment unless WithPersistentEnv is set.
type Runner struct {
	mu         sync.Mutex
	logger     *zap.Logger
	base       []engine.Lib
	loaded     []engine.Lib
	persistent bool
	env        *engine.Env
}

// New creates a runner with the operator and message libraries loaded
func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		logger: zap.NewNop(),
		base:   []engine.Lib{engine.Builtins(), message.StdLib()},
	}
	for _, opt := range opts {
		opt(r)
	}

	// fail fast on bad bindings
	if _, err := r.newEnv(); err != nil {
		return nil, err
	}
	return r, nil
}

// Compile tokenizes and parses a predicate without evaluating it
func (r *Runner) Compile(source string) (script.Node, error) {
	return script.Compile(source)
}

// Run evaluates a predicate and returns whatever value it produces
func (r *Runner) Run(source string) (any, error) {
	start := time.Now()

	node, err := r.Compile(source)
	if err != nil {
		r.logger.Debug("predicate rejected", zap.String("predicate", source), zap.Error(err))
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	env, err := r.envForRun()
	if err != nil {
		return nil, err
	}

	value, err := engine.New(env).Evaluate(node)
	if err != nil {
		r.logger.Debug("predicate failed",
			zap.String("predicate", source),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	r.logger.Debug("predicate evaluated",
		zap.String("predicate", source),
		zap.String("result", engine.Text(value)),
		zap.Duration("elapsed", time.Since(start)))
	return value, nil
}

// RunPredicate evaluates a predicate that must produce a boolean
func (r *Runner) RunPredicate(source string) (bool, error) {
	value, err := r.Run(source)
	if err != nil {
		return false, err
	}
	b, ok := value.(bool)
	if !ok {
		return false, &NotBooleanError{Predicate: source, Value: value}
	}
	return b, nil
}

// LoadLib adds host bindings to every following run
func (r *Runner) LoadLib(lib engine.Lib) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.env != nil {
		if err := r.env.Load(lib); err != nil {
			return err
		}
	} else if _, err := engine.NewEnv(lib); err != nil {
		return err
	}
	r.loaded = append(r.loaded, lib)
	return nil
}

// Reset drops everything bound while evaluating, keeping loaded libraries
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.env = nil
}

// ResetLibs drops the libraries added by LoadLib, along with all bindings
func (r *Runner) ResetLibs() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = nil
	r.env = nil
}

func (r *Runner) envForRun() (*engine.Env, error) {
	if !r.persistent {
		return r.newEnv()
	}
	if r.env == nil {
		env, err := r.newEnv()
		if err != nil {
			return nil, err
		}
		r.env = env
	}
	return r.env, nil
}

func (r *Runner) newEnv() (*engine.Env, error) {
	libs := make([]engine.Lib, 0, len(r.base)+len(r.loaded))
	libs = append(libs, r.base...)
	libs = append(libs, r.loaded...)
	return engine.NewEnv(libs...)
}
