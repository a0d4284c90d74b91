package unit

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/unicase/internal/resolve"
)

// Adapter is the universal wrapper. Whatever shape the underlying unit has,
// the executor always drives an Adapter: hooks are mediated here, failures
// are contained here, and the after hook fires exactly once on every exit
// path. One adapter wraps one unit and serves one Run call at a time.
type Adapter struct {
	test     TestCase
	chain    *Chain
	proxy    ResultProxyFactory
	resolver resolve.Resolver
	logger   pslog.Base

	ctxOnce sync.Once
	ctxVal  any

	// Transient per-run state, written once per Run and readable by
	// external plugins and proxies.
	errInfo  *ErrorInfo
	captured string
	passed   *bool
}

// NewAdapter wraps a test unit. test must be a TestCase or a bare function
// value (wrapped in a FunctionCase); anything else fails immediately, so a
// malformed unit never reaches a running sequence.
func NewAdapter(test any, opts ...AdapterOption) (*Adapter, error) {
	cfg := adapterConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.resolver == nil {
		cfg.resolver = resolve.Default
	}
	if cfg.logger == nil {
		cfg.logger = pslog.New(os.Stdout)
	}

	var tc TestCase
	switch t := test.(type) {
	case nil:
		return nil, fmt.Errorf("%w: <nil>", ErrNotCallable)
	case TestCase:
		tc = t
	default:
		if reflect.ValueOf(test).Kind() != reflect.Func {
			return nil, fmt.Errorf("%w: %T", ErrNotCallable, test)
		}
		fc, err := NewFunctionCase(test, WithFunctionResolver(cfg.resolver))
		if err != nil {
			return nil, err
		}
		tc = fc
	}
	return &Adapter{
		test:     tc,
		chain:    cfg.chain,
		proxy:    cfg.proxy,
		resolver: cfg.resolver,
		logger:   cfg.logger,
	}, nil
}

// Run executes the wrapped unit once. Failures of any kind (returned errors
// and panics, from setup, body or teardown) are contained and reported via
// exactly one result.AddError call. Hard cancellation is the only thing
// that escapes: an interrupt error is returned unconverted and an interrupt
// panic keeps unwinding. The result's AfterTest capability fires exactly
// once on every one of those paths.
func (a *Adapter) Run(result Result) (err error) {
	if a.proxy != nil {
		result = a.proxy(result, a)
	}
	defer a.afterTest(result)
	defer func() {
		if r := recover(); r != nil {
			if interruptPanic(r) {
				panic(r)
			}
			a.fail(result, panicInfo(r))
		}
	}()
	a.beforeTest(result)
	if rerr := a.RunTest(result); rerr != nil {
		if Interrupted(rerr) {
			a.logger.Debug("test interrupted", "test", a.String())
			return rerr
		}
		a.fail(result, errorInfoFor(rerr))
		return nil
	}
	a.pass()
	return nil
}

// RunTest invokes the unit, letting the hook chain substitute the callable
// for this invocation only.
func (a *Adapter) RunTest(result Result) error {
	target := a.test.Run
	if plug := a.chain.PrepareTestCase(a); plug != nil {
		target = plug
	}
	return target(result)
}

func (a *Adapter) beforeTest(result Result) {
	if r, ok := result.(ResultBeforeTester); ok {
		r.BeforeTest(a.test)
	}
}

func (a *Adapter) afterTest(result Result) {
	if r, ok := result.(ResultAfterTester); ok {
		r.AfterTest(a.test)
	}
}

func (a *Adapter) fail(result Result, info ErrorInfo) {
	passed := false
	a.passed = &passed
	a.errInfo = &info
	a.logger.Debug("test errored", "test", a.String(), "err", info.Err)
	if result == nil {
		a.logger.Warn("no result to report to", "test", a.String(), "err", info.Err)
		return
	}
	result.AddError(a, info)
}

func (a *Adapter) pass() {
	passed := true
	a.passed = &passed
}

// ID delegates to the wrapped unit.
func (a *Adapter) ID() string { return a.test.ID() }

// String asks the hook chain for a name first, then falls back to the
// wrapped unit's own string form.
func (a *Adapter) String() string {
	if name := a.chain.TestName(a); name != "" {
		return name
	}
	return a.test.String()
}

// ShortDescription asks the hook chain, then the wrapped unit. A
// description identical to the string form is suppressed to avoid duplicate
// display.
func (a *Adapter) ShortDescription() (string, bool) {
	desc := a.chain.DescribeTest(a)
	if desc == "" {
		if d, ok := a.test.(Describer); ok {
			desc, _ = d.ShortDescription()
		}
	}
	if desc == "" || desc == a.String() {
		return "", false
	}
	return desc, true
}

// Address delegates to the wrapped unit when it knows its own address and
// derives one through the resolver as a last resort.
func (a *Adapter) Address() (resolve.Address, error) {
	if ad, ok := a.test.(Addresser); ok {
		return ad.Address()
	}
	return a.resolver.Address(a.test)
}

// Context returns the unit's context, computed at most once: the unit's own
// context when it exposes a non-nil one, else the module the resolver derives
// for the unit, else the unit's dynamic type.
func (a *Adapter) Context() any {
	a.ctxOnce.Do(func() { a.ctxVal = a.lookupContext() })
	return a.ctxVal
}

func (a *Adapter) lookupContext() any {
	if c, ok := a.test.(Contexter); ok {
		if v := c.Context(); v != nil {
			return v
		}
	}
	if addr, err := a.resolver.Address(a.test); err == nil && addr.Module != "" {
		if mod, err := a.resolver.ResolveName(addr.Module); err == nil {
			return mod
		}
		return addr.Module
	}
	if t := reflect.TypeOf(a.test); t != nil {
		return t
	}
	return nil
}

// Test exposes the wrapped unit; plugins seeing an Adapter reach the actual
// case through it.
func (a *Adapter) Test() TestCase { return a.test }

// Passed reports the outcome of the last run; known is false before the
// first run completes.
func (a *Adapter) Passed() (passed, known bool) {
	if a.passed == nil {
		return false, false
	}
	return *a.passed, true
}

// ErrorInfo returns the captured failure of the last run, if any.
func (a *Adapter) ErrorInfo() (ErrorInfo, bool) {
	if a.errInfo == nil {
		return ErrorInfo{}, false
	}
	return *a.errInfo, true
}

// CapturedOutput returns output attached by a capture plugin for this run.
func (a *Adapter) CapturedOutput() string { return a.captured }

// SetCapturedOutput attaches captured output for this run.
func (a *Adapter) SetCapturedOutput(out string) { a.captured = out }
