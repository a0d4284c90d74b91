package unit

import (
	"context"
	"errors"

	"pkt.systems/pslog"
	"pkt.systems/unicase/internal/resolve"
)

// TestCase is the minimal contract a wrapped test unit satisfies. The
// concrete variants are FunctionCase and MethodCase; generated units are
// expressed as FunctionCases rather than new variants.
type TestCase interface {
	// Run executes the unit's full cycle (setup, body, teardown) and
	// returns the first failure. The result may be nil; units that do not
	// report directly ignore it.
	Run(result Result) error
	ID() string
	String() string
}

// Optional capabilities a TestCase may implement. Absence means fallback
// behavior, never an error.
type (
	// Addresser supplies a stable round-trip address for the unit.
	Addresser interface {
		Address() (resolve.Address, error)
	}
	// Contexter exposes the unit's context object (module, owner type).
	// A nil context counts as absent.
	Contexter interface {
		Context() any
	}
	// Describer supplies a one-line human description.
	Describer interface {
		ShortDescription() (string, bool)
	}
	// SetUpper and TearDowner expose the unit's own fixture phases.
	SetUpper interface {
		SetUp() error
	}
	TearDowner interface {
		TearDown() error
	}
)

// RunFunc is the uniform calling convention every wrapped unit reduces to.
type RunFunc func(result Result) error

// Result is the collector-side protocol this layer reports into.
type Result interface {
	AddError(test *Adapter, info ErrorInfo)
}

// Optional pass-through capabilities on the result object, checked
// independently of the hook chain.
type (
	ResultBeforeTester interface {
		BeforeTest(test TestCase)
	}
	ResultAfterTester interface {
		AfterTest(test TestCase)
	}
)

// ResultProxyFactory wraps the result for a single run, enabling per-test
// interception without mutating the shared result object.
type ResultProxyFactory func(result Result, test *Adapter) Result

// Construction and cancellation sentinels.
var (
	// ErrNotCallable marks construction with a test object that cannot be
	// invoked.
	ErrNotCallable = errors.New("test is not callable")
	// ErrUnboundMethod marks a MethodCase built from a bare function; there
	// is no owner type to instantiate for it.
	ErrUnboundMethod = errors.New("unbound function cannot form a method case")
	// ErrInterrupted is the hard cancellation signal. It always propagates
	// out of Adapter.Run unconverted and aborts the surrounding run.
	ErrInterrupted = errors.New("run interrupted")
)

// Interrupted reports whether err is a hard cancellation: the interrupt
// sentinel or a context cancellation bubbling out of the test body.
func Interrupted(err error) bool {
	return err != nil && (errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled))
}

// Candidate names probed for fixture callables. Function-shaped units carry
// them in the resolver attribute table; method cases probe exported methods
// on the fresh instance, so only exported spellings apply there.
var (
	setUpNames          = []string{"setup", "setUp", "setUpFunc"}
	tearDownNames       = []string{"teardown", "tearDown", "tearDownFunc"}
	methodSetUpNames    = []string{"Setup", "SetUp"}
	methodTearDownNames = []string{"Teardown", "TearDown"}
)

// Attribute-table keys understood by the case layer.
const (
	attrDescription = "description"
	attrDoc         = "doc"
	attrCompatName  = "compatName"
)

// AdapterOption tweaks adapter construction.
type AdapterOption func(*adapterConfig)

type adapterConfig struct {
	chain    *Chain
	proxy    ResultProxyFactory
	resolver resolve.Resolver
	logger   pslog.Base
}

// WithHooks attaches the plugin hook chain consulted during the run.
func WithHooks(chain *Chain) AdapterOption {
	return func(c *adapterConfig) { c.chain = chain }
}

// WithResultProxy configures per-run result substitution.
func WithResultProxy(factory ResultProxyFactory) AdapterOption {
	return func(c *adapterConfig) { c.proxy = factory }
}

// WithResolver overrides the default name-resolution registry.
func WithResolver(r resolve.Resolver) AdapterOption {
	return func(c *adapterConfig) { c.resolver = r }
}

// WithLogger supplies a custom pslog logger.
func WithLogger(logger pslog.Base) AdapterOption {
	return func(c *adapterConfig) { c.logger = logger }
}

// FunctionOption tweaks FunctionCase construction.
type FunctionOption func(*FunctionCase)

// WithArgs sets the positional argument tuple passed to the callable.
func WithArgs(args ...any) FunctionOption {
	return func(c *FunctionCase) { c.args = args }
}

// WithSetUp sets an explicit setup callable, suppressing the attribute
// probe.
func WithSetUp(fn func() error) FunctionOption {
	return func(c *FunctionCase) { c.setUpFunc = fn }
}

// WithTearDown sets an explicit teardown callable, suppressing the attribute
// probe.
func WithTearDown(fn func() error) FunctionOption {
	return func(c *FunctionCase) { c.tearDownFunc = fn }
}

// WithDescriptor names the originating callable used for naming and
// addressing when the executed function is synthesized.
func WithDescriptor(descriptor any) FunctionOption {
	return func(c *FunctionCase) { c.descriptor = descriptor }
}

// WithFunctionResolver overrides the default name-resolution registry.
func WithFunctionResolver(r resolve.Resolver) FunctionOption {
	return func(c *FunctionCase) { c.resolver = r }
}

// MethodOption tweaks MethodCase construction.
type MethodOption func(*MethodCase)

// WithMethodArgs sets the positional argument tuple passed to the method.
func WithMethodArgs(args ...any) MethodOption {
	return func(c *MethodCase) { c.args = args }
}

// WithMethodCallable substitutes the executed callable while the method
// still provides identity. Supports factory-generated inline callables
// bound to the fresh instance.
func WithMethodCallable(fn any) MethodOption {
	return func(c *MethodCase) { c.testFn = fn }
}

// WithMethodDescriptor names the originating callable used for naming and
// addressing.
func WithMethodDescriptor(descriptor any) MethodOption {
	return func(c *MethodCase) { c.descriptor = descriptor }
}

// WithMethodResolver overrides the default name-resolution registry.
func WithMethodResolver(r resolve.Resolver) MethodOption {
	return func(c *MethodCase) { c.resolver = r }
}
