package unit

import (
	"fmt"
	"reflect"

	"pkt.systems/unicase/internal/resolve"
)

// FunctionCase wraps a bare test function. The loader constructs one per
// discovered function; generated (parametrized) functions carry a
// descriptor so that naming and addressing stay stable while execution uses
// the synthesized callable.
type FunctionCase struct {
	fn           any
	setUpFunc    func() error
	tearDownFunc func() error
	args         []any
	descriptor   any
	resolver     resolve.Resolver
}

// NewFunctionCase wraps fn. fn must be a function value; anything else is a
// construction error.
func NewFunctionCase(fn any, opts ...FunctionOption) (*FunctionCase, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: %T", ErrNotCallable, fn)
	}
	c := &FunctionCase{fn: fn, resolver: resolve.Default}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.resolver == nil {
		c.resolver = resolve.Default
	}
	return c, nil
}

// Run executes setup, the function with its argument tuple, and teardown.
func (c *FunctionCase) Run(result Result) error {
	return runCycle(c.SetUp, func() error { return callWith(c.fn, c.args) }, c.TearDown)
}

// SetUp runs the explicit setup override when supplied; otherwise it probes
// the function's attached attributes for the first setup candidate. Absence
// is a no-op.
func (c *FunctionCase) SetUp() error {
	if c.setUpFunc != nil {
		return c.setUpFunc()
	}
	_, err := c.resolver.TryFirstMatching(c.fn, setUpNames)
	return err
}

// TearDown mirrors SetUp for the teardown candidates.
func (c *FunctionCase) TearDown() error {
	if c.tearDownFunc != nil {
		return c.tearDownFunc()
	}
	_, err := c.resolver.TryFirstMatching(c.fn, tearDownNames)
	return err
}

func (c *FunctionCase) ID() string { return c.String() }

// String renders the module-qualified name of the descriptor (when present)
// or the function, with the argument tuple appended when non-empty.
func (c *FunctionCase) String() string {
	return displayName(c.resolver, c.namingTarget()) + argsSuffix(c.args)
}

// Address derives the round-trip address from the descriptor when present,
// never from a synthesized callable.
func (c *FunctionCase) Address() (resolve.Address, error) {
	return c.resolver.Address(c.namingTarget())
}

// Context resolves to the module defining the function: the registered
// module object when the loader registered one, else the package path.
func (c *FunctionCase) Context() any {
	addr, err := c.resolver.Address(c.fn)
	if err != nil || addr.Module == "" {
		return nil
	}
	if mod, err := c.resolver.ResolveName(addr.Module); err == nil {
		return mod
	}
	return addr.Module
}

// ShortDescription prefers an explicit description attribute, then the
// first line of the descriptor's doc attribute, then the string form.
func (c *FunctionCase) ShortDescription() (string, bool) {
	return describeTarget(c.resolver, c.fn, c.namingTarget(), c.String())
}

// Args returns the positional argument tuple.
func (c *FunctionCase) Args() []any { return c.args }

// Descriptor returns the originating callable used for naming, or nil.
func (c *FunctionCase) Descriptor() any { return c.descriptor }

func (c *FunctionCase) namingTarget() any {
	if c.descriptor != nil {
		return c.descriptor
	}
	return c.fn
}
