package unit

import (
	"fmt"
	"reflect"

	"pkt.systems/unicase/internal/resolve"
)

// MethodCase wraps a test method. Construction derives the owner type from
// the bound method and builds a fresh instance per case, so no two method
// cases of the same type share instance state.
type MethodCase struct {
	method     resolve.BoundMethod
	owner      reflect.Type
	inst       any
	testFn     any
	args       []any
	descriptor any
	resolver   resolve.Resolver
}

// NewMethodCase wraps a bound method. A bare function value is rejected:
// without an owner there is no way to decide which instance should run it.
func NewMethodCase(method any, opts ...MethodOption) (*MethodCase, error) {
	var bound resolve.BoundMethod
	switch m := method.(type) {
	case resolve.BoundMethod:
		bound = m
	case *resolve.BoundMethod:
		if m == nil {
			return nil, fmt.Errorf("%w: nil bound method", ErrNotCallable)
		}
		bound = *m
	default:
		if v := reflect.ValueOf(method); v.Kind() == reflect.Func {
			return nil, fmt.Errorf("%w: %T must be bound with resolve.Bind first", ErrUnboundMethod, method)
		}
		return nil, fmt.Errorf("%w: %T", ErrNotCallable, method)
	}
	c := &MethodCase{method: bound, resolver: resolve.Default}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.resolver == nil {
		c.resolver = resolve.Default
	}
	c.owner = ownerType(bound.Receiver())
	inst, err := freshInstance(bound.Receiver(), c.owner)
	if err != nil {
		return nil, err
	}
	c.inst = inst
	if c.testFn == nil {
		m := reflect.ValueOf(inst).MethodByName(bound.Name())
		if !m.IsValid() {
			return nil, fmt.Errorf("method %q not found on fresh %s instance", bound.Name(), c.owner)
		}
		c.testFn = m.Interface()
	}
	return c, nil
}

func ownerType(receiver any) reflect.Type {
	t := reflect.TypeOf(receiver)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// freshInstance builds the per-case instance: the receiver's NewFresh
// factory when implemented, else a zero-constructed pointer to the owner
// type.
func freshInstance(exemplar any, owner reflect.Type) (any, error) {
	if f, ok := exemplar.(resolve.Freshener); ok {
		inst := f.NewFresh()
		if inst == nil {
			return nil, fmt.Errorf("%s.NewFresh returned nil", owner)
		}
		return inst, nil
	}
	return reflect.New(owner).Interface(), nil
}

// Run executes setup, the rebound (or substituted) method with its argument
// tuple, and teardown.
func (c *MethodCase) Run(result Result) error {
	return runCycle(c.SetUp, func() error { return callWith(c.testFn, c.args) }, c.TearDown)
}

// SetUp probes the fresh instance for the first setup method. There is no
// override option here; instance construction is already owned by this
// case.
func (c *MethodCase) SetUp() error {
	_, err := c.resolver.TryFirstMatching(c.inst, methodSetUpNames)
	return err
}

// TearDown mirrors SetUp for the teardown candidates.
func (c *MethodCase) TearDown() error {
	_, err := c.resolver.TryFirstMatching(c.inst, methodTearDownNames)
	return err
}

func (c *MethodCase) ID() string { return c.String() }

// String renders package, owner type and method name, with the argument
// tuple appended when non-empty. A descriptor takes over naming entirely.
func (c *MethodCase) String() string {
	if c.descriptor != nil {
		return displayName(c.resolver, c.descriptor) + argsSuffix(c.args)
	}
	name := c.method.Name()
	if compat, ok := attrString(c.resolver, c.method, attrCompatName); ok {
		name = compat
	}
	qualified := fmt.Sprintf("%s.%s.%s", c.owner.PkgPath(), c.owner.Name(), name)
	return qualified + argsSuffix(c.args)
}

// Address derives the round-trip address from the descriptor when present,
// else from the original method.
func (c *MethodCase) Address() (resolve.Address, error) {
	if c.descriptor != nil {
		return c.resolver.Address(c.descriptor)
	}
	return c.resolver.Address(c.method)
}

// Context is the owner type.
func (c *MethodCase) Context() any { return c.owner }

// ShortDescription prefers a description attribute on the method, then the
// first line of the naming target's doc attribute, then the string form.
func (c *MethodCase) ShortDescription() (string, bool) {
	named := any(c.method)
	if c.descriptor != nil {
		named = c.descriptor
	}
	return describeTarget(c.resolver, c.method, named, c.String())
}

// Instance returns the fresh per-case instance the method runs on.
func (c *MethodCase) Instance() any { return c.inst }

// Args returns the positional argument tuple.
func (c *MethodCase) Args() []any { return c.args }

// Descriptor returns the originating callable used for naming, or nil.
func (c *MethodCase) Descriptor() any { return c.descriptor }
