// Package resolve locates test objects by dotted name, derives stable
// addresses for them, and probes objects for optionally-present callables.
// Go has no runtime attribute or module lookup, so the default Resolver is a
// registry populated by the loader: modules map names to objects, and an
// attribute table attaches metadata (descriptions, doc text, compat names,
// setup/teardown callables) to function values that cannot carry it
// themselves.
package resolve

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// Address is a round-trip identity for a test object: feeding it back to the
// loader (with the same registry contents) locates the same test again. It is
// derived from stable inputs only, never from a synthesized closure.
type Address struct {
	Location string // defining source file
	Module   string // package path or registered module name
	Name     string // qualified name within the module
}

func (a Address) String() string {
	if a.Module == "" {
		return a.Name
	}
	return a.Module + "." + a.Name
}

// Addressable lets an object supply its own address, bypassing function
// introspection. Descriptors for generated tests implement this.
type Addressable interface {
	TestAddress() (Address, error)
}

// Freshener is the optional factory capability a receiver type may implement
// to control construction of the fresh per-test instance. Types without it
// are zero-constructed.
type Freshener interface {
	NewFresh() any
}

// Resolver is the name-resolution contract consumed by the case layer.
type Resolver interface {
	// ResolveName returns the object registered under a dotted path.
	ResolveName(dotted string) (any, error)
	// Address derives a stable address for an object.
	Address(obj any) (Address, error)
	// TryFirstMatching probes names in order and invokes the first callable
	// found. No match is a no-op, not an error.
	TryFirstMatching(obj any, names []string) (bool, error)
	// Attr returns a metadata attribute attached to a callable.
	Attr(obj any, name string) (any, bool)
}

// Registry is the default Resolver. Safe for concurrent use; loaders may
// populate it while earlier tests run.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
	attrs   map[uintptr]map[string]any
}

// Default is the registry used when no explicit resolver is configured.
var Default = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: map[string]*Module{},
		attrs:   map[uintptr]map[string]any{},
	}
}

// Module is a named bag of registered test objects.
type Module struct {
	name string

	mu      sync.RWMutex
	objects map[string]any
}

// Name returns the dotted name the module was registered under.
func (m *Module) Name() string { return m.name }

// Register binds an object under a name within the module.
func (m *Module) Register(name string, obj any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = obj
}

// Lookup returns the object registered under name.
func (m *Module) Lookup(name string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[name]
	return obj, ok
}

// RegisterModule creates (or returns the existing) module for name.
func (r *Registry) RegisterModule(name string) *Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.modules[name]; ok {
		return m
	}
	m := &Module{name: name, objects: map[string]any{}}
	r.modules[name] = m
	return m
}

// ResolveName resolves "module.object" (and deeper attribute paths) against
// the registry. The longest registered module name matching a prefix of the
// path wins, so module names may themselves contain dots.
func (r *Registry) ResolveName(dotted string) (any, error) {
	if dotted == "" {
		return nil, errors.New("resolve: empty name")
	}
	r.mu.RLock()
	best := ""
	for name := range r.modules {
		if name == dotted || strings.HasPrefix(dotted, name+".") {
			if len(name) > len(best) {
				best = name
			}
		}
	}
	mod := r.modules[best]
	r.mu.RUnlock()
	if mod == nil {
		return nil, fmt.Errorf("resolve %q: no module registered", dotted)
	}
	if best == dotted {
		return mod, nil
	}
	parts := strings.Split(strings.TrimPrefix(dotted, best+"."), ".")
	obj, ok := mod.Lookup(parts[0])
	if !ok {
		return nil, fmt.Errorf("resolve %q: %q not found in module %s", dotted, parts[0], best)
	}
	for _, part := range parts[1:] {
		val, ok := r.Attr(obj, part)
		if !ok {
			return nil, fmt.Errorf("resolve %q: no attribute %q on %T", dotted, part, obj)
		}
		obj = val
	}
	return obj, nil
}

// SetAttr attaches a metadata attribute to a callable (a function value or a
// bound method). It fails only when obj cannot carry attributes. Attributes
// attach to the function's code, not to a closure instance: distinct closures
// made from the same function literal share one attribute set. Callables that
// need per-instance metadata should carry a descriptor instead.
func (r *Registry) SetAttr(obj any, name string, val any) error {
	key, ok := attrKey(obj)
	if !ok {
		return fmt.Errorf("resolve: cannot attach attributes to %T", obj)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	attrs := r.attrs[key]
	if attrs == nil {
		attrs = map[string]any{}
		r.attrs[key] = attrs
	}
	attrs[name] = val
	return nil
}

// Attr returns a metadata attribute previously attached to a callable.
func (r *Registry) Attr(obj any, name string) (any, bool) {
	key, ok := attrKey(obj)
	if !ok {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.attrs[key][name]
	return val, ok
}

// TryFirstMatching probes names in order, looking at attached attributes
// first and exported methods second, and invokes the first callable found.
func (r *Registry) TryFirstMatching(obj any, names []string) (bool, error) {
	v := reflect.ValueOf(obj)
	for _, name := range names {
		if val, ok := r.Attr(obj, name); ok {
			return true, invokeNullary(val)
		}
		if v.IsValid() && v.Kind() != reflect.Func {
			if m := v.MethodByName(name); m.IsValid() {
				return true, invokeNullary(m.Interface())
			}
		}
	}
	return false, nil
}

// Address derives a stable address. Addressable objects answer for
// themselves; function values and bound methods are introspected via the
// runtime.
func (r *Registry) Address(obj any) (Address, error) {
	switch o := obj.(type) {
	case Addressable:
		return o.TestAddress()
	case BoundMethod:
		return o.address()
	case *BoundMethod:
		if o == nil {
			return Address{}, errors.New("resolve: nil bound method")
		}
		return o.address()
	}
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Func && !v.IsNil() {
		return funcAddress(v.Pointer())
	}
	return Address{}, fmt.Errorf("resolve: no address derivable for %T", obj)
}

func funcAddress(pc uintptr) (Address, error) {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return Address{}, errors.New("resolve: function unknown to the runtime")
	}
	file, _ := fn.FileLine(fn.Entry())
	module, name := splitFuncName(fn.Name())
	return Address{Location: file, Module: module, Name: name}, nil
}

// splitFuncName splits a runtime symbol like
// "pkt.systems/unicase/internal/unit.(*T).Method" into package path and
// qualified name. Method-value wrappers carry a "-fm" suffix; strip it so the
// address matches the method expression.
func splitFuncName(full string) (module, name string) {
	full = strings.TrimSuffix(full, "-fm")
	slash := strings.LastIndex(full, "/")
	dot := strings.Index(full[slash+1:], ".")
	if dot < 0 {
		return "", full
	}
	dot += slash + 1
	return full[:dot], full[dot+1:]
}

func attrKey(obj any) (uintptr, bool) {
	switch o := obj.(type) {
	case BoundMethod:
		return o.methodPC(), true
	case *BoundMethod:
		if o == nil {
			return 0, false
		}
		return o.methodPC(), true
	}
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Func && !v.IsNil() {
		return v.Pointer(), true
	}
	return 0, false
}

// invokeNullary calls a zero-argument callable, surfacing a trailing error
// return when present.
func invokeNullary(fn any) error {
	switch f := fn.(type) {
	case func():
		f()
		return nil
	case func() error:
		return f()
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("resolve: %T is not callable", fn)
	}
	if v.Type().NumIn() != 0 {
		return fmt.Errorf("resolve: %T takes arguments, expected none", fn)
	}
	out := v.Call(nil)
	if n := len(out); n > 0 {
		if err, ok := out[n-1].Interface().(error); ok && err != nil {
			return err
		}
	}
	return nil
}
