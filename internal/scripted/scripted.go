// Package scripted turns JS test sources into FunctionCases. The executed
// callables are closures over a goja runtime and have no stable identity of
// their own, so every generated case carries a Descriptor that provides the
// round-trip name and address instead.
//
// A source registers its tests through four globals:
//
//	setup(fn)                // once, runs before every test in the source
//	teardown(fn)             // once, runs after every test in the source
//	test("name", fn)         // one case
//	cases("name", rows, fn)  // one case per row, row spread as arguments
//
// plus assert(cond, msg) and console.log inside test bodies. Cases from one
// source share a single JS runtime and must be run from one goroutine at a
// time.
package scripted

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"
	"pkt.systems/pslog"
	"pkt.systems/unicase/internal/resolve"
	"pkt.systems/unicase/internal/unit"
)

// Descriptor identifies a script-defined test independently of the
// synthesized closure that executes it.
type Descriptor struct {
	Source string // path (or synthetic name) of the JS source
	Suite  string // module-style name derived from the source
	Name   string // test name as registered in the script
}

// TestAddress implements resolve.Addressable.
func (d *Descriptor) TestAddress() (resolve.Address, error) {
	if d == nil {
		return resolve.Address{}, errors.New("scripted: nil descriptor")
	}
	return resolve.Address{Location: d.Source, Module: d.Suite, Name: d.Name}, nil
}

func (d *Descriptor) String() string {
	return d.Suite + "." + d.Name
}

// Option tweaks loading.
type Option func(*loader)

// WithLogger supplies a custom pslog logger.
func WithLogger(logger pslog.Base) Option {
	return func(l *loader) { l.logger = logger }
}

// WithResolver overrides the resolver handed to generated cases.
func WithResolver(r resolve.Resolver) Option {
	return func(l *loader) { l.resolver = r }
}

type loader struct {
	logger   pslog.Base
	resolver resolve.Resolver
}

type scriptTest struct {
	name string
	fn   goja.Callable
	args []any
}

// Load reads and evaluates a JS test source file.
func Load(path string, opts ...Option) ([]*unit.FunctionCase, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	return LoadSource(path, string(src), opts...)
}

// LoadSource evaluates a JS test source and returns one FunctionCase per
// registered test, in registration order.
func LoadSource(name, source string, opts ...Option) ([]*unit.FunctionCase, error) {
	l := &loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.logger == nil {
		l.logger = pslog.New(os.Stdout)
	}
	if l.resolver == nil {
		l.resolver = resolve.Default
	}

	vm := goja.New()
	registerConsole(vm, l.logger)
	registerAssert(vm)

	var setupFn, teardownFn goja.Callable
	vm.Set("setup", func(call goja.FunctionCall) goja.Value {
		fn, ok := callableArg(call, 0)
		if !ok {
			panic(vm.NewGoError(errors.New("setup(fn) requires a function")))
		}
		setupFn = fn
		return goja.Undefined()
	})
	vm.Set("teardown", func(call goja.FunctionCall) goja.Value {
		fn, ok := callableArg(call, 0)
		if !ok {
			panic(vm.NewGoError(errors.New("teardown(fn) requires a function")))
		}
		teardownFn = fn
		return goja.Undefined()
	})

	var tests []scriptTest
	vm.Set("test", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewGoError(errors.New("test(name, fn) requires 2 args")))
		}
		testName := call.Arguments[0].String()
		fn, ok := callableArg(call, 1)
		if !ok {
			panic(vm.NewGoError(errors.New("second arg must be function")))
		}
		tests = append(tests, scriptTest{name: testName, fn: fn})
		return goja.Undefined()
	})
	vm.Set("cases", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			panic(vm.NewGoError(errors.New("cases(name, rows, fn) requires 3 args")))
		}
		caseName := call.Arguments[0].String()
		rows, ok := call.Arguments[1].Export().([]any)
		if !ok {
			panic(vm.NewGoError(errors.New("second arg must be an array of rows")))
		}
		fn, ok := callableArg(call, 2)
		if !ok {
			panic(vm.NewGoError(errors.New("third arg must be function")))
		}
		for _, row := range rows {
			args, ok := row.([]any)
			if !ok {
				args = []any{row}
			}
			tests = append(tests, scriptTest{name: caseName, fn: fn, args: args})
		}
		return goja.Undefined()
	})

	if _, err := vm.RunString(source); err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", name, err)
	}

	suite := suiteName(name)
	out := make([]*unit.FunctionCase, 0, len(tests))
	for _, st := range tests {
		body := func(args ...any) error {
			jsArgs := make([]goja.Value, len(args))
			for i, a := range args {
				jsArgs[i] = vm.ToValue(a)
			}
			_, err := st.fn(goja.Undefined(), jsArgs...)
			return err
		}
		fcOpts := []unit.FunctionOption{
			unit.WithFunctionResolver(l.resolver),
			unit.WithDescriptor(&Descriptor{Source: name, Suite: suite, Name: st.name}),
			unit.WithArgs(st.args...),
		}
		if setupFn != nil {
			fcOpts = append(fcOpts, unit.WithSetUp(nullary(setupFn)))
		}
		if teardownFn != nil {
			fcOpts = append(fcOpts, unit.WithTearDown(nullary(teardownFn)))
		}
		fc, err := unit.NewFunctionCase(body, fcOpts...)
		if err != nil {
			return nil, fmt.Errorf("wrap %s.%s: %w", suite, st.name, err)
		}
		out = append(out, fc)
	}
	l.logger.Debug("loaded scripted cases", "source", name, "count", len(out))
	return out, nil
}

func callableArg(call goja.FunctionCall, i int) (goja.Callable, bool) {
	if len(call.Arguments) <= i {
		return nil, false
	}
	return goja.AssertFunction(call.Arguments[i])
}

func nullary(fn goja.Callable) func() error {
	return func() error {
		_, err := fn(goja.Undefined())
		return err
	}
}

func suiteName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func registerConsole(vm *goja.Runtime, logger pslog.Base) {
	console := vm.NewObject()
	logFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		if logger != nil {
			logger.Debug("js", "msg", strings.Join(parts, " "))
		}
		return goja.Undefined()
	}
	console.Set("log", logFn)
	vm.Set("console", console)
}

func registerAssert(vm *goja.Runtime) {
	vm.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "assertion failed"
			if len(call.Arguments) > 1 {
				msg = call.Arguments[1].String()
			}
			panic(vm.NewGoError(errors.New(msg)))
		}
		return goja.Undefined()
	})
}
