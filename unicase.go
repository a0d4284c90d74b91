package unicase

import (
	"pkt.systems/unicase/internal/resolve"
	"pkt.systems/unicase/internal/scripted"
	"pkt.systems/unicase/internal/unit"
)

// Public type aliases to the internal packages.

// Adapter is the universal wrapper driven by the executor.
type (
	Adapter = unit.Adapter
	// FunctionCase wraps a bare test function.
	FunctionCase = unit.FunctionCase
	// MethodCase wraps a test method on a fresh per-case instance.
	MethodCase = unit.MethodCase
	// TestCase is the contract every wrapped unit satisfies.
	TestCase = unit.TestCase
	// Result is the collector protocol adapters report into.
	Result = unit.Result
	// ErrorInfo captures a contained failure.
	ErrorInfo = unit.ErrorInfo
	// RunFunc is the uniform calling convention.
	RunFunc = unit.RunFunc
	// ResultProxyFactory substitutes the result for a single run.
	ResultProxyFactory = unit.ResultProxyFactory
	// Hooks is one plugin's optional interception points.
	Hooks = unit.Hooks
	// Chain aggregates plugin hooks.
	Chain = unit.Chain
	// Address is a stable round-trip identity for a test.
	Address = resolve.Address
	// Resolver is the name-resolution collaborator contract.
	Resolver = resolve.Resolver
	// Registry is the default Resolver implementation.
	Registry = resolve.Registry
	// Module is a named bag of registered test objects.
	Module = resolve.Module
	// BoundMethod ties a method name to a receiver exemplar.
	BoundMethod = resolve.BoundMethod
	// ScriptDescriptor identifies a script-generated test.
	ScriptDescriptor = scripted.Descriptor
)

// Option aliases.
type (
	// AdapterOption tweaks adapter construction.
	AdapterOption = unit.AdapterOption
	// FunctionOption tweaks FunctionCase construction.
	FunctionOption = unit.FunctionOption
	// MethodOption tweaks MethodCase construction.
	MethodOption = unit.MethodOption
)

var (
	// NewAdapter wraps any test unit for uniform execution.
	NewAdapter = unit.NewAdapter
	// NewFunctionCase wraps a bare function.
	NewFunctionCase = unit.NewFunctionCase
	// NewMethodCase wraps a bound method.
	NewMethodCase = unit.NewMethodCase
	// NewChain builds a hook chain from plugins.
	NewChain = unit.NewChain
	// Interrupted reports whether an error is a hard cancellation.
	Interrupted = unit.Interrupted

	// Adapter options.
	WithHooks       = unit.WithHooks
	WithResultProxy = unit.WithResultProxy
	WithResolver    = unit.WithResolver
	WithLogger      = unit.WithLogger

	// FunctionCase options.
	WithArgs             = unit.WithArgs
	WithSetUp            = unit.WithSetUp
	WithTearDown         = unit.WithTearDown
	WithDescriptor       = unit.WithDescriptor
	WithFunctionResolver = unit.WithFunctionResolver

	// MethodCase options.
	WithMethodArgs       = unit.WithMethodArgs
	WithMethodCallable   = unit.WithMethodCallable
	WithMethodDescriptor = unit.WithMethodDescriptor
	WithMethodResolver   = unit.WithMethodResolver

	// Name resolution.
	Bind            = resolve.Bind
	NewRegistry     = resolve.NewRegistry
	DefaultResolver = resolve.Default

	// Scripted case loading.
	LoadScript       = scripted.Load
	LoadScriptSource = scripted.LoadSource
)

// Sentinel errors, matchable with errors.Is.
var (
	ErrNotCallable   = unit.ErrNotCallable
	ErrUnboundMethod = unit.ErrUnboundMethod
	ErrInterrupted   = unit.ErrInterrupted
)
