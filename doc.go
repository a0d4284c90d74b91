// Package unicase normalizes heterogeneous test units (bare functions,
// methods, and units synthesized by generator-style factories) into one
// uniform execution contract for an external runner and result collector.
//
// Quick start:
//
//	fc, _ := unicase.NewFunctionCase(checkLogin)
//	adapter, _ := unicase.NewAdapter(fc)
//	_ = adapter.Run(collector) // one call per test; failures are contained
//
// Method tests get a fresh instance per case, so no two cases share
// mutable state:
//
//	bound, _ := unicase.Bind(&LoginSuite{}, "TestExpiry")
//	mc, _ := unicase.NewMethodCase(bound)
//	adapter, _ := unicase.NewAdapter(mc)
//
// Parametrized units keep a stable identity through a descriptor even
// though the executed closure is synthesized at collection time:
//
//	fc, _ := unicase.NewFunctionCase(generated,
//		unicase.WithDescriptor(checkPair),
//		unicase.WithArgs(1, 2),
//	)
//	addr, _ := fc.Address() // the address of checkPair, not of generated
//
// Plugins intercept through a capability-checked hook chain; absent hooks
// are no-ops:
//
//	chain := unicase.NewChain(unicase.Hooks{
//		TestName: func(t *unicase.Adapter) string { return rename(t) },
//		PrepareTestCase: func(t *unicase.Adapter) unicase.RunFunc {
//			return timed(t)
//		},
//	})
//	adapter, _ := unicase.NewAdapter(fc, unicase.WithHooks(chain))
//
// JS sources are a supported factory for generated cases:
//
//	cases, _ := unicase.LoadScript("suites/smoke.js")
//	for _, fc := range cases {
//		a, _ := unicase.NewAdapter(fc)
//		_ = a.Run(collector)
//	}
//
// The adapter contains every failure at its boundary and reports it to the
// collector; only hard cancellation (unicase.ErrInterrupted, context
// cancellation) escapes Run, aborting the surrounding loop. The module
// keeps concrete wiring in internal packages; interaction happens through
// the aliases exported here.
package unicase
