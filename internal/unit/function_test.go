package unit

import (
	"errors"
	"strings"
	"testing"

	"pkt.systems/unicase/internal/resolve"
)

func checkPair() {}

func generatorProbe() {}

func TestNewFunctionCaseRejectsNonFunction(t *testing.T) {
	if _, err := NewFunctionCase(7); !errors.Is(err, ErrNotCallable) {
		t.Fatalf("expected ErrNotCallable, got %v", err)
	}
	var nilFn func()
	if _, err := NewFunctionCase(nilFn); !errors.Is(err, ErrNotCallable) {
		t.Fatalf("nil func accepted: %v", err)
	}
}

func TestFunctionCaseArgsTuple(t *testing.T) {
	var got []int
	fc, err := NewFunctionCase(func(a, b int) { got = []int{a, b} }, WithArgs(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Run(nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("args = %v", got)
	}
}

func TestFunctionCaseStringRendersArgs(t *testing.T) {
	plain, err := NewFunctionCase(checkPair)
	if err != nil {
		t.Fatal(err)
	}
	withArgs, err := NewFunctionCase(func(a, b int) {}, WithArgs(1, 2), WithDescriptor(checkPair))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(withArgs.String(), "(1, 2)") {
		t.Fatalf("args suffix missing: %q", withArgs.String())
	}
	if plain.String() == withArgs.String() {
		t.Fatalf("arg form not distinct: %q", plain.String())
	}
	if !strings.Contains(withArgs.String(), "checkPair") {
		t.Fatalf("descriptor name missing: %q", withArgs.String())
	}
}

func TestFunctionCaseAddressUsesDescriptor(t *testing.T) {
	reg := resolve.NewRegistry()
	synthesized := func() {} // stands in for a factory-generated closure
	fc, err := NewFunctionCase(synthesized,
		WithDescriptor(generatorProbe),
		WithFunctionResolver(reg))
	if err != nil {
		t.Fatal(err)
	}
	addr, err := fc.Address()
	if err != nil {
		t.Fatal(err)
	}
	want, err := reg.Address(generatorProbe)
	if err != nil {
		t.Fatal(err)
	}
	if addr != want {
		t.Fatalf("address = %+v, want descriptor address %+v", addr, want)
	}
	if strings.Contains(addr.Name, "func") && !strings.Contains(addr.Name, "generatorProbe") {
		t.Fatalf("address derived from closure: %+v", addr)
	}
}

func TestFunctionCaseAddressStable(t *testing.T) {
	first, err := NewFunctionCase(checkPair)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewFunctionCase(checkPair)
	if err != nil {
		t.Fatal(err)
	}
	a1, err := first.Address()
	if err != nil {
		t.Fatal(err)
	}
	a2, err := second.Address()
	if err != nil {
		t.Fatal(err)
	}
	if a1 != a2 {
		t.Fatalf("addresses differ: %+v vs %+v", a1, a2)
	}
	if !strings.HasSuffix(a1.Location, "function_test.go") {
		t.Fatalf("location = %q", a1.Location)
	}
}

func TestFunctionCaseExplicitFixtures(t *testing.T) {
	var order []string
	fc, err := NewFunctionCase(func() { order = append(order, "body") },
		WithSetUp(func() error { order = append(order, "setup"); return nil }),
		WithTearDown(func() error { order = append(order, "teardown"); return nil }))
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Run(nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Join(order, ",") != "setup,body,teardown" {
		t.Fatalf("order = %v", order)
	}
}

func TestFunctionCaseProbedFixtures(t *testing.T) {
	reg := resolve.NewRegistry()
	var order []string
	body := func() { order = append(order, "body") }
	// Both candidates present: the earlier name in the candidate list wins.
	if err := reg.SetAttr(body, "setUp", func() { order = append(order, "setUp") }); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetAttr(body, "setup", func() { order = append(order, "setup") }); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetAttr(body, "teardown", func() { order = append(order, "teardown") }); err != nil {
		t.Fatal(err)
	}
	fc, err := NewFunctionCase(body, WithFunctionResolver(reg))
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Run(nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Join(order, ",") != "setup,body,teardown" {
		t.Fatalf("order = %v", order)
	}
}

func TestFunctionCaseMissingFixturesNoop(t *testing.T) {
	fc, err := NewFunctionCase(func() {}, WithFunctionResolver(resolve.NewRegistry()))
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Run(nil); err != nil {
		t.Fatalf("absent fixtures must be a no-op: %v", err)
	}
}

func TestFunctionCaseSetupFailureSkipsBodyAndTeardown(t *testing.T) {
	var order []string
	boom := errors.New("no fixtures")
	fc, err := NewFunctionCase(func() { order = append(order, "body") },
		WithSetUp(func() error { return boom }),
		WithTearDown(func() error { order = append(order, "teardown"); return nil }))
	if err != nil {
		t.Fatal(err)
	}
	err = fc.Run(nil)
	if !errors.Is(err, boom) {
		t.Fatalf("setup error lost: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("ran after failed setup: %v", order)
	}
}

func TestFunctionCaseTeardownRunsAfterBodyFailure(t *testing.T) {
	var teardownRan bool
	bodyErr := errors.New("body failed")
	fc, err := NewFunctionCase(func() error { return bodyErr },
		WithTearDown(func() error { teardownRan = true; return errors.New("teardown failed") }))
	if err != nil {
		t.Fatal(err)
	}
	err = fc.Run(nil)
	if !teardownRan {
		t.Fatal("teardown skipped after body failure")
	}
	if !errors.Is(err, bodyErr) {
		t.Fatalf("body error must win over teardown error: %v", err)
	}
}

func TestFunctionCaseCompatName(t *testing.T) {
	reg := resolve.NewRegistry()
	if err := reg.SetAttr(checkPair, "compatName", "checkPairLegacy"); err != nil {
		t.Fatal(err)
	}
	fc, err := NewFunctionCase(checkPair, WithFunctionResolver(reg))
	if err != nil {
		t.Fatal(err)
	}
	if got := fc.String(); !strings.Contains(got, "checkPairLegacy") {
		t.Fatalf("compat name ignored: %q", got)
	}
}

func TestFunctionCaseShortDescription(t *testing.T) {
	reg := resolve.NewRegistry()
	body := func() {}
	if err := reg.SetAttr(generatorProbe, "doc", "Checks pairs.\nLonger explanation."); err != nil {
		t.Fatal(err)
	}
	fc, err := NewFunctionCase(body, WithDescriptor(generatorProbe), WithFunctionResolver(reg))
	if err != nil {
		t.Fatal(err)
	}
	desc, ok := fc.ShortDescription()
	if !ok || desc != "Checks pairs." {
		t.Fatalf("ShortDescription() = %q/%v", desc, ok)
	}

	// An explicit description on the executed callable beats the doc text.
	if err := reg.SetAttr(body, "description", "pair checker"); err != nil {
		t.Fatal(err)
	}
	if desc, _ := fc.ShortDescription(); desc != "pair checker" {
		t.Fatalf("description attribute ignored: %q", desc)
	}
}

func TestFunctionCaseContext(t *testing.T) {
	reg := resolve.NewRegistry()
	mod := reg.RegisterModule("pkt.systems/unicase/internal/unit")
	fc, err := NewFunctionCase(checkPair, WithFunctionResolver(reg))
	if err != nil {
		t.Fatal(err)
	}
	if got := fc.Context(); got != mod {
		t.Fatalf("context = %v, want registered module", got)
	}
}
