package unicase_test

import (
	"errors"
	"strings"
	"testing"

	"pkt.systems/unicase"
)

type tally struct {
	errs  []unicase.ErrorInfo
	after int
}

func (c *tally) AddError(test *unicase.Adapter, info unicase.ErrorInfo) {
	c.errs = append(c.errs, info)
}

func (c *tally) AfterTest(test unicase.TestCase) { c.after++ }

type loginSuite struct {
	sessions int
}

func (s *loginSuite) Setup()       { s.sessions++ }
func (s *loginSuite) TestSession() { s.sessions++ }

func TestFacadeFunctionFlow(t *testing.T) {
	boom := errors.New("credentials rejected")
	fc, err := unicase.NewFunctionCase(func() error { return boom })
	if err != nil {
		t.Fatal(err)
	}
	a, err := unicase.NewAdapter(fc)
	if err != nil {
		t.Fatal(err)
	}
	res := &tally{}
	if err := a.Run(res); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.errs) != 1 || !errors.Is(res.errs[0].Err, boom) {
		t.Fatalf("errors = %v", res.errs)
	}
	if res.after != 1 {
		t.Fatalf("after hook fired %d times, want 1", res.after)
	}
}

func TestFacadeMethodFlow(t *testing.T) {
	bound, err := unicase.Bind(&loginSuite{}, "TestSession")
	if err != nil {
		t.Fatal(err)
	}
	mc, err := unicase.NewMethodCase(bound)
	if err != nil {
		t.Fatal(err)
	}
	a, err := unicase.NewAdapter(mc)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Run(&tally{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(a.String(), "loginSuite") {
		t.Fatalf("String() = %q", a.String())
	}
}

func TestFacadeScriptedFlow(t *testing.T) {
	cases, err := unicase.LoadScriptSource("facade.js", `
		test("wired", function(){ assert(true); });
	`)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 1 {
		t.Fatalf("got %d cases", len(cases))
	}
	res := &tally{}
	for _, fc := range cases {
		a, err := unicase.NewAdapter(fc)
		if err != nil {
			t.Fatal(err)
		}
		if err := a.Run(res); err != nil {
			t.Fatalf("run: %v", err)
		}
	}
	if len(res.errs) != 0 {
		t.Fatalf("failures: %v", res.errs)
	}
}

func TestFacadeSentinels(t *testing.T) {
	if _, err := unicase.NewAdapter(42); !errors.Is(err, unicase.ErrNotCallable) {
		t.Fatalf("expected ErrNotCallable, got %v", err)
	}
	if !unicase.Interrupted(unicase.ErrInterrupted) {
		t.Fatal("sentinel not recognized")
	}
}
