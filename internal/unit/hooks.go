package unit

// Hooks is one plugin's set of interception points. Every field is optional;
// a nil func (or an empty-string / nil return) means the hook is absent for
// that plugin and the chain moves on.
type Hooks struct {
	// BeforeTest and AfterTest observe the wrapped unit around its run.
	BeforeTest func(test TestCase)
	AfterTest  func(test TestCase)
	// PrepareTestCase may return a substitute callable executed instead of
	// the wrapped unit for one invocation (timing or isolation wrappers).
	PrepareTestCase func(test *Adapter) RunFunc
	// TestName overrides the adapter's string form.
	TestName func(test *Adapter) string
	// DescribeTest overrides the adapter's short description.
	DescribeTest func(test *Adapter) string
}

// Chain aggregates plugin hooks. Observation hooks broadcast to every
// plugin; value-producing hooks take the first non-absent answer. A nil
// chain answers absent everywhere.
type Chain struct {
	plugins []Hooks
}

// NewChain builds a chain from plugins in registration order.
func NewChain(plugins ...Hooks) *Chain {
	return &Chain{plugins: plugins}
}

// Add appends a plugin to the chain.
func (c *Chain) Add(h Hooks) {
	c.plugins = append(c.plugins, h)
}

// BeforeTest notifies every plugin that has the hook.
func (c *Chain) BeforeTest(test TestCase) {
	if c == nil {
		return
	}
	for _, h := range c.plugins {
		if h.BeforeTest != nil {
			h.BeforeTest(test)
		}
	}
}

// AfterTest notifies every plugin that has the hook.
func (c *Chain) AfterTest(test TestCase) {
	if c == nil {
		return
	}
	for _, h := range c.plugins {
		if h.AfterTest != nil {
			h.AfterTest(test)
		}
	}
}

// PrepareTestCase returns the first substitute callable offered, or nil.
func (c *Chain) PrepareTestCase(test *Adapter) RunFunc {
	if c == nil {
		return nil
	}
	for _, h := range c.plugins {
		if h.PrepareTestCase == nil {
			continue
		}
		if fn := h.PrepareTestCase(test); fn != nil {
			return fn
		}
	}
	return nil
}

// TestName returns the first name offered, or "".
func (c *Chain) TestName(test *Adapter) string {
	if c == nil {
		return ""
	}
	for _, h := range c.plugins {
		if h.TestName == nil {
			continue
		}
		if name := h.TestName(test); name != "" {
			return name
		}
	}
	return ""
}

// DescribeTest returns the first description offered, or "".
func (c *Chain) DescribeTest(test *Adapter) string {
	if c == nil {
		return ""
	}
	for _, h := range c.plugins {
		if h.DescribeTest == nil {
			continue
		}
		if desc := h.DescribeTest(test); desc != "" {
			return desc
		}
	}
	return ""
}
