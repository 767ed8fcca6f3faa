package dpda

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/formlang"
)

// DefaultMaxSteps is the step budget of a machine if not set otherwise.
const DefaultMaxSteps = 1000

// Machine is a deterministic pushdown automaton. Create one with New or Parse.
type Machine struct {
	spec     *Spec
	rules    map[ruleKey]Rule
	order    []ruleKey // declaration order
	maxSteps int
}

// Option configures a machine.
type Option func(m *Machine)

// MaxSteps sets the maximum number of transitions per run. Values < 0 are
// ignored; a budget of 0 allows only acceptance of the initial configuration.
func MaxSteps(n int) Option {
	return func(m *Machine) {
		if n >= 0 {
			m.maxSteps = n
		}
	}
}

// New creates a machine from a definition and a list of rules. Rules are
// checked against spec. If two rules share state, input symbol and stack top,
// the latter one replaces the former.
func New(spec *Spec, rules []Rule, opts ...Option) (*Machine, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: no definition", formlang.ErrMalformedSpec)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		spec:     spec,
		rules:    make(map[ruleKey]Rule, len(rules)),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, r := range rules {
		if r.Input == "" {
			r.Input = Epsilon
		}
		if err := spec.check(r); err != nil {
			return nil, fmt.Errorf("rule %v: %w", r, err)
		}
		k := r.key()
		if _, exists := m.rules[k]; exists {
			tracer().Infof("rule %v replaces %v", r, m.rules[k])
		} else {
			m.order = append(m.order, k)
		}
		m.rules[k] = r
	}
	return m, nil
}

// Parse creates a machine from a textual definition and textual rules,
// see ParseSpec and ParseRules.
func Parse(specText, rulesText string, opts ...Option) (*Machine, error) {
	spec, err := ParseSpec(specText)
	if err != nil {
		return nil, err
	}
	rules, err := ParseRules(spec, rulesText)
	if err != nil {
		return nil, err
	}
	return New(spec, rules, opts...)
}

// Spec returns the definition of m.
func (m *Machine) Spec() *Spec {
	return m.spec
}

// Rules returns the effective rules of m in declaration order.
func (m *Machine) Rules() []Rule {
	rules := make([]Rule, len(m.order))
	for i, k := range m.order {
		rules[i] = m.rules[k]
	}
	return rules
}

// Configuration is an instantaneous description of a machine.
type Configuration struct {
	Step      int      // number of transitions applied so far
	State     string   // current state
	Remaining string   // unread input
	Stack     []string // stack contents, top is the last element
	Action    string   // rule which led to this configuration
}

func (c Configuration) String() string {
	return fmt.Sprintf("%3d: (%s, %s, %s) by %s", c.Step, c.State, orEpsilon(c.Remaining),
		stackString(c.Stack), c.Action)
}

// Result is the outcome of a run.
type Result struct {
	Accepted bool
	Reason   string
	History  []Configuration // initial configuration first
}

// Run simulates m on input. Each character of input is an input symbol.
//
// In every step a rule for the next input symbol is preferred over an ε-rule
// for the same state and stack top. Applying a rule pops the stack top and
// pushes the rule's push string. The machine accepts as soon as the input is
// consumed and it is in an accepting state. It rejects if no rule applies or
// if the step budget is exhausted.
func (m *Machine) Run(input string) *Result {
	word := []rune(input)
	state, pos, steps := m.spec.Start, 0, 0
	stack := arraystack.New()
	stack.Push(m.spec.StartStack)
	result := &Result{}
	record := func(action string) {
		c := Configuration{
			Step:      steps,
			State:     state,
			Remaining: string(word[pos:]),
			Stack:     snapshot(stack),
			Action:    action,
		}
		tracer().Debugf("%v", c)
		result.History = append(result.History, c)
	}
	accepting := func() bool {
		return pos == len(word) && m.spec.IsAccepting(state)
	}
	record("start")
	for {
		if accepting() {
			result.Accepted = true
			result.Reason = fmt.Sprintf("accepted by final state %s", state)
			return result
		}
		if steps >= m.maxSteps {
			return m.reject(result, "step budget of %d exceeded", m.maxSteps)
		}
		symbol := Epsilon
		if pos < len(word) {
			symbol = string(word[pos])
		}
		top := Epsilon
		if z, ok := stack.Peek(); ok {
			top = z.(string)
		}
		rule, ok := m.rules[ruleKey{state, symbol, top}]
		if !ok && symbol != Epsilon {
			rule, ok = m.rules[ruleKey{state, Epsilon, top}]
		}
		if !ok {
			return m.reject(result, "no transition from state %s with input %s and stack top %s",
				state, symbol, top)
		}
		stack.Pop()
		push := []rune(rule.Push)
		for i := len(push) - 1; i >= 0; i-- {
			stack.Push(string(push[i]))
		}
		state = rule.Next
		if rule.Input != Epsilon {
			pos++
		}
		steps++
		record(rule.String())
	}
}

// Accepts is a shortcut for Run(input).Accepted.
func (m *Machine) Accepts(input string) bool {
	return m.Run(input).Accepted
}

func (m *Machine) reject(result *Result, format string, args ...interface{}) *Result {
	result.Accepted = false
	result.Reason = fmt.Sprintf(format, args...)
	tracer().Infof("rejected: %s", result.Reason)
	return result
}

// snapshot lists a stack bottom to top.
func snapshot(stack *arraystack.Stack) []string {
	values := stack.Values() // top first
	snap := make([]string, len(values))
	for i, z := range values {
		snap[len(values)-1-i] = z.(string)
	}
	return snap
}

func stackString(stack []string) string {
	s := ""
	for i := len(stack) - 1; i >= 0; i-- {
		s += stack[i]
	}
	return orEpsilon(s)
}

func orEpsilon(s string) string {
	if s == "" {
		return Epsilon
	}
	return s
}
