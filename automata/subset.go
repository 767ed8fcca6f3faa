package automata

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/queues/arrayqueue"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/stacks/arraystack"
	"golang.org/x/exp/slices"
)

// === State Sets ============================================================

// StateSet is an immutable set of states, used as a state of a DFA during
// subset construction. Members are kept sorted and free of duplicates.
// Two StateSets with equal members have equal keys, regardless of the order
// in which members have been added.
type StateSet struct {
	states []string
	key    SetKey
}

// SetKey is a structural hash of the members of a StateSet. It is comparable and
// may be used as a map key.
type SetKey string

// NewStateSet creates a state set from a list of states, which may contain
// duplicates.
func NewStateSet(states ...string) StateSet {
	ts := treeset.NewWithStringComparator()
	for _, q := range states {
		ts.Add(q)
	}
	members := make([]string, 0, ts.Size())
	for _, x := range ts.Values() {
		members = append(members, x.(string))
	}
	return StateSet{
		states: members,
		key:    SetKey(fmt.Sprintf("%x", structhash.Md5(members, 1))),
	}
}

// Key returns the canonical key of the set.
func (S StateSet) Key() SetKey {
	return S.key
}

// States returns the sorted members of S.
func (S StateSet) States() []string {
	return slices.Clone(S.states)
}

// Len returns the number of members of S.
func (S StateSet) Len() int {
	return len(S.states)
}

// Contains is a predicate: is q a member of S?
func (S StateSet) Contains(q string) bool {
	_, found := slices.BinarySearch(S.states, q)
	return found
}

// Equals compares two state sets.
func (S StateSet) Equals(other StateSet) bool {
	return S.key == other.key
}

// Name returns a display name for S, e.g. "{q0,q2}".
func (S StateSet) Name() string {
	return "{" + strings.Join(S.states, ",") + "}"
}

func (S StateSet) String() string {
	return S.Name()
}

// === Closure and Subset Construction =======================================

// EpsilonClosure returns the set of states reachable from any of the given
// states by ε-moves only (including the given states).
func EpsilonClosure(A *Automaton, states ...string) StateSet {
	closure := treeset.NewWithStringComparator()
	stack := arraystack.New()
	for _, q := range states {
		if !closure.Contains(q) {
			closure.Add(q)
			stack.Push(q)
		}
	}
	for !stack.Empty() {
		x, _ := stack.Pop()
		for _, r := range A.delta[Edge{x.(string), Epsilon}] {
			if !closure.Contains(r) {
				closure.Add(r)
				stack.Push(r)
			}
		}
	}
	members := make([]string, 0, closure.Size())
	for _, x := range closure.Values() {
		members = append(members, x.(string))
	}
	return NewStateSet(members...)
}

// ConvertToDFA creates a DFA equivalent to A, using subset construction.
// States of the DFA are named after the set of NFA states they represent,
// e.g. "{q0,q1}". The DFA's alphabet does not contain ε.
// Sets without any successors are not materialized, i.e. the resulting DFA
// may be partial.
//
// If A already is deterministic, A itself is returned.
func ConvertToDFA(A *Automaton) *Automaton {
	if A.IsDeterministic() {
		return A
	}
	alphabet := make([]string, 0, len(A.alphabet))
	for _, a := range A.alphabet {
		if a != Epsilon {
			alphabet = append(alphabet, a)
		}
	}
	S0 := EpsilonClosure(A, A.start)
	seen := map[SetKey]StateSet{S0.Key(): S0}
	var states, finals []string
	delta := make(map[Edge][]string)
	queue := arrayqueue.New()
	queue.Enqueue(S0)
	for !queue.Empty() {
		x, _ := queue.Dequeue()
		S := x.(StateSet)
		tracer().Debugf("subset construction: expanding %s", S)
		states = append(states, S.Name())
		if containsAny(S, A.finals) {
			finals = append(finals, S.Name())
		}
		for _, a := range alphabet {
			var image []string
			for _, q := range S.states {
				image = append(image, A.delta[Edge{q, a}]...)
			}
			if len(image) == 0 {
				continue
			}
			T := EpsilonClosure(A, image...)
			if _, ok := seen[T.Key()]; !ok {
				seen[T.Key()] = T
				queue.Enqueue(T)
				tracer().Debugf("subset construction: new state %s", T)
			}
			delta[Edge{S.Name(), a}] = []string{T.Name()}
		}
	}
	return New(states, alphabet, delta, S0.Name(), finals)
}

func containsAny(S StateSet, states []string) bool {
	for _, q := range states {
		if S.Contains(q) {
			return true
		}
	}
	return false
}
