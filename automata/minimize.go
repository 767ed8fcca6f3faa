package automata

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/queues/arrayqueue"
	"github.com/npillmayer/formlang"
	"github.com/npillmayer/formlang/automata/sparse"
	"github.com/npillmayer/schuko/gconf"
	"golang.org/x/exp/slices"
)

// ErrNotDeterministic is returned for operations requiring a DFA.
var ErrNotDeterministic = errors.New("automaton is not deterministic")

// noTransition is the null-value of transition matrices.
const noTransition = -1

// Reachable returns an automaton consisting of the states of A which are
// reachable from the start state. Declaration order of states is kept.
//
// If the start state or a transition of A refers to an undeclared state or
// symbol, Reachable returns an error wrapping formlang.ErrUnknownReference.
func Reachable(A *Automaton) (*Automaton, error) {
	if !slices.Contains(A.states, A.start) {
		return nil, fmt.Errorf("%w: start state %q is not in the set of states",
			formlang.ErrUnknownReference, A.start)
	}
	if undeclared := A.undeclaredReferences(); len(undeclared) > 0 {
		return nil, fmt.Errorf("%w: %s", formlang.ErrUnknownReference, undeclared[0])
	}
	reached := map[string]bool{A.start: true}
	queue := arrayqueue.New()
	queue.Enqueue(A.start)
	symbols := append(slices.Clone(A.alphabet), Epsilon)
	for !queue.Empty() {
		x, _ := queue.Dequeue()
		for _, a := range symbols {
			for _, r := range A.delta[Edge{x.(string), a}] {
				if !reached[r] {
					reached[r] = true
					queue.Enqueue(r)
				}
			}
		}
	}
	var states, finals []string
	for _, q := range A.states {
		if reached[q] {
			states = append(states, q)
			if A.IsFinal(q) {
				finals = append(finals, q)
			}
		}
	}
	delta := make(map[Edge][]string)
	for e, targets := range A.delta {
		if reached[e.From] {
			delta[e] = targets
		}
	}
	return New(states, A.alphabet, delta, A.start, finals), nil
}

// Minimize creates a minimal DFA equivalent to A, which has to be deterministic.
// Clients holding an NFA have to call ConvertToDFA first.
//
// Unreachable states are removed first. Then the states of A are partitioned
// into final and non-final states, and partitions are refined until
// all states within a partition agree on the partitions of their successors.
// Every partition becomes a state of the result. The partition of the start
// state is named q0, others are numbered in order of their creation.
//
// A may be partial. A missing transition is not the same as a transition into
// a declared dead state: states differing only in this respect end up in
// different partitions. The result is therefore minimal among partial DFAs,
// and an explicit dead state of A survives as a state of its own. Complete A
// with transitions into a single dead state first to get the minimal complete
// DFA.
//
// References to undeclared states or symbols are reported as errors wrapping
// formlang.ErrUnknownReference, see Reachable.
func Minimize(A *Automaton) (*Automaton, error) {
	if !A.IsDeterministic() {
		return nil, fmt.Errorf("cannot minimize: %w", ErrNotDeterministic)
	}
	dfa, err := Reachable(A)
	if err != nil {
		return nil, fmt.Errorf("cannot minimize: %w", err)
	}
	n, m := len(dfa.states), len(dfa.alphabet)
	index := make(map[string]int, n)
	for i, q := range dfa.states {
		index[q] = i
	}
	T := sparse.NewIntMatrix(n, m, noTransition)
	for i, q := range dfa.states {
		for j, a := range dfa.alphabet {
			if targets := dfa.delta[Edge{q, a}]; len(targets) > 0 {
				T.Set(i, j, int32(index[targets[0]]))
			}
		}
	}
	var finals, others []int
	for i, q := range dfa.states {
		if dfa.IsFinal(q) {
			finals = append(finals, i)
		} else {
			others = append(others, i)
		}
	}
	partitions := make([][]int, 0, 2)
	for _, p := range [][]int{finals, others} {
		if len(p) > 0 {
			partitions = append(partitions, p)
		}
	}
	for pass := 1; ; pass++ {
		refined, split := refine(partitions, T)
		if gconf.GetBool("trace-partitions") {
			tracer().Infof("refinement pass %d: %s", pass, partitionString(refined, dfa.states))
		}
		partitions = refined
		if !split {
			break
		}
	}
	// move the partition of the start state to the front
	if n > 0 {
		s0 := index[dfa.start]
		for k, p := range partitions {
			if slices.Contains(p, s0) {
				partitions = append([][]int{p}, append(partitions[:k:k], partitions[k+1:]...)...)
				break
			}
		}
	}
	return quotient(dfa, partitions, T), nil
}

// refine splits every partition into groups of states with identical signatures.
// A signature lists, for every input symbol, the index of the partition containing
// the transition target, or -1 if there is no transition.
func refine(partitions [][]int, T *sparse.IntMatrix) ([][]int, bool) {
	blockOf := blocks(partitions, T.M())
	refined := make([][]int, 0, len(partitions))
	split := false
	for _, p := range partitions {
		type group struct {
			signature []int
			members   []int
		}
		var groups []*group
		for _, s := range p {
			sig := signature(T.Row(s), blockOf)
			k := slices.IndexFunc(groups, func(g *group) bool {
				return slices.Equal(g.signature, sig)
			})
			if k < 0 {
				groups = append(groups, &group{signature: sig})
				k = len(groups) - 1
			}
			groups[k].members = append(groups[k].members, s)
		}
		if len(groups) > 1 {
			split = true
		}
		for _, g := range groups {
			refined = append(refined, g.members)
		}
	}
	return refined, split
}

func signature(row []int32, blockOf []int) []int {
	sig := make([]int, len(row))
	for j, t := range row {
		if t == noTransition {
			sig[j] = noTransition
		} else {
			sig[j] = blockOf[t]
		}
	}
	return sig
}

// blocks maps every state index to the index of its partition.
func blocks(partitions [][]int, n int) []int {
	blockOf := make([]int, n)
	for k, p := range partitions {
		for _, s := range p {
			blockOf[s] = k
		}
	}
	return blockOf
}

// quotient builds the automaton with one state per partition. Transitions are taken
// from the first member of each partition.
func quotient(dfa *Automaton, partitions [][]int, T *sparse.IntMatrix) *Automaton {
	blockOf := blocks(partitions, T.M())
	states := make([]string, len(partitions))
	for k := range partitions {
		states[k] = fmt.Sprintf("q%d", k)
	}
	var finals []string
	delta := make(map[Edge][]string)
	for k, p := range partitions {
		rep := p[0]
		if dfa.IsFinal(dfa.states[rep]) {
			finals = append(finals, states[k])
		}
		for j, a := range dfa.alphabet {
			if t := T.Value(rep, j); t != noTransition {
				delta[Edge{states[k], a}] = []string{states[blockOf[t]]}
			}
		}
	}
	start := ""
	if len(states) > 0 {
		start = states[0]
	}
	return New(states, dfa.alphabet, delta, start, finals)
}

func partitionString(partitions [][]int, names []string) string {
	s := ""
	for _, p := range partitions {
		s += "{"
		for i, q := range p {
			if i > 0 {
				s += ","
			}
			s += names[q]
		}
		s += "}"
	}
	return s
}
