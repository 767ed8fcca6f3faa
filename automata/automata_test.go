package automata

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/npillmayer/formlang"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testadapter"
	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDefinition = "M=({q0, q1, q2, q3, q4, q5}, {0,1}, δ, q0, {q4, q5})"

const sampleTable = `
δ(q0, 0) = q1
δ(q0, 1) = q2
δ(q1, 0) = q3
δ(q1, 1) = q4
δ(q2, 0) = q4
δ(q2, 1) = q5
δ(q3, 0) = q3
δ(q3, 1) = q4
δ(q4, 0) = q4
δ(q4, 1) = q5
δ(q5, 0) = q5
δ(q5, 1) = q5
`

func TestParseDefinition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	A, err := ParseDefinition("M=({q0, q1, q2}, {a, b}, δ, q0, {q2})")
	require.NoError(t, err)
	assert.Equal(t, []string{"q0", "q1", "q2"}, A.States())
	assert.Equal(t, []string{"a", "b"}, A.Alphabet())
	assert.Equal(t, "q0", A.Start())
	assert.Equal(t, []string{"q2"}, A.Finals())
	assert.Equal(t, 0, A.TransitionCount())
}

func TestParseDefinitionErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	for i, x := range []struct {
		def     string
		err     error
		mention string
	}{
		{"", formlang.ErrMalformedSpec, "empty"},
		{"M=({q0}, {a}, q0, {q0})", formlang.ErrMalformedSpec, "M=({q0}, {a}, q0, {q0})"},
		{"M=({q0, q1}, {a}, δ, q7, {q1})", formlang.ErrUnknownReference, "q7"},
		{"M=({q0, q1}, {a}, δ, q0, {q1, q9})", formlang.ErrUnknownReference, "q9"},
	} {
		_, err := ParseDefinition(x.def)
		if assert.Error(t, err, "test %d", i) {
			assert.True(t, errors.Is(err, x.err), "test %d: unexpected error category: %v", i, err)
			assert.Contains(t, err.Error(), x.mention, "test %d", i)
		}
	}
}

func TestParseTransitionFormats(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	A, err := FromDefinitionAndTransitions("M=({q0, q1, q2, q3}, {a, b}, δ, q0, {q3})", `
		# all supported formats
		δ(q0, a) = q1
		q0, b -> q2
		q1 a q3
		q1,b=q0
		// brace sets and merging
		q2, a = {q1, q3}
		q2 a q0
		q3,ε->q0
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, A.Targets("q0", "a"))
	assert.Equal(t, []string{"q2"}, A.Targets("q0", "b"))
	assert.Equal(t, []string{"q3"}, A.Targets("q1", "a"))
	assert.Equal(t, []string{"q0"}, A.Targets("q1", "b"))
	assert.Equal(t, []string{"q1", "q3", "q0"}, A.Targets("q2", "a"))
	assert.Equal(t, []string{"q0"}, A.Targets("q3", Epsilon))
	assert.True(t, A.IsNFA())
}

func TestParseTransitionErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	def := "M=({q0, q1}, {a, b}, δ, q0, {q1})"
	for i, x := range []struct {
		table    string
		err      error
		mentions []string
	}{
		{"δ(q0, a) = q1\nδ(q5, a) = q1", formlang.ErrUnknownReference, []string{"q5", "line 2"}},
		{"q0, c -> q1", formlang.ErrUnknownReference, []string{"symbol c", "q0, c -> q1"}},
		{"q0 a {q1, qx}", formlang.ErrUnknownReference, []string{"qx", "q0 a {q1, qx}"}},
		{"q0 a q1 q1", formlang.ErrSyntax, []string{"q0 a q1 q1"}},
		{"q0 a {q1", formlang.ErrSyntax, []string{"line 1"}},
		{"q0,a={q1,qx}", formlang.ErrUnknownReference, []string{"qx"}},
		{"q0 q1", formlang.ErrSyntax, []string{"line 1"}},
		{"q0,a={}", formlang.ErrSyntax, []string{"empty"}},
	} {
		_, err := FromDefinitionAndTransitions(def, x.table)
		if assert.Error(t, err, "test %d", i) {
			assert.True(t, errors.Is(err, x.err), "test %d: unexpected error category: %v", i, err)
			for _, m := range x.mentions {
				assert.Contains(t, err.Error(), m, "test %d", i)
			}
		}
	}
}

func TestParsePackageExample(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	def := "M=({q0, q1, q2}, {a, b}, δ, q0, {q2})"
	table := `
        δ(q0, a) = q1
        q0, b -> q0
        q1 b q2
        q2,a={q0,q2}   // brace sets define multiple targets
    `
	A, err := FromDefinitionAndTransitions(def, table)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, A.Targets("q0", "a"))
	assert.Equal(t, []string{"q0"}, A.Targets("q0", "b"))
	assert.Equal(t, []string{"q2"}, A.Targets("q1", "b"))
	assert.Equal(t, []string{"q0", "q2"}, A.Targets("q2", "a"))
	assert.Equal(t, 4, A.TransitionCount())
	assert.True(t, A.IsNFA())
}

func TestParseTrailingComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	A, err := FromDefinitionAndTransitions("M=({q0, q1, q2}, {a, b}, δ, q0, {q2})", `
		δ(q0, a) = q1 // first move
		q0, b -> q0   # loop
		q1 a {q1, q2} # brace set in space separated form
		q1,b=q2//no blank needed before slashes
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, A.Targets("q0", "a"))
	assert.Equal(t, []string{"q0"}, A.Targets("q0", "b"))
	assert.Equal(t, []string{"q1", "q2"}, A.Targets("q1", "a"))
	assert.Equal(t, []string{"q2"}, A.Targets("q1", "b"))
}

func TestDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	dfa, err := FromDefinitionAndTransitions(sampleDefinition, sampleTable)
	require.NoError(t, err)
	assert.True(t, dfa.IsDeterministic())
	assert.False(t, dfa.IsNFA())
	nfa := ExampleNFA()
	assert.False(t, nfa.IsDeterministic())
	assert.True(t, nfa.IsNFA())
	eps := epsilonNFA()
	assert.True(t, eps.IsNFA(), "ε-moves make an automaton non-deterministic")
}

func TestEpsilonClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	A := epsilonNFA()
	assert.Equal(t, []string{"p0", "p1", "p2"}, EpsilonClosure(A, "p0").States())
	assert.Equal(t, []string{"p1", "p2"}, EpsilonClosure(A, "p1").States())
	assert.Equal(t, []string{"p2"}, EpsilonClosure(A, "p2").States())
}

func TestStateSetCanonical(t *testing.T) {
	S1 := NewStateSet("q2", "q0", "q1")
	S2 := NewStateSet("q1", "q2", "q0", "q2")
	assert.True(t, S1.Equals(S2))
	assert.Equal(t, S1.Key(), S2.Key())
	assert.Equal(t, "{q0,q1,q2}", S2.Name())
	assert.False(t, S1.Equals(NewStateSet("q0", "q1")))
	assert.True(t, S1.Contains("q1"))
	assert.False(t, S1.Contains("q3"))
}

func TestConvertToDFA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	for _, nfa := range []*Automaton{ExampleNFA(), epsilonNFA()} {
		dfa := ConvertToDFA(nfa)
		t.Logf("DFA:\n%s", dfa)
		assert.True(t, dfa.IsDeterministic())
		assert.NotContains(t, dfa.Alphabet(), Epsilon)
		assert.True(t, dfa.Validate().IsValid, "%v", dfa.Validate().Errors)
		for _, w := range allWords(nfa.Alphabet(), 6) {
			assert.Equal(t, nfa.Accepts(w...), dfa.Accepts(w...), "word %v", w)
		}
	}
	dfa := ConvertToDFA(epsilonNFA())
	assert.Equal(t, "{p0,p1,p2}", dfa.Start())
	assert.Len(t, dfa.States(), 3)
}

func TestConvertDFAIsIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	dfa, err := FromDefinitionAndTransitions(sampleDefinition, sampleTable)
	require.NoError(t, err)
	assert.Same(t, dfa, ConvertToDFA(dfa))
	again := ConvertToDFA(ConvertToDFA(ExampleNFA()))
	assert.True(t, again.IsDeterministic())
}

func TestMinimizeSample(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	dfa, err := FromDefinitionAndTransitions(sampleDefinition, sampleTable)
	require.NoError(t, err)
	min, err := Minimize(dfa)
	require.NoError(t, err)
	t.Logf("minimized:\n%s", min)
	assert.Len(t, min.States(), 4)
	assert.Equal(t, "q0", min.Start())
	assert.False(t, min.IsFinal("q0"))
	assert.Len(t, min.Finals(), 1)
	for _, w := range allWords(dfa.Alphabet(), 7) {
		assert.Equal(t, dfa.Accepts(w...), min.Accepts(w...), "word %v", w)
	}
}

func TestMinimizeEpsilonNFA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	_, err := Minimize(epsilonNFA())
	assert.True(t, errors.Is(err, ErrNotDeterministic))
	min, err := Minimize(ConvertToDFA(epsilonNFA()))
	require.NoError(t, err)
	assert.Len(t, min.States(), 2)
}

func TestMinimizeRemovesUnreachable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	A, err := FromDefinitionAndTransitions("M=({s, t, u}, {a}, δ, s, {t, u})", `
		s a t
		t a t
		u a s
	`)
	require.NoError(t, err)
	R, err := Reachable(A)
	require.NoError(t, err)
	assert.Equal(t, []string{"s", "t"}, R.States())
	assert.Equal(t, []string{"t"}, R.Finals())
	min, err := Minimize(A)
	require.NoError(t, err)
	assert.Len(t, min.States(), 2)
}

func TestMinimizeUndeclaredReferences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	strayTarget := New([]string{"q0", "q1"}, []string{"a"},
		map[Edge][]string{{"q0", "a"}: {"q1"}, {"q1", "a"}: {"qX"}}, "q0", []string{"q1"})
	v := strayTarget.Validate()
	assert.False(t, v.IsValid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "qX")
	_, err := Reachable(strayTarget)
	assert.True(t, errors.Is(err, formlang.ErrUnknownReference), "error is %v", err)
	min, err := Minimize(strayTarget)
	assert.Nil(t, min)
	if assert.Error(t, err) {
		assert.True(t, errors.Is(err, formlang.ErrUnknownReference), "error is %v", err)
		assert.Contains(t, err.Error(), "qX")
	}
	//
	strayStart := New([]string{"q0", "q1"}, []string{"a"},
		map[Edge][]string{{"q0", "a"}: {"q1"}}, "qS", []string{"q1"})
	_, err = Minimize(strayStart)
	assert.True(t, errors.Is(err, formlang.ErrUnknownReference), "error is %v", err)
	//
	straySource := New([]string{"q0", "q1"}, []string{"a"},
		map[Edge][]string{{"q0", "a"}: {"q1"}, {"qY", "a"}: {"q0"}}, "q0", []string{"q1"})
	_, err = Minimize(straySource)
	assert.True(t, errors.Is(err, formlang.ErrUnknownReference), "error is %v", err)
	//
	straySymbol := New([]string{"q0", "q1"}, []string{"a"},
		map[Edge][]string{{"q0", "a"}: {"q1"}, {"q1", "z"}: {"q0"}}, "q0", []string{"q1"})
	_, err = Minimize(straySymbol)
	assert.True(t, errors.Is(err, formlang.ErrUnknownReference), "error is %v", err)
}

func TestMinimizeKeepsExplicitDeadState(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	// d is an explicit dead state, e has no transitions at all
	partial, err := FromDefinitionAndTransitions("M=({s, d, e}, {a, b}, δ, s, {s})", `
		s a d
		s b e
		d a d
		d b d
	`)
	require.NoError(t, err)
	min, err := Minimize(partial)
	require.NoError(t, err)
	assert.Len(t, min.States(), 3, "missing transitions are distinguished from a dead state")
	for _, w := range allWords(partial.Alphabet(), 4) {
		assert.Equal(t, partial.Accepts(w...), min.Accepts(w...), "word %v", w)
	}
	//
	complete, err := ParseTransitionTable(partial, "e a d\ne b d")
	require.NoError(t, err)
	min, err = Minimize(complete)
	require.NoError(t, err)
	assert.Len(t, min.States(), 2, "dead states of a complete DFA are merged")
}

func TestMinimizeTracingPartitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	resetConf := testconfig.QuickConfig(t, map[string]string{"trace-partitions": "true"})
	defer resetConf()
	defer gconf.Initialize(testadapter.New())
	//
	require.True(t, gconf.GetBool("trace-partitions"))
	dfa, err := FromDefinitionAndTransitions(sampleDefinition, sampleTable)
	require.NoError(t, err)
	min, err := Minimize(dfa)
	require.NoError(t, err)
	assert.Len(t, min.States(), 4)
	for _, w := range allWords(dfa.Alphabet(), 5) {
		assert.Equal(t, dfa.Accepts(w...), min.Accepts(w...), "word %v", w)
	}
}

func TestMinimizeProperties(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	def, err := ParseDefinition("M=({a0, a1, a2, a3, a4, a5}, {x, y}, δ, a0, {a2, a5})")
	require.NoError(t, err)
	for seed := int64(1); seed <= 25; seed++ {
		dfa := GenerateTransitions(def, rand.New(rand.NewSource(seed)))
		require.True(t, dfa.IsDeterministic(), "seed %d", seed)
		min, err := Minimize(dfa)
		require.NoError(t, err, "seed %d", seed)
		assert.LessOrEqual(t, len(min.States()), len(dfa.States()), "seed %d", seed)
		for _, w := range allWords(dfa.Alphabet(), 6) {
			if dfa.Accepts(w...) != min.Accepts(w...) {
				t.Fatalf("seed %d: automata disagree on word %v\n%s\n%s", seed, w, dfa, min)
			}
		}
		min2, err := Minimize(min)
		require.NoError(t, err)
		assert.Equal(t, len(min.States()), len(min2.States()), "seed %d: minimize not idempotent", seed)
	}
}

func TestGenerateReproducible(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	def, err := ParseDefinition("M=({q0, q1, q2, q3}, {0, 1}, δ, q0, {q3})")
	require.NoError(t, err)
	A1 := GenerateTransitions(def, rand.New(rand.NewSource(4711)))
	A2 := GenerateTransitions(def, rand.New(rand.NewSource(4711)))
	assert.Equal(t, A1.String(), A2.String())
	assert.True(t, A1.IsDeterministic())
	hasMove := len(A1.Targets("q0", "0"))+len(A1.Targets("q0", "1")) > 0
	assert.True(t, hasMove, "start state must have an outgoing transition")
}

func TestValidate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.automata")
	defer teardown()
	//
	noFinals := New([]string{"q0", "q1"}, []string{"a"}, nil, "q0", nil)
	v := noFinals.Validate()
	assert.False(t, v.IsValid)
	assert.NotEmpty(t, v.Errors)
	//
	strayFinal := New([]string{"q0", "q1"}, []string{"a"},
		map[Edge][]string{{"q0", "a"}: {"q1"}}, "q0", []string{"q1", "q9"})
	v = strayFinal.Validate()
	assert.False(t, v.IsValid)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "q9")
	//
	empty := New(nil, nil, nil, "", nil)
	assert.Len(t, empty.Validate().Errors, 4)
	//
	partial := New([]string{"q0", "q1"}, []string{"a", "b"},
		map[Edge][]string{{"q0", "a"}: {"q1"}}, "q0", []string{"q1"})
	assert.True(t, partial.Validate().IsValid, "partial DFAs are valid")
}

// --- Helpers ---------------------------------------------------------------

// epsilonNFA accepts a*b*.
func epsilonNFA() *Automaton {
	return New(
		[]string{"p0", "p1", "p2"},
		[]string{"a", "b"},
		map[Edge][]string{
			{"p0", Epsilon}: {"p1"},
			{"p1", "a"}:     {"p1"},
			{"p1", Epsilon}: {"p2"},
			{"p2", "b"}:     {"p2"},
		},
		"p0",
		[]string{"p2"},
	)
}

// allWords enumerates all words over an alphabet up to a maximum length,
// including the empty word.
func allWords(alphabet []string, maxlen int) [][]string {
	words := [][]string{{}}
	level := [][]string{{}}
	for l := 1; l <= maxlen; l++ {
		var next [][]string
		for _, w := range level {
			for _, a := range alphabet {
				v := append(append([]string{}, w...), a)
				next = append(next, v)
			}
		}
		words = append(words, next...)
		level = next
	}
	return words
}
