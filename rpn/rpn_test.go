package rpn

import (
	"errors"
	"testing"

	"github.com/npillmayer/formlang"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.rpn")
	defer teardown()
	//
	toks, err := Tokenize("12*(3 +45)")
	require.NoError(t, err)
	lexemes := make([]string, len(toks))
	for i, tok := range toks {
		lexemes[i] = tok.Lexeme()
	}
	assert.Equal(t, []string{"12", "*", "(", "3", "+", "45", ")"}, lexemes)
	assert.Equal(t, Number, toks[0].TokType())
	assert.Equal(t, LParen, toks[2].TokType())
	assert.Equal(t, 8, toks[5].Span().Position())
}

func TestTokenizeIllegalCharacter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.rpn")
	defer teardown()
	//
	for i, x := range []struct {
		input string
		char  string
		pos   int
	}{
		{"5 & 3", "&", 3},
		{"x", "x", 1},
		{"1 + 2.5", ".", 6},
		{"1\t+ 2", "\t", 2},
	} {
		_, err := Tokenize(x.input)
		var serr *SyntaxError
		if assert.True(t, errors.As(err, &serr), "test %d: expected syntax error, have %v", i, err) {
			assert.Equal(t, x.char, serr.Token, "test %d", i)
			assert.Equal(t, x.pos, serr.Position, "test %d", i)
		}
	}
}

func TestConvert(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.rpn")
	defer teardown()
	//
	for _, x := range []struct {
		infix, postfix string
	}{
		{"(5 + 3) * 2", "5 3 + 2 *"},
		{"2 * 3 + 4", "2 3 * 4 +"},
		{"10 / (2 + 3)", "10 2 3 + /"},
		{"1 + 2 * 3 - 4", "1 2 3 * + 4 -"},
		{"42", "42"},
		{"8 - 4 - 2", "8 4 - 2 -"},
		{"((1))", "1"},
		{"2*(3+4)*5", "2 3 4 + * 5 *"},
	} {
		postfix, err := Convert(x.infix)
		if assert.NoError(t, err, x.infix) {
			assert.Equal(t, x.postfix, postfix, x.infix)
		}
	}
}

func TestConvertRejects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.rpn")
	defer teardown()
	//
	for _, x := range []struct {
		infix string
		msg   string
	}{
		{"(5 + 3", "unmatched opening parenthesis"},
		{"5 + )", "unmatched closing parenthesis"},
		{"5 +", "trailing operator"},
		{"5 3", "missing operator between operands"},
		{"+ 5", "operator without preceding operand"},
		{"5 * / 2", "operator without preceding operand"},
		{"()", "empty parentheses"},
		{"2 (3)", "missing operator before '('"},
		{"(2 +)", "missing operand before ')'"},
		{"", "empty expression"},
		{"   ", "empty expression"},
	} {
		_, err := Convert(x.infix)
		if assert.Error(t, err, x.infix) {
			assert.True(t, errors.Is(err, formlang.ErrSyntax), x.infix)
			assert.Contains(t, err.Error(), x.msg, x.infix)
		}
	}
}

func TestErrorContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.rpn")
	defer teardown()
	//
	tr := NewTransducer()
	_, err := tr.Convert("5 3")
	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "3", serr.Token)
	assert.Equal(t, 3, serr.Position)
	assert.Equal(t, BottomMarker, serr.StackTop)
	assert.Equal(t, "number", serr.Previous)
	trace := tr.Trace()
	require.NotEmpty(t, trace)
	last := trace[len(trace)-1]
	assert.Equal(t, "3", last.Input)
	assert.NotEmpty(t, last.Err)
	for _, step := range trace[:len(trace)-1] {
		assert.Empty(t, step.Err)
	}
}

func TestTrace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.rpn")
	defer teardown()
	//
	tr := NewTransducer()
	_, err := tr.Convert("2 * 3 + 4")
	require.NoError(t, err)
	trace := tr.Trace()
	inputs := make([]string, len(trace))
	for i, step := range trace {
		t.Logf("%v", step)
		assert.Equal(t, i+1, step.Step)
		assert.Equal(t, BottomMarker, step.Stack[0], "stack is listed bottom first")
		inputs[i] = step.Input
	}
	assert.Equal(t, []string{StartMarker, "2", "*", "3", "+", "+", "4", Lambda, EndMarker}, inputs)
	assert.Equal(t, []string{"Z", "*"}, trace[2].Stack)
	assert.Equal(t, []string{"2", "3", "*"}, trace[4].Output, "pop of * during precedence resolution")
	assert.Equal(t, []string{"Z", "+"}, trace[5].Stack)
	assert.Equal(t, []string{"2", "3", "*", "4", "+"}, trace[8].Output)
}

func TestTraceParentheses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.rpn")
	defer teardown()
	//
	tr := NewTransducer()
	_, err := tr.Convert("(1 + 2)")
	require.NoError(t, err)
	inputs := []string{}
	for _, step := range tr.Trace() {
		inputs = append(inputs, step.Input)
	}
	// one step for popping '+', one for discarding '('
	assert.Equal(t, []string{StartMarker, "(", "1", "+", "2", ")", ")", EndMarker}, inputs)
}

func TestReentrant(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.rpn")
	defer teardown()
	//
	tr := NewTransducer()
	_, err := tr.Convert("1 + 2 * 3 - 4")
	require.NoError(t, err)
	first := tr.Trace()
	_, err = tr.Convert("5 +")
	require.Error(t, err)
	_, err = tr.Convert("1 + 2 * 3 - 4")
	require.NoError(t, err)
	assert.Equal(t, first, tr.Trace(), "same input must reproduce the same trace")
	fresh := NewTransducer()
	_, _ = fresh.Convert("1 + 2 * 3 - 4")
	assert.Equal(t, fresh.Trace(), tr.Trace())
}

func TestLenientMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "formlang.rpn")
	defer teardown()
	//
	tr := NewTransducer(GrammarChecks(false))
	postfix, err := tr.Convert("5 3")
	require.NoError(t, err)
	assert.Equal(t, "5 3", postfix)
	assert.Empty(t, tr.Trace()[0].Stack, "no bottom marker without grammar checks")
	postfix, err = tr.Convert("(5 + 3) * 2")
	require.NoError(t, err)
	assert.Equal(t, "5 3 + 2 *", postfix)
	_, err = tr.Convert("(5 + 3")
	assert.Error(t, err)
	_, err = tr.Convert("5 + 3)")
	assert.Error(t, err)
}
