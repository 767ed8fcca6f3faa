package dpda

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/npillmayer/formlang"
	"golang.org/x/exp/slices"
)

// Language families understood by FromLanguage, written without whitespace.
var (
	anyWordPattern    = regexp.MustCompile(`w\|w∈\{([a-z](?:,[a-z])*)\}\*`)
	evenPrefixPattern = regexp.MustCompile(`([a-z])\^\(2k\)β\|β∈\{([a-z](?:,[a-z])*)\}\^?\+`)
	anbkc2nPattern    = regexp.MustCompile(`([a-z])\^n([a-z])\^k([a-z])\^\(2n\)`)
)

// Languages lists examples of the language families understood by FromLanguage.
var Languages = []string{
	"L = {w | w ∈ {a,b,c}*}",
	"L = {c^(2k) β | β ∈ {a,b}^+}",
	"L = {a^n b^k c^(2n) | k>=0, n>0}",
}

// FromLanguage creates a machine accepting a language given in set notation.
// Three families of languages are recognized, with arbitrary lower case letters
// as input symbols:
//
//     L = {w | w ∈ {a,b,c}*}                 any word over an alphabet
//     L = {c^(2k) β | β ∈ {a,b}^+}           an even number of c, then a non-empty word
//     L = {a^n b^k c^(2n) | k>=0, n>0}       twice as many c as a
//
// Other languages result in an error wrapping formlang.ErrMalformedSpec.
// Every rule of the machine carries a description.
func FromLanguage(language string, opts ...Option) (*Machine, error) {
	cleaned := strings.Join(strings.Fields(language), "")
	var spec *Spec
	var rules []Rule
	var err error
	if m := anyWordPattern.FindStringSubmatch(cleaned); m != nil {
		spec, rules = anyWord(strings.Split(m[1], ","))
	} else if m := evenPrefixPattern.FindStringSubmatch(cleaned); m != nil {
		spec, rules, err = evenPrefix(m[1], strings.Split(m[2], ","))
	} else if m := anbkc2nPattern.FindStringSubmatch(cleaned); m != nil {
		spec, rules, err = anbkc2n(m[1], m[2], m[3])
	} else {
		return nil, fmt.Errorf("%w: unknown kind of language %q", formlang.ErrMalformedSpec, language)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v in %q", formlang.ErrMalformedSpec, err, language)
	}
	tracer().Debugf("language %q: %v", language, spec)
	return New(spec, rules, opts...)
}

// anyWord: L = {w | w ∈ Σ*}
func anyWord(alphabet []string) (*Spec, []Rule) {
	alphabet = dedup(alphabet)
	spec := &Spec{
		Name:          "P",
		States:        []string{"q0", "q1"},
		InputAlphabet: alphabet,
		StackAlphabet: []string{"Z"},
		Start:         "q0",
		StartStack:    "Z",
		Accepts:       []string{"q1"},
	}
	rules := []Rule{{
		State: "q0", Input: Epsilon, Top: "Z", Next: "q1", Push: "Z",
		Description: "end of input, accept",
	}}
	for _, a := range alphabet {
		rules = append(rules, Rule{
			State: "q0", Input: a, Top: "Z", Next: "q0", Push: "Z",
			Description: fmt.Sprintf("read '%s', stay in q0", a),
		})
	}
	return spec, rules
}

// evenPrefix: L = {c^(2k) β | β ∈ Σ⁺}
func evenPrefix(c string, suffix []string) (*Spec, []Rule, error) {
	suffix = dedup(suffix)
	if slices.Contains(suffix, c) {
		return nil, nil, fmt.Errorf("prefix symbol %q must not occur in the suffix alphabet", c)
	}
	spec := &Spec{
		Name:          "P",
		States:        []string{"q0", "q1", "q2", "q3"},
		InputAlphabet: append([]string{c}, suffix...),
		StackAlphabet: []string{"Z", "X"},
		Start:         "q0",
		StartStack:    "Z",
		Accepts:       []string{"q3"},
	}
	rules := []Rule{{
		State: "q0", Input: c, Top: "Z", Next: "q1", Push: "XZ",
		Description: fmt.Sprintf("first '%s' of a pair, push marker", c),
	}, {
		State: "q1", Input: c, Top: "X", Next: "q0", Push: "",
		Description: fmt.Sprintf("second '%s' of a pair, pop marker", c),
	}}
	for _, b := range suffix {
		rules = append(rules, Rule{
			State: "q0", Input: b, Top: "Z", Next: "q2", Push: "Z",
			Description: fmt.Sprintf("first symbol '%s' of the suffix", b),
		}, Rule{
			State: "q2", Input: b, Top: "Z", Next: "q2", Push: "Z",
			Description: fmt.Sprintf("read '%s' of the suffix", b),
		})
	}
	rules = append(rules, Rule{
		State: "q2", Input: Epsilon, Top: "Z", Next: "q3", Push: "Z",
		Description: "end of input, accept",
	})
	return spec, rules, nil
}

// anbkc2n: L = {a^n b^k c^(2n) | k ≥ 0, n > 0}
//
// Every a pushes two markers, every c pops one.
func anbkc2n(a, b, c string) (*Spec, []Rule, error) {
	if a == b || b == c || a == c {
		return nil, nil, fmt.Errorf("symbols %q, %q and %q must be distinct", a, b, c)
	}
	spec := &Spec{
		Name:          "P",
		States:        []string{"q0", "q1", "q2", "q3", "q4"},
		InputAlphabet: []string{a, b, c},
		StackAlphabet: []string{"Z", "X"},
		Start:         "q0",
		StartStack:    "Z",
		Accepts:       []string{"q4"},
	}
	rules := []Rule{{
		State: "q0", Input: a, Top: "Z", Next: "q1", Push: "XXZ",
		Description: fmt.Sprintf("first '%s', push two markers", a),
	}, {
		State: "q1", Input: a, Top: "X", Next: "q1", Push: "XXX",
		Description: fmt.Sprintf("next '%s', push two more markers", a),
	}, {
		State: "q1", Input: b, Top: "X", Next: "q2", Push: "X",
		Description: fmt.Sprintf("first '%s', stack unchanged", b),
	}, {
		State: "q2", Input: b, Top: "X", Next: "q2", Push: "X",
		Description: fmt.Sprintf("next '%s', stack unchanged", b),
	}, {
		State: "q1", Input: c, Top: "X", Next: "q3", Push: "",
		Description: fmt.Sprintf("no '%s' (k=0), first '%s', pop a marker", b, c),
	}, {
		State: "q2", Input: c, Top: "X", Next: "q3", Push: "",
		Description: fmt.Sprintf("first '%s', pop a marker", c),
	}, {
		State: "q3", Input: c, Top: "X", Next: "q3", Push: "",
		Description: fmt.Sprintf("next '%s', pop a marker", c),
	}, {
		State: "q3", Input: Epsilon, Top: "Z", Next: "q4", Push: "Z",
		Description: "all markers popped, accept",
	}}
	return spec, rules, nil
}

func dedup(symbols []string) []string {
	var unique []string
	for _, s := range symbols {
		if !slices.Contains(unique, s) {
			unique = append(unique, s)
		}
	}
	return unique
}
