package expr

import (
	"testing"

	"github.com/goliatone/go-saq/pkg/visibility"
)

func TestEvaluatorRules(t *testing.T) {
	t.Parallel()

	ctx := visibility.Context{
		Answers: map[string]string{
			"smoker":           "yes",
			"topics":           "cloud,security",
			"favourite-colour": "red",
		},
		Checked: func(id string) bool { return id == "saq-smoker-yes" },
	}

	cases := []struct {
		rule string
		want bool
	}{
		{``, true},
		{`smoker`, true},
		{`missing`, false},
		{`!missing`, true},
		{`smoker == "yes"`, true},
		{`smoker == yes`, true},
		{`smoker != "yes"`, false},
		{`favourite-colour == 'red'`, true},
		{`topics has "cloud"`, true},
		{`topics has cloud && topics has "security"`, true},
		{`topics has "network"`, false},
		{`missing has "x"`, false},
		{`smoker == "no" || topics HAS cloud`, true},
		{`!(smoker == "yes" && topics has "cloud")`, false},
		{`checked("saq-smoker-yes")`, true},
		{`checked(saq-smoker-no)`, false},
	}

	eval := New()
	for _, tc := range cases {
		got, err := eval.Eval("block", tc.rule, ctx)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.rule, got, tc.want)
		}
	}
}

func TestEvaluatorCachesPrograms(t *testing.T) {
	t.Parallel()

	eval := New()
	ctx := visibility.Context{Answers: map[string]string{"a": "1"}}
	for i := 0; i < 2; i++ {
		ok, err := eval.Eval("block", `a == "1"`, ctx)
		if err != nil || !ok {
			t.Fatalf("pass %d: ok=%v err=%v", i, ok, err)
		}
	}
	if _, cached := eval.cache.Load(`a == "1"`); !cached {
		t.Fatalf("expected compiled program to be cached")
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		`a = "x"`,
		`a & b`,
		`a | b`,
		`(a == "x"`,
		`a == "x`,
		`a ==`,
		`== "x"`,
		`a b`,
		`checked("x"`,
	} {
		if _, err := Compile(rule); err == nil {
			t.Fatalf("%q: expected compile error", rule)
		}
	}
}

func TestCheckedWithoutHostQuery(t *testing.T) {
	t.Parallel()

	prog, err := Compile(`checked("x")`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if prog.Eval(visibility.Context{}) {
		t.Fatalf("expected false without a Checked func")
	}
}
