package definition

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/goliatone/go-saq/pkg/visibility/expr"
)

// answerPattern matches answer values the submit endpoint accepts; commas are
// reserved for joining multi-choice answers.
var answerPattern = regexp.MustCompile(`^[\w-]+$`)

// Validate reports every structural problem of s joined into one error
// wrapping ErrInvalidDefinition.
func Validate(s Survey) error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if len(s.Questions) == 0 {
		add("survey has no questions")
	}

	slugs := make(map[string]struct{}, len(s.Questions))
	for idx, q := range s.Questions {
		if q.Slug == "" {
			add("question %d: slug is required", idx)
			continue
		}
		if _, dup := slugs[q.Slug]; dup {
			add("question %q: duplicate slug", q.Slug)
		}
		slugs[q.Slug] = struct{}{}

		if q.Kind == "" {
			add("question %q: kind is required", q.Slug)
		}
		if q.IsChoice() {
			validateOptions(q, add)
		} else if q.Kind == KindFreeText && len(q.Options) > 0 {
			add("question %q: free-text questions take no options", q.Slug)
		}
		if q.DependsOn != nil {
			validateDependency(s, q, add)
		}
	}

	for idx, sec := range s.Sections {
		if sec.Tag == "" {
			add("section %d: tag is required", idx)
			continue
		}
		if !tagged(s, sec.Tag) {
			add("section %q: no question is tagged %q", sec.Label, sec.Tag)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(problems...))
}

func tagged(s Survey, tag string) bool {
	for _, q := range s.Questions {
		if q.HasTag(tag) {
			return true
		}
	}
	return false
}

func validateOptions(q Question, add func(string, ...any)) {
	if len(q.Options) == 0 {
		add("question %q: %s questions need options", q.Slug, q.Kind)
		return
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if !answerPattern.MatchString(opt.Value) {
			add("question %q: invalid answer value %q", q.Slug, opt.Value)
			continue
		}
		if _, dup := seen[opt.Value]; dup {
			add("question %q: duplicate answer %q", q.Slug, opt.Value)
		}
		seen[opt.Value] = struct{}{}
	}
}

func validateDependency(s Survey, q Question, add func(string, ...any)) {
	dep := q.DependsOn
	if dep.Question == "" && dep.Input == "" && dep.Rule == "" {
		add("question %q: dependency needs a question, input or rule", q.Slug)
		return
	}
	if dep.Question == q.Slug {
		add("question %q: question cannot depend on itself", q.Slug)
	}
	if dep.Question != "" && dep.Input == "" {
		if dep.Answer == "" {
			add("question %q: dependency on %q needs an answer", q.Slug, dep.Question)
		} else if target, ok := s.Question(dep.Question); ok {
			if _, ok := target.Option(dep.Answer); !ok {
				add("question %q: %q is not an answer of %q", q.Slug, dep.Answer, dep.Question)
			}
		}
	}
	if dep.Rule != "" {
		if _, err := expr.Compile(dep.Rule); err != nil {
			add("question %q: rule: %v", q.Slug, err)
		}
	}
}
