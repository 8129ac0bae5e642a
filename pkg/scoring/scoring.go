// Package scoring totals the points carried by chosen answers. A question
// counts only when it is a choice question with at least one scored option
// and it has an answer; disabled and skipped questions never contribute.
package scoring

import (
	"math"
	"strings"

	"github.com/goliatone/go-saq/pkg/definition"
)

// Score is a points total against the best achievable total.
type Score struct {
	Points int
	Max    int
}

// Percent returns Points as a rounded percentage of Max, or 0 when nothing
// can be scored.
func (s Score) Percent() int {
	if s.Max <= 0 {
		return 0
	}
	return int(math.Round(float64(s.Points) * 100 / float64(s.Max)))
}

func (s Score) add(other Score) Score {
	return Score{Points: s.Points + other.Points, Max: s.Max + other.Max}
}

// Section is a labelled tag aggregate.
type Section struct {
	Label string
	Tag   string
	Score Score
}

// Report is the scored view of an answer set.
type Report struct {
	Overall   Score
	Questions map[string]Score
	Tags      map[string]Score
	Sections  []Section
}

// Scored reports whether any answered question carried points.
func (r Report) Scored() bool {
	return r.Overall.Max > 0
}

// Question scores answer against q. Single selections score the chosen
// option and are out of the best option; multi-choice answers sum every
// chosen option and are out of the sum of positive scores. Unknown answer
// values score zero. ok is false for unscored or unanswered questions.
func Question(q definition.Question, answer string) (Score, bool) {
	if answer == "" || !q.Scored() {
		return Score{}, false
	}

	if q.Kind == definition.KindMultiChoice {
		var s Score
		for _, opt := range q.Options {
			if opt.Score > 0 {
				s.Max += opt.Score
			}
		}
		seen := make(map[string]struct{})
		for _, value := range strings.Split(answer, ",") {
			value = strings.TrimSpace(value)
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			if opt, ok := q.Option(value); ok {
				s.Points += opt.Score
			}
		}
		return s, true
	}

	var s Score
	for _, opt := range q.Options {
		if opt.Score > s.Max {
			s.Max = opt.Score
		}
	}
	if opt, ok := q.Option(answer); ok {
		s.Points = opt.Score
	}
	return s, true
}

// Evaluate scores answers, keyed by question slug, against def. Totals are
// aggregated overall, per tag and per declared section.
func Evaluate(def definition.Survey, answers map[string]string) Report {
	report := Report{
		Questions: make(map[string]Score),
		Tags:      make(map[string]Score),
	}
	for _, q := range def.Questions {
		s, ok := Question(q, answers[q.Slug])
		if !ok {
			continue
		}
		report.Questions[q.Slug] = s
		report.Overall = report.Overall.add(s)
		for _, tag := range q.Tags {
			report.Tags[tag] = report.Tags[tag].add(s)
		}
	}
	for _, sec := range def.Sections {
		report.Sections = append(report.Sections, Section{
			Label: sec.Label,
			Tag:   sec.Tag,
			Score: report.Tags[sec.Tag],
		})
	}
	return report
}
