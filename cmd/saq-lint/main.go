package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goliatone/go-saq"
	"github.com/goliatone/go-saq/pkg/definition"
	"github.com/goliatone/go-saq/pkg/survey"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [files...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint survey definitions for structural and dependency problems.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var violations []violation
	for _, path := range paths {
		violations = append(violations, lintFile(path)...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

func lintFile(path string) []violation {
	raw, err := os.ReadFile(path)
	if err != nil {
		return []violation{{file: path, location: "file", message: err.Error()}}
	}

	def, err := saq.ParseDefinition(raw, path)
	if err != nil {
		var result []violation
		for _, problem := range flatten(err) {
			result = append(result, violation{file: path, location: "definition", message: problem.Error()})
		}
		return result
	}

	var result []violation
	if _, err := survey.Descriptors(def); err != nil {
		result = append(result, violation{file: path, location: "dependencies", message: err.Error()})
	}
	for _, warning := range lintDependencies(def) {
		result = append(result, violation{file: path, location: warning.location, message: warning.message})
	}
	return result
}

type finding struct {
	location string
	message  string
}

// lintDependencies reports dependencies that can never be satisfied: ones
// naming unknown questions and ones taking part in a cycle.
func lintDependencies(def saq.Survey) []finding {
	edges := make(map[string]string)
	var out []finding
	for _, q := range def.Questions {
		if q.DependsOn == nil || q.DependsOn.Question == "" {
			continue
		}
		if _, ok := def.Question(q.DependsOn.Question); !ok {
			out = append(out, finding{
				location: "questions." + q.Slug,
				message:  fmt.Sprintf("depends on unknown question %q; it will stay hidden", q.DependsOn.Question),
			})
			continue
		}
		edges[q.Slug] = q.DependsOn.Question
	}

	reported := make(map[string]bool)
	for start := range edges {
		seen := map[string]bool{start: true}
		for next, ok := edges[start]; ok; next, ok = edges[next] {
			if next == start {
				if !reported[start] {
					out = append(out, finding{
						location: "questions." + start,
						message:  "dependency cycle; it will stay hidden",
					})
					reported[start] = true
				}
				break
			}
			if seen[next] {
				break
			}
			seen[next] = true
		}
	}
	return out
}

func flatten(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []error
		for _, inner := range joined.Unwrap() {
			if inner == definition.ErrInvalidDefinition {
				continue
			}
			out = append(out, flatten(inner)...)
		}
		return out
	}
	return []error{err}
}
