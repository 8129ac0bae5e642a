package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDefinition wraps every structural problem found while loading.
var ErrInvalidDefinition = errors.New("definition: invalid definition")

// Store holds every survey found under a filesystem, keyed by survey id.
type Store struct {
	surveys map[string]Survey
}

// Parse decodes a single JSON or YAML document, then normalises and
// validates it. source is only used in error messages.
func Parse(data []byte, source string) (Survey, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Survey{}, fmt.Errorf("definition: file %s is empty", source)
	}

	var survey Survey
	if err := json.Unmarshal(data, &survey); err != nil {
		survey = Survey{}
		if yerr := yaml.Unmarshal(data, &survey); yerr != nil {
			return Survey{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}
	survey.Source = source

	survey = normalise(survey)
	if err := Validate(survey); err != nil {
		return Survey{}, fmt.Errorf("definition: %s: %w", source, err)
	}
	return survey, nil
}

// Load reads and parses the named document from fsys.
func Load(fsys fs.FS, name string) (Survey, error) {
	if fsys == nil {
		return Survey{}, errors.New("definition: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Survey{}, fmt.Errorf("definition: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// LoadFS walks fsys and parses every JSON/YAML definition it finds. Survey
// ids must be unique across files; a missing id defaults to the file name
// without extension.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{surveys: make(map[string]Survey)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		survey, err := Load(fsys, path)
		if err != nil {
			return err
		}
		if survey.ID == "" {
			survey.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if existing, exists := store.surveys[survey.ID]; exists {
			return fmt.Errorf("definition: duplicate survey %q (files %s and %s)", survey.ID, existing.Source, path)
		}
		store.surveys[survey.ID] = survey
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Survey returns the survey registered under id.
func (s *Store) Survey(id string) (Survey, bool) {
	if s == nil {
		return Survey{}, false
	}
	survey, ok := s.surveys[id]
	return survey, ok
}

// IDs lists the loaded survey ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.surveys))
	for id := range s.surveys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any survey.
func (s *Store) Empty() bool {
	return s == nil || len(s.surveys) == 0
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func normalise(s Survey) Survey {
	s.ID = strings.TrimSpace(s.ID)
	s.Title = sanitizeText(s.Title)
	s.Description = sanitizeHelp(s.Description)
	s.Submit = SubmitConfig{
		URL:          strings.TrimSpace(s.Submit.URL),
		NextURL:      strings.TrimSpace(s.Submit.NextURL),
		EndURL:       strings.TrimSpace(s.Submit.EndURL),
		BackURL:      strings.TrimSpace(s.Submit.BackURL),
		ErrorMessage: strings.TrimSpace(s.Submit.ErrorMessage),
		ExtraBlock:   strings.TrimSpace(s.Submit.ExtraBlock),
		NavAnchor:    strings.TrimSpace(s.Submit.NavAnchor),
	}

	questions := make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Slug = strings.TrimSpace(q.Slug)
		q.Kind = strings.ToLower(strings.TrimSpace(q.Kind))
		q.Label = sanitizeText(q.Label)
		q.HelpText = sanitizeHelp(q.HelpText)
		q.Widget = strings.TrimSpace(q.Widget)
		q.Block = strings.TrimSpace(q.Block)

		options := make([]Option, len(q.Options))
		for j, opt := range q.Options {
			opt.Value = strings.TrimSpace(opt.Value)
			opt.Label = sanitizeText(opt.Label)
			opt.Group = sanitizeText(opt.Group)
			opt.Input = strings.TrimSpace(opt.Input)
			if opt.Label == "" {
				opt.Label = opt.Value
			}
			options[j] = opt
		}
		q.Options = options
		q.Tags = normaliseTags(q.Tags)

		if q.DependsOn != nil {
			dep := Dependency{
				Question: strings.TrimSpace(q.DependsOn.Question),
				Answer:   strings.TrimSpace(q.DependsOn.Answer),
				Input:    strings.TrimSpace(q.DependsOn.Input),
				Rule:     strings.TrimSpace(q.DependsOn.Rule),
			}
			q.DependsOn = &dep
		}
		questions[i] = q
	}
	s.Questions = questions

	if len(s.Sections) > 0 {
		sections := make([]Section, len(s.Sections))
		for i, sec := range s.Sections {
			sec.Label = sanitizeText(sec.Label)
			if sec.Label == "" {
				sec.Label = strings.TrimSpace(sec.Tag)
			}
			sec.Tag = strings.ToLower(strings.TrimSpace(sec.Tag))
			sections[i] = sec
		}
		s.Sections = sections
	}
	return s
}

func normaliseTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
