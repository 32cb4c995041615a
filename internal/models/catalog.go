package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Task is one scored prompt within a category.
type Task struct {
	Question string    `yaml:"question"`
	Answer   AnswerKey `yaml:"answer"`
	Points   int       `yaml:"points"`
}

// Category is a named, ordered block of tasks. Category order in the file is
// the order the battery presents them in.
type Category struct {
	Name  string `yaml:"name"`
	Tasks []Task `yaml:"tasks"`
}

// Catalog holds the full task battery. It is loaded once at startup and never
// reloaded mid-session, so traversal order is stable for the process lifetime.
type Catalog struct {
	Categories []Category `yaml:"categories"`
}

// AnswerKey is the expected answer for a task. In the catalog file it is
// either a single scalar ("2024", summer) or a sequence ([apple, table,
// penny] or [20, 17, 14]). Numbers are kept as their literal text.
type AnswerKey struct {
	values   []string
	sequence bool
}

func (k *AnswerKey) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		k.values = []string{normalizeAnswer(node.Value)}
		k.sequence = false
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return fmt.Errorf("answer sequence is empty")
		}
		k.values = make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("answer sequence may only contain scalars")
			}
			k.values = append(k.values, normalizeAnswer(item.Value))
		}
		k.sequence = true
	default:
		return fmt.Errorf("answer must be a scalar or a sequence")
	}
	return nil
}

// NewAnswerKey builds a scalar or sequence key directly; used by tests and
// any caller composing a catalog in code rather than YAML.
func NewAnswerKey(sequence bool, values ...string) AnswerKey {
	normalized := make([]string, len(values))
	for i, v := range values {
		normalized[i] = normalizeAnswer(v)
	}
	return AnswerKey{values: normalized, sequence: sequence}
}

// IsSequence reports whether the key is an ordered recall list rather than a
// single expected value.
func (k AnswerKey) IsSequence() bool { return k.sequence }

// Values returns the normalized expected values.
func (k AnswerKey) Values() []string {
	out := make([]string, len(k.values))
	copy(out, k.values)
	return out
}

// Matches scores a transcription against the key. A sequence key matches
// when any expected element occurs anywhere in the text (full credit, no
// partial credit). A scalar key matches when the trimmed text starts with
// the expected value.
func (k AnswerKey) Matches(transcript string) bool {
	text := normalizeAnswer(transcript)
	if k.sequence {
		for _, v := range k.values {
			if strings.Contains(text, v) {
				return true
			}
		}
		return false
	}
	if len(k.values) == 0 {
		return false
	}
	return strings.HasPrefix(text, k.values[0])
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LoadCatalog reads and parses the task catalog YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *Catalog) validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("catalog has no categories")
	}
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("catalog category without a name")
		}
		if len(cat.Tasks) == 0 {
			return fmt.Errorf("category %q has no tasks", cat.Name)
		}
		for _, t := range cat.Tasks {
			if t.Question == "" {
				return fmt.Errorf("category %q has a task without a question", cat.Name)
			}
			if t.Points <= 0 {
				return fmt.Errorf("task %q must be worth at least one point", t.Question)
			}
			if len(t.Answer.values) == 0 {
				return fmt.Errorf("task %q has no answer key", t.Question)
			}
		}
	}
	return nil
}

// TaskCount is the total number of tasks across all categories.
func (c *Catalog) TaskCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Tasks)
	}
	return n
}

// MaxScore is the sum of all task point values.
func (c *Catalog) MaxScore() int {
	total := 0
	for _, cat := range c.Categories {
		for _, t := range cat.Tasks {
			total += t.Points
		}
	}
	return total
}
