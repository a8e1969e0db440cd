package topic

import (
	"errors"
	"math/big"
	"math/rand/v2"
)

// Defaults applied when a topic leaves a setting out.
const (
	DefaultTitle            = "Trainer"
	DefaultTotalTime        = 600
	DefaultProblemsToSelect = 3
)

// Settings is the read-only trainer configuration supplied by a topic.
type Settings struct {
	Title            string `yaml:"title"`
	Subtitle         string `yaml:"subtitle"`
	TotalTime        int    `yaml:"totalTime"`        // countdown seconds
	ProblemsToSelect int    `yaml:"problemsToSelect"` // distinct task types per round
}

// WithDefaults returns a copy with zero values replaced by defaults.
func (s Settings) WithDefaults() Settings {
	if s.TotalTime <= 0 {
		s.TotalTime = DefaultTotalTime
	}
	if s.ProblemsToSelect <= 0 {
		s.ProblemsToSelect = DefaultProblemsToSelect
	}
	return s
}

// DisplayTitle returns the title, or DefaultTitle when the topic has none.
func (s Settings) DisplayTitle() string {
	if s.Title == "" {
		return DefaultTitle
	}
	return s.Title
}

// Variables holds the parameters a task was generated with.
type Variables map[string]*big.Rat

// GeneratedTask is one concrete problem produced by a Task.
type GeneratedTask struct {
	// ProblemText is the question prompt. It may contain simple HTML markup.
	ProblemText string

	// Variables are the generation parameters, passed back to the
	// validator when the answer is checked.
	Variables Variables
}

// Task is a problem template belonging to a task type.
type Task interface {
	// Type is the grouping key used to spread a round over distinct categories.
	Type() string

	// Generate produces a concrete problem.
	Generate(r *rand.Rand) (GeneratedTask, error)
}

// Verdict is the validator's judgement of one answer.
type Verdict struct {
	Correct bool

	// CorrectAnswerText is the canonical correct answer for display.
	CorrectAnswerText string
}

// Validator decides whether a learner's answer is correct.
type Validator interface {
	// Check judges userAnswer for task as generated with vars. An empty
	// userAnswer still yields the correct answer text.
	Check(userAnswer string, task Task, vars Variables) Verdict
}

// Module is the validated capability contract of a loaded topic.
type Module struct {
	Name      string
	Settings  Settings
	Tasks     []Task
	Validator Validator
}

// NewModule assembles a Module, applying setting defaults. It fails when
// any of the three capabilities is missing.
func NewModule(name string, settings Settings, tasks []Task, validator Validator) (*Module, error) {
	if len(tasks) == 0 {
		return nil, errors.New("topic defines no tasks")
	}
	for _, t := range tasks {
		if t == nil || t.Type() == "" {
			return nil, errors.New("topic defines a task without a type")
		}
	}
	if validator == nil {
		return nil, errors.New("topic defines no answer validator")
	}
	return &Module{
		Name:      name,
		Settings:  settings.WithDefaults(),
		Tasks:     tasks,
		Validator: validator,
	}, nil
}
