package topic

import (
	"fmt"
	"math/big"
	"math/rand/v2"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/drillz/internal/expr"
	"github.com/abhisek/drillz/internal/grading"
)

// fileTopic is the on-disk form of a topic.
type fileTopic struct {
	Requires string     `yaml:"requires"`
	Settings Settings   `yaml:"settings"`
	Check    fileCheck  `yaml:"check"`
	Tasks    []fileTask `yaml:"tasks"`
}

type fileCheck struct {
	Tolerance     *ratValue `yaml:"tolerance"`
	CaseSensitive bool      `yaml:"caseSensitive"`
	Precision     int       `yaml:"precision"`
}

type fileTask struct {
	Type       string    `yaml:"type"`
	Text       string    `yaml:"text"`
	Vars       []fileVar `yaml:"vars"`
	Answer     string    `yaml:"answer"`
	AnswerType string    `yaml:"answerType"`
	Accept     []string  `yaml:"accept"`
	Precision  int       `yaml:"precision"`
}

type fileVar struct {
	Name  string     `yaml:"name"`
	Min   *ratValue  `yaml:"min"`
	Max   *ratValue  `yaml:"max"`
	Step  *ratValue  `yaml:"step"`
	OneOf []ratValue `yaml:"oneOf"`
	Expr  string     `yaml:"expr"`
}

// ratValue accepts YAML numbers and numeric strings such as "1/3".
type ratValue struct {
	*big.Rat
}

func (v *ratValue) UnmarshalYAML(node *yaml.Node) error {
	r, err := grading.ParseNumber(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	v.Rat = r
	return nil
}

// dryRunSeed fixes the generator used to exercise every task at load time.
const dryRunSeed = 0x5eed

// parseTopic decodes, validates and compiles a topic file into a Module.
// Every failure is reported as the underlying cause; the loader wraps it
// in a MalformedError.
func parseTopic(name string, data []byte, version string) (*Module, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("empty topic file")
	}
	if err := validateShape(doc); err != nil {
		return nil, err
	}

	var ft fileTopic
	if err := yaml.Unmarshal(data, &ft); err != nil {
		return nil, fmt.Errorf("decode topic: %w", err)
	}
	if err := checkRequires(ft.Requires, version); err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(ft.Tasks))
	for i, t := range ft.Tasks {
		task, err := compileTask(t, ft.Check.Precision)
		if err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i+1, t.Type, err)
		}
		tasks = append(tasks, task)
	}

	v := &fileValidator{caseSensitive: ft.Check.CaseSensitive}
	if ft.Check.Tolerance != nil {
		v.tolerance = ft.Check.Tolerance.Rat
	}

	// Generate and grade every task once so broken expressions surface
	// now instead of in the middle of a round.
	rng := rand.New(rand.NewPCG(dryRunSeed, dryRunSeed))
	for i, t := range tasks {
		gen, err := t.Generate(rng)
		if err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i+1, t.Type(), err)
		}
		if _, err := v.correctAnswer(t, gen.Variables); err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i+1, t.Type(), err)
		}
	}

	return NewModule(name, ft.Settings, tasks, v)
}

func compileTask(ft fileTask, defaultPrecision int) (*templateTask, error) {
	tmpl, err := template.New(ft.Type).
		Option("missingkey=error").
		Funcs(templateFuncs).
		Parse(ft.Text)
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}

	t := &templateTask{
		taskType:   ft.Type,
		text:       tmpl,
		accept:     ft.Accept,
		answerType: grading.AnswerTypeText,
		precision:  ft.Precision,
	}
	if t.precision == 0 {
		t.precision = defaultPrecision
	}

	declared := make(map[string]bool)
	for _, fv := range ft.Vars {
		if declared[fv.Name] {
			return nil, fmt.Errorf("variable %q declared twice", fv.Name)
		}
		spec, err := compileVar(fv, declared)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", fv.Name, err)
		}
		t.vars = append(t.vars, spec)
		declared[fv.Name] = true
	}

	if ft.Answer != "" {
		e, err := compileExpr(ft.Answer, declared)
		if err != nil {
			return nil, fmt.Errorf("answer: %w", err)
		}
		t.answer = e
		t.answerType = grading.AnswerType(ft.AnswerType)
		if t.answerType == "" {
			t.answerType = grading.AnswerTypeInteger
		}
	}
	return t, nil
}

func compileVar(fv fileVar, declared map[string]bool) (varSpec, error) {
	spec := varSpec{name: fv.Name}
	switch {
	case fv.Expr != "":
		e, err := compileExpr(fv.Expr, declared)
		if err != nil {
			return spec, err
		}
		spec.expr = e
	case len(fv.OneOf) > 0:
		for _, v := range fv.OneOf {
			spec.oneOf = append(spec.oneOf, v.Rat)
		}
	default:
		spec.min, spec.max = fv.Min.Rat, fv.Max.Rat
		spec.step = big.NewRat(1, 1)
		if fv.Step != nil {
			spec.step = fv.Step.Rat
		}
		if spec.step.Sign() <= 0 {
			return spec, fmt.Errorf("step must be positive")
		}
		if spec.min.Cmp(spec.max) > 0 {
			return spec, fmt.Errorf("min %s is greater than max %s", spec.min.RatString(), spec.max.RatString())
		}
	}
	return spec, nil
}

// compileExpr parses src and checks that it only refers to declared
// variables and known functions.
func compileExpr(src string, declared map[string]bool) (*expr.Expression, error) {
	e, err := expr.Parse(src)
	if err != nil {
		return nil, err
	}
	for _, name := range e.Variables() {
		if !declared[name] {
			return nil, fmt.Errorf("undeclared variable %q in %q", name, src)
		}
	}
	for _, name := range e.Calls() {
		if _, ok := expr.Functions[name]; !ok {
			return nil, fmt.Errorf("unknown function %q in %q", name, src)
		}
	}
	return e, nil
}
