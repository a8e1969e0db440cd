package topic

import (
	"fmt"
	"math/big"
	"math/rand/v2"
	"strings"
	"text/template"

	"github.com/abhisek/drillz/internal/expr"
	"github.com/abhisek/drillz/internal/grading"
)

// maxRangeSize caps the number of values a min/max/step variable can take.
const maxRangeSize = 1 << 40

// number renders as "12" or "3/4" inside problem templates.
type number struct {
	*big.Rat
}

func (n number) String() string {
	return expr.FormatRat(n.Rat)
}

var templateFuncs = template.FuncMap{
	// dec renders a number as a decimal, e.g. {{dec .x}} -> "0.5".
	"dec": func(n number) string {
		return expr.FormatDecimal(n.Rat, grading.DefaultPrecision)
	},
	// neg wraps negative numbers in parentheses, e.g. "5 - (-3)".
	"neg": func(n number) string {
		if n.Sign() < 0 {
			return "(" + n.String() + ")"
		}
		return n.String()
	},
}

// varSpec generates one variable: a stepped range, a choice list, or an
// expression over previously generated variables.
type varSpec struct {
	name  string
	min   *big.Rat
	max   *big.Rat
	step  *big.Rat
	oneOf []*big.Rat
	expr  *expr.Expression
}

func (v varSpec) generate(r *rand.Rand, env expr.Env) (*big.Rat, error) {
	switch {
	case v.expr != nil:
		return v.expr.Eval(env)
	case len(v.oneOf) > 0:
		return new(big.Rat).Set(v.oneOf[r.IntN(len(v.oneOf))]), nil
	}

	span := new(big.Rat).Sub(v.max, v.min)
	span.Quo(span, v.step)
	steps := new(big.Int).Quo(span.Num(), span.Denom())
	if !steps.IsInt64() || steps.Int64() >= maxRangeSize {
		return nil, fmt.Errorf("range of %q is too large", v.name)
	}
	k := r.Int64N(steps.Int64() + 1)
	out := new(big.Rat).Mul(v.step, new(big.Rat).SetInt64(k))
	return out.Add(out, v.min), nil
}

// templateTask is a Task defined in a topic file.
type templateTask struct {
	taskType   string
	text       *template.Template
	vars       []varSpec
	answer     *expr.Expression
	answerType grading.AnswerType
	accept     []string
	precision  int
}

func (t *templateTask) Type() string { return t.taskType }

func (t *templateTask) Generate(r *rand.Rand) (GeneratedTask, error) {
	env := make(expr.Env, len(t.vars))
	data := make(map[string]number, len(t.vars))
	for _, v := range t.vars {
		val, err := v.generate(r, env)
		if err != nil {
			return GeneratedTask{}, fmt.Errorf("generate %q: %w", v.name, err)
		}
		env[v.name] = val
		data[v.name] = number{val}
	}

	var b strings.Builder
	if err := t.text.Execute(&b, data); err != nil {
		return GeneratedTask{}, fmt.Errorf("render text: %w", err)
	}
	return GeneratedTask{
		ProblemText: b.String(),
		Variables:   Variables(env),
	}, nil
}
