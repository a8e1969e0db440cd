package topic

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/abhisek/drillz/internal/expr"
	"github.com/abhisek/drillz/internal/grading"
)

// fileValidator implements the check section of a topic file.
type fileValidator struct {
	tolerance     *big.Rat
	caseSensitive bool
}

var _ Validator = (*fileValidator)(nil)

func (v *fileValidator) Check(userAnswer string, task Task, vars Variables) Verdict {
	t, ok := task.(*templateTask)
	if !ok {
		return Verdict{CorrectAnswerText: "?"}
	}
	userAnswer = strings.TrimSpace(userAnswer)

	if t.answer == nil {
		return Verdict{
			Correct:           grading.MatchText(userAnswer, t.accept, v.caseSensitive),
			CorrectAnswerText: t.accept[0],
		}
	}

	want, err := t.answer.Eval(expr.Env(vars))
	if err != nil {
		return Verdict{CorrectAnswerText: fmt.Sprintf("(error: %v)", err)}
	}
	return Verdict{
		Correct:           userAnswer != "" && grading.MatchNumber(userAnswer, want, t.answerType, v.tolerance, t.precision),
		CorrectAnswerText: grading.Canonical(want, t.answerType, t.precision),
	}
}

// correctAnswer evaluates the canonical answer, reporting evaluation errors
// and integer answers that are not whole numbers.
func (v *fileValidator) correctAnswer(task Task, vars Variables) (string, error) {
	t, ok := task.(*templateTask)
	if !ok {
		return "", fmt.Errorf("unsupported task type %T", task)
	}
	if t.answer == nil {
		return t.accept[0], nil
	}
	want, err := t.answer.Eval(expr.Env(vars))
	if err != nil {
		return "", fmt.Errorf("evaluate answer: %w", err)
	}
	if t.answerType == grading.AnswerTypeInteger && !want.IsInt() {
		return "", fmt.Errorf("answer %s is not a whole number; set answerType to decimal or fraction", want.RatString())
	}
	return grading.Canonical(want, t.answerType, t.precision), nil
}
