package session

import (
	"errors"
	"math/big"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drillz/internal/topic"
)

// fixedTask always generates "a + b" with the same operands.
type fixedTask struct {
	typ  string
	a, b int64
	err  error
}

func (t *fixedTask) Type() string { return t.typ }

func (t *fixedTask) Generate(*rand.Rand) (topic.GeneratedTask, error) {
	if t.err != nil {
		return topic.GeneratedTask{}, t.err
	}
	return topic.GeneratedTask{
		ProblemText: strconv.FormatInt(t.a, 10) + " + " + strconv.FormatInt(t.b, 10),
		Variables: topic.Variables{
			"a": big.NewRat(t.a, 1),
			"b": big.NewRat(t.b, 1),
		},
	}, nil
}

// sumValidator accepts the decimal sum of a and b and counts its calls.
type sumValidator struct {
	calls int
}

func (v *sumValidator) Check(answer string, _ topic.Task, vars topic.Variables) topic.Verdict {
	v.calls++
	want := new(big.Rat).Add(vars["a"], vars["b"]).RatString()
	return topic.Verdict{Correct: answer == want, CorrectAnswerText: want}
}

func testModule(t *testing.T, settings topic.Settings, tasks ...topic.Task) (*topic.Module, *sumValidator) {
	t.Helper()
	v := &sumValidator{}
	m, err := topic.NewModule("test", settings, tasks, v)
	require.NoError(t, err)
	return m, v
}

func testSession(m *topic.Module) *Session {
	return New(m, WithRand(rand.New(rand.NewPCG(7, 11))))
}

func TestSample_OnePerType(t *testing.T) {
	var tasks []topic.Task
	for _, typ := range []string{"add", "add", "sub", "mul", "mul", "mul", "div"} {
		tasks = append(tasks, &fixedTask{typ: typ})
	}

	r := rand.New(rand.NewPCG(1, 2))
	for n := 1; n <= 6; n++ {
		for range 20 {
			picked := Sample(tasks, n, r)

			want := min(n, 4)
			require.Len(t, picked, want)

			seen := make(map[string]bool)
			for _, p := range picked {
				assert.False(t, seen[p.Type()], "type %q picked twice", p.Type())
				seen[p.Type()] = true
			}
		}
	}
}

func TestSample_CoversAllTypesAndTasks(t *testing.T) {
	a1, a2 := &fixedTask{typ: "add", a: 1}, &fixedTask{typ: "add", a: 2}
	s1 := &fixedTask{typ: "sub"}
	tasks := []topic.Task{a1, a2, s1}

	r := rand.New(rand.NewPCG(3, 4))
	firstType := make(map[string]int)
	pickedAdd := make(map[topic.Task]int)
	for range 400 {
		picked := Sample(tasks, 1, r)
		require.Len(t, picked, 1)
		firstType[picked[0].Type()]++

		for _, p := range Sample(tasks, 2, r) {
			if p.Type() == "add" {
				pickedAdd[p]++
			}
		}
	}

	assert.Positive(t, firstType["add"])
	assert.Positive(t, firstType["sub"])
	assert.Positive(t, pickedAdd[a1])
	assert.Positive(t, pickedAdd[a2])
}

func TestSample_Empty(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	assert.Empty(t, Sample(nil, 3, r))
	assert.Empty(t, Sample([]topic.Task{&fixedTask{typ: "x"}}, 0, r))
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{605, "10:05"},
		{600, "10:00"},
		{59, "00:59"},
		{5, "00:05"},
		{0, "00:00"},
		{-3, "00:00"},
		{6000, "100:00"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatClock(tc.seconds), "FormatClock(%d)", tc.seconds)
	}
}

func TestCountdown_RestartInvalidatesOldTicks(t *testing.T) {
	c := NewCountdown(3)
	old := c.Start()
	_, ok := c.Tick(old)
	require.True(t, ok)
	assert.Equal(t, 2, c.Remaining())

	cur := c.Start()
	assert.NotEqual(t, old, cur)
	assert.Equal(t, 3, c.Remaining())

	_, ok = c.Tick(old)
	assert.False(t, ok, "tick of the previous run must be ignored")
	assert.Equal(t, 3, c.Remaining())

	_, ok = c.Tick(cur)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Remaining())
}

func TestCountdown_ExpiresOnce(t *testing.T) {
	c := NewCountdown(2)
	gen := c.Start()

	expired, ok := c.Tick(gen)
	assert.True(t, ok)
	assert.False(t, expired)

	expired, ok = c.Tick(gen)
	assert.True(t, ok)
	assert.True(t, expired)
	assert.Equal(t, "00:00", c.Clock())

	_, ok = c.Tick(gen)
	assert.False(t, ok)
}

func TestSession_NewRound(t *testing.T) {
	m, _ := testModule(t, topic.Settings{TotalTime: 30, ProblemsToSelect: 2},
		&fixedTask{typ: "add", a: 1, b: 2},
		&fixedTask{typ: "sub", a: 5, b: 3},
		&fixedTask{typ: "mul", a: 2, b: 2},
	)
	s := testSession(m)
	assert.Nil(t, s.Round())

	gen := s.NewRound()
	r := s.Round()
	require.NotNil(t, r)
	assert.Len(t, r.Cards, 2)
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.Finished)
	assert.True(t, s.Countdown().Live(gen))
	assert.Equal(t, "00:30", s.Countdown().Clock())

	first := r.ID
	gen2 := s.NewRound()
	assert.NotEqual(t, first, s.Round().ID)
	assert.False(t, s.Countdown().Live(gen))
	assert.True(t, s.Countdown().Live(gen2))
}

func TestSession_CheckScoresOnce(t *testing.T) {
	m, v := testModule(t, topic.Settings{TotalTime: 60, ProblemsToSelect: 2},
		&fixedTask{typ: "add", a: 1, b: 2},
		&fixedTask{typ: "sub", a: 5, b: 3},
	)
	s := testSession(m)
	gen := s.NewRound()

	for i, c := range s.Round().Cards {
		want := new(big.Rat).Add(c.Generated.Variables["a"], c.Generated.Variables["b"]).RatString()
		if i == 0 {
			s.SetAnswer(i, "  "+want+" ")
		}
	}

	res, ok := s.Check(ReasonManual)
	require.True(t, ok)
	assert.Equal(t, Result{Correct: 1, Total: 2, Reason: ReasonManual}, *res)
	assert.Equal(t, "Result: 1 of 2", res.Summary())
	assert.Equal(t, 2, v.calls)

	// A second manual check and a late timer tick are both no-ops.
	again, ok := s.Check(ReasonManual)
	assert.False(t, ok)
	assert.Nil(t, again)

	tr := s.Tick(gen)
	assert.False(t, tr.Live)
	assert.Nil(t, tr.Result)
	assert.Equal(t, 2, v.calls)
	assert.Equal(t, res, s.Round().Result)

	cards := s.Round().Cards
	assert.Equal(t, "Correct!", cards[0].Feedback())
	assert.Contains(t, cards[1].Feedback(), "Wrong. Correct answer: ")
}

func TestSession_TimeoutThenManualCheck(t *testing.T) {
	m, v := testModule(t, topic.Settings{TotalTime: 1, ProblemsToSelect: 1},
		&fixedTask{typ: "add", a: 1, b: 1},
	)
	s := testSession(m)
	gen := s.NewRound()

	tr := s.Tick(gen)
	require.NotNil(t, tr.Result)
	assert.Equal(t, ReasonTimeout, tr.Result.Reason)

	_, ok := s.Check(ReasonManual)
	assert.False(t, ok)
	assert.Equal(t, 1, v.calls)
}

// With totalTime=5 and one addition task, five ticks and no manual check
// run the check pass exactly once.
func TestSession_AutoCheckAfterFiveSeconds(t *testing.T) {
	m, v := testModule(t, topic.Settings{TotalTime: 5},
		&fixedTask{typ: "addition", a: 2, b: 3},
	)
	s := testSession(m)
	gen := s.NewRound()
	s.SetAnswer(0, "5")

	var results []*Result
	for i := 0; i < 5; i++ {
		tr := s.Tick(gen)
		if tr.Result != nil {
			results = append(results, tr.Result)
		}
		if i < 4 {
			assert.True(t, tr.Live, "tick %d", i+1)
			assert.Equal(t, 4-i, tr.Remaining)
		}
	}

	require.Len(t, results, 1)
	assert.Equal(t, Result{Correct: 1, Total: 1, Reason: ReasonTimeout}, *results[0])
	assert.True(t, s.Round().Finished)
	assert.Equal(t, 1, v.calls)

	// Extra ticks after expiry do nothing.
	for range 3 {
		tr := s.Tick(gen)
		assert.False(t, tr.Live)
		assert.Nil(t, tr.Result)
	}
	assert.Equal(t, 1, v.calls)
}

func TestSession_RerollDropsStaleTicks(t *testing.T) {
	m, v := testModule(t, topic.Settings{TotalTime: 2},
		&fixedTask{typ: "add", a: 1, b: 1},
	)
	s := testSession(m)
	old := s.NewRound()
	s.Tick(old)

	cur := s.NewRound()
	for range 5 {
		tr := s.Tick(old)
		assert.False(t, tr.Live)
		assert.Nil(t, tr.Result)
	}
	assert.Equal(t, 2, s.Countdown().Remaining())
	assert.False(t, s.Round().Finished)

	s.Tick(cur)
	tr := s.Tick(cur)
	require.NotNil(t, tr.Result)
	assert.Equal(t, 1, v.calls)
}

func TestSession_RerollAfterCheckStartsFresh(t *testing.T) {
	m, _ := testModule(t, topic.Settings{TotalTime: 10},
		&fixedTask{typ: "add", a: 1, b: 1},
	)
	s := testSession(m)
	s.NewRound()
	s.SetAnswer(0, "2")
	_, ok := s.Check(ReasonManual)
	require.True(t, ok)

	gen := s.NewRound()
	assert.False(t, s.Round().Finished)
	assert.Empty(t, s.Round().Cards[0].Answer)
	assert.True(t, s.Tick(gen).Live)

	_, ok = s.Check(ReasonManual)
	assert.True(t, ok)
}

func TestSession_SetAnswerIgnoredAfterFinish(t *testing.T) {
	m, _ := testModule(t, topic.Settings{},
		&fixedTask{typ: "add", a: 1, b: 1},
	)
	s := testSession(m)
	s.NewRound()
	s.SetAnswer(0, "7")
	s.Check(ReasonManual)

	s.SetAnswer(0, "2")
	s.SetAnswer(5, "2")
	assert.Equal(t, "7", s.Round().Cards[0].Answer)
}

func TestSession_GenerationErrorCountsWrong(t *testing.T) {
	m, v := testModule(t, topic.Settings{},
		&fixedTask{typ: "broken", err: errors.New("boom")},
	)
	s := testSession(m)
	s.NewRound()

	card := s.Round().Cards[0]
	require.Error(t, card.Err)
	assert.Contains(t, card.Question(), "boom")

	res, ok := s.Check(ReasonManual)
	require.True(t, ok)
	assert.Equal(t, 0, res.Correct)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 0, v.calls)
}

func TestRound_Duration(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := start
	m, _ := testModule(t, topic.Settings{}, &fixedTask{typ: "add"})
	s := New(m, WithClock(func() time.Time { return now }))

	s.NewRound()
	assert.Zero(t, s.Round().Duration())

	now = start.Add(42 * time.Second)
	s.Check(ReasonManual)
	assert.Equal(t, 42*time.Second, s.Round().Duration())
}
