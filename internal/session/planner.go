package session

import (
	"math/rand/v2"

	"github.com/abhisek/drillz/internal/topic"
)

// Sample selects the tasks of a round: the task types are shuffled, the
// first n types are kept, and one task is picked uniformly from each kept
// type. The result never holds two tasks of the same type and never more
// tasks than there are distinct types.
func Sample(tasks []topic.Task, n int, r *rand.Rand) []topic.Task {
	if n <= 0 || len(tasks) == 0 {
		return nil
	}

	// Group by type, remembering first-seen order so a seeded generator
	// always produces the same round.
	var types []string
	groups := make(map[string][]topic.Task)
	for _, t := range tasks {
		typ := t.Type()
		if _, ok := groups[typ]; !ok {
			types = append(types, typ)
		}
		groups[typ] = append(groups[typ], t)
	}

	r.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})
	if n > len(types) {
		n = len(types)
	}

	picked := make([]topic.Task, 0, n)
	for _, typ := range types[:n] {
		group := groups[typ]
		picked = append(picked, group[r.IntN(len(group))])
	}
	return picked
}
