package analysis

import (
	"context"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/ejacobg/friendgraph/pipeline"
	"runtime"
	"sort"
)

// Recommend computes friend-of-friend suggestions for every person in view.
// Each person maps to the sorted set of people who are friends of one of
// their friends but are neither themselves nor already a friend.
//
// People are spread across a pool of workers (runtime.NumCPU() when workers
// is not positive). The cost grows with N·avgDegree², which is cubic for
// dense graphs; cancel ctx to abort a long run.
func Recommend(ctx context.Context, view graph.View, workers int) (map[string][]string, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	people := view.People()
	src := &personSource{people: people}
	sink := &recommendationSink{out: make(map[string][]string, len(people))}
	proc := pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		payload := p.(*recommendationPayload)
		payload.Suggestions = RecommendFor(view, payload.Person)
		return payload, nil
	})

	if err := pipeline.New(pipeline.FixedWorkerPool(proc, workers)).Process(ctx, src, sink); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	// A cancelled pipeline exits quietly with a partial result.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return sink.out, nil
}

// RecommendFor returns the sorted friend-of-friend suggestions for a single
// person. Unknown people get no suggestions.
func RecommendFor(view graph.View, person string) []string {
	friends := view.Friends(person)

	excluded := make(map[string]struct{}, len(friends)+1)
	excluded[person] = struct{}{}
	for _, friend := range friends {
		excluded[friend] = struct{}{}
	}

	suggestions := []string{}
	for _, friend := range friends {
		for _, candidate := range view.Friends(friend) {
			if _, skip := excluded[candidate]; skip {
				continue
			}
			excluded[candidate] = struct{}{}
			suggestions = append(suggestions, candidate)
		}
	}

	sort.Strings(suggestions)
	return suggestions
}

type recommendationPayload struct {
	Person      string
	Suggestions []string
}

// Clone implements pipeline.Payload.
func (p *recommendationPayload) Clone() pipeline.Payload {
	return &recommendationPayload{
		Person:      p.Person,
		Suggestions: append([]string(nil), p.Suggestions...),
	}
}

// MarkAsProcessed implements pipeline.Payload.
func (p *recommendationPayload) MarkAsProcessed() {
	p.Suggestions = nil
}

// personSource emits one payload per person.
type personSource struct {
	people []string
	curr   int
}

func (s *personSource) Error() error { return nil }

func (s *personSource) Next(ctx context.Context) bool {
	if ctx.Err() != nil || s.curr >= len(s.people) {
		return false
	}
	s.curr++
	return true
}

func (s *personSource) Payload() pipeline.Payload {
	return &recommendationPayload{Person: s.people[s.curr-1]}
}

// recommendationSink collects results. The pipeline runs a single sink
// goroutine, so no locking is required.
type recommendationSink struct {
	out map[string][]string
}

func (s *recommendationSink) Consume(_ context.Context, p pipeline.Payload) error {
	payload := p.(*recommendationPayload)
	s.out[payload.Person] = payload.Suggestions
	return nil
}
