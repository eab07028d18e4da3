// Package strategy resolves a named text fetch strategy into a query plan
// the text repo can execute. The strategy family is a closed set, so plans
// are tagged variants dispatched in one place rather than an open registry.
package strategy

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/annomania/annomania-api/internal/apperrors"
)

type Kind string

const (
	KindRandom         Kind = "random"
	KindTopic          Kind = "topic"
	KindLeastAnnotated Kind = "leastAnnotated"

	// DefaultName drives the active-learning style coverage of a corpus:
	// texts with the fewest votes on any question come back first.
	DefaultName = string(KindLeastAnnotated)

	DefaultAmount = 5
)

// Params carries the request-scoped inputs a strategy may use.
type Params struct {
	SetID uuid.UUID
	Topic string
}

// Plan is the resolved, validated query plan. Every plan ends in the public
// projection and a hard limit, whatever the strategy.
type Plan struct {
	Kind  Kind
	SetID uuid.UUID
	Topic string
	Limit int
}

var nonWord = regexp.MustCompile(`\W+`)

// Resolve validates the strategy name and its parameter contract and
// returns the plan. Unknown names, a missing topic for the topic strategy
// and non-positive limits are validation failures.
func Resolve(name string, params Params, limit int) (Plan, error) {
	if name == "" {
		name = DefaultName
	}
	if limit <= 0 {
		return Plan{}, apperrors.Validationf("amount: %d is not a positive integer", limit)
	}

	plan := Plan{SetID: params.SetID, Limit: limit}
	switch Kind(name) {
	case KindRandom:
		plan.Kind = KindRandom
	case KindLeastAnnotated:
		plan.Kind = KindLeastAnnotated
	case KindTopic:
		topic := nonWord.ReplaceAllString(params.Topic, "")
		if strings.TrimSpace(topic) == "" {
			return Plan{}, apperrors.Validationf("topic is required for the topic fetch strategy")
		}
		plan.Kind = KindTopic
		plan.Topic = topic
	default:
		return Plan{}, apperrors.Validationf("unknown fetch strategy: %s", name)
	}
	return plan, nil
}
