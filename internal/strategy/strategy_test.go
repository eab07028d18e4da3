package strategy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/annomania/annomania-api/internal/apperrors"
)

func TestResolveDefaultsToLeastAnnotated(t *testing.T) {
	setID := uuid.New()
	plan, err := Resolve("", Params{SetID: setID}, DefaultAmount)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if plan.Kind != KindLeastAnnotated {
		t.Fatalf("kind = %s, want %s", plan.Kind, KindLeastAnnotated)
	}
	if plan.SetID != setID || plan.Limit != DefaultAmount {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestResolveRandom(t *testing.T) {
	plan, err := Resolve("random", Params{SetID: uuid.New()}, 10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if plan.Kind != KindRandom || plan.Limit != 10 {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestResolveTopicStripsNonWordCharacters(t *testing.T) {
	plan, err := Resolve("topic", Params{SetID: uuid.New(), Topic: "Go & REST!"}, 3)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if plan.Kind != KindTopic {
		t.Fatalf("kind = %s, want %s", plan.Kind, KindTopic)
	}
	if plan.Topic != "GoREST" {
		t.Fatalf("topic = %q, want %q", plan.Topic, "GoREST")
	}
}

func TestResolveTopicRequiresTopic(t *testing.T) {
	if _, err := Resolve("topic", Params{SetID: uuid.New()}, 3); !apperrors.IsValidation(err) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	// A topic that sanitizes down to nothing is missing too.
	if _, err := Resolve("topic", Params{SetID: uuid.New(), Topic: "!?! ..."}, 3); !apperrors.IsValidation(err) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestResolveUnknownStrategy(t *testing.T) {
	if _, err := Resolve("newestFirst", Params{SetID: uuid.New()}, 3); !apperrors.IsValidation(err) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestResolveRejectsNonPositiveLimit(t *testing.T) {
	for _, limit := range []int{0, -1, -200} {
		if _, err := Resolve("random", Params{SetID: uuid.New()}, limit); !apperrors.IsValidation(err) {
			t.Fatalf("limit %d: err = %v, want ErrValidation", limit, err)
		}
	}
}
