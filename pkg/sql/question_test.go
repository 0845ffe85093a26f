package sql

import (
	"testing"

	"github.com/tripsight/tripsight-engine/pkg/apperrors"
)

func TestScreenQuestionRejectsSQLCommands(t *testing.T) {
	tests := []string{
		"Delete all trips",
		"please DROP the trips table",
		"update booking_value to 0",
	}

	for _, q := range tests {
		err := ScreenQuestion(q)
		rej, ok := apperrors.AsRejection(err)
		if !ok {
			t.Fatalf("expected rejection for %q, got %v", q, err)
		}
		if rej.Category != apperrors.RejectionSecurity {
			t.Errorf("expected security category for %q, got %s", q, rej.Category)
		}
	}
}

func TestScreenQuestionRejectsInjectionPatterns(t *testing.T) {
	if err := ScreenQuestion("' OR 1=1 --"); err == nil {
		t.Fatal("expected rejection of injection pattern")
	}
}

func TestScreenQuestionAllowsNormalQuestions(t *testing.T) {
	tests := []string{
		"What is the average booking value per vehicle type?",
		"How many trips were cancelled by drivers?",
		"Show me dropped-off locations by hour", // "dropped" must not match DROP
		"Which day has the most updates to ratings?  ", // no whole-word match
	}

	for _, q := range tests {
		if err := ScreenQuestion(q); err != nil {
			t.Errorf("expected %q to pass, got %v", q, err)
		}
	}
}
