package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/ppiankov/claimify/internal/model"
	"github.com/ppiankov/claimify/internal/prompt"
)

// testPrompts lets the mock client tell stages apart by system prompt
var testPrompts = prompt.Prompts{
	Selection:      "selection-stage",
	Disambiguation: "disambiguation-stage",
	Decomposition:  "decomposition-stage",
}

func testOptions() Options {
	return Options{
		SentencesBefore: 1,
		SentencesAfter:  1,
		Log:             io.Discard,
	}
}

// targetOf extracts the target sentence from a stage user prompt
func targetOf(userPrompt string) string {
	marker := "Sentence:\n"
	i := strings.LastIndex(userPrompt, marker)
	if i < 0 {
		return ""
	}
	return userPrompt[i+len(marker):]
}

func TestPipeline_AppleScenario(t *testing.T) {
	text := "Apple INC did a fine result last quarter of 2024. The company's revenue increased by 15% due to strong sales."

	client := &mockClient{respond: func(system, user string) (string, error) {
		switch system {
		case testPrompts.Selection:
			// Only the revenue sentence carries a verifiable claim
			if strings.HasPrefix(targetOf(user), "The company's revenue") {
				return "Verdict: contains_verifiable_claim", nil
			}
			return "Verdict: no_verifiable_claim", nil
		case testPrompts.Disambiguation:
			return "DecontextualizedSentence: Apple INC's revenue increased by 15% last quarter of 2024", nil
		case testPrompts.Decomposition:
			return "Claims:\n- Apple INC's revenue increased by 15% last quarter of 2024", nil
		}
		return "", fmt.Errorf("unexpected system prompt: %s", system)
	}}

	p := New(client, testPrompts, testOptions())
	claims, err := p.Run(context.Background(), text, "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claims) != 1 {
		t.Fatalf("Expected exactly 1 claim, got %d: %v", len(claims), claims)
	}
	if claims[0].Text != "Apple INC's revenue increased by 15% last quarter of 2024" {
		t.Errorf("Unexpected claim: %q", claims[0].Text)
	}
	if claims[0].Sentence != 1 {
		t.Errorf("Expected claim from sentence 1, got %d", claims[0].Sentence)
	}
}

func TestPipeline_EmptyInput(t *testing.T) {
	client := &mockClient{respond: func(_, _ string) (string, error) {
		return "", errors.New("should not be called")
	}}
	p := New(client, testPrompts, testOptions())

	for _, text := range []string{"", "   \n \t "} {
		claims, err := p.Run(context.Background(), text, "")
		if err != nil {
			t.Fatalf("Run failed for %q: %v", text, err)
		}
		if len(claims) != 0 {
			t.Errorf("Expected empty claim list for %q, got %v", text, claims)
		}
	}

	if client.calls != 0 {
		t.Errorf("Expected zero external calls, got %d", client.calls)
	}
}

func TestPipeline_SelectionRejectShortCircuits(t *testing.T) {
	client := &mockClient{respond: func(system, _ string) (string, error) {
		if system != testPrompts.Selection {
			return "", fmt.Errorf("stage %s should not run after rejection", system)
		}
		return "Verdict: no_verifiable_claim", nil
	}}

	p := New(client, testPrompts, testOptions())
	claims, err := p.Run(context.Background(), "I think this is nice.", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claims) != 0 {
		t.Errorf("Expected no claims, got %v", claims)
	}
	if client.calls != 1 {
		t.Errorf("Expected 1 call (selection only), got %d", client.calls)
	}
}

func TestPipeline_DisambiguationRejectShortCircuits(t *testing.T) {
	client := &mockClient{respond: func(system, _ string) (string, error) {
		switch system {
		case testPrompts.Selection:
			return "Verdict: contains_verifiable_claim", nil
		case testPrompts.Disambiguation:
			return "Cannot be decontextualized", nil
		}
		return "", fmt.Errorf("decomposition should not run after rejection")
	}}

	p := New(client, testPrompts, testOptions())
	claims, err := p.Run(context.Background(), "It rose by a lot.", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claims) != 0 {
		t.Errorf("Expected no claims, got %v", claims)
	}
	if client.calls != 2 {
		t.Errorf("Expected 2 calls, got %d", client.calls)
	}
}

func TestPipeline_PartialFailureIsolation(t *testing.T) {
	text := "Alpha produced ten units. Beta produced twenty units. Gamma produced thirty units."

	client := &mockClient{respond: func(system, user string) (string, error) {
		target := targetOf(user)
		if strings.HasPrefix(target, "Beta") {
			return "", errors.New("rate limit exceeded")
		}
		switch system {
		case testPrompts.Selection:
			return "Verdict: contains_verifiable_claim", nil
		case testPrompts.Disambiguation:
			return "DecontextualizedSentence: " + target, nil
		case testPrompts.Decomposition:
			return "Claims:\n- " + target, nil
		}
		return "", fmt.Errorf("unexpected system prompt: %s", system)
	}}

	var log bytes.Buffer
	opts := testOptions()
	opts.Log = &log

	p := New(client, testPrompts, opts)
	claims, err := p.Run(context.Background(), text, "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d: %v", len(claims), claims)
	}
	if claims[0].Sentence != 0 || claims[1].Sentence != 2 {
		t.Errorf("Expected claims from sentences 0 and 2, got %d and %d", claims[0].Sentence, claims[1].Sentence)
	}
	for _, c := range claims {
		if strings.HasPrefix(c.Text, "Beta") {
			t.Errorf("Failed sentence leaked a claim: %q", c.Text)
		}
	}
	if !strings.Contains(log.String(), "sentence 1") {
		t.Errorf("Expected warning for sentence 1, got: %s", log.String())
	}
}

func TestPipeline_UnparseableContributesNothing(t *testing.T) {
	text := "Alpha produced ten units. Beta produced twenty units."

	client := &mockClient{respond: func(system, user string) (string, error) {
		target := targetOf(user)
		switch system {
		case testPrompts.Selection:
			if strings.HasPrefix(target, "Beta") {
				// Matches no verdict shape: must not default to either polarity
				return "Sure thing, happy to help!", nil
			}
			return "Verdict: contains_verifiable_claim", nil
		case testPrompts.Disambiguation:
			return "DecontextualizedSentence: " + target, nil
		case testPrompts.Decomposition:
			return "Claims:\n- " + target, nil
		}
		return "", fmt.Errorf("unexpected system prompt: %s", system)
	}}

	p := New(client, testPrompts, testOptions())
	claims, err := p.Run(context.Background(), text, "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d: %v", len(claims), claims)
	}
	if claims[0].Sentence != 0 {
		t.Errorf("Expected claim from sentence 0, got %d", claims[0].Sentence)
	}
}

func TestPipeline_OrderPreservation(t *testing.T) {
	text := "Alpha produced ten units. Beta produced twenty units. Gamma produced thirty units."

	client := &mockClient{respond: func(system, user string) (string, error) {
		target := targetOf(user)
		switch system {
		case testPrompts.Selection:
			return "Verdict: contains_verifiable_claim", nil
		case testPrompts.Disambiguation:
			return "DecontextualizedSentence: " + target, nil
		case testPrompts.Decomposition:
			// Two claims per sentence
			return "Claims:\n- " + target + " (fact one)\n- " + target + " (fact two)", nil
		}
		return "", fmt.Errorf("unexpected system prompt: %s", system)
	}}

	p := New(client, testPrompts, testOptions())
	claims, err := p.Run(context.Background(), text, "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(claims) != 6 {
		t.Fatalf("Expected 6 claims, got %d", len(claims))
	}
	for i := 1; i < len(claims); i++ {
		if claims[i].Sentence < claims[i-1].Sentence {
			t.Errorf("Sentence indices not non-decreasing: %d after %d", claims[i].Sentence, claims[i-1].Sentence)
		}
	}
}

func TestPipeline_ContextWindowReachesNeighbors(t *testing.T) {
	text := "Alpha produced ten units. Beta produced twenty units. Gamma produced thirty units."

	var middleExcerpt string
	client := &mockClient{respond: func(system, user string) (string, error) {
		if system == testPrompts.Selection && strings.HasPrefix(targetOf(user), "Beta") {
			middleExcerpt = user
		}
		return "Verdict: no_verifiable_claim", nil
	}}

	p := New(client, testPrompts, testOptions())
	if _, err := p.Run(context.Background(), text, ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, neighbor := range []string{"Alpha produced", "Gamma produced"} {
		if !strings.Contains(middleExcerpt, neighbor) {
			t.Errorf("Middle sentence context missing %q:\n%s", neighbor, middleExcerpt)
		}
	}
}

func TestPipeline_DefaultQuestionSentinel(t *testing.T) {
	client := &mockClient{respond: func(_, _ string) (string, error) {
		return "Verdict: no_verifiable_claim", nil
	}}

	p := New(client, testPrompts, testOptions())
	if _, err := p.Run(context.Background(), "Water boils at 100 degrees Celsius.", ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(client.users) == 0 {
		t.Fatal("Expected at least one call")
	}
	if !strings.Contains(client.users[0], model.DefaultQuestion) {
		t.Errorf("Expected default question sentinel in prompt:\n%s", client.users[0])
	}
}
