package assistant

import "testing"

func TestExtractSymptomsMatchesKeywords(t *testing.T) {
	got := ExtractSymptoms("I've had a bad Headache and some chest pain since yesterday")
	if len(got) != 2 {
		t.Fatalf("expected 2 symptoms, got %d: %+v", len(got), got)
	}
	// Rule order is stable: cardiology rules come before neurology.
	if got[0].Specialization != "Cardiology" || got[1].Specialization != "Neurology" {
		t.Fatalf("unexpected specializations: %+v", got)
	}
}

func TestExtractSymptomsDeduplicatesPerRule(t *testing.T) {
	got := ExtractSymptoms("itchy rash on my skin")
	if len(got) != 1 {
		t.Fatalf("multiple keywords of one rule must yield one symptom, got %+v", got)
	}
	if got[0].Specialization != "Dermatology" {
		t.Fatalf("unexpected specialization %q", got[0].Specialization)
	}
}

func TestExtractSymptomsNoMatch(t *testing.T) {
	if got := ExtractSymptoms("hello, can you help me?"); len(got) != 0 {
		t.Fatalf("expected no symptoms, got %+v", got)
	}
}

func TestSpecializationsDeduplicates(t *testing.T) {
	syms := []Symptom{
		{Name: "a", Specialization: "Cardiology"},
		{Name: "b", Specialization: "Neurology"},
		{Name: "c", Specialization: "Cardiology"},
	}
	got := Specializations(syms)
	if len(got) != 2 || got[0] != "Cardiology" || got[1] != "Neurology" {
		t.Fatalf("unexpected specializations: %v", got)
	}
}

func TestBuildPromptShape(t *testing.T) {
	history := []Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	msgs := BuildPrompt(history, "new question")
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "system" {
		t.Fatalf("first message must be the system prompt, got %q", msgs[0].Role)
	}
	last := msgs[len(msgs)-1]
	if last.Role != "user" || last.Content != "new question" {
		t.Fatalf("last message must be the new user turn, got %+v", last)
	}
}
