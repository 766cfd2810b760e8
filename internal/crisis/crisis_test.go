package crisis

import "testing"

func TestClassifyCrisis(t *testing.T) {
	cases := []string{
		"I want to kill myself",
		"thinking about suicide again",
		"I will just end it tonight",
		"self-harm thoughts",
		"self harm thoughts",
		"i might cut myself",
		"I want to die",
		"я більше не хочу жити",
		"думаю про суїцид",
		"хочу покінчити з цим",
		"самопошкодження знову",
	}
	for _, text := range cases {
		if got := Classify(text); got != Crisis {
			t.Errorf("Classify(%q) = %v, want Crisis", text, got)
		}
	}
}

func TestClassifySafe(t *testing.T) {
	cases := []string{
		"",
		"today was hard but ok",
		"slept 6 hours, stress around 4",
		"the suicidesquad movie was fine", // phrase embedded in a longer word
		"сьогодні був складний день",
		"done",
	}
	for _, text := range cases {
		if got := Classify(text); got != Safe {
			t.Errorf("Classify(%q) = %v, want Safe", text, got)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if Classify("KILL MYSELF") != Crisis {
		t.Error("expected uppercase phrase to classify as Crisis")
	}
	if Classify("Не Хочу Жити") != Crisis {
		t.Error("expected mixed-case Ukrainian phrase to classify as Crisis")
	}
}
