package i18n

import (
	"fmt"
	"strings"
	"testing"

	"github.com/svitlo-ai/svitlo/internal/models"
)

func TestTextFallsBackToEnglish(t *testing.T) {
	if got := Text(models.Lang("de"), KeySaved); got != Text(models.LangEN, KeySaved) {
		t.Errorf("unknown language should fall back to English, got %q", got)
	}
}

func TestTextUnknownKeyReturnsKey(t *testing.T) {
	if got := Text(models.LangEN, "no_such_key"); got != "no_such_key" {
		t.Errorf("unknown key should echo the key, got %q", got)
	}
}

func TestTablesCoverSameKeys(t *testing.T) {
	en := tables[models.LangEN]
	uk := tables[models.LangUK]
	for key := range en {
		if _, ok := uk[key]; !ok {
			t.Errorf("uk table missing key %q", key)
		}
	}
	for key := range uk {
		if _, ok := en[key]; !ok {
			t.Errorf("en table missing key %q", key)
		}
	}
}

func TestReportReadyFormatVerbs(t *testing.T) {
	for _, lang := range []models.Lang{models.LangEN, models.LangUK} {
		got := fmt.Sprintf(Text(lang, KeyReportReady), 7, 4.2, 3, 6.5, "noise")
		if strings.Contains(got, "%!") {
			t.Errorf("%s report string has mismatched verbs: %q", lang, got)
		}
	}
}

func TestGroundingStepsHaveFivePrompts(t *testing.T) {
	for _, lang := range []models.Lang{models.LangEN, models.LangUK, models.Lang("de")} {
		steps := GroundingSteps(lang)
		if len(steps) != 5 {
			t.Errorf("GroundingSteps(%s) = %d prompts, want 5", lang, len(steps))
		}
	}
}
