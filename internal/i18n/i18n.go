// Package i18n holds the built-in message string tables.
//
// The tables are data, not logic: Text is a pure lookup that falls back to
// English for unknown languages and returns the key itself for unknown keys,
// so a missing string never crashes a flow.
package i18n

import "github.com/svitlo-ai/svitlo/internal/models"

// Message keys used across flows and the dispatcher.
const (
	KeyStart           = "start"
	KeyChooseLang      = "choose_lang"
	KeySaved           = "saved"
	KeyUnknown         = "unknown"
	KeyCheckinIntro    = "checkin_intro"
	KeyCheckinStress   = "checkin_stress_saved"
	KeyCheckinTriggers = "checkin_triggers_saved"
	KeyCheckinSleep    = "checkin_sleep_saved"
	KeyCheckinDone     = "checkin_done"
	KeyStressRetry     = "stress_retry"
	KeySleepRetry      = "sleep_retry"
	KeyBreathIntro     = "breath_intro"
	KeyBreathGo        = "breath_go"
	KeyBreathRetry     = "breath_retry"
	KeyGroundIntro     = "ground_intro"
	KeyGroundStep      = "ground_step"
	KeyGroundDone      = "ground_done"
	KeySleepTips       = "sleep_tips"
	KeyPlanIntro       = "plan_intro"
	KeyPlanAdded       = "plan_added"
	KeyPlanSaved       = "plan_saved"
	KeyTriggersIntro   = "triggers_intro"
	KeyTriggerLogged   = "trigger_logged"
	KeyReportIntro     = "report_intro"
	KeyReportReady     = "report_ready"
	KeyReportRetry     = "report_retry"
	KeyNoData          = "no_data"
	KeySettings        = "settings"
	KeyCrisis          = "crisis"
	KeyOK              = "ok"
	KeyCanceled        = "canceled"
	KeySessionExpired  = "session_expired"
	KeyErrorGeneric    = "error_generic"
)

var tables = map[models.Lang]map[string]string{
	models.LangEN: {
		KeyStart: "Hi! I'm Svitlo — mental health training (not a medical service).\n" +
			"Commands: /daily /breath /ground /sleep /plan /triggers /report /settings",
		KeyChooseLang:      "Choose language / Оберіть мову",
		KeySaved:           "Saved ✅",
		KeyUnknown:         "Try /daily or /breath.",
		KeyCheckinIntro:    "Daily check-in. What's your stress (0–10) now?",
		KeyCheckinStress:   "OK. Stress %.1f/10. Any triggers today? (write or 'no')",
		KeyCheckinTriggers: "Noted. How many hours did you sleep last night? (e.g., 6.5)",
		KeyCheckinSleep:    "Thanks. One micro-goal for today?",
		KeyCheckinDone:     "Saved. You can try /ground or /breath.",
		KeyStressRetry:     "Send a number 0–10.",
		KeySleepRetry:      "Send a number, e.g., 6.5.",
		KeyBreathIntro:     "Box breathing ~2 min. Type 'go' when ready.",
		KeyBreathGo:        "Inhale 4 — Hold 4 — Exhale 4 — Hold 4. Repeat for ~2 minutes.",
		KeyBreathRetry:     "Type 'go'.",
		KeyGroundIntro:     "Grounding 5-4-3-2-1. I'll guide you.",
		KeyGroundStep:      "Tell me %s: %s",
		KeyGroundDone:      "Done.",
		KeySleepTips: "Sleep tips: consistent schedule, dark & cool room, no screens 60m before bed, " +
			"reduce caffeine after noon, short daylight walk.",
		KeyPlanIntro:      "Up to 3 micro-goals. Send each as a separate message. Type 'done' to save.",
		KeyPlanAdded:      "Added. Type 'done' to save.",
		KeyPlanSaved:      "Plan saved.",
		KeyTriggersIntro:  "Send triggers to log. Type 'done' to finish.",
		KeyTriggerLogged:  "Logged.",
		KeyReportIntro:    "Report period? Reply 7 or 30.",
		KeyReportReady:    "Report %dd: avg stress %.1f, check-ins %d, avg sleep %.1fh, top: %s",
		KeyReportRetry:    "Reply 7 or 30.",
		KeyNoData:         "No data yet.",
		KeySettings:       "Settings. Lang=%s, Country=%s. Send `lang en/uk` or `country US/UA`.",
		KeyCrisis:         "If you're thinking about self-harm: US 988/911, UA 7333/112. I can't help here.",
		KeyOK:             "OK.",
		KeyCanceled:       "Canceled. You can start over with /daily or /breath.",
		KeySessionExpired: "That session timed out. Start again whenever you're ready.",
		KeyErrorGeneric:   "Something went wrong. Please try again.",
	},
	models.LangUK: {
		KeyStart: "Привіт! Я Svitlo — тренування психстійкості (не медична служба).\n" +
			"Команди: /daily /breath /ground /sleep /plan /triggers /report /settings",
		KeyChooseLang:      "Choose language / Оберіть мову",
		KeySaved:           "Збережено ✅",
		KeyUnknown:         "Спробуй /daily або /breath.",
		KeyCheckinIntro:    "Щоденний чек-ін. Який зараз рівень стресу (0–10)?",
		KeyCheckinStress:   "Ок. Стрес %.1f/10. Були сьогодні тригери? (напиши або 'ні')",
		KeyCheckinTriggers: "Занотував. Скільки годин спав(-ла) вночі? (напр., 6.5)",
		KeyCheckinSleep:    "Дякую. Одна мікроціль на сьогодні?",
		KeyCheckinDone:     "Збережено. Можеш спробувати /ground або /breath.",
		KeyStressRetry:     "Надішли число 0–10.",
		KeySleepRetry:      "Надішли число, напр., 6.5.",
		KeyBreathIntro:     "Дихання «коробка» ~2 хв. Напиши 'go', коли готовий(-а).",
		KeyBreathGo:        "Вдих 4 — Пауза 4 — Видих 4 — Пауза 4. Повторюй ~2 хв.",
		KeyBreathRetry:     "Напиши 'go'.",
		KeyGroundIntro:     "Ґраундинг 5-4-3-2-1. Я підкажу.",
		KeyGroundStep:      "Назви %s: %s",
		KeyGroundDone:      "Готово.",
		KeySleepTips: "Поради для сну: стабільний графік, темна й прохолодна кімната, без екранів 60 хв до сну, " +
			"менше кофеїну після обіду, коротка денна прогулянка.",
		KeyPlanIntro:      "До 3 мікроцілей. Надсилай кожну окремо. Напиши 'done', щоб зберегти.",
		KeyPlanAdded:      "Додано. Напиши 'done', щоб зберегти.",
		KeyPlanSaved:      "План збережено.",
		KeyTriggersIntro:  "Надсилай тригери для журналу. Напиши 'done', щоб завершити.",
		KeyTriggerLogged:  "Занотовано.",
		KeyReportIntro:    "Період звіту? Відповідай 7 або 30.",
		KeyReportReady:    "Звіт %d дн: сер. стрес %.1f, чек-іни %d, сер. сон %.1f год, топ: %s",
		KeyReportRetry:    "Відповідай 7 або 30.",
		KeyNoData:         "Поки немає даних.",
		KeySettings:       "Налаштування. Мова=%s, Країна=%s. Надішли `lang en/uk` або `country US/UA`.",
		KeyCrisis:         "Якщо думаєш про самопошкодження: US 988/911, UA 7333/112. Я не можу допомогти тут.",
		KeyOK:             "Ок.",
		KeyCanceled:       "Скасовано. Можеш почати знову з /daily або /breath.",
		KeySessionExpired: "Сесія завершилась через неактивність. Почни знову, коли будеш готовий(-а).",
		KeyErrorGeneric:   "Щось пішло не так. Спробуй ще раз.",
	},
}

// Text looks up the message for the given language and key.
func Text(lang models.Lang, key string) string {
	table, ok := tables[lang]
	if !ok {
		table = tables[models.LangEN]
	}
	if s, ok := table[key]; ok {
		return s
	}
	return key
}

// GroundingStep is one prompt of the 5-4-3-2-1 exercise.
type GroundingStep struct {
	Count string
	Hint  string
}

var groundingEN = []GroundingStep{
	{"5 things you see", "around you"},
	{"4 things you feel", "touch/textures"},
	{"3 things you hear", "ambient sounds"},
	{"2 things you smell", "even faint"},
	{"1 thing you taste", "or imagine"},
}

var groundingUK = []GroundingStep{
	{"5 що бачиш", "навколо"},
	{"4 що відчуваєш", "дотик/текстури"},
	{"3 що чуєш", "звуки довкола"},
	{"2 запахи", "навіть ледь"},
	{"1 смак", "або уяви"},
}

// GroundingSteps returns the ordered grounding prompts for the language.
func GroundingSteps(lang models.Lang) []GroundingStep {
	if lang == models.LangUK {
		return groundingUK
	}
	return groundingEN
}
