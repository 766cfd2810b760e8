// Package crisis implements the safety classifier for free-text messages.
//
// Classify is a pure function with no state: it matches text against a fixed
// set of self-harm phrases in English and Ukrainian. Every piece of free text
// must pass through it before any other component sees the message.
package crisis

import "regexp"

// Classification is the result of screening a piece of free text.
type Classification int

const (
	// Safe means no crisis phrase was detected.
	Safe Classification = iota
	// Crisis means the text contains self-harm language and the caller must
	// short-circuit: helpline reply, terminate the session, stop processing.
	Crisis
)

// Go's \b is ASCII-only, so word boundaries are expressed as
// non-letter-or-edge guards to keep the Ukrainian phrases matchable.
var crisisPattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(` +
	`kill myself|suicide|end it|self[- ]?harm|cut myself|want to die|` +
	`не хочу жити|суїцид|покінчити|зарізатись|вкоротити|самопошкодження` +
	`)(?:[^\p{L}]|$)`)

// Classify screens text for crisis language.
func Classify(text string) Classification {
	if crisisPattern.MatchString(text) {
		return Crisis
	}
	return Safe
}
