// Package guard screens raw user input before it reaches the LLM.
// Injection attempts fail the screen outright; crisis language never
// blocks; it only flags the message so the controller can respond
// with resources instead of the normal pipeline.
package guard

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// maxInputLen caps message length before LLM processing. Anything
// longer is truncated with a marker rather than rejected.
const maxInputLen = 2000

const truncationMarker = "... [truncated]"

// ErrInjection is returned when the input matches a prompt-injection
// pattern. The turn is aborted with a generic refusal.
var ErrInjection = errors.New("prompt injection detected")

// CrisisMessage is sent instead of the normal response when crisis
// language is detected. Fixed text, never generated.
const CrisisMessage = "I noticed something in your message that concerns me. " +
	"If you are struggling, please reach out:\n" +
	"🆘 iCall (India): 9152987821\n" +
	"🆘 Vandrevala Foundation: 1860-2662-345 (24/7)\n" +
	"I am here to chat whenever you feel ready. 💙"

// RefusalMessage is the fixed reply for blocked input.
const RefusalMessage = "Sorry, I cannot process that message."

var (
	crisisPattern    = regexp.MustCompile(`(?i)\b(suicide|self.harm|kill myself|end it all)\b`)
	injectionPattern = regexp.MustCompile(`(?i)(ignore previous|disregard instructions|system prompt|jailbreak)`)
)

// Screen validates a raw message. It returns the cleaned (possibly
// truncated) text and whether crisis language was detected. Injection
// patterns return ErrInjection; crisis detection is a flag, never an
// error.
func Screen(text string) (cleaned string, crisis bool, err error) {
	if len(text) > maxInputLen {
		cut := maxInputLen
		// never split a multi-byte rune at the cut point
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + truncationMarker
	}
	if injectionPattern.MatchString(text) {
		return "", false, ErrInjection
	}
	return text, crisisPattern.MatchString(text), nil
}
