package translate

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// buildPrompt renders the translation instruction for one enveloped
// value. The instruction asks for the bare translation so the envelope
// tags survive the round trip.
func buildPrompt(source, target language.Tag, text string) string {
	namer := display.English.Languages()
	return fmt.Sprintf(
		"Translate this %s text to %s. Only provide the translation, no explanations:\n%s",
		namer.Name(source),
		namer.Name(target),
		text,
	)
}
