package translate

import (
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"github.com/prasdika/tabtrans/internal/table"
)

// detectSampleLimit caps how many values feed language detection.
const detectSampleLimit = 50

// DetectLanguage guesses the dominant language of a column's values by
// majority vote over a sample. Advisory only; it never decides which
// values get translated.
func DetectLanguage(values []table.Value) language.Tag {
	if len(values) == 0 {
		return language.Und
	}

	langMap := make(map[string]int)

	sample := values
	if len(sample) > detectSampleLimit {
		sample = sample[:detectSampleLimit]
	}
	for _, v := range sample {
		if v.IsMissing() {
			continue
		}
		lang := whatlanggo.DetectLang(v.String).Iso6391()
		langMap[lang]++
	}

	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}
	if topLang == "" {
		return language.Und
	}

	return language.All.Make(topLang)
}
