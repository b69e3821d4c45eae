package speech

import (
	"strings"

	"golang.org/x/text/language"
)

// FallbackLocale is used per utterance when no voice could be resolved
const FallbackLocale = "zh-CN"

// SelectVoice picks the voice used for Chinese text: an exact zh-CN voice if
// there is one, else the first voice whose locale starts with "zh". The
// result only depends on the list, so calling it again with the same list
// yields the same voice.
func SelectVoice(voices []Voice) (Voice, bool) {
	for _, v := range voices {
		if normalizeLocale(v.Locale) == "zh-cn" {
			return v, true
		}
	}
	for _, v := range voices {
		if strings.HasPrefix(normalizeLocale(v.Locale), "zh") {
			return v, true
		}
	}
	return Voice{}, false
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}

// CanonicalLocale maps engine specific language codes onto BCP 47 tags,
// e.g. "cmn" becomes "zh" and "cmn_CN" becomes "zh-CN". Codes that do not
// parse are returned with underscores replaced.
func CanonicalLocale(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return ""
	}
	tag, err := language.All.Parse(code)
	if err != nil {
		return code
	}
	return tag.String()
}

// baseLanguage returns the primary language subtag of a locale, "zh" for
// "zh-CN".
func baseLanguage(locale string) string {
	tag, err := language.Parse(CanonicalLocale(locale))
	if err != nil {
		return strings.SplitN(normalizeLocale(locale), "-", 2)[0]
	}
	base, _ := tag.Base()
	return base.String()
}

// namedVoices reports names under locale with preferred first, so that
// SelectVoice resolves to the configured voice. A preferred name missing
// from names is added.
func namedVoices(names []string, preferred, locale string) []Voice {
	voices := make([]Voice, 0, len(names)+1)
	for _, name := range names {
		voices = append(voices, Voice{ID: name, Name: name, Locale: locale})
	}
	return preferVoice(voices, Voice{ID: preferred, Name: preferred, Locale: locale})
}

// preferVoice moves the voice with preferred.ID to the front. If it is not
// listed and preferred has a locale, preferred is prepended.
func preferVoice(voices []Voice, preferred Voice) []Voice {
	if preferred.ID == "" {
		return voices
	}
	for i, v := range voices {
		if v.ID == preferred.ID {
			out := make([]Voice, 0, len(voices))
			out = append(out, v)
			out = append(out, voices[:i]...)
			return append(out, voices[i+1:]...)
		}
	}
	if preferred.Locale == "" {
		return voices
	}
	return append([]Voice{preferred}, voices...)
}
