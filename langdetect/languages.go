// Package langdetect provides the supported language catalog and local
// language detection.
package langdetect

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is identified by its English display name.
type Language string

const (
	Auto        Language = "Auto"
	Unsupported Language = "Unsupported"

	Italian  Language = "Italian"
	English  Language = "English"
	Spanish  Language = "Spanish"
	French   Language = "French"
	German   Language = "German"
	Russian  Language = "Russian"
	Hebrew   Language = "Hebrew"
	Japanese Language = "Japanese"
	Chinese  Language = "Chinese"
)

// supported keeps the order shown in the language pickers.
var supported = []Language{
	Italian, English, Spanish, French, German, Russian, Hebrew, Japanese, Chinese,
}

var tags = map[Language]language.Tag{
	Italian:  language.Italian,
	English:  language.English,
	Spanish:  language.Spanish,
	French:   language.French,
	German:   language.German,
	Russian:  language.Russian,
	Hebrew:   language.Hebrew,
	Japanese: language.Japanese,
	Chinese:  language.Chinese,
}

// Supported returns the translatable languages in picker order.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Names returns the supported languages as plain strings.
func Names() []string {
	out := make([]string, len(supported))
	for i, l := range supported {
		out[i] = string(l)
	}
	return out
}

func (l Language) String() string { return string(l) }

// IsAuto reports whether l is the auto-detect pseudo language.
func (l Language) IsAuto() bool { return strings.EqualFold(string(l), string(Auto)) }

// Parse matches name against the catalog, ignoring case and surrounding
// whitespace. Auto is accepted; anything else unknown yields Unsupported.
func Parse(name string) Language {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, string(Auto)) {
		return Auto
	}
	for _, l := range supported {
		if strings.EqualFold(name, string(l)) {
			return l
		}
	}
	return Unsupported
}

// IsSupported reports whether name is one of the translatable languages.
func IsSupported(name string) bool {
	l := Parse(name)
	return l != Auto && l != Unsupported
}

// Normalize folds the variants a model tends to answer with into catalog names.
func Normalize(raw string) string {
	t := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(t, "Chinese (Simplified)"), strings.EqualFold(t, "Chinese (Traditional)"):
		return string(Chinese)
	case strings.EqualFold(t, "Hebrew (Hebrew)"):
		return string(Hebrew)
	}
	return t
}

// IsRTL reports whether text in lang flows right to left.
func IsRTL(lang string) bool {
	return strings.EqualFold(strings.TrimSpace(lang), string(Hebrew))
}

// Code returns the BCP 47 base tag for lang, or "auto" when lang is not a
// supported language.
func Code(lang string) string {
	tag, ok := tags[Parse(lang)]
	if !ok {
		return "auto"
	}
	base, _ := tag.Base()
	return base.String()
}

// ParseLabel extracts a language from a model's one-label answer.
func ParseLabel(answer string) Language {
	ans := Normalize(answer)
	if i := strings.IndexByte(ans, '\n'); i >= 0 {
		ans = strings.TrimSpace(ans[:i])
	}
	if i := strings.IndexByte(ans, ' '); i >= 0 {
		ans = strings.TrimSpace(ans[:i])
	}
	ans = strings.TrimRight(ans, ".,;:!\"'`*")
	ans = strings.TrimLeft(ans, "\"'`*")

	l := Parse(ans)
	if l == Auto {
		return Unsupported
	}
	return l
}
