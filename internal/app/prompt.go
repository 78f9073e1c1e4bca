package app

import (
	"fmt"
	"strings"
	"unicode"

	"go.aimuz.me/deeplocal/langdetect"
)

// detectSnippetRunes bounds how much text is sent for language detection.
const detectSnippetRunes = 500

// BuildPrompt renders the translation instruction for targetLang.
func BuildPrompt(input, targetLang string) string {
	return fmt.Sprintf(`
You are a professional translator.
Translate the following text into %[1]s.
Output ONLY the translation in %[1]s (no explanations, no labels, no quotes).
Preserve line breaks and basic punctuation.

Text:
%[2]s`, targetLang, input)
}

// BuildDetectPrompt asks the model for exactly one language label.
func BuildDetectPrompt(text string) string {
	snippet := text
	if r := []rune(text); len(r) > detectSnippetRunes {
		snippet = string(r[:detectSnippetRunes])
	}
	snippet = strings.ReplaceAll(snippet, `"`, `''`)

	labels := append(langdetect.Names(), string(langdetect.Unsupported))
	return fmt.Sprintf(`You are a language identifier.
From the following text, answer with ONE label only from this set:
%s.

Text:
"%s" 

Answer with exactly one label from the set above.`, strings.Join(labels, ", "), snippet)
}

// CleanOutput strips the wrapping models like to add around a translation:
// code fences or quotes, a "Translation:"/"Output:" label and trailing END
// markers.
func CleanOutput(text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return ""
	}

	t = strings.TrimSpace(strings.Trim(t, "`"))
	t = strings.TrimSpace(strings.Trim(t, `"`))

	t = trimLabel(t, "Translation:")
	t = trimLabel(t, "Output:")

	lines := strings.Split(strings.ReplaceAll(t, "\r\n", "\n"), "\n")
	end := len(lines)
	for end > 0 {
		l := strings.TrimSpace(lines[end-1])
		if !strings.EqualFold(l, "END") && !strings.EqualFold(l, "END.") {
			break
		}
		end--
	}
	return strings.TrimRightFunc(strings.Join(lines[:end], "\n"), unicode.IsSpace)
}

func trimLabel(s, label string) string {
	if len(s) >= len(label) && strings.EqualFold(s[:len(label)], label) {
		return strings.TrimLeftFunc(s[len(label):], unicode.IsSpace)
	}
	return s
}
