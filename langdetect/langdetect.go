package langdetect

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

// DetectScript identifies languages whose script alone gives them away.
// Runes are scanned in order and the first one inside a known block decides.
func DetectScript(text string) (Language, bool) {
	for _, r := range text {
		switch {
		case r >= 0x0590 && r <= 0x05FF:
			return Hebrew, true
		case r >= 0x0400 && r <= 0x04FF:
			return Russian, true
		case (r >= 0x3040 && r <= 0x30FF) || (r >= 0x31F0 && r <= 0x31FF):
			return Japanese, true
		case r >= 0x4E00 && r <= 0x9FFF:
			return Chinese, true
		}
	}
	return "", false
}

// DefaultMinRelativeDistance makes lingua abstain on short or mixed input
// instead of guessing.
const DefaultMinRelativeDistance = 0.25

var linguaToLanguage = map[lingua.Language]Language{
	lingua.Italian:  Italian,
	lingua.English:  English,
	lingua.Spanish:  Spanish,
	lingua.French:   French,
	lingua.German:   German,
	lingua.Russian:  Russian,
	lingua.Hebrew:   Hebrew,
	lingua.Japanese: Japanese,
	lingua.Chinese:  Chinese,
}

// Detector is a statistical detector over every language lingua knows.
// Results outside the supported catalog are reported as not detected, so
// a Finnish text never collapses onto German. The underlying models load
// lazily on first use.
type Detector struct {
	minDistance float64
	once        sync.Once
	detector    lingua.LanguageDetector
}

// NewDetector creates a Detector. A non-positive minDistance selects
// DefaultMinRelativeDistance.
func NewDetector(minDistance float64) *Detector {
	if minDistance <= 0 {
		minDistance = DefaultMinRelativeDistance
	}
	return &Detector{minDistance: minDistance}
}

func (d *Detector) build() {
	d.detector = lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		WithMinimumRelativeDistance(d.minDistance).
		Build()
}

// Detect returns the language lingua is confident about. ok is false when
// lingua is unsure or settles on a language outside the catalog.
func (d *Detector) Detect(text string) (Language, bool) {
	if text == "" {
		return "", false
	}
	d.once.Do(d.build)

	l, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	lang, ok := linguaToLanguage[l]
	return lang, ok
}

var defaultDetector = NewDetector(0)

// Detect runs the local stages only: script blocks first, then lingua.
// It returns ("auto", "Auto") when neither stage is sure.
func Detect(text string) (code, name string) {
	if l, ok := DetectScript(text); ok {
		return Code(string(l)), string(l)
	}
	if l, ok := defaultDetector.Detect(text); ok {
		return Code(string(l)), string(l)
	}
	return "auto", string(Auto)
}
