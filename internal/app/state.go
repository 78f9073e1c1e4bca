package app

import (
	"fmt"

	"go.aimuz.me/deeplocal/langdetect"
)

// Selection is the pair of language pickers. Source may be Auto; Target is
// always a supported language.
type Selection struct {
	Source       langdetect.Language
	Target       langdetect.Language
	LastExplicit langdetect.Language
}

// NewSelection builds a Selection from stored names, falling back to
// Auto → English for anything it does not recognise.
func NewSelection(source, target, lastExplicit string) Selection {
	s := Selection{
		Source:       langdetect.Auto,
		Target:       langdetect.English,
		LastExplicit: langdetect.English,
	}
	if l := langdetect.Parse(source); l != langdetect.Unsupported {
		s.Source = l
	}
	if langdetect.IsSupported(target) {
		s.Target = langdetect.Parse(target)
	}
	if langdetect.IsSupported(lastExplicit) {
		s.LastExplicit = langdetect.Parse(lastExplicit)
	}
	if !s.Source.IsAuto() {
		s.LastExplicit = s.Source
	}
	return s
}

// SetSource selects a source language or Auto.
func (s *Selection) SetSource(name string) error {
	l := langdetect.Parse(name)
	if l == langdetect.Unsupported {
		return fmt.Errorf("unsupported source language %q", name)
	}
	s.Source = l
	if !l.IsAuto() {
		s.LastExplicit = l
	}
	return nil
}

// SetTarget selects the target language. Auto is rejected.
func (s *Selection) SetTarget(name string) error {
	if !langdetect.IsSupported(name) {
		return fmt.Errorf("unsupported target language %q", name)
	}
	s.Target = langdetect.Parse(name)
	return nil
}

// Swap exchanges source and target. An Auto source cannot become a target,
// so the last explicit source takes its place.
func (s *Selection) Swap() {
	src, dst := s.Source, s.Target
	s.Source = dst
	if src.IsAuto() {
		s.Target = s.LastExplicit
	} else {
		s.Target = src
	}
	if !s.Source.IsAuto() {
		s.LastExplicit = s.Source
	}
}

// SourceRTL reports whether the source box should flow right to left.
func (s Selection) SourceRTL() bool { return langdetect.IsRTL(string(s.Source)) }

// TargetRTL reports whether the target box should flow right to left.
func (s Selection) TargetRTL() bool { return langdetect.IsRTL(string(s.Target)) }
