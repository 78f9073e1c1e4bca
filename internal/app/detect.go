package app

import (
	"context"
	"log/slog"

	"go.aimuz.me/deeplocal/internal/types"
	"go.aimuz.me/deeplocal/langdetect"
	"go.aimuz.me/deeplocal/llm"
)

// Detection stages reported in DetectResult.Stage.
const (
	StageScript      = "script"
	StageStatistical = "statistical"
	StageLLM         = "llm"
)

// Detector resolves the source language of a text. Cheap local stages run
// first; the model is only asked when they are not sure.
type Detector struct {
	local *langdetect.Detector // nil skips the statistical stage
}

// NewDetector creates a Detector. Pass nil to go straight from the script
// heuristic to the model.
func NewDetector(local *langdetect.Detector) *Detector {
	return &Detector{local: local}
}

// Detect never fails: a model error or an answer outside the catalog both
// yield Unsupported, with the cause in Reason.
func (d *Detector) Detect(ctx context.Context, completer llm.Completer, text string) types.DetectResult {
	if l, ok := langdetect.DetectScript(text); ok {
		return detected(l, StageScript)
	}
	if d.local != nil {
		if l, ok := d.local.Detect(text); ok {
			return detected(l, StageStatistical)
		}
	}

	answer, _, err := completer.Complete(ctx, []llm.Message{
		{Role: "user", Content: BuildDetectPrompt(text)},
	})
	if err != nil {
		slog.Warn("detect language", "error", err)
		return unsupported(err.Error())
	}

	l := langdetect.ParseLabel(answer)
	if l == langdetect.Unsupported {
		slog.Debug("model answered outside the catalog", "answer", answer)
		return unsupported("model answered " + answer)
	}
	return detected(l, StageLLM)
}

func detected(l langdetect.Language, stage string) types.DetectResult {
	return types.DetectResult{
		Code:  langdetect.Code(string(l)),
		Name:  string(l),
		Stage: stage,
		RTL:   langdetect.IsRTL(string(l)),
	}
}

func unsupported(reason string) types.DetectResult {
	return types.DetectResult{
		Code:   "auto",
		Name:   string(langdetect.Unsupported),
		Reason: reason,
	}
}
