package telegram

import (
	"sync"

	"waste-scan/api/internal/vision"
	"waste-scan/api/internal/vision/gemini"
	"waste-scan/api/internal/vision/openai"
	"waste-scan/api/internal/waste"
)

// clarifyPending is the context parked between asking a clarification
// question and the user's button press. One pending question per chat;
// a new photo replaces it.
type clarifyPending struct {
	QuestionID string
	TopLabels  []waste.LabelScore
}

var pendingClarify sync.Map // chatID -> *clarifyPending

func setModel(e vision.Engine, model string) {
	switch eng := e.(type) {
	case *openai.Engine:
		eng.Model = model
	case *gemini.Engine:
		eng.Model = model
	}
}
