// Package telegram is the chat surface of the classifier: send a photo of
// an item, get a bin back. Clarification questions arrive as inline Yes/No
// keyboards and resolve through the same rules core as the HTTP API.
package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"waste-scan/api/internal/store"
	"waste-scan/api/internal/vision"
)

// Engines are the concrete providers a chat can switch between.
type Engines struct {
	Stub   vision.Engine
	OpenAI vision.Engine
	Gemini vision.Engine
}

func (e Engines) byName(name string) vision.Engine {
	switch name {
	case "stub":
		return e.Stub
	case "openai", "gpt":
		return e.OpenAI
	case "gemini":
		return e.Gemini
	}
	return nil
}

type Router struct {
	Bot        *tgbotapi.BotAPI
	EngManager *vision.Manager
	Engines    Engines

	Dropoffs       *store.DropoffRepo // optional
	JurisdictionID string
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}

	// Text while a clarification is pending is not an answer; point at the
	// buttons instead of guessing.
	if _, ok := pendingClarify.Load(cid); ok {
		r.send(cid, "Please answer with the buttons above, or send a new photo.")
		return
	}
	r.send(cid, "Send a photo of one waste item and I'll tell you which bin it goes in.")
}

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Snap a photo of a waste item and I'll tell you the bin: recycling, organics, landfill or special handling.\nCommands: /health, /engine")
	case "health":
		r.send(cid, "OK: "+r.EngManager.Get(cid).Name())
	case "engine":
		r.handleEngineSwitch(cid, upd.Message.Text)
	default:
		r.send(cid, "Unknown command")
	}
}

func (r *Router) handleEngineSwitch(cid int64, text string) {
	args := strings.Fields(strings.TrimSpace(strings.TrimPrefix(text, "/engine")))
	if len(args) == 0 {
		cur := r.EngManager.Get(cid)
		r.send(cid, fmt.Sprintf("Current engine: %s (%s)\nUsage:\n/engine stub\n/engine openai [model]\n/engine gemini [model]",
			cur.Name(), cur.GetModel()))
		return
	}
	name := strings.ToLower(args[0])
	eng := r.Engines.byName(name)
	if eng == nil {
		r.send(cid, "Unknown engine. Available: stub | openai | gemini")
		return
	}
	if len(args) > 1 {
		setModel(eng, args[1])
	}
	r.EngManager.Set(cid, eng)
	r.send(cid, fmt.Sprintf("Engine: %s (%s)", eng.Name(), eng.GetModel()))
}

func (r *Router) send(chatID int64, text string) {
	_, _ = r.Bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendError(chatID int64, err error) {
	r.send(chatID, "Something went wrong: "+err.Error())
}
