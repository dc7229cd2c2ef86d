package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"waste-scan/api/internal/rules"
)

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	cid := cb.Message.Chat.ID
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack

	switch cb.Data {
	case "clarify_yes":
		r.onClarifyAnswer(cid, cb.Message.MessageID, true)
	case "clarify_no":
		r.onClarifyAnswer(cid, cb.Message.MessageID, false)
	}
}

func (r *Router) onClarifyAnswer(chatID int64, msgID int, answer bool) {
	v, ok := pendingClarify.Load(chatID)
	if !ok {
		r.send(chatID, "That question has expired. Send the photo again.")
		return
	}
	pendingClarify.Delete(chatID)
	p := v.(*clarifyPending)

	// Remove the keyboard so the question can't be answered twice.
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, tgbotapi.InlineKeyboardMarkup{})
	_, _ = r.Bot.Send(edit)

	res := rules.ApplyClarification(p.QuestionID, answer, p.TopLabels)
	r.send(chatID, formatResult(res))
}
