package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"waste-scan/api/internal/rules"
	"waste-scan/api/internal/waste"
)

// Clarification answer buttons.
func makeClarifyKeyboard(options []waste.ClarifyOption) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		data := "clarify_no"
		if opt.Value {
			data = "clarify_yes"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(opt.Label, data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
}

func binEmoji(bin waste.Bin) string {
	switch bin {
	case waste.BinBlue:
		return "🔵"
	case waste.BinGreen:
		return "🟢"
	case waste.BinGray:
		return "⚫"
	case waste.BinSpecial:
		return "⚠️"
	default:
		return "❓"
	}
}

// formatDecision renders a decision as a chat message: bin, confidence,
// rationale lines, and special-handling instructions with drop-off links.
func formatDecision(d rules.Decision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", binEmoji(d.Result.Bin), d.Result.BinLabel)
	fmt.Fprintf(&b, "\nConfidence: %s (%.2f)", d.Result.Confidence, d.Result.ConfidenceScore)
	for _, item := range d.Result.Rationale {
		fmt.Fprintf(&b, "\n• %s", item.Text)
	}
	if sh := d.SpecialHandling; sh != nil {
		fmt.Fprintf(&b, "\n\n%s", sh.Instructions)
		for _, link := range sh.Links {
			fmt.Fprintf(&b, "\n%s", link)
		}
	}
	return b.String()
}

func formatResult(res waste.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", binEmoji(res.Bin), res.BinLabel)
	fmt.Fprintf(&b, "\nConfidence: %s (%.2f)", res.Confidence, res.ConfidenceScore)
	for _, item := range res.Rationale {
		fmt.Fprintf(&b, "\n• %s", item.Text)
	}
	return b.String()
}
