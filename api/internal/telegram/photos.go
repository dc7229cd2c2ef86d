package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"waste-scan/api/internal/imaging"
	"waste-scan/api/internal/rules"
)

var httpc = &http.Client{Timeout: 60 * time.Second}

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID

	// Largest preview Telegram offers.
	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.sendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	raw, err := download(url)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	r.send(cid, "Got the photo, classifying…")
	r.classifyAndReply(context.Background(), cid, raw)
}

func (r *Router) classifyAndReply(ctx context.Context, cid int64, raw []byte) {
	// A new photo supersedes any question still waiting on this chat.
	pendingClarify.Delete(cid)

	normalized, err := imaging.NormalizeJPEG(raw)
	if err != nil {
		r.send(cid, "I couldn't read that image. Please send a JPG or PNG photo.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	eng := r.EngManager.Get(cid)
	profile, err := eng.DetectItemProfile(ctx, normalized, "image/jpeg")
	if err != nil {
		r.sendError(cid, err)
		return
	}

	d := rules.DecideProfile(profile, r.JurisdictionID)

	if sh := d.SpecialHandling; sh != nil && r.Dropoffs != nil {
		if links, err := r.Dropoffs.Links(ctx, r.JurisdictionID, string(sh.Category)); err == nil && len(links) > 0 {
			sh.Links = links
		}
	}

	if d.NeedsClarification && d.Clarification != nil {
		pendingClarify.Store(cid, &clarifyPending{
			QuestionID: d.Clarification.QuestionID,
			TopLabels:  d.Result.TopLabels,
		})
		q := tgbotapi.NewMessage(cid, formatDecision(d)+"\n\n"+d.Clarification.QuestionText)
		q.ReplyMarkup = makeClarifyKeyboard(d.Clarification.Options)
		_, _ = r.Bot.Send(q)
		return
	}

	r.send(cid, formatDecision(d))
}

func download(url string) ([]byte, error) {
	resp, err := httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
