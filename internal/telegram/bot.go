// Package telegram adapts the Telegram Bot API to the pairing engine:
// it receives updates on a single long-poll loop, parses commands,
// gates admin commands, extracts relayable payloads from inbound
// messages and chunks oversized admin views.
package telegram

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/anonchat/pairbot/internal/ban"
	"github.com/anonchat/pairbot/internal/chat"
	"github.com/anonchat/pairbot/internal/config"
	"github.com/anonchat/pairbot/internal/engine"
)

// MaxMessageRunes is Telegram's per-message length limit; longer admin
// views are split into consecutive messages.
const MaxMessageRunes = 4096

const msgAccessDenied = "❌ Access denied"

// commands is the set of recognized command words. Unrecognized
// slash-words fall through to the plain-text path, the same way the
// rest of a chatting user's text does.
var commands = map[string]bool{
	"start":   true,
	"help":    true,
	"find":    true,
	"leave":   true,
	"report":  true,
	"stats":   true,
	"history": true,
	"chat_id": true,
	"ban":     true,
	"unban":   true,
}

// adminCommands need the caller's handle to match the configured admin
// handle. The gate lives here in the dispatcher, not in the engine.
var adminCommands = map[string]bool{
	"stats":   true,
	"history": true,
	"chat_id": true,
	"ban":     true,
	"unban":   true,
}

// Bot runs the update loop and routes updates into the engine.
type Bot struct {
	api         *tgbotapi.BotAPI
	engine      *engine.Engine
	adminHandle string
	timeout     int
}

// New creates a Bot bound to an engine.
func New(api *tgbotapi.BotAPI, eng *engine.Engine, cfg *config.Config) *Bot {
	return &Bot{
		api:         api,
		engine:      eng,
		adminHandle: cfg.AdminHandle,
		timeout:     cfg.UpdateTimeout,
	}
}

// Run consumes updates until the update channel is closed (via
// StopReceivingUpdates). Updates are handled strictly one at a time;
// that ordering is part of the engine's consistency model.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout

	for update := range b.api.GetUpdatesChan(u) {
		if update.Message == nil {
			continue
		}
		b.handleMessage(update.Message)
	}
	log.Printf("[telegram] update loop stopped")
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	id, handle := msg.From.ID, msg.From.UserName

	if cmd, arg, ok := parseCommand(msg.Text); ok {
		b.dispatch(id, handle, cmd, arg)
		return
	}

	kind, payload, ok := extractContent(msg)
	if !ok {
		log.Printf("[telegram] dropping unsupported content from %d", id)
		return
	}

	if kind == chat.KindText {
		if err := b.engine.RelayText(id, handle, payload); err != nil {
			log.Printf("[telegram] text from %d not relayed: %v", id, err)
		}
		return
	}
	if err := b.engine.RelayMedia(id, handle, kind, payload); err != nil {
		log.Printf("[telegram] %s from %d not relayed: %v", kind, id, err)
	}
}

// dispatch runs a recognized command, applying the admin capability
// check before any admin handler is reached.
func (b *Bot) dispatch(id int64, handle, cmd, arg string) {
	if adminCommands[cmd] && !b.isAdmin(handle) {
		b.send(id, msgAccessDenied)
		return
	}

	switch cmd {
	case "start":
		if err := b.engine.Start(id, handle); err != nil {
			log.Printf("[telegram] start by %d refused: %v", id, err)
		}
	case "help":
		b.engine.Help(id)
	case "find":
		if err := b.engine.Find(id, handle); err != nil {
			log.Printf("[telegram] find by %d refused: %v", id, err)
		}
	case "leave":
		if err := b.engine.Leave(id); err != nil {
			log.Printf("[telegram] leave by %d refused: %v", id, err)
		}
	case "report":
		if err := b.engine.Report(id); err != nil {
			log.Printf("[telegram] report by %d refused: %v", id, err)
		}
	case "stats":
		b.sendChunked(id, b.engine.StatsView())
	case "history":
		if arg == "" {
			b.send(id, "ℹ️ Usage: /history <chat_id>")
			return
		}
		view, err := b.engine.HistoryView(arg)
		if err != nil {
			b.send(id, "❌ Chat not found")
			return
		}
		b.sendChunked(id, view)
	case "chat_id":
		b.sendChunked(id, b.engine.SessionsView())
	case "ban":
		if arg == "" {
			b.send(id, "ℹ️ Usage: /ban <username>")
			return
		}
		b.engine.BanHandle(arg)
		b.send(id, fmt.Sprintf("✅ User @%s banned", ban.Normalize(arg)))
	case "unban":
		if arg == "" {
			b.send(id, "ℹ️ Usage: /unban <username>")
			return
		}
		if b.engine.UnbanHandle(arg) {
			b.send(id, fmt.Sprintf("✅ User @%s unbanned", ban.Normalize(arg)))
		} else {
			b.send(id, fmt.Sprintf("ℹ️ User @%s was not banned", ban.Normalize(arg)))
		}
	}
}

func (b *Bot) isAdmin(handle string) bool {
	return handle != "" && b.adminHandle != "" && strings.EqualFold(handle, b.adminHandle)
}

func (b *Bot) send(id int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
		log.Printf("[telegram] send to %d failed: %v", id, err)
	}
}

func (b *Bot) sendChunked(id int64, text string) {
	for _, part := range chunkText(text, MaxMessageRunes) {
		b.send(id, part)
	}
}

// parseCommand extracts a recognized command word and its first
// argument from a text message. The command is the first token,
// case-insensitive, with the leading slash and any @botname suffix
// stripped.
func parseCommand(text string) (cmd, arg string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", "", false
	}

	cmd = strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	if !commands[cmd] {
		return "", "", false
	}

	if len(fields) > 1 {
		arg = fields[1]
	}
	return cmd, arg, true
}

// extractContent classifies a non-command message into a relayable
// content kind and its payload. For photos Telegram sends every size
// variant; the highest-resolution one (last in the slice) is used.
func extractContent(msg *tgbotapi.Message) (kind, payload string, ok bool) {
	switch {
	case msg.Text != "":
		return chat.KindText, msg.Text, true
	case len(msg.Photo) > 0:
		return chat.KindPhoto, msg.Photo[len(msg.Photo)-1].FileID, true
	case msg.Video != nil:
		return chat.KindVideo, msg.Video.FileID, true
	case msg.Document != nil:
		return chat.KindDocument, msg.Document.FileID, true
	case msg.Audio != nil:
		return chat.KindAudio, msg.Audio.FileID, true
	case msg.Voice != nil:
		return chat.KindVoice, msg.Voice.FileID, true
	case msg.Sticker != nil:
		return chat.KindSticker, msg.Sticker.FileID, true
	}
	return "", "", false
}

// chunkText splits text into chunks of at most limit runes, preserving
// order. The split is rune-bounded so multi-byte characters are never
// cut in half.
func chunkText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
