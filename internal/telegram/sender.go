package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/anonchat/pairbot/internal/chat"
)

// Sender implements engine.Sender on top of the Bot API. Media is
// re-sent by file ID, so relayed attachments never pass through this
// process as bytes.
type Sender struct {
	api *tgbotapi.BotAPI
}

// NewSender wraps a Bot API client.
func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{api: api}
}

// SendText delivers a plain text message.
func (s *Sender) SendText(userID int64, text string) error {
	_, err := s.api.Send(tgbotapi.NewMessage(userID, text))
	return err
}

// SendMedia re-sends a stored file ID as the given content kind.
func (s *Sender) SendMedia(userID int64, kind, fileID string) error {
	var cfg tgbotapi.Chattable
	switch kind {
	case chat.KindPhoto:
		cfg = tgbotapi.NewPhoto(userID, tgbotapi.FileID(fileID))
	case chat.KindVideo:
		cfg = tgbotapi.NewVideo(userID, tgbotapi.FileID(fileID))
	case chat.KindDocument:
		cfg = tgbotapi.NewDocument(userID, tgbotapi.FileID(fileID))
	case chat.KindAudio:
		cfg = tgbotapi.NewAudio(userID, tgbotapi.FileID(fileID))
	case chat.KindVoice:
		cfg = tgbotapi.NewVoice(userID, tgbotapi.FileID(fileID))
	case chat.KindSticker:
		cfg = tgbotapi.NewSticker(userID, tgbotapi.FileID(fileID))
	default:
		return fmt.Errorf("telegram: unsupported content kind %q", kind)
	}

	_, err := s.api.Send(cfg)
	return err
}
