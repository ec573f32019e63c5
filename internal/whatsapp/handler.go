package whatsapp

import (
	"context"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"

	"turnera/internal/source"
)

const downloadTimeout = 60 * time.Second

// Handler turns raw WhatsApp events into source.Messages on a buffered
// channel. Group chats are ignored: the bot only talks to individuals.
type Handler struct {
	msgChan chan source.Message
	client  *whatsmeow.Client
	log     *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		msgChan: make(chan source.Message, 100),
		log:     logger,
	}
}

// MessageChan returns the channel the turn processor drains.
func (h *Handler) MessageChan() <-chan source.Message {
	return h.msgChan
}

// setClient wires the whatsmeow client used for media downloads. Called by
// NewClient once the client exists; the handler is registered before that.
func (h *Handler) setClient(client *whatsmeow.Client) {
	h.client = client
}

func (h *Handler) HandleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		h.handleMessage(v)
	}
}

func (h *Handler) handleMessage(msg *events.Message) {
	if msg.Info.IsGroup {
		return
	}

	phone := msg.Info.Sender.User
	inbound := source.Message{
		Kind:       source.KindText,
		Phone:      phone,
		SenderName: msg.Info.PushName,
		Timestamp:  msg.Info.Timestamp,
	}

	if audio := msg.Message.GetAudioMessage(); audio != nil {
		ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
		data, err := h.client.Download(ctx, audio)
		cancel()
		if err != nil {
			h.log.Warn("failed to download voice note", zap.String("phone", phone), zap.Error(err))
			return
		}
		inbound.Kind = source.KindAudio
		inbound.Audio = data
		inbound.AudioMIME = audio.GetMimetype()
	} else {
		text := extractText(msg)
		if text == "" {
			return
		}
		inbound.Text = text
	}

	select {
	case h.msgChan <- inbound:
	default:
		h.log.Warn("message channel full, dropping message", zap.String("phone", phone))
	}
}

func extractText(msg *events.Message) string {
	m := msg.Message

	if m.GetConversation() != "" {
		return m.GetConversation()
	}

	if ext := m.GetExtendedTextMessage(); ext != nil {
		return ext.GetText()
	}

	return ""
}
