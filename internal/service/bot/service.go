package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mbodj/wacloud/pkg/webhook"
	"github.com/mbodj/wacloud/pkg/whatsapp"
)

// Sender is the slice of the WhatsApp client the bot needs.
type Sender interface {
	SendText(ctx context.Context, to, body string, previewURL bool, o *whatsapp.Overrides) (*whatsapp.SendResponse, error)
	SendButtons(ctx context.Context, to, body string, buttons []whatsapp.ReplyButton, o *whatsapp.Overrides) (*whatsapp.SendResponse, error)
	MarkRead(ctx context.Context, messageID string, o *whatsapp.Overrides) error
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
}

// Receipts is the slice of the store the bot needs.
type Receipts interface {
	SaveMessage(ctx context.Context, msg webhook.Message) error
	SaveReceipt(ctx context.Context, receipt webhook.Status) error
}

// OutboundMessageRequest represents requests to send a message manually via
// the HTTP API.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// Service describes the operations the HTTP layer can perform.
type Service interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload webhook.Payload) error
	SendOutbound(ctx context.Context, req OutboundMessageRequest) error
}

// EchoBot replies to inbound messages: first contact gets a greeting with
// quick-reply buttons, later texts get an echo. Receipts and messages are
// persisted as they arrive.
type EchoBot struct {
	client   Sender
	store    Receipts
	sessions *SessionManager
	logger   *zap.Logger
}

// NewEchoBot wires a new bot instance.
func NewEchoBot(client Sender, store Receipts, logger *zap.Logger) *EchoBot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EchoBot{
		client:   client,
		store:    store,
		sessions: NewSessionManager(),
		logger:   logger,
	}
}

// VerifyWebhookToken validates the callback verification handshake.
func (b *EchoBot) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	return b.client.VerifyWebhookToken(mode, verifyToken, challenge)
}

// HandleWebhook processes one inbound webhook payload.
func (b *EchoBot) HandleWebhook(ctx context.Context, payload webhook.Payload) error {
	if status, ok := webhook.DeliveryStatus(payload); ok {
		return b.handleReceipt(ctx, payload, status)
	}

	if !webhook.IsMessageEvent(payload) {
		// Contact-only notification (session start) or an unhandled variant;
		// nothing to answer.
		if sender, ok := webhook.SenderID(payload); ok {
			b.logger.Info("contact notification", zap.String("wa_id", sender))
		}
		return nil
	}

	return b.handleMessage(ctx, payload)
}

func (b *EchoBot) handleReceipt(ctx context.Context, payload webhook.Payload, status string) error {
	b.logger.Info("delivery receipt", zap.String("status", status))

	v := payload.Entry[0].Changes[0].Value
	if err := b.store.SaveReceipt(ctx, v.Statuses[0]); err != nil {
		return fmt.Errorf("persist receipt: %w", err)
	}
	return nil
}

func (b *EchoBot) handleMessage(ctx context.Context, payload webhook.Payload) error {
	msg := webhook.BuildMessage(payload)
	if msg.From == "" {
		return errors.New("inbound message without author")
	}

	b.logger.Info("inbound message",
		zap.String("message_id", msg.ID),
		zap.String("from", msg.From),
		zap.String("type", msg.Type))

	if err := b.store.SaveMessage(ctx, msg); err != nil {
		return fmt.Errorf("persist message: %w", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if msg.ID != "" {
		if err := b.client.MarkRead(ctxWithTimeout, msg.ID, nil); err != nil {
			b.logger.Warn("failed to mark message read", zap.Error(err))
		}
	}

	if !b.sessions.Known(msg.From) {
		b.sessions.Mark(msg.From)
		return b.greet(ctxWithTimeout, msg)
	}

	reply := msg.Content
	if reply == "" {
		reply = fmt.Sprintf("Received a %s message.", msg.Type)
	}

	_, err := b.client.SendText(ctxWithTimeout, msg.From, reply, false, nil)
	return err
}

func (b *EchoBot) greet(ctx context.Context, msg webhook.Message) error {
	name := msg.Name
	if name == "" {
		name = "there"
	}

	_, err := b.client.SendButtons(ctx, msg.From,
		fmt.Sprintf("Hi %s! I echo whatever you send me. What would you like to do?", name),
		[]whatsapp.ReplyButton{
			{ID: "echo", Title: "Start echoing"},
			{ID: "help", Title: "Help"},
		}, nil)
	return err
}

// SendOutbound lets internal operators push quick notifications via HTTP.
func (b *EchoBot) SendOutbound(ctx context.Context, req OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := b.client.SendText(ctxWithTimeout, req.To, req.Message, req.PreviewURL, nil)
	return err
}
