package bot

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mbodj/wacloud/pkg/webhook"
	"github.com/mbodj/wacloud/pkg/whatsapp"
)

type fakeSender struct {
	texts   []string
	buttons []string
	read    []string
}

func (f *fakeSender) SendText(_ context.Context, to, body string, _ bool, _ *whatsapp.Overrides) (*whatsapp.SendResponse, error) {
	f.texts = append(f.texts, to+":"+body)
	return &whatsapp.SendResponse{}, nil
}

func (f *fakeSender) SendButtons(_ context.Context, to, body string, _ []whatsapp.ReplyButton, _ *whatsapp.Overrides) (*whatsapp.SendResponse, error) {
	f.buttons = append(f.buttons, to+":"+body)
	return &whatsapp.SendResponse{}, nil
}

func (f *fakeSender) MarkRead(_ context.Context, messageID string, _ *whatsapp.Overrides) error {
	f.read = append(f.read, messageID)
	return nil
}

func (f *fakeSender) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	return challenge, nil
}

type fakeStore struct {
	messages []webhook.Message
	receipts []webhook.Status
}

func (f *fakeStore) SaveMessage(_ context.Context, msg webhook.Message) error {
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeStore) SaveReceipt(_ context.Context, receipt webhook.Status) error {
	f.receipts = append(f.receipts, receipt)
	return nil
}

func payloadFrom(t *testing.T, raw string) webhook.Payload {
	t.Helper()
	var p webhook.Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	return p
}

const inboundText = `{"entry":[{"changes":[{"field":"messages","value":{
  "contacts":[{"profile":{"name":"Ada"},"wa_id":"15550001111"}],
  "messages":[{"from":"15550001111","id":"m1","timestamp":"1700000000","type":"text","text":{"body":"hi"}}]
}}]}]}`

func TestHandleWebhookGreetsThenEchoes(t *testing.T) {
	sender := &fakeSender{}
	store := &fakeStore{}
	svc := NewEchoBot(sender, store, nil)

	p := payloadFrom(t, inboundText)

	if err := svc.HandleWebhook(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.buttons) != 1 {
		t.Fatalf("first contact must be greeted with buttons, got %v", sender.buttons)
	}
	if len(sender.texts) != 0 {
		t.Fatalf("no echo expected on first contact, got %v", sender.texts)
	}

	if err := svc.HandleWebhook(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.texts) != 1 || sender.texts[0] != "15550001111:hi" {
		t.Fatalf("expected echo reply, got %v", sender.texts)
	}

	if len(store.messages) != 2 {
		t.Fatalf("both messages must be persisted, got %d", len(store.messages))
	}
	if len(sender.read) != 2 || sender.read[0] != "m1" {
		t.Fatalf("messages must be marked read, got %v", sender.read)
	}
}

func TestHandleWebhookPersistsReceipts(t *testing.T) {
	sender := &fakeSender{}
	store := &fakeStore{}
	svc := NewEchoBot(sender, store, nil)

	p := payloadFrom(t, `{"entry":[{"changes":[{"field":"messages","value":{
	  "statuses":[{"id":"m1","status":"delivered","timestamp":"1700000100","recipient_id":"15550001111"}]
	}}]}]}`)

	if err := svc.HandleWebhook(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.receipts) != 1 || store.receipts[0].Status != "delivered" {
		t.Fatalf("receipt not persisted: %+v", store.receipts)
	}
	if len(sender.texts) != 0 || len(sender.buttons) != 0 {
		t.Fatalf("no reply expected for receipts")
	}
}

func TestHandleWebhookIgnoresContactOnlyEvents(t *testing.T) {
	sender := &fakeSender{}
	store := &fakeStore{}
	svc := NewEchoBot(sender, store, nil)

	p := payloadFrom(t, `{"entry":[{"changes":[{"field":"messages","value":{
	  "contacts":[{"profile":{"name":"Ada"},"wa_id":"15550001111"}]
	}}]}]}`)

	if err := svc.HandleWebhook(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.messages) != 0 || len(sender.texts) != 0 || len(sender.buttons) != 0 {
		t.Fatalf("contact-only event must be a no-op")
	}
}

func TestSessionManager(t *testing.T) {
	sm := NewSessionManager()

	if sm.Known("a") {
		t.Fatalf("unknown sender reported known")
	}
	sm.Mark("a")
	if !sm.Known("a") {
		t.Fatalf("marked sender not known")
	}
	sm.Clear("a")
	if sm.Known("a") {
		t.Fatalf("cleared sender still known")
	}
}
