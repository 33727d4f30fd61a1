package webhook

// Accessors over a decoded webhook payload. Each accessor navigates from the
// payload root on its own and reports absence through its second return value,
// so callers can probe any field without checking the event variant first.
// Only the first entry and first change are ever consulted: the platform
// delivers one event per callback, and later entries are ignored for
// compatibility with that guarantee.

// firstValue walks payload -> entry[0] -> changes[0] -> value.
func firstValue(p Payload) (*Value, bool) {
	if len(p.Entry) == 0 {
		return nil, false
	}
	if len(p.Entry[0].Changes) == 0 {
		return nil, false
	}
	return &p.Entry[0].Changes[0].Value, true
}

func firstMessage(p Payload) (*InboundMessage, bool) {
	v, ok := firstValue(p)
	if !ok || len(v.Messages) == 0 {
		return nil, false
	}
	return &v.Messages[0], true
}

// IsMessageEvent reports whether the payload carries an inbound message, as
// opposed to a status receipt or a contact-only notification.
func IsMessageEvent(p Payload) bool {
	v, ok := firstValue(p)
	return ok && len(v.Messages) > 0
}

// ChangedField returns the subscription field the change was delivered for,
// e.g. "messages".
func ChangedField(p Payload) (string, bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return "", false
	}
	return p.Entry[0].Changes[0].Field, true
}

// SenderID returns the wa_id of the first contact.
func SenderID(p Payload) (string, bool) {
	v, ok := firstValue(p)
	if !ok || len(v.Contacts) == 0 {
		return "", false
	}
	return v.Contacts[0].WaID, true
}

// SenderName returns the profile name of the first contact.
func SenderName(p Payload) (string, bool) {
	v, ok := firstValue(p)
	if !ok || len(v.Contacts) == 0 {
		return "", false
	}
	return v.Contacts[0].Profile.Name, true
}

// MessageAuthor returns the "from" field of the inbound message, the number a
// reply should be addressed to. Any structural gap on the way, including an
// empty from field, yields absent; malformed and merely variant-mismatched
// payloads are deliberately indistinguishable here.
func MessageAuthor(p Payload) (string, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.From == "" {
		return "", false
	}
	return msg.From, true
}

// MessageText returns the text body of the inbound message.
func MessageText(p Payload) (string, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.Text == nil {
		return "", false
	}
	return msg.Text.Body, true
}

// MessageID returns the platform-assigned id of the inbound message.
func MessageID(p Payload) (string, bool) {
	msg, ok := firstMessage(p)
	if !ok {
		return "", false
	}
	return msg.ID, true
}

// MessageType returns the declared type of the inbound message.
func MessageType(p Payload) (string, bool) {
	msg, ok := firstMessage(p)
	if !ok {
		return "", false
	}
	return msg.Type, true
}

// MessageTimestamp returns the epoch timestamp string of the inbound message.
func MessageTimestamp(p Payload) (string, bool) {
	msg, ok := firstMessage(p)
	if !ok {
		return "", false
	}
	return msg.Timestamp, true
}

// DeliveryStatus returns the receipt state (sent, delivered, read, failed) of
// a status event.
func DeliveryStatus(p Payload) (string, bool) {
	v, ok := firstValue(p)
	if !ok || len(v.Statuses) == 0 {
		return "", false
	}
	return v.Statuses[0].Status, true
}

// MessageImage returns the image attachment of the inbound message.
func MessageImage(p Payload) (*Media, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.Image == nil {
		return nil, false
	}
	return msg.Image, true
}

// MessageVideo returns the video attachment of the inbound message.
func MessageVideo(p Payload) (*Media, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.Video == nil {
		return nil, false
	}
	return msg.Video, true
}

// MessageAudio returns the audio attachment of the inbound message.
func MessageAudio(p Payload) (*Media, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.Audio == nil {
		return nil, false
	}
	return msg.Audio, true
}

// MessageDocument returns the document attachment of the inbound message.
func MessageDocument(p Payload) (*Media, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.Document == nil {
		return nil, false
	}
	return msg.Document, true
}

// MessageSticker returns the sticker attachment of the inbound message.
func MessageSticker(p Payload) (*Media, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.Sticker == nil {
		return nil, false
	}
	return msg.Sticker, true
}

// MessageLocation returns the location pin of the inbound message.
func MessageLocation(p Payload) (*Location, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.Location == nil {
		return nil, false
	}
	return msg.Location, true
}

// MessageReaction returns the emoji reaction of the inbound message.
func MessageReaction(p Payload) (*Reaction, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.Reaction == nil {
		return nil, false
	}
	return msg.Reaction, true
}

// MessageInteractive returns the interactive reply (button, list or flow) of
// the inbound message.
func MessageInteractive(p Payload) (*Interactive, bool) {
	msg, ok := firstMessage(p)
	if !ok || msg.Interactive == nil {
		return nil, false
	}
	return msg.Interactive, true
}
