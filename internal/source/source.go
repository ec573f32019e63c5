package source

import "time"

// Kind identifies what the inbound payload carries.
type Kind string

const (
	KindText  Kind = "text"
	KindAudio Kind = "audio"
)

// Message represents one inbound message from the transport.
// Audio messages carry the raw media bytes; the processor is responsible
// for turning them into text before the dialogue engine sees them.
type Message struct {
	Kind       Kind
	Phone      string // stable user identifier (WhatsApp user part, phone-equivalent)
	SenderName string
	Text       string
	Audio      []byte
	AudioMIME  string
	Timestamp  time.Time
}
