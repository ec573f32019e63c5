package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnera/internal/dialog"
	"turnera/internal/source"
	"turnera/internal/testutil"
)

const testPhone = "5491122334455"

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, f.err
}

func newTestController() *dialog.Controller {
	return dialog.NewController(dialog.ControllerConfig{
		Store:     testutil.NewFakeStore(),
		Scheduler: testutil.NewFakeScheduler(),
		Answerer:  &testutil.FakeAnswerer{},
		Location:  time.UTC,
	})
}

func startProcessor(t *testing.T, transcriber *fakeTranscriber) (chan source.Message, *testutil.FakeSender) {
	t.Helper()

	msgChan := make(chan source.Message, 10)
	sender := &testutil.FakeSender{}
	cfg := Config{
		Controller: newTestController(),
		Sender:     sender,
		MsgChan:    msgChan,
		Logger:     nil,
	}
	if transcriber != nil {
		cfg.Transcriber = transcriber
	}

	p := New(cfg)
	p.Start()
	t.Cleanup(p.Stop)

	return msgChan, sender
}

func waitForReply(t *testing.T, sender *testutil.FakeSender) testutil.SentMessage {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(sender.All()) > 0
	}, 2*time.Second, 10*time.Millisecond, "no reply was sent")
	return sender.All()[0]
}

func TestTextMessageGetsReply(t *testing.T) {
	msgChan, sender := startProcessor(t, nil)

	msgChan <- source.Message{Kind: source.KindText, Phone: testPhone, Text: "hello"}

	sent := waitForReply(t, sender)
	assert.Equal(t, testPhone, sent.Phone)
	assert.Contains(t, sent.Text, "Pick an option")
}

func TestAudioWithoutTranscriberGetsTypedFallback(t *testing.T) {
	msgChan, sender := startProcessor(t, nil)

	msgChan <- source.Message{Kind: source.KindAudio, Phone: testPhone, Audio: []byte{1, 2, 3}, AudioMIME: "audio/ogg"}

	sent := waitForReply(t, sender)
	assert.Contains(t, sent.Text, "couldn't transcribe it")
}

func TestAudioTranscriptionFailureGetsTypedFallback(t *testing.T) {
	msgChan, sender := startProcessor(t, &fakeTranscriber{err: errors.New("recognize: 503")})

	msgChan <- source.Message{Kind: source.KindAudio, Phone: testPhone, Audio: []byte{1, 2, 3}, AudioMIME: "audio/ogg"}

	sent := waitForReply(t, sender)
	assert.Contains(t, sent.Text, "couldn't transcribe it")
}

func TestAudioTranscriptRunsTurn(t *testing.T) {
	msgChan, sender := startProcessor(t, &fakeTranscriber{text: "hello"})

	msgChan <- source.Message{Kind: source.KindAudio, Phone: testPhone, Audio: []byte{1, 2, 3}, AudioMIME: "audio/ogg"}

	sent := waitForReply(t, sender)
	assert.Contains(t, sent.Text, "Pick an option", "the transcript should drive a normal turn")
}

func TestUserLockEvictedAfterTurn(t *testing.T) {
	sender := &testutil.FakeSender{}
	p := New(Config{
		Controller: newTestController(),
		Sender:     sender,
		MsgChan:    make(chan source.Message),
	})

	p.processMessage(source.Message{Kind: source.KindText, Phone: testPhone, Text: "hello"})
	p.processMessage(source.Message{Kind: source.KindText, Phone: "other-phone", Text: "hello"})

	require.Len(t, sender.All(), 2)

	// The lock table must not retain an entry per phone ever seen.
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Empty(t, p.userLocks)
}

func TestSameUserTurnsAreSerialized(t *testing.T) {
	msgChan, sender := startProcessor(t, nil)

	for i := 0; i < 5; i++ {
		msgChan <- source.Message{Kind: source.KindText, Phone: testPhone, Text: "hello"}
	}

	require.Eventually(t, func() bool {
		return len(sender.All()) == 5
	}, 2*time.Second, 10*time.Millisecond)
	for _, sent := range sender.All() {
		assert.Equal(t, testPhone, sent.Phone)
	}
}
