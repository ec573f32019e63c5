package processor

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"turnera/internal/dialog"
	"turnera/internal/source"
	"turnera/internal/speech"
)

const defaultWorkerCount = 2

// Sender delivers outbound replies. Delivery is best-effort.
type Sender interface {
	SendText(ctx context.Context, phone, text string) error
}

// Processor drains the transport channel and runs one dialogue turn per
// inbound message. Turns for different users run concurrently; turns for the
// same user are serialized with a keyed mutex so a duplicate delivery cannot
// race the read-modify-write of the conversation record.
type Processor struct {
	controller  *dialog.Controller
	sender      Sender
	transcriber speech.Transcriber
	msgChan     <-chan source.Message
	workerCount int
	log         *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	userLocks map[string]*userLock
}

// userLock is a reference-counted mutex entry. The count covers holders and
// waiters, so an entry is evicted as soon as no turn for that phone is in
// flight and the table does not grow with every phone ever seen.
type userLock struct {
	mu   sync.Mutex
	refs int
}

type Config struct {
	Controller  *dialog.Controller
	Sender      Sender
	Transcriber speech.Transcriber // nil disables voice notes
	MsgChan     <-chan source.Message
	WorkerCount int
	Logger      *zap.Logger
}

func New(cfg Config) *Processor {
	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		controller:  cfg.Controller,
		sender:      cfg.Sender,
		transcriber: cfg.Transcriber,
		msgChan:     cfg.MsgChan,
		workerCount: workerCount,
		log:         logger,
		ctx:         ctx,
		cancel:      cancel,
		userLocks:   make(map[string]*userLock),
	}
}

// Start begins processing messages from the channel.
func (p *Processor) Start() {
	p.log.Info("turn processor started", zap.Int("workers", p.workerCount))
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.processLoop()
	}
}

// Stop gracefully shuts down the processor.
func (p *Processor) Stop() {
	p.cancel()
	p.wg.Wait()
	p.log.Info("turn processor stopped")
}

func (p *Processor) processLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case msg, ok := <-p.msgChan:
			if !ok {
				p.log.Info("message channel closed")
				return
			}
			p.processMessage(msg)
		}
	}
}

const genericFailureReply = "Sorry, something went wrong on my side. Please try again."

// processMessage runs exactly one dialogue turn. It is the turn boundary of
// the error-handling design: any panic or controller error becomes a generic
// apology, and in those cases no state transition has been committed.
func (p *Processor) processMessage(msg source.Message) {
	lock := p.acquireUserLock(msg.Phone)
	lock.mu.Lock()
	defer func() {
		lock.mu.Unlock()
		p.releaseUserLock(msg.Phone, lock)
	}()

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("panic during turn", zap.String("phone", msg.Phone), zap.Any("panic", r))
			p.reply(msg.Phone, genericFailureReply)
		}
	}()

	text := msg.Text
	if msg.Kind == source.KindAudio {
		transcript, ok := p.transcribe(msg)
		if !ok {
			p.reply(msg.Phone, "I got your voice note but couldn't transcribe it. Could you type it instead?")
			return
		}
		text = transcript
	}

	reply, err := p.controller.HandleTurn(p.ctx, msg.Phone, text)
	if err != nil {
		p.log.Error("turn failed", zap.String("phone", msg.Phone), zap.Error(err))
		p.reply(msg.Phone, genericFailureReply)
		return
	}

	p.reply(msg.Phone, reply)
}

func (p *Processor) transcribe(msg source.Message) (string, bool) {
	if p.transcriber == nil {
		return "", false
	}
	transcript, err := p.transcriber.Transcribe(p.ctx, msg.Audio, msg.AudioMIME)
	if err != nil {
		p.log.Warn("transcription failed", zap.String("phone", msg.Phone), zap.Error(err))
		return "", false
	}
	if transcript == "" {
		return "", false
	}
	return transcript, true
}

func (p *Processor) reply(phone, text string) {
	if err := p.sender.SendText(p.ctx, phone, text); err != nil {
		p.log.Warn("failed to send reply", zap.String("phone", phone), zap.Error(err))
	}
}

func (p *Processor) acquireUserLock(phone string) *userLock {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.userLocks[phone]
	if !ok {
		lock = &userLock{}
		p.userLocks[phone] = lock
	}
	lock.refs++
	return lock
}

func (p *Processor) releaseUserLock(phone string, lock *userLock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(p.userLocks, phone)
	}
}
