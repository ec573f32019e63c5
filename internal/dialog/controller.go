package dialog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"turnera/internal/booking"
)

// Turn is one prior exchange passed to the answer provider.
type Turn struct {
	Role string // "user" or "assistant"
	Text string
}

// Answerer generates an informational answer from the knowledge source.
type Answerer interface {
	Answer(ctx context.Context, prompt string, history []Turn) (string, error)
}

// Scheduler checks slot availability and commits bookings.
type Scheduler interface {
	SlotDuration() time.Duration
	CheckAndSuggest(ctx context.Context, start time.Time) (booking.CheckResult, error)
	Commit(ctx context.Context, start time.Time, phone string) (booking.Confirmation, error)
}

// HandoffRecorder persists an option-6 request for human follow-up.
type HandoffRecorder interface {
	RecordHandoff(phone, text string) error
}

// Controller is the dialogue orchestrator. It is the only component that
// mutates conversation state, and it writes state and context back on every
// turn, changed or not.
type Controller struct {
	store    Store
	audit    MessageLog
	sched    Scheduler
	answerer Answerer
	handoffs HandoffRecorder
	notifier HandoffNotifier

	hours   BusinessHours
	loc     *time.Location
	botName string
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger
}

type ControllerConfig struct {
	Store     Store
	AuditLog  MessageLog
	Scheduler Scheduler
	Answerer  Answerer
	Handoffs  HandoffRecorder
	Notifier  HandoffNotifier

	Hours    BusinessHours
	Location *time.Location
	BotName  string
	Timeout  time.Duration // bound on answer-provider calls
	Logger   *zap.Logger
	Now      func() time.Time // overridable for tests
}

func NewController(cfg ControllerConfig) *Controller {
	hours := cfg.Hours
	if hours.Close <= hours.Open {
		hours = DefaultBusinessHours
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	botName := cfg.BotName
	if botName == "" {
		botName = "Turnera"
	}

	return &Controller{
		store:    cfg.Store,
		audit:    cfg.AuditLog,
		sched:    cfg.Scheduler,
		answerer: cfg.Answerer,
		handoffs: cfg.Handoffs,
		notifier: cfg.Notifier,
		hours:    hours,
		loc:      loc,
		botName:  botName,
		timeout:  timeout,
		now:      now,
		log:      logger,
	}
}

// HandleTurn processes one inbound message and returns the reply text.
// An error means the turn could not complete and no state transition was
// committed; callers surface a generic apology in that case.
func (c *Controller) HandleTurn(ctx context.Context, phone, text string) (string, error) {
	if err := c.store.UpsertUser(phone); err != nil {
		return "", fmt.Errorf("upsert user: %w", err)
	}
	c.logMessage(phone, "in", text)

	state, err := c.store.GetState(phone)
	if err != nil {
		return "", fmt.Errorf("read state: %w", err)
	}
	convCtx, err := c.store.GetContext(phone)
	if err != nil {
		return "", fmt.Errorf("read context: %w", err)
	}

	reply, nextState, nextCtx := c.route(ctx, phone, text, state, convCtx)
	reply = Truncate(reply)

	// The write-back is unconditional so state is never silently stale
	// after a turn.
	if err := c.store.SetState(phone, nextState); err != nil {
		return "", fmt.Errorf("write state: %w", err)
	}
	if err := c.store.SetContext(phone, nextCtx); err != nil {
		return "", fmt.Errorf("write context: %w", err)
	}

	c.logMessage(phone, "out", reply)
	return reply, nil
}

// route implements the state machine. Every (state, intent) pair lands in
// exactly one branch; greeting always wins and resets to idle.
func (c *Controller) route(ctx context.Context, phone, text string, state State, convCtx Context) (string, State, Context) {
	intent := Classify(text)

	if intent.Kind == IntentGreeting {
		return MenuText(c.botName), StateIdle, Context{}
	}

	if state == StateWaitingAlt {
		if idx, ok := altChoice(text); ok && len(convCtx.Alternatives) >= 2 {
			return c.bookAlternative(ctx, phone, convCtx.Alternatives[idx])
		}
		// Not a 1/2 selection: treat as a fresh booking request.
		return c.applyOutcome(c.runBookingPipeline(ctx, phone, text), convCtx)
	}

	if intent.Kind == IntentMenuChoice {
		switch intent.Choice {
		case 1:
			return promptForDateTime(), StateBooking, Context{}
		case 6:
			c.recordHandoff(phone, text)
			return handoffReply(), state, convCtx
		default: // 2..5: delegate with a templated prompt
			prompt := fmt.Sprintf("The user chose option %d from the menu. Answer with the information for that option.", intent.Choice)
			return c.delegate(ctx, prompt), state, convCtx
		}
	}

	if intent.Kind == IntentCancel {
		return cancelReply(), state, convCtx
	}

	if state == StateBooking || intent.Kind == IntentBooking {
		return c.applyOutcome(c.runBookingPipeline(ctx, phone, text), convCtx)
	}

	return c.delegate(ctx, text), state, convCtx
}

// runBookingPipeline parses, validates and books a slot, returning a tagged
// outcome. It never touches conversation state itself.
func (c *Controller) runBookingPipeline(ctx context.Context, phone, text string) Outcome {
	when, err := ParseWhen(text, c.now(), c.loc)
	if err != nil {
		return NeedsInput{Reply: parseFailureReply()}
	}

	if !c.hours.Within(when) {
		return NeedsInput{Reply: outsideHoursReply(c.hours)}
	}

	res, err := c.sched.CheckAndSuggest(ctx, when)
	if err != nil {
		c.log.Warn("availability check failed", zap.String("phone", phone), zap.Error(err))
		return Failed{Kind: FailResolver, Reply: resolverFailureReply()}
	}
	if !res.Available {
		return OfferedAlternatives{Reply: alternativesReply(res.Alternatives), Alternatives: res.Alternatives}
	}

	conf, err := c.sched.Commit(ctx, when, phone)
	if err != nil {
		// No retry: the calendar has no idempotency key and a blind retry
		// risks a duplicate event.
		c.log.Error("event commit failed", zap.String("phone", phone), zap.Error(err))
		return Failed{Kind: FailTransaction, Reply: commitFailureReply()}
	}

	c.log.Info("appointment booked",
		zap.String("phone", phone),
		zap.Time("start", when),
		zap.String("event_id", conf.EventID),
	)
	return Confirmed{EventID: conf.EventID, Reply: confirmedReply(when, c.slotMinutes())}
}

// applyOutcome maps a pipeline outcome onto the next (state, context).
func (c *Controller) applyOutcome(out Outcome, convCtx Context) (string, State, Context) {
	switch o := out.(type) {
	case Confirmed:
		return o.Reply, StateIdle, Context{}
	case NeedsInput:
		return o.Reply, StateBooking, convCtx
	case OfferedAlternatives:
		return o.Reply, StateWaitingAlt, Context{Alternatives: o.Alternatives}
	case Failed:
		return o.Reply, StateIdle, Context{}
	default:
		return resolverFailureReply(), StateIdle, Context{}
	}
}

// bookAlternative re-validates a previously offered slot and commits it.
// Whatever happens, the offer is consumed: the state resets to idle and the
// user must restate a time if this fails.
func (c *Controller) bookAlternative(ctx context.Context, phone string, alt time.Time) (string, State, Context) {
	if !c.hours.Within(alt) {
		return altOutsideHoursReply(), StateIdle, Context{}
	}

	res, err := c.sched.CheckAndSuggest(ctx, alt)
	if err != nil {
		c.log.Warn("alternative re-check failed", zap.String("phone", phone), zap.Error(err))
		return resolverFailureReply(), StateIdle, Context{}
	}
	if !res.Available {
		return altTakenReply(), StateIdle, Context{}
	}

	conf, err := c.sched.Commit(ctx, alt, phone)
	if err != nil {
		c.log.Error("alternative commit failed", zap.String("phone", phone), zap.Error(err))
		return commitFailureReply(), StateIdle, Context{}
	}

	c.log.Info("alternative booked",
		zap.String("phone", phone),
		zap.Time("start", alt),
		zap.String("event_id", conf.EventID),
	)
	return confirmedReply(alt, c.slotMinutes()), StateIdle, Context{}
}

// delegate asks the answer provider, with a bounded timeout. The engine
// passes no conversation history.
func (c *Controller) delegate(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.answerer.Answer(ctx, prompt, nil)
	if err != nil {
		c.log.Warn("answer provider failed", zap.Error(err))
		return answerFailureReply()
	}
	return reply
}

func (c *Controller) recordHandoff(phone, text string) {
	if c.handoffs != nil {
		if err := c.handoffs.RecordHandoff(phone, text); err != nil {
			c.log.Warn("failed to record handoff", zap.String("phone", phone), zap.Error(err))
		}
	}
	if c.notifier != nil {
		if err := c.notifier.NotifyHandoff(phone, text); err != nil {
			c.log.Warn("failed to notify handoff", zap.String("phone", phone), zap.Error(err))
		}
	}
}

func (c *Controller) logMessage(phone, direction, text string) {
	if c.audit == nil {
		return
	}
	if err := c.audit.Append(phone, direction, text, c.now()); err != nil {
		c.log.Warn("audit log append failed",
			zap.String("phone", phone),
			zap.String("direction", direction),
			zap.Error(err),
		)
	}
}

func (c *Controller) slotMinutes() int {
	return int(c.sched.SlotDuration() / time.Minute)
}

func altChoice(text string) (int, bool) {
	switch strings.TrimSpace(text) {
	case "1":
		return 0, true
	case "2":
		return 1, true
	}
	return 0, false
}
