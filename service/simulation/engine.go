package simulation

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
	"github.com/unipay/unipay-api/service/business"
	"github.com/unipay/unipay-api/service/models"
	"github.com/unipay/unipay-api/service/upi"
)

type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusInitiated Status = "INITIATED"
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

const (
	defaultStepInterval = 850 * time.Millisecond
	defaultPollInterval = 700 * time.Millisecond
	defaultDismissDelay = 600 * time.Millisecond

	// The poller may not resolve before minPollTicks and always resolves by
	// maxPollTicks, bounding attempt latency to [3*poll, 8*poll].
	minPollTicks = 3
	maxPollTicks = 8
)

// defaultSteps mirror the progress messages of a real UPI app handshake.
var defaultSteps = []string{
	"Connecting to bank...",
	"Verifying details...",
	"Initiating payment...",
	"Awaiting app confirmation...",
}

// RandomSource supplies the randomness driving outcome resolution. Injected
// so tests can force either terminal branch.
type RandomSource interface {
	Float64() float64
}

type systemRandom struct{}

func (systemRandom) Float64() float64 { return rand.Float64() }

// TransactionSink receives the single Transaction an attempt emits on
// reaching a terminal state.
type TransactionSink interface {
	Record(ctx context.Context, transaction *models.Transaction) error
}

// ReferenceIssuer mirrors attempt references on the server, best effort both
// ways: minting a mirror and reconciling it never gate the attempt.
type ReferenceIssuer interface {
	CreateTxnRef(ctx context.Context, amount string) (string, error)
	Resolve(ctx context.Context, reference string, completed bool) error
}

// Snapshot is a point-in-time copy of the in-flight attempt for UI polling.
type Snapshot struct {
	Reference        string          `json:"reference"`
	PartialReference string          `json:"partialReference"`
	Status           Status          `json:"status"`
	Step             string          `json:"step"`
	StepIndex        int             `json:"stepIndex"`
	MethodID         string          `json:"methodId"`
	MethodLabel      string          `json:"methodLabel"`
	Merchant         string          `json:"merchant"`
	Amount           decimal.Decimal `json:"amount"`
}

// Engine drives exactly one payment attempt at a time from user intent to a
// terminal outcome, emitting exactly one Transaction per attempt. Two timers
// run per attempt: the stepper animates progress text, the outcome poller
// decides the terminal state. Every timer callback re-checks the attempt
// generation under the lock so a stale tick can never touch a newer attempt.
type Engine struct {
	Service  *frame.Service
	Sink     TransactionSink
	Refs     ReferenceIssuer
	Launcher upi.Launcher
	Random   RandomSource

	StepInterval time.Duration
	PollInterval time.Duration
	DismissDelay time.Duration
	Steps        []string

	mu      sync.Mutex
	gen     uint64
	attempt *attempt
}

type attempt struct {
	gen uint64

	methodID    string
	methodLabel string
	merchant    string
	amount      decimal.Decimal

	reference string
	serverRef string
	status    Status
	stepIndex int
	stepTick  int
	pollTick  int
	partial   string

	stepTimer    *time.Timer
	pollTimer    *time.Timer
	dismissTimer *time.Timer
}

// StartPayment begins a new attempt. It returns immediately; progress is
// observed through Snapshot and the terminal Transaction arrives through the
// sink. Starting is refused while another attempt is in flight.
func (e *Engine) StartPayment(ctx context.Context, methodID, methodLabel, rawAmount, merchant string) (*Snapshot, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, business.ErrorInvalidAmount
	}
	merchant = strings.TrimSpace(merchant)
	if len(merchant) < 3 {
		return nil, business.ErrorInvalidMerchant
	}

	e.mu.Lock()
	if e.attempt != nil && (e.attempt.status == StatusInitiated || e.attempt.status == StatusPending) {
		e.mu.Unlock()
		return nil, business.ErrorAttemptInFlight
	}

	e.gen++
	a := &attempt{
		gen:         e.gen,
		methodID:    methodID,
		methodLabel: methodLabel,
		merchant:    merchant,
		amount:      amount,
		reference:   e.mintReference(methodID),
		status:      StatusInitiated,
	}
	a.partial = a.reference[:min(8, len(a.reference))] + "••••"
	e.attempt = a

	// Presentation timer only; it never decides the outcome.
	a.stepTimer = time.AfterFunc(e.stepInterval(), func() { e.stepTick(a.gen) })

	// Both side channels are advisory. Neither blocks nor gates the attempt.
	go e.tryDeepLink(a.methodID, a.merchant, a.amount, a.reference)
	go e.requestServerRef(a.gen, a.amount)

	a.status = StatusPending
	a.pollTimer = time.AfterFunc(e.pollInterval(), func() { e.pollTick(a.gen) })

	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	return snapshot, nil
}

// Reset synchronously stops both timers and discards all attempt state. A
// pending timer callback that already fired notices the generation bump and
// no-ops, so no Transaction is ever emitted for a discarded attempt.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Engine) resetLocked() {
	e.gen++
	if a := e.attempt; a != nil {
		stopTimer(a.stepTimer)
		stopTimer(a.pollTimer)
		stopTimer(a.dismissTimer)
	}
	e.attempt = nil
}

// Snapshot returns the current attempt state, or an idle snapshot when no
// attempt exists.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() *Snapshot {
	a := e.attempt
	if a == nil {
		return &Snapshot{Status: StatusIdle}
	}
	step := ""
	steps := e.steps()
	if a.stepIndex < len(steps) {
		step = steps[a.stepIndex]
	}
	return &Snapshot{
		Reference:        a.reference,
		PartialReference: a.partial,
		Status:           a.status,
		Step:             step,
		StepIndex:        a.stepIndex,
		MethodID:         a.methodID,
		MethodLabel:      a.methodLabel,
		Merchant:         a.merchant,
		Amount:           a.amount,
	}
}

func (e *Engine) stepTick(gen uint64) {
	e.mu.Lock()
	a := e.attempt
	if a == nil || a.gen != gen {
		e.mu.Unlock()
		return
	}

	a.stepTick++
	last := len(e.steps()) - 1
	if a.stepIndex < last {
		a.stepIndex++
	}

	// Reveal more of the reference as we progress.
	visible := min(len(a.reference), (a.stepTick+1)*4)
	a.partial = a.reference[:visible]
	if visible < len(a.reference) {
		a.partial += "••"
	}

	if a.stepIndex < last {
		a.stepTimer = time.AfterFunc(e.stepInterval(), func() { e.stepTick(gen) })
	} else {
		a.stepTimer = nil
	}
	e.mu.Unlock()
}

func (e *Engine) pollTick(gen uint64) {
	e.mu.Lock()
	a := e.attempt
	if a == nil || a.gen != gen {
		e.mu.Unlock()
		return
	}

	a.pollTick++
	willFinish := a.pollTick >= minPollTicks && (e.random().Float64() > 0.4 || a.pollTick >= maxPollTicks)
	if !willFinish {
		a.pollTimer = time.AfterFunc(e.pollInterval(), func() { e.pollTick(gen) })
		e.mu.Unlock()
		return
	}

	success := e.random().Float64() > 0.1

	// Terminal: stop both timers before the status flips and the callback
	// fires, then emit exactly once.
	stopTimer(a.stepTimer)
	a.stepTimer = nil
	a.pollTimer = nil

	if success {
		a.status = StatusCompleted
	} else {
		a.status = StatusFailed
	}

	transaction := e.buildTransaction(a, success)
	serverRef := a.serverRef

	if success {
		a.dismissTimer = time.AfterFunc(e.dismissDelay(), func() {
			e.mu.Lock()
			if e.attempt != nil && e.attempt.gen == gen {
				e.resetLocked()
			}
			e.mu.Unlock()
		})
	}
	e.mu.Unlock()

	ctx := context.Background()
	if e.Sink != nil {
		if err := e.Sink.Record(ctx, transaction); err != nil && e.Service != nil {
			e.Service.Log(ctx).WithField("type", "SimulationEngine").WithError(err).Warn("could not record transaction")
		}
	}
	if e.Refs != nil && serverRef != "" {
		if err := e.Refs.Resolve(ctx, serverRef, success); err != nil && e.Service != nil {
			e.Service.Log(ctx).WithField("type", "SimulationEngine").WithError(err).Debug("could not reconcile server reference")
		}
	}
}

func (e *Engine) buildTransaction(a *attempt, success bool) *models.Transaction {
	now := time.Now()
	status := models.TransactionStatusCompleted
	if !success {
		status = models.TransactionStatusFailed
	}

	transaction := &models.Transaction{
		Date:        now.Format("2006-01-02"),
		Time:        now.Format("15:04:05"),
		Description: "Payment via " + a.methodLabel,
		Merchant:    a.merchant,
		Amount:      decimal.NullDecimal{Valid: true, Decimal: a.amount.Abs().Neg()},
		Category:    models.CategoryDigitalPayment,
		Type:        models.TransactionTypePayment,
		Status:      status,
		Reference:   models.LedgerReference(a.reference),
		Location:    models.TransactionLocationOnline,
	}
	transaction.GenID(context.Background())
	return transaction
}

// tryDeepLink constructs the pay URI and hands it to the launcher. Failure
// here is strictly advisory and fully swallowed.
func (e *Engine) tryDeepLink(methodID, merchant string, amount decimal.Decimal, reference string) {
	if e.Launcher == nil {
		return
	}
	ctx := context.Background()
	vpa := upi.VPAForMerchant(merchant)
	note := "Paying " + merchant + " via " + strings.ToUpper(methodID)
	uri := upi.PayURL(vpa, merchant, amount, note, reference)

	if err := e.Launcher.Launch(ctx, uri); err != nil && e.Service != nil {
		e.Service.Log(ctx).WithField("type", "SimulationEngine").WithError(err).Debug("deep link handoff failed")
	}
}

// requestServerRef asks the issuer for a best-effort server mirror of the
// attempt reference. The attempt proceeds on the local reference regardless.
func (e *Engine) requestServerRef(gen uint64, amount decimal.Decimal) {
	if e.Refs == nil {
		return
	}
	ctx := context.Background()
	serverRef, err := e.Refs.CreateTxnRef(ctx, amount.String())
	if err != nil {
		if e.Service != nil {
			e.Service.Log(ctx).WithField("type", "SimulationEngine").WithError(err).Debug("could not mint server reference")
		}
		return
	}

	e.mu.Lock()
	if e.attempt != nil && e.attempt.gen == gen {
		e.attempt.serverRef = serverRef
	}
	e.mu.Unlock()
}

// mintReference builds a UTR-like reference: {METHOD}-{base36 nanos}-{rand4}.
func (e *Engine) mintReference(methodID string) string {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = alphabet[int(e.random().Float64()*float64(len(alphabet)))%len(alphabet)]
	}
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixNano(), 36))
	return strings.ToUpper(methodID) + "-" + ts + "-" + string(suffix)
}

func (e *Engine) random() RandomSource {
	if e.Random == nil {
		return systemRandom{}
	}
	return e.Random
}

func (e *Engine) steps() []string {
	if len(e.Steps) == 0 {
		return defaultSteps
	}
	return e.Steps
}

func (e *Engine) stepInterval() time.Duration {
	if e.StepInterval <= 0 {
		return defaultStepInterval
	}
	return e.StepInterval
}

func (e *Engine) pollInterval() time.Duration {
	if e.PollInterval <= 0 {
		return defaultPollInterval
	}
	return e.PollInterval
}

func (e *Engine) dismissDelay() time.Duration {
	if e.DismissDelay <= 0 {
		return defaultDismissDelay
	}
	return e.DismissDelay
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
