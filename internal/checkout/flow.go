package checkout

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"hotelbook/internal/api"
	"hotelbook/internal/guard"
	"hotelbook/internal/metrics"
	"hotelbook/internal/session"
)

// Failure reasons shown on the failure page.
const (
	MsgMissingToken      = "Invalid payment link. Missing token."
	MsgInvalidLink       = "Invalid payment link."
	MsgLinkNotFound      = "Payment link not found or expired."
	MsgValidationFailed  = "Payment link validation failed."
	MsgIntentFailed      = "Error creating payment intent"
	MsgInvalidResponse   = "Invalid response from server"
	MsgPaymentFailed     = "Payment Failed"
	MsgWalletInitFailed  = "Could not initiate PayPal payment"
	MsgWalletCaptureFail = "Payment capture failed. Please contact support."
	MsgWalletError       = "An error occurred with PayPal."
)

// unknownReference stands in for the booking reference on the failure route
// when the link never resolved to a booking.
const unknownReference = "unknown"

// Gateway is the part of the backend the checkout talks to.
type Gateway interface {
	CheckPaymentLink(ctx context.Context, sess *session.Session, token string) (*api.PaymentLinkStatus, error)
	CreateStripeIntent(ctx context.Context, sess *session.Session, token string, req api.PaymentRequest) (string, error)
	ReportStripeOutcome(ctx context.Context, sess *session.Session, token string, req api.PaymentRequest) error
	CreatePaypalOrder(ctx context.Context, sess *session.Session, token string, req api.PaymentRequest) (string, error)
	CapturePaypalOrder(ctx context.Context, sess *session.Session, token, orderID string) (*api.PaymentResult, error)
}

// Outcome is where a finished checkout leads.
type Outcome struct {
	Success          bool
	BookingReference string
	Reason           string
}

// Path is the route of the success or failure page for this outcome.
func (o Outcome) Path() string {
	ref := o.BookingReference
	if ref == "" {
		ref = unknownReference
	}
	if o.Success {
		return guard.Build(guard.PaymentSuccess, nil, ref)
	}
	return guard.Build(guard.PaymentFailure, url.Values{"reason": {o.Reason}}, ref)
}

// cardElement tracks the mounted card entry widget.
type cardElement struct {
	mounted bool
	mounts  int
}

// mount detaches the element if needed and attaches it again.
func (e *cardElement) mount() {
	e.mounted = true
	e.mounts++
}

// Flow is one checkout attempt for one payment token.
type Flow struct {
	gw     Gateway
	card   CardProvider
	wallet WalletApprover
	logger zerolog.Logger
	sess   *session.Session

	state          State
	token          string
	ref            string
	amount         float64
	method         Method
	element        cardElement
	walletRendered bool
	outcome        *Outcome
	err            string
}

// NewFlow prepares a checkout. sess may be absent: payment links are public.
func NewFlow(gw Gateway, card CardProvider, wallet WalletApprover, sess *session.Session, logger zerolog.Logger) *Flow {
	return &Flow{
		gw:     gw,
		card:   card,
		wallet: wallet,
		sess:   sess,
		logger: logger.With().Str("component", "checkout").Logger(),
		state:  StateAwaitingToken,
	}
}

func (f *Flow) State() State             { return f.state }
func (f *Flow) BookingReference() string { return f.ref }
func (f *Flow) Amount() float64          { return f.amount }
func (f *Flow) Method() Method           { return f.method }
func (f *Flow) CardMounted() bool        { return f.element.mounted }
func (f *Flow) CardMounts() int          { return f.element.mounts }
func (f *Flow) WalletRendered() bool     { return f.walletRendered }
func (f *Flow) Error() string            { return f.err }

// Ready reports whether payment widgets may be shown.
func (f *Flow) Ready() bool {
	return f.state == StateReady || f.state == StateMethodSelected
}

// Outcome returns the terminal outcome, or nil while the checkout is open.
func (f *Flow) Outcome() *Outcome {
	return f.outcome
}

func (f *Flow) transition(to State) error {
	if !CanTransition(f.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.state, to)
	}
	f.state = to
	return nil
}

// Start validates token with the backend. A missing or rejected token ends
// the checkout with a failure outcome; a valid one leaves the flow ready with
// the card method selected.
func (f *Flow) Start(ctx context.Context, token string) error {
	if f.state != StateAwaitingToken {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, f.state)
	}
	f.token = token
	if token == "" {
		return f.invalid(MsgMissingToken)
	}
	if err := f.transition(StateValidating); err != nil {
		return err
	}

	status, err := f.gw.CheckPaymentLink(ctx, f.sess, token)
	if err != nil {
		msg := MsgValidationFailed
		switch {
		case api.MessageOf(err, "") != "":
			msg = api.MessageOf(err, "")
		case api.IsNotFound(err):
			msg = MsgLinkNotFound
		}
		f.logger.Warn().Err(err).Msg("payment link validation failed")
		return f.invalid(msg)
	}
	if !status.OK() {
		msg := status.Message
		if msg == "" {
			msg = MsgInvalidLink
		}
		return f.invalid(msg)
	}

	f.amount = status.Amount
	f.ref = status.BookingReference
	if err := f.transition(StateReady); err != nil {
		return err
	}
	return f.SelectMethod(MethodCard)
}

// SelectMethod switches provider. The card element is remounted every time
// the card method is chosen; the wallet button is rendered once.
func (f *Flow) SelectMethod(m Method) error {
	if m != MethodCard && m != MethodWallet {
		return fmt.Errorf("unknown payment method %q", m)
	}
	if err := f.transition(StateMethodSelected); err != nil {
		return err
	}
	f.err = ""
	f.method = m
	switch m {
	case MethodCard:
		f.element.mount()
	case MethodWallet:
		f.walletRendered = true
	}
	return nil
}

func (f *Flow) paymentRequest() api.PaymentRequest {
	return api.PaymentRequest{BookingReference: f.ref, Amount: f.amount}
}

// SubmitCard pays with a card: create intent, confirm it with the provider,
// report the result to the backend, finish.
func (f *Flow) SubmitCard(ctx context.Context, card CardDetails) error {
	if f.state != StateMethodSelected || f.method != MethodCard || !f.element.mounted {
		return fmt.Errorf("%w: card submit in %s/%s", ErrInvalidTransition, f.state, f.method)
	}
	if err := f.transition(StateSubmitting); err != nil {
		return err
	}

	secret, err := f.gw.CreateStripeIntent(ctx, f.sess, f.token, f.paymentRequest())
	if err != nil {
		f.logger.Error().Err(err).Str("booking_reference", f.ref).Msg("create payment intent failed")
		return f.fail(MethodCard, MsgIntentFailed)
	}
	if secret == "" {
		return f.fail(MethodCard, MsgInvalidResponse)
	}

	res, err := f.card.Confirm(ctx, secret, card)
	switch {
	case err != nil || res == nil:
		f.logger.Error().Err(err).Str("booking_reference", f.ref).Msg("card confirmation failed")
		f.report(ctx, false, "", MsgPaymentFailed)
		return f.fail(MethodCard, MsgPaymentFailed)
	case res.ErrorMessage != "":
		f.report(ctx, false, "", res.ErrorMessage)
		return f.fail(MethodCard, res.ErrorMessage)
	case !res.Succeeded():
		msg := fmt.Sprintf("Payment not completed (status %s)", res.Status)
		f.report(ctx, false, res.IntentID, msg)
		return f.fail(MethodCard, msg)
	}

	f.report(ctx, true, res.IntentID, "")
	return f.succeed(MethodCard)
}

// report tells the backend how the card payment ended. Its failure is logged
// and never changes the outcome.
func (f *Flow) report(ctx context.Context, success bool, transactionID, reason string) {
	req := f.paymentRequest()
	req.Success = &success
	req.TransactionID = transactionID
	req.FailureReason = reason
	if err := f.gw.ReportStripeOutcome(ctx, f.sess, f.token, req); err != nil {
		f.logger.Warn().Err(err).Str("booking_reference", f.ref).Bool("success", success).Msg("reporting card outcome failed")
	}
}

// SubmitWallet pays with the wallet: create order, buyer approval, capture.
func (f *Flow) SubmitWallet(ctx context.Context) error {
	if f.state != StateMethodSelected || f.method != MethodWallet {
		return fmt.Errorf("%w: wallet submit in %s/%s", ErrInvalidTransition, f.state, f.method)
	}
	if err := f.transition(StateSubmitting); err != nil {
		return err
	}

	orderID, err := f.gw.CreatePaypalOrder(ctx, f.sess, f.token, f.paymentRequest())
	if err != nil {
		f.logger.Error().Err(err).Str("booking_reference", f.ref).Msg("create wallet order failed")
		return f.fail(MethodWallet, MsgWalletInitFailed)
	}

	approved, err := f.wallet.Approve(ctx, orderID)
	if err != nil {
		f.logger.Error().Err(err).Str("order_id", orderID).Msg("wallet approval failed")
		return f.fail(MethodWallet, MsgWalletError)
	}

	if _, err := f.gw.CapturePaypalOrder(ctx, f.sess, f.token, approved); err != nil {
		f.logger.Error().Err(err).Str("order_id", approved).Msg("wallet capture failed")
		return f.fail(MethodWallet, MsgWalletCaptureFail)
	}
	return f.succeed(MethodWallet)
}

func (f *Flow) invalid(reason string) error {
	if err := f.transition(StateInvalid); err != nil {
		return err
	}
	f.err = reason
	f.outcome = &Outcome{BookingReference: f.ref, Reason: reason}
	metrics.IncCheckoutOutcome("none", "invalid")
	return nil
}

func (f *Flow) fail(m Method, reason string) error {
	if err := f.transition(StateFailed); err != nil {
		return err
	}
	f.err = reason
	f.outcome = &Outcome{BookingReference: f.ref, Reason: reason}
	metrics.IncCheckoutOutcome(string(m), "failed")
	return nil
}

func (f *Flow) succeed(m Method) error {
	if err := f.transition(StateSucceeded); err != nil {
		return err
	}
	f.outcome = &Outcome{Success: true, BookingReference: f.ref}
	metrics.IncCheckoutOutcome(string(m), "succeeded")
	f.logger.Info().Str("booking_reference", f.ref).Str("method", string(m)).Msg("payment completed")
	return nil
}
