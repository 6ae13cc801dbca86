package checkout

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// CardDetails identifies the card the buyer pays with. With Stripe this is a
// payment method id created client-side (e.g. pm_card_visa in test mode).
type CardDetails struct {
	PaymentMethod string
}

// CardResult is the outcome of confirming a payment intent.
type CardResult struct {
	IntentID string
	Status   string
	// ErrorMessage is set when the provider declined the payment.
	ErrorMessage string
}

// Succeeded reports whether the intent completed.
func (r *CardResult) Succeeded() bool {
	return r != nil && r.ErrorMessage == "" && r.Status == string(stripe.PaymentIntentStatusSucceeded)
}

// CardProvider confirms a payment intent by its client secret.
type CardProvider interface {
	Confirm(ctx context.Context, clientSecret string, card CardDetails) (*CardResult, error)
}

// StripeCard confirms payment intents against the Stripe API using the
// publishable key, the same way the browser SDK does.
type StripeCard struct {
	client paymentintent.Client
}

// NewStripeCard builds a card provider for publishableKey.
func NewStripeCard(publishableKey string, backend stripe.Backend) *StripeCard {
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}
	return &StripeCard{client: paymentintent.Client{B: backend, Key: publishableKey}}
}

// IntentID extracts "pi_123" from a client secret "pi_123_secret_abc".
func IntentID(clientSecret string) string {
	id, _, found := strings.Cut(clientSecret, "_secret_")
	if !found {
		return ""
	}
	return id
}

func (s *StripeCard) Confirm(ctx context.Context, clientSecret string, card CardDetails) (*CardResult, error) {
	id := IntentID(clientSecret)
	if id == "" {
		return nil, errors.New("malformed client secret")
	}
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(card.PaymentMethod),
	}
	params.Context = ctx
	params.AddExtra("client_secret", clientSecret)

	pi, err := s.client.Confirm(id, params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			msg := serr.Msg
			if msg == "" {
				msg = "Payment Failed"
			}
			return &CardResult{IntentID: id, ErrorMessage: msg}, nil
		}
		return nil, err
	}
	return &CardResult{IntentID: pi.ID, Status: string(pi.Status)}, nil
}

// WalletApprover hands a wallet order to the buyer and returns the id of the
// order they approved.
type WalletApprover interface {
	Approve(ctx context.Context, orderID string) (string, error)
}

// ErrWalletCancelled is returned when the buyer declines the wallet order.
var ErrWalletCancelled = errors.New("wallet approval cancelled")

// PromptApprover asks the buyer on a terminal to approve the order in their
// wallet and confirm here.
type PromptApprover struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptApprover) Approve(ctx context.Context, orderID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.Out, "Approve PayPal order %s in your PayPal account, then type 'approve' (anything else cancels): ", orderID)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read approval: %w", err)
	}
	if strings.TrimSpace(strings.ToLower(line)) != "approve" {
		return "", ErrWalletCancelled
	}
	return orderID, nil
}
