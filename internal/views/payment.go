package views

import (
	"context"
	"fmt"
	"io"

	"hotelbook/internal/checkout"
	"hotelbook/internal/guard"
	"hotelbook/internal/ui"
)

// Payment drives a checkout for the token carried by a payment link.
type Payment struct {
	base
	Token string
	flow  *checkout.Flow
}

func NewPayment(env *Env, token string) *Payment {
	return &Payment{
		base:  newBase(env),
		Token: token,
		flow:  checkout.NewFlow(env.API, env.Card, env.Wallet, env.Session, env.Logger),
	}
}

// Flow exposes the underlying checkout state.
func (v *Payment) Flow() *checkout.Flow { return v.flow }

// Mount validates the payment link. An invalid link navigates to the
// failure page.
func (v *Payment) Mount(ctx context.Context) error {
	if err := v.flow.Start(ctx, v.Token); err != nil {
		return err
	}
	v.follow()
	return nil
}

// SelectMethod switches between card and wallet.
func (v *Payment) SelectMethod(m checkout.Method) error {
	if !v.flow.Ready() {
		v.fail("Payment is not ready")
		return nil
	}
	return v.flow.SelectMethod(m)
}

// PayCard submits the card and navigates to the outcome page.
func (v *Payment) PayCard(ctx context.Context, card checkout.CardDetails) error {
	if err := v.flow.SubmitCard(ctx, card); err != nil {
		return err
	}
	v.follow()
	return nil
}

// PayWallet runs the wallet order, approval and capture.
func (v *Payment) PayWallet(ctx context.Context) error {
	if err := v.flow.SubmitWallet(ctx); err != nil {
		return err
	}
	v.follow()
	return nil
}

func (v *Payment) follow() {
	if o := v.flow.Outcome(); o != nil {
		v.env.Nav.Navigate(o.Path())
	}
}

func (v *Payment) Render(w io.Writer) {
	v.header(w, "Payment")
	f := v.flow
	if !f.Ready() {
		if f.Error() != "" {
			fmt.Fprintf(w, "[error] %s\n", f.Error())
		} else {
			fmt.Fprintln(w, "Validating payment link...")
		}
		return
	}
	fmt.Fprintf(w, "Booking:  %s\nAmount:   %s\nMethod:   %s\n", f.BookingReference(), ui.Money(f.Amount()), f.Method())
}

// PaymentSuccess is the page shown after a successful payment.
type PaymentSuccess struct {
	base
	BookingReference string
}

func NewPaymentSuccess(env *Env, m guard.Match) *PaymentSuccess {
	return &PaymentSuccess{base: newBase(env), BookingReference: m.Param("bookingReference")}
}

func (v *PaymentSuccess) Mount(context.Context) error { return nil }

func (v *PaymentSuccess) Render(w io.Writer) {
	v.header(w, "Payment Successful")
	fmt.Fprintf(w, "Your payment for booking %s has been received.\n", v.BookingReference)
}

// PaymentFailure is the page shown after a failed payment.
type PaymentFailure struct {
	base
	BookingReference string
	Reason           string
}

func NewPaymentFailure(env *Env, m guard.Match) *PaymentFailure {
	reason := m.Query.Get("reason")
	if reason == "" {
		reason = "Unknown Error"
	}
	return &PaymentFailure{base: newBase(env), BookingReference: m.Param("bookingReference"), Reason: reason}
}

func (v *PaymentFailure) Mount(context.Context) error { return nil }

func (v *PaymentFailure) Render(w io.Writer) {
	v.header(w, "Payment Failed")
	fmt.Fprintf(w, "Payment for booking %s failed.\nReason: %s\n", v.BookingReference, v.Reason)
}
