// Package checkout drives the token-validated payment page: link validation,
// then one of two payment methods, then a success or failure outcome.
package checkout

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an action does not fit the current state.
var ErrInvalidTransition = errors.New("invalid checkout transition")

// State is a checkout step.
type State string

const (
	StateAwaitingToken  State = "awaiting_token"
	StateValidating     State = "validating"
	StateReady          State = "ready"
	StateInvalid        State = "invalid"
	StateMethodSelected State = "method_selected"
	StateSubmitting     State = "submitting"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
)

var transitions = map[State][]State{
	StateAwaitingToken:  {StateValidating, StateInvalid},
	StateValidating:     {StateReady, StateInvalid},
	StateReady:          {StateMethodSelected},
	StateMethodSelected: {StateMethodSelected, StateSubmitting},
	StateSubmitting:     {StateSucceeded, StateFailed},
	StateSucceeded:      {},
	StateFailed:         {},
	StateInvalid:        {},
}

// CanTransition checks if transition is valid.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s ends the checkout.
func IsTerminal(s State) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// Method is a payment provider choice.
type Method string

const (
	MethodCard   Method = "stripe"
	MethodWallet Method = "paypal"
)

// ParseMethod accepts the provider names and their generic aliases.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "stripe", "card":
		return MethodCard, nil
	case "paypal", "wallet":
		return MethodWallet, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}
