package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"hotelbook/internal/session"
)

func tokenQuery(token string) url.Values {
	return url.Values{"token": {token}}
}

// CheckPaymentLink validates a payment token and returns the booking reference
// and amount the server bound to it.
func (c *Client) CheckPaymentLink(ctx context.Context, sess *session.Session, token string) (*PaymentLinkStatus, error) {
	var status PaymentLinkStatus
	cl := c.newCall("check_payment_link", http.MethodGet, "/bookings/status", sess).withQuery(tokenQuery(token))
	if err := c.do(ctx, cl, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CreateStripeIntent creates a card payment intent and returns its client
// secret. The backend answers with {"clientSecret": "..."}; older deployments
// returned the bare secret, which is accepted too.
func (c *Client) CreateStripeIntent(ctx context.Context, sess *session.Session, token string, req PaymentRequest) (string, error) {
	cl, err := c.newCall("create_stripe_intent", http.MethodPost, "/stripe/pay", sess).withJSON(req)
	if err != nil {
		return "", err
	}
	raw, err := c.send(ctx, cl.withQuery(tokenQuery(token)))
	if err != nil {
		return "", err
	}
	return parseClientSecret(raw), nil
}

func parseClientSecret(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '{':
		var obj struct {
			ClientSecret string `json:"clientSecret"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ""
		}
		return obj.ClientSecret
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	default:
		return string(raw)
	}
}

// ReportStripeOutcome tells the backend how the card confirmation ended.
func (c *Client) ReportStripeOutcome(ctx context.Context, sess *session.Session, token string, req PaymentRequest) error {
	cl, err := c.newCall("report_stripe_outcome", http.MethodPut, "/stripe/update", sess).withJSON(req)
	if err != nil {
		return err
	}
	return c.do(ctx, cl.withQuery(tokenQuery(token)), nil)
}

// CreatePaypalOrder creates a wallet order and returns its id.
func (c *Client) CreatePaypalOrder(ctx context.Context, sess *session.Session, token string, req PaymentRequest) (string, error) {
	cl, err := c.newCall("create_paypal_order", http.MethodPost, "/paypal/create", sess).withJSON(req)
	if err != nil {
		return "", err
	}
	var out struct {
		OrderID string `json:"orderId"`
	}
	if err := c.do(ctx, cl.withQuery(tokenQuery(token)), &out); err != nil {
		return "", err
	}
	if out.OrderID == "" {
		return "", fmt.Errorf("create_paypal_order: %w", ErrMalformedResponse)
	}
	return out.OrderID, nil
}

// CapturePaypalOrder captures an approved wallet order.
func (c *Client) CapturePaypalOrder(ctx context.Context, sess *session.Session, token, orderID string) (*PaymentResult, error) {
	cl, err := c.newCall("capture_paypal_order", http.MethodPost, "/paypal/capture", sess).withJSON(struct{}{})
	if err != nil {
		return nil, err
	}
	q := tokenQuery(token)
	q.Set("orderId", orderID)

	var res PaymentResult
	if err := c.do(ctx, cl.withQuery(q), &res); err != nil {
		return nil, err
	}
	return &res, nil
}
