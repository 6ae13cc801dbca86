// Package ui holds the small stateful widgets shared by the views.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Kind is the banner flavour.
type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
)

// Banner is a transient message. It is shown while Active reports true.
type Banner struct {
	Text      string
	Kind      Kind
	ExpiresAt time.Time
}

// Active reports whether the banner should still be rendered at now.
func (b Banner) Active(now time.Time) bool {
	return b.Text != "" && now.Before(b.ExpiresAt)
}

// Banners holds one error and one success banner per view. Setting a banner
// replaces the previous one.
type Banners struct {
	Error   Banner
	Success Banner
}

func (bs *Banners) Fail(text string, now time.Time, ttl time.Duration) {
	bs.Error = Banner{Text: text, Kind: KindError, ExpiresAt: now.Add(ttl)}
}

func (bs *Banners) Succeed(text string, now time.Time, ttl time.Duration) {
	bs.Success = Banner{Text: text, Kind: KindSuccess, ExpiresAt: now.Add(ttl)}
}

// Clear drops both banners.
func (bs *Banners) Clear() {
	*bs = Banners{}
}

// ErrorText returns the active error text, or "".
func (bs *Banners) ErrorText(now time.Time) string {
	if bs.Error.Active(now) {
		return bs.Error.Text
	}
	return ""
}

// SuccessText returns the active success text, or "".
func (bs *Banners) SuccessText(now time.Time) string {
	if bs.Success.Active(now) {
		return bs.Success.Text
	}
	return ""
}

// Render writes the active banners.
func (bs *Banners) Render(w io.Writer, now time.Time) {
	if t := bs.ErrorText(now); t != "" {
		fmt.Fprintf(w, "[error] %s\n", t)
	}
	if t := bs.SuccessText(now); t != "" {
		fmt.Fprintf(w, "[ok] %s\n", t)
	}
}

// Timing holds how long banners stay up and how long a success message is
// shown before the view navigates on.
type Timing struct {
	ErrorTTL      time.Duration
	ShortSuccess  time.Duration
	LongSuccess   time.Duration
	RedirectDelay time.Duration
}

// DefaultTiming mirrors the delays used across the booking screens.
func DefaultTiming() Timing {
	return Timing{
		ErrorTTL:      4 * time.Second,
		ShortSuccess:  3 * time.Second,
		LongSuccess:   8 * time.Second,
		RedirectDelay: 3 * time.Second,
	}
}

// Navigator records route changes. Views never navigate directly; they ask
// the navigator, and the shell reads Current to decide what to mount next.
type Navigator interface {
	Navigate(path string)
	Current() string
}

// History is the default Navigator. It keeps every visited path.
type History struct {
	mu    sync.Mutex
	paths []string
}

func NewHistory(start string) *History {
	return &History{paths: []string{start}}
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append(h.paths, path)
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.paths) == 0 {
		return ""
	}
	return h.paths[len(h.paths)-1]
}

// Paths returns the navigation history.
func (h *History) Paths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.paths...)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) bool

func (f ConfirmFunc) Confirm(q string) bool { return f(q) }

// Always answers every question with the same value.
type Always bool

func (a Always) Confirm(string) bool { return bool(a) }

// PromptConfirmer reads y/n answers from in and writes prompts to out.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptConfirmer) Confirm(question string) bool {
	fmt.Fprintf(p.Out, "%s [y/N]: ", question)
	var answer string
	if _, err := fmt.Fscanln(p.In, &answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// Money formats an amount the way prices are shown.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Deferred is a navigation scheduled for later, e.g. after a success message
// has been shown.
type Deferred struct {
	Path string
	At   time.Time
}

// Due reports whether the navigation should happen at now.
func (d *Deferred) Due(now time.Time) bool {
	return d != nil && d.Path != "" && !now.Before(d.At)
}
