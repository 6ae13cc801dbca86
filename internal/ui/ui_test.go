package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBannerExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var bs Banners
	bs.Fail("Room not found", now, 4*time.Second)

	assert.Equal(t, "Room not found", bs.ErrorText(now))
	assert.Equal(t, "Room not found", bs.ErrorText(now.Add(3999*time.Millisecond)))
	assert.Empty(t, bs.ErrorText(now.Add(4*time.Second)))

	bs.Succeed("Saved", now, time.Second)
	bs.Fail("Second failure", now.Add(time.Second), 4*time.Second)
	assert.Equal(t, "Second failure", bs.ErrorText(now.Add(2*time.Second)), "last write wins")

	var out bytes.Buffer
	bs.Render(&out, now.Add(500*time.Millisecond))
	assert.Contains(t, out.String(), "[ok] Saved")
	assert.Contains(t, out.String(), "[error] Second failure")

	bs.Clear()
	out.Reset()
	bs.Render(&out, now)
	assert.Empty(t, out.String())
}

func TestEmptyBannerNeverActive(t *testing.T) {
	b := Banner{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, b.Active(time.Now()))
}

func TestHistory(t *testing.T) {
	h := NewHistory("/home")
	h.Navigate("/rooms")
	h.Navigate("/room-details/3")
	assert.Equal(t, "/room-details/3", h.Current())
	assert.Equal(t, []string{"/home", "/rooms", "/room-details/3"}, h.Paths())
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		c := PromptConfirmer{In: strings.NewReader(tt.input), Out: &out}
		assert.Equal(t, tt.want, c.Confirm("Proceed?"), "input %q", tt.input)
		assert.Contains(t, out.String(), "Proceed? [y/N]")
	}
	assert.True(t, Always(true).Confirm("x"))
	assert.False(t, ConfirmFunc(func(string) bool { return false }).Confirm("x"))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$400.00", Money(400))
	assert.Equal(t, "$12.50", Money(12.5))
}

func TestDeferred(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := &Deferred{Path: "/rooms", At: now.Add(8 * time.Second)}
	assert.False(t, d.Due(now))
	assert.True(t, d.Due(now.Add(8*time.Second)))

	var none *Deferred
	assert.False(t, none.Due(now))
}
