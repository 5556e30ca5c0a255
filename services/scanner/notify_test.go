package scanner

import (
	"testing"

	"github.com/ZWhitey/CheapPizza/lib/scrapers/pizzahut"

	"github.com/stretchr/testify/require"
)

func TestNotifierEnabled(t *testing.T) {
	require.False(t, NewNotifier(NotifyOptions{}).Enabled())
	require.False(t, NewNotifier(NotifyOptions{
		Smtp: SmtpConfig{Server: "smtp.example.com"},
	}).Enabled())
	require.False(t, NewNotifier(NotifyOptions{
		To: []string{"me@example.com"},
	}).Enabled())
	require.True(t, NewNotifier(NotifyOptions{
		Smtp: SmtpConfig{Server: "smtp.example.com", Port: 587, EmailAddress: "bot@example.com"},
		To:   []string{"me@example.com"},
	}).Enabled())
}

func TestRenderNotification(t *testing.T) {
	body := renderNotification([]pizzahut.Coupon{
		{
			Code:            "15001",
			Title:           "大比薩買一送一",
			DiscountedPrice: 665,
			ValidUntil:      "2026-12-31",
		},
		{Code: "20004", Title: "雙享優惠"},
	})

	require.Contains(t, body, "15001  大比薩買一送一  NT$665  (有效期限 2026-12-31)")
	require.Contains(t, body, "20004  雙享優惠")
}
