package scanner

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ZWhitey/CheapPizza/lib/scrapers/pizzahut"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type NotifyOptions struct {
	Smtp SmtpConfig `json:"smtp"`
	To   []string   `json:"to"`
}

// Notifier mails out newly discovered coupons after a scan. It stays
// inert unless both an SMTP server and recipients are configured.
type Notifier struct {
	config NotifyOptions
}

func NewNotifier(options NotifyOptions) Notifier {
	return Notifier{config: options}
}

func (n Notifier) Enabled() bool {
	return n.config.Smtp.Server != "" && len(n.config.To) > 0
}

func (n Notifier) NotifyNewCoupons(ctx context.Context, coupons []pizzahut.Coupon) error {
	ctx, span := tracer.Start(ctx, "NotifyNewCoupons")
	defer span.End()

	if !n.Enabled() || len(coupons) == 0 {
		return nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("CheapPizza <%s>", n.config.Smtp.EmailAddress)
	mail.To = n.config.To
	mail.Subject = fmt.Sprintf("CheapPizza 發現 %d 張新優惠券", len(coupons))
	mail.Text = []byte(renderNotification(coupons))

	addr := fmt.Sprintf("%s:%d", n.config.Smtp.Server, n.config.Smtp.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", n.config.Smtp.EmailAddress, n.config.Smtp.Password, n.config.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}

func renderNotification(coupons []pizzahut.Coupon) string {
	var out strings.Builder
	out.WriteString("本次掃描發現的新優惠券：\n\n")
	for _, coupon := range coupons {
		out.WriteString(fmt.Sprintf("%s  %s", coupon.Code, coupon.Title))
		if coupon.DiscountedPrice > 0 {
			out.WriteString(fmt.Sprintf("  NT$%d", coupon.DiscountedPrice))
		}
		if coupon.ValidUntil != "" {
			out.WriteString(fmt.Sprintf("  (有效期限 %s)", coupon.ValidUntil))
		}
		out.WriteString("\n")
	}
	return out.String()
}
