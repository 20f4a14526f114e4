// README: UPI deep-link construction for pre-paid bookings.
package booking

import (
	"fmt"
	"net/url"
)

// UPILink builds upi:// payment deep links. The link is handed to the
// customer; confirmation is their acknowledgment, not a settled
// transaction.
type UPILink struct {
	PayeeID   string
	PayeeName string
}

// Link returns the deep link for a booking, or "" when no payee is
// configured.
func (u UPILink) Link(ref string, amount int64) string {
	if u.PayeeID == "" {
		return ""
	}
	note := "payment for booking " + ref
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&tn=%s&am=%d&cu=INR",
		u.PayeeID,
		url.QueryEscape(u.PayeeName),
		url.QueryEscape(note),
		amount)
}
