package notify

import (
	"fmt"
	"strings"
	"time"

	"swag-shop/internal/domain"
)

func OrderConfirmation(u domain.Profile, order domain.OrderRecord) domain.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", greetingName(u))
	fmt.Fprintf(&b, "Your swag order %s has been placed.\n\n", order.OrderID)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "  - item #%d x %d\n", it.SwagID, it.Quantity)
	}
	fmt.Fprintf(&b, "\nDelivery address: %s\n", order.Delivery.Address)
	fmt.Fprintf(&b, "Requested date: %s\n", order.Delivery.Date)
	fmt.Fprintf(&b, "Phone number: %s\n", order.Delivery.PhoneNumber)
	return domain.Message{
		To:      u.Email,
		Subject: "Swag order confirmation " + order.OrderID,
		Body:    b.String(),
	}
}

func TemporaryPassword(u domain.Profile, temp string, expires time.Time) domain.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", greetingName(u))
	fmt.Fprintf(&b, "Your temporary password is: %s\n\n", temp)
	fmt.Fprintf(&b, "Use it with your username (%s) to set a new password before %s.\n",
		u.Username, expires.UTC().Format(time.RFC1123))
	return domain.Message{
		To:      u.Email,
		Subject: "Your temporary swag-shop password",
		Body:    b.String(),
	}
}

func greetingName(u domain.Profile) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
