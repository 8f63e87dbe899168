package notify

import (
	"context"
	"fmt"
)

func (s *Service) signature() string {
	return "- " + s.opts.FromName + " Team"
}

// SubscriptionCancelledByAdmin tells a member that staff closed their plan.
func (s *Service) SubscriptionCancelledByAdmin(ctx context.Context, to, name, plan string, bookingCancelled bool) error {
	subject := "Your " + plan + " subscription was cancelled"
	booking := "You had no upcoming session."
	if bookingCancelled {
		booking = "Your upcoming session was cancelled as well."
	}
	body := fmt.Sprintf(`Hi %s,

Your %s subscription has been cancelled by our staff.
%s

Reply to this email if you think this is a mistake.

%s`, name, plan, booking, s.signature())

	return s.Enqueue(ctx, TypeSubscriptionCancelled, to, name, subject, body)
}

func (s *Service) BookingConfirmed(ctx context.Context, to, name, staffName, slot string) error {
	subject := "Session booked - " + slot
	body := fmt.Sprintf(`Hi %s,

Your session is booked!

With: %s
When: %s

See you at the gym!

%s`, name, staffName, slot, s.signature())

	return s.Enqueue(ctx, TypeBookingConfirmed, to, name, subject, body)
}
