package loyalty

import "log"

// Notifier is the sink for customer-facing notifications. Delivery is
// fire-and-forget: the core ignores failures beyond logging them.
type Notifier interface {
	Notify(accountID uint, message string) error
}

// LogNotifier writes notifications to the application log. It stands in
// for the real push/email sink, which lives outside this service.
type LogNotifier struct{}

// Notify implements Notifier
func (n *LogNotifier) Notify(accountID uint, message string) error {
	log.Printf("notify account %d: %s", accountID, message)
	return nil
}
