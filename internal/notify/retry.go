package notify

// RetryPolicy decides whether an outbox entry with the given attempt count is
// still eligible for delivery. The dispatcher consults it per entry, keeping
// the policy swappable without touching the transactional core.
type RetryPolicy interface {
	Eligible(attempts int) bool
}

// RetryForever retries every pending entry on every tick, with no backoff and
// no attempt cap.
type RetryForever struct{}

// Eligible always reports true.
func (RetryForever) Eligible(int) bool { return true }

// MaxAttempts stops retrying after Limit failed attempts. Entries over the
// limit stay pending in storage but are skipped by the dispatcher.
type MaxAttempts struct {
	Limit int
}

// Eligible reports whether the attempt count is under the limit.
func (p MaxAttempts) Eligible(attempts int) bool {
	return attempts < p.Limit
}
