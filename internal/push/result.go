// Package push delivers notifications to device tokens over the Expo push
// service and Firebase Cloud Messaging.
package push

// Lane identifies a delivery network.
type Lane string

// Delivery lanes.
const (
	LaneExpo Lane = "expo"
	LaneFCM  Lane = "fcm"
)

// Outcome summarizes how a lane fared.
type Outcome string

// Lane outcomes.
const (
	OutcomeSkipped         Outcome = "skipped"
	OutcomeSucceeded       Outcome = "succeeded"
	OutcomePartiallyFailed Outcome = "partially_failed"
	OutcomeFailed          Outcome = "failed"
)

// LaneResult is the delivery summary of one lane.
// Invalid counts tokens dropped before any provider call.
type LaneResult struct {
	Lane      Lane
	Attempted int
	Succeeded int
	Failed    int
	Invalid   int
	Outcome   Outcome
}

// settle derives Outcome from the counts. A lane whose every token was
// invalid is failed, not skipped.
func (r *LaneResult) settle() {
	switch {
	case r.Attempted == 0 && r.Invalid > 0:
		r.Outcome = OutcomeFailed
	case r.Attempted == 0:
		r.Outcome = OutcomeSkipped
	case r.Succeeded >= r.Attempted:
		r.Outcome = OutcomeSucceeded
	case r.Succeeded == 0:
		r.Outcome = OutcomeFailed
	default:
		r.Outcome = OutcomePartiallyFailed
	}
}

// Result is the outcome of one Dispatch call.
type Result struct {
	Expo LaneResult
	FCM  LaneResult
}

// Lanes returns the lane results in dispatch order.
func (r Result) Lanes() []LaneResult {
	return []LaneResult{r.Expo, r.FCM}
}

// Succeeded returns the number of messages accepted across both lanes.
func (r Result) Succeeded() int {
	return r.Expo.Succeeded + r.FCM.Succeeded
}

// Failed reports whether any lane failed fully or partially.
func (r Result) Failed() bool {
	for _, l := range r.Lanes() {
		if l.Outcome == OutcomeFailed || l.Outcome == OutcomePartiallyFailed {
			return true
		}
	}
	return false
}
