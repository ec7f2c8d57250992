// Package notifier alerts an operator when a batch run aborts on an
// internal invariant violation.
package notifier

import (
	"fmt"
)

// FailureMessage carries the identifying details of the seed and
// invariant that aborted a batch run.
type FailureMessage struct {
	AlertUID  string
	Seed      int64
	Component string
	Reason    string
}

// Notifier is the interface every alerting backend implements.
type Notifier interface {
	Name() string
	SendNotification(FailureMessage)
}

// NewProvider is the factory entrance to the notification backends.
func NewProvider(t string, c map[string]string) (Notifier, error) {
	var n Notifier
	var err error

	switch t {
	case "pagerduty":
		n, err = NewPagerDutyProvider(c)
	default:
		err = fmt.Errorf("the notifications provider %s is not supported", t)
	}
	return n, err
}
