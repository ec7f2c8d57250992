package notifier

import (
	"fmt"

	"github.com/PagerDuty/go-pagerduty"
	"github.com/faascluster/simulator/logging"
)

// PagerDutyProvider sends batch-abort alerts to PagerDuty.
type PagerDutyProvider struct {
	config map[string]string
}

// Name returns the name of the notification endpoint in a lowercase,
// human readable format.
func (p *PagerDutyProvider) Name() string {
	return "pagerduty"
}

// NewPagerDutyProvider creates the PagerDuty notification provider.
func NewPagerDutyProvider(c map[string]string) (Notifier, error) {
	p := &PagerDutyProvider{
		config: c,
	}

	return p, nil
}

// SendNotification sends a notification to PagerDuty using the Event
// library call to create a new incident.
func (p *PagerDutyProvider) SendNotification(message FailureMessage) {
	d := fmt.Sprintf("%s seed=%d %s: %s",
		message.AlertUID, message.Seed, message.Component, message.Reason)

	event := pagerduty.Event{
		ServiceKey:  p.config["PagerDutyServiceKey"],
		Type:        "trigger",
		Description: d,
		Details:     message,
	}

	resp, err := pagerduty.CreateEvent(event)
	if err != nil {
		logging.Error("notifier/pagerduty: an error occurred creating the PagerDuty event: %v", err)
		return
	}

	logging.Info("notifier/pagerduty: incident %s has been triggered", resp.IncidentKey)
}
