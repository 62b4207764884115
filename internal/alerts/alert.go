// Package alerts broadcasts emergency messages to connected operators.
package alerts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aegis-net/internal/physics"
)

var ErrInvalidAlert = errors.New("invalid alert")

type Status string

const (
	Draft     Status = "draft"
	Sent      Status = "sent"
	Delivered Status = "delivered"
	Failed    Status = "failed"
)

type Channel string

const (
	Push   Channel = "push"
	SMS    Channel = "sms"
	Email  Channel = "email"
	TV     Channel = "tv"
	Radio  Channel = "radio"
	Social Channel = "social"
)

var channels = map[Channel]bool{Push: true, SMS: true, Email: true, TV: true, Radio: true, Social: true}

// Alert is one emergency broadcast. Severity reuses the impact risk scale.
type Alert struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Message    string       `json:"message"`
	Severity   physics.Risk `json:"severity"`
	TargetArea string       `json:"targetArea"`
	Timestamp  time.Time    `json:"timestamp"`
	Status     Status       `json:"status"`
	Channels   []Channel    `json:"channels"`
}

// Validate checks the operator-supplied fields.
func (a Alert) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidAlert)
	}
	if strings.TrimSpace(a.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidAlert)
	}
	switch a.Severity {
	case physics.RiskLow, physics.RiskMedium, physics.RiskHigh, physics.RiskCritical:
	default:
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidAlert, a.Severity)
	}
	if len(a.Channels) == 0 {
		return fmt.Errorf("%w: at least one channel is required", ErrInvalidAlert)
	}
	for _, c := range a.Channels {
		if !channels[c] {
			return fmt.Errorf("%w: unknown channel %q", ErrInvalidAlert, c)
		}
	}
	return nil
}

// ForImpact drafts an alert from an impact estimate.
func ForImpact(area string, energyMT, blastRadiusM float64) Alert {
	sev := physics.RiskLevel(energyMT)
	return Alert{
		Title:      fmt.Sprintf("%s impact warning", strings.ToUpper(string(sev[:1]))+string(sev[1:])),
		Message:    fmt.Sprintf("Predicted impact of %.2f MT with a %.0f m blast radius. Follow evacuation guidance.", energyMT, blastRadiusM),
		Severity:   sev,
		TargetArea: area,
		Status:     Draft,
		Channels:   []Channel{Push, SMS, TV, Radio},
	}
}
