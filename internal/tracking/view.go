package tracking

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"food-storefront/internal/models"
)

// Step is one stage of the post-confirmation fulfillment sequence
type Step struct {
	Status         models.OrderStatus
	Label          string
	CompletedText  string
	InProgressText string
}

// DefaultSteps is the fulfillment sequence shown by the tracker. PENDING
// precedes every step; CANCELLED and FAILED sit outside it.
var DefaultSteps = []Step{
	{Status: models.StatusConfirmed, Label: "Order Confirmed", CompletedText: "Your order has been confirmed."},
	{Status: models.StatusPreparing, Label: "Preparing Food", CompletedText: "The restaurant is preparing your food."},
	{Status: models.StatusOutForDelivery, Label: "Out for Delivery", CompletedText: "Your order is on its way!"},
	{Status: models.StatusDelivered, Label: "Delivered", CompletedText: "Enjoy your meal!"},
}

const (
	messagePending   = "Awaiting confirmation from restaurant..."
	messageCancelled = "This order has been cancelled."
	messageFailed    = "There was an issue with this order. Please contact support."
	messageDefault   = "Tracking your order..."
)

// StepView is a step with its derived flags
type StepView struct {
	Status    models.OrderStatus `json:"status"`
	Label     string             `json:"label"`
	Completed bool               `json:"completed"`
	Active    bool               `json:"active"`
}

// TrackerView is everything a rendering surface needs to draw the tracker
type TrackerView struct {
	OrderID      string             `json:"order_id,omitempty"`
	Status       models.OrderStatus `json:"status"`
	StepIndex    int                `json:"step_index"`
	Progress     float64            `json:"progress"`
	Steps        []StepView         `json:"steps,omitempty"`
	Failed       bool               `json:"failed"`
	Message      string             `json:"message"`
	Estimate     string             `json:"estimate,omitempty"`
	ShowEstimate bool               `json:"show_estimate"`
}

var lower = cases.Lower(language.English)

// DeriveTrackerView maps a status onto steps. It never changes the status.
func DeriveTrackerView(status models.OrderStatus, steps []Step) TrackerView {
	view := TrackerView{Status: status, StepIndex: -1}
	for i, s := range steps {
		if s.Status == status {
			view.StepIndex = i
			break
		}
	}

	if status.IsTerminalError() {
		view.Failed = true
		view.Message = messageFailed
		if status == models.StatusCancelled {
			view.Message = messageCancelled
		}
		return view
	}

	if view.StepIndex >= 0 {
		view.Progress = float64(view.StepIndex+1) / float64(len(steps))
	}

	view.Steps = make([]StepView, len(steps))
	for i, s := range steps {
		view.Steps[i] = StepView{
			Status:    s.Status,
			Label:     s.Label,
			Completed: view.StepIndex >= i,
			Active:    view.StepIndex == i,
		}
	}

	switch {
	case status == models.StatusPending:
		view.Message = messagePending
	case view.StepIndex >= 0:
		view.Message = stepMessage(steps[view.StepIndex])
	default:
		view.Message = messageDefault
	}
	return view
}

func stepMessage(s Step) string {
	if s.InProgressText != "" {
		return s.InProgressText
	}
	if s.CompletedText != "" {
		return s.CompletedText
	}
	return "Order is " + lower.String(s.Label) + "."
}

// WithEstimate attaches a delivery estimate, shown only while the order is
// still on its way.
func (v TrackerView) WithEstimate(estimate string) TrackerView {
	v.Estimate = estimate
	v.ShowEstimate = estimate != "" &&
		v.Status != models.StatusDelivered &&
		!v.Status.IsTerminalError()
	return v
}
