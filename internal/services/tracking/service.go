package tracking

import (
	"context"
	"time"

	"food-storefront/internal/logger"
	"food-storefront/internal/models"
	"food-storefront/internal/tracking"
)

// Pinger is implemented by boards backed by a remote store
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service provides tracking functionality over the status board
type Service struct {
	board  tracking.Board
	steps  []tracking.Step
	logger *logger.Logger
}

// NewService creates a new tracking service
func NewService(board tracking.Board, log *logger.Logger) *Service {
	return &Service{
		board:  board,
		steps:  tracking.DefaultSteps,
		logger: log,
	}
}

// StatusResponse is the bare current status of an order
type StatusResponse struct {
	OrderNumber string             `json:"order_number"`
	Status      models.OrderStatus `json:"current_status"`
	CheckedAt   time.Time          `json:"checked_at"`
}

// GetOrderStatus retrieves the current status of an order
func (s *Service) GetOrderStatus(ctx context.Context, orderNumber, requestID string) (*StatusResponse, error) {
	status, err := s.board.Current(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("status_lookup", "Order status retrieved", requestID, map[string]interface{}{
		"order_number": orderNumber,
		"status":       status,
	})

	return &StatusResponse{
		OrderNumber: orderNumber,
		Status:      status,
		CheckedAt:   time.Now().UTC(),
	}, nil
}

// GetTracker derives the tracker view for an order's current status
func (s *Service) GetTracker(ctx context.Context, orderNumber, estimate, requestID string) (*tracking.TrackerView, error) {
	resp, err := s.GetOrderStatus(ctx, orderNumber, requestID)
	if err != nil {
		return nil, err
	}

	view := tracking.DeriveTrackerView(resp.Status, s.steps).WithEstimate(estimate)
	view.OrderID = orderNumber
	return &view, nil
}

// HealthCheck pings the board when it has a remote backend
func (s *Service) HealthCheck(ctx context.Context) bool {
	p, ok := s.board.(Pinger)
	if !ok {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Status board unreachable", "", err, nil)
		return false
	}
	return true
}
