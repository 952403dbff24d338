package order

import (
	"context"
	"fmt"
	"time"

	"food-storefront/internal/logger"
	"food-storefront/internal/models"
	"food-storefront/internal/tracking"
)

// OrderPublisher publishes placed orders to the fulfillment side
type OrderPublisher interface {
	PublishOrder(ctx context.Context, orderMsg interface{}, routingKey string) error
}

// Sink assigns order numbers, publishes accepted orders and records their
// initial PENDING status on the board.
type Sink struct {
	publisher OrderPublisher
	board     tracking.Board
	logger    *logger.Logger
	now       func() time.Time
}

// NewSink creates a sink that numbers orders from the board's daily sequence
func NewSink(publisher OrderPublisher, board tracking.Board, log *logger.Logger) *Sink {
	return &Sink{
		publisher: publisher,
		board:     board,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit publishes req under a fresh order number and returns the number
func (s *Sink) Submit(ctx context.Context, req *models.OrderRequest) (string, error) {
	requestID := logger.GenerateRequestID()
	orderNumber, err := s.nextOrderNumber(ctx)
	if err != nil {
		s.logger.Error("order_number_failed", "Failed to assign order number", requestID, err, nil)
		return "", fmt.Errorf("failed to submit order: %w", err)
	}

	msg := models.CreateOrderPlacedMessage(req, orderNumber)
	routingKey := models.GenerateRoutingKey(req.PaymentMethod)
	if err := s.publisher.PublishOrder(ctx, msg, routingKey); err != nil {
		s.logger.Error("order_publish_failed", "Failed to publish placed order", requestID, err, map[string]interface{}{
			"order_number": orderNumber,
		})
		return "", fmt.Errorf("failed to submit order: %w", err)
	}

	if err := s.board.Set(ctx, orderNumber, models.StatusPending); err != nil {
		// The order is already on its way; tracking catches up with the
		// first external status update.
		s.logger.Warn("status_record_failed", "Failed to record initial order status", requestID, map[string]interface{}{
			"order_number": orderNumber,
			"error":        err.Error(),
		})
	}

	s.logger.Info("order_submitted", "Order published", requestID, map[string]interface{}{
		"order_number":   orderNumber,
		"payment_method": req.PaymentMethod,
		"total_amount":   req.Totals.Total.StringFixed(2),
		"items":          len(req.Lines),
		"routing_key":    routingKey,
	})

	return orderNumber, nil
}

// nextOrderNumber numbers orders per UTC day starting at 001. The counter
// lives on the board so a restarted or second instance continues it.
func (s *Sink) nextOrderNumber(ctx context.Context) (string, error) {
	now := s.now()
	seq, err := s.board.NextOrderSequence(ctx, now.Format("20060102"))
	if err != nil {
		return "", err
	}
	return models.GenerateOrderNumber(now, seq), nil
}
