package notification

import (
	"context"
	"fmt"

	"food-storefront/internal/logger"
	"food-storefront/internal/messaging"
	"food-storefront/internal/models"
	"food-storefront/internal/tracking"
)

// MessageSource delivers raw messages to a handler until ctx is done
type MessageSource interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
}

// Subscriber applies externally produced status updates to the board. It
// never derives a status itself.
type Subscriber struct {
	source MessageSource
	board  tracking.Board
	logger *logger.Logger
}

// NewSubscriber creates a new status subscriber
func NewSubscriber(source MessageSource, board tracking.Board, log *logger.Logger) *Subscriber {
	return &Subscriber{
		source: source,
		board:  board,
		logger: log,
	}
}

// Start consumes until ctx is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Status subscriber started", requestID, nil)

	err := s.source.StartConsuming(ctx, s.handleNotification)
	if ctx.Err() != nil {
		s.logger.Info("graceful_shutdown", "Status subscriber stopped", requestID, nil)
		return nil
	}
	if err != nil {
		s.logger.Error("consumer_failed", "Status consumer failed", requestID, err, nil)
		return err
	}
	return nil
}

func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var update models.StatusUpdateMessage
	if err := messaging.ParseMessage(body, &update); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse status update", requestID, err, nil)
		return fmt.Errorf("failed to parse status update: %w", err)
	}

	if update.OrderNumber == "" {
		return fmt.Errorf("%w: status update without order number", messaging.ErrPermanent)
	}

	status, err := models.ParseOrderStatus(update.NewStatus)
	if err != nil {
		s.logger.Warn("status_rejected", "Rejected status update with unknown status", requestID, map[string]interface{}{
			"order_number": update.OrderNumber,
			"new_status":   update.NewStatus,
		})
		return fmt.Errorf("%w: %v", messaging.ErrPermanent, err)
	}

	if err := s.board.Set(ctx, update.OrderNumber, status); err != nil {
		return fmt.Errorf("failed to record status: %w", err)
	}

	s.logger.Info("status_updated", "Order status updated", requestID, map[string]interface{}{
		"order_number": update.OrderNumber,
		"old_status":   update.OldStatus,
		"new_status":   status,
		"changed_by":   update.ChangedBy,
	})
	return nil
}
