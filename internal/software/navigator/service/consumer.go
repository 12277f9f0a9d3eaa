package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"city-guide/internal/domain/geo"
	"city-guide/internal/general/contracts"
	"city-guide/internal/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RunBackgroundConsumers starts the queue consumers that feed position
// updates and route commands into the service.
func (service *navigationService) RunBackgroundConsumers(ctx context.Context) {
	service.startPositionConsumer(ctx)
	service.startCommandConsumer(ctx)
}

// startPositionConsumer consumes GPS fixes from the position queue.
func (service *navigationService) startPositionConsumer(ctx context.Context) {
	go func() {
		consumeCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		err := service.rabbitmq.Consume(
			consumeCtx,
			contracts.QueuePositionUpdates,
			"navigator-positions",
			20, // prefetch count
			func(hCtx context.Context, d amqp.Delivery) error {
				var msg contracts.PositionUpdateMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					service.logger.Error(ctx, "position_decode_failed",
						"Failed to decode position update message", err,
						map[string]any{"size": len(d.Body)})
					return fmt.Errorf("decode: %w", err)
				}
				if msg.UserID == "" {
					return nil
				}

				hCtx = service.logger.WithRequestID(hCtx, msg.CorrelationID)
				_, err := service.OnPositionUpdate(hCtx, ports.PositionUpdateInput{
					UserID:   msg.UserID,
					Position: geo.Position{Lat: msg.Position.Lat, Lon: msg.Position.Lng},
				})
				return err
			},
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			service.logger.Error(ctx, "position_consume_failed",
				"Failed to consume position updates", err,
				map[string]any{"queue": contracts.QueuePositionUpdates})
		}
	}()
}

// startCommandConsumer consumes go/cancel route commands.
func (service *navigationService) startCommandConsumer(ctx context.Context) {
	go func() {
		consumeCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		err := service.rabbitmq.Consume(
			consumeCtx,
			contracts.QueueRouteCommands,
			"navigator-commands",
			10, // prefetch count
			func(hCtx context.Context, d amqp.Delivery) error {
				var msg contracts.RouteCommandMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					service.logger.Error(ctx, "route_command_decode_failed",
						"Failed to decode route command message", err,
						map[string]any{"size": len(d.Body)})
					return fmt.Errorf("decode: %w", err)
				}
				if msg.UserID == "" {
					return nil
				}

				hCtx = service.logger.WithRequestID(hCtx, msg.CorrelationID)
				switch msg.Command {
				case contracts.CommandGo:
					_, err := service.CreateRoute(hCtx, ports.CreateRouteInput{
						UserID:      msg.UserID,
						Destination: msg.Destination,
					})
					if err != nil {
						// user-level planning failures are logged, not
						// requeued; retrying cannot fix a bad destination
						service.logger.Error(ctx, "route_command_failed",
							"Failed to execute route command", err,
							map[string]any{"user_id": msg.UserID})
					}
					return nil
				case contracts.CommandCancel:
					_, err := service.CancelRoute(hCtx, msg.UserID)
					return err
				default:
					// unknown command - ack & ignore to avoid poison loops
					return nil
				}
			},
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			service.logger.Error(ctx, "route_command_consume_failed",
				"Failed to consume route commands", err,
				map[string]any{"queue": contracts.QueueRouteCommands})
		}
	}()
}
