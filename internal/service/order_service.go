package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/grocerlink/payment-service/internal/domain"
	"github.com/grocerlink/payment-service/internal/dto"
	paymentgateway "github.com/grocerlink/payment-service/internal/infrastructure/payment-gateway"
	"github.com/grocerlink/payment-service/internal/repository"
	pkgdto "github.com/grocerlink/payment-service/pkg/dto"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/segmentio/kafka-go"
)

const manualReviewDeadline = 72 * time.Hour

type eventPublisher interface {
	WriteMessages(msgs ...kafka.Message) (int, error)
}

type OrderServiceImpl struct {
	repository repository.OrderRepository
	gateway    paymentgateway.Gateway
	producer   eventPublisher
}

func CreateOrderService(repository repository.OrderRepository, gateway paymentgateway.Gateway, producer eventPublisher) OrderService {
	return &OrderServiceImpl{
		repository: repository,
		gateway:    gateway,
		producer:   producer,
	}
}

func (s *OrderServiceImpl) FinalizeOrder(ctx context.Context, req dto.FinalizeOrderRequest) (resp dto.OrderResponse, created bool, err error) {
	if req.PaymentReference == "" {
		return resp, false, errs.ErrClient
	}

	var status string
	switch req.Method {
	case dto.PaymentMethodCard:
		status = domain.OrderStatusConfirmed
	case dto.PaymentMethodInterac:
		status = domain.OrderStatusPendingVerification
	default:
		return resp, false, errs.ErrInvalidPaymentMethod
	}

	// The caller's breakdown is authoritative for the split, but it must
	// conserve the total exactly. Violations are permanent rejections.
	if req.Breakdown.Sum() != req.OrderDraft.TotalAmount {
		log.Error().Str("component", "FinalizeOrder").
			Str("payment_reference", req.PaymentReference).
			Int64("breakdown_sum", req.Breakdown.Sum()).
			Int64("total_amount", req.OrderDraft.TotalAmount).
			Msg("breakdown does not sum to order total")
		return resp, false, errs.ErrInvalidBreakdown
	}

	if req.Method == dto.PaymentMethodCard {
		hold, err := s.gateway.RetrieveHold(ctx, req.PaymentReference)
		if err != nil {
			return resp, false, err
		}

		if hold.Status != paymentgateway.HoldStatusSucceeded {
			return resp, false, errs.ErrPaymentNotConfirmed
		}

		if hold.Amount != req.OrderDraft.TotalAmount {
			log.Error().Str("component", "FinalizeOrder").
				Str("payment_reference", req.PaymentReference).
				Int64("hold_amount", hold.Amount).
				Int64("total_amount", req.OrderDraft.TotalAmount).
				Msg("hold amount does not match order total")
			return resp, false, errs.ErrPaymentNotConfirmed
		}
	}

	existing, err := s.repository.GetOrderByPaymentReference(ctx, req.PaymentReference)
	if err != nil {
		return resp, false, err
	}
	if existing.ID != 0 {
		return orderResponse(existing), false, nil
	}

	now := time.Now().Unix()
	order := domain.Order{
		CustomerID:       req.OrderDraft.CustomerID,
		MerchantID:       req.OrderDraft.MerchantID,
		Items:            req.OrderDraft.ItemsJSON(),
		Subtotal:         req.OrderDraft.Subtotal,
		DeliveryFee:      req.OrderDraft.DeliveryFee,
		TotalAmount:      req.OrderDraft.TotalAmount,
		PaymentMethod:    req.Method,
		PaymentReference: req.PaymentReference,
		Status:           status,
		MerchantAmount:   req.Breakdown.MerchantAmount,
		DriverAmount:     req.Breakdown.DriverAmount,
		PlatformAmount:   req.Breakdown.PlatformAmount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.OrderDraft.DriverID != "" {
		driverID := req.OrderDraft.DriverID
		order.DriverID = &driverID
	}

	err = s.repository.HandleTrx(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
		orderID, err := repo.AddOrder(ctx, order)
		if err != nil {
			return err
		}
		order.ID = orderID

		if order.DriverID != nil {
			return repo.AddCommissionEntry(ctx, domain.CommissionEntry{
				OrderID:   orderID,
				DriverID:  *order.DriverID,
				Amount:    req.Breakdown.DriverAmount,
				Status:    domain.CommissionStatusPending,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		return nil
	})
	if err != nil {
		// A concurrent submission with the same reference won the insert;
		// fall back to reading the winner's row instead of erroring.
		if repository.IsUniqueViolation(err) {
			winner, readErr := s.repository.GetOrderByPaymentReference(ctx, req.PaymentReference)
			if readErr == nil && winner.ID != 0 {
				return orderResponse(winner), false, nil
			}
		}
		return resp, false, err
	}

	s.publishEvent(dto.EventOrderFinalized, dto.OrderFinalizedEvent{
		OrderID:          order.ID,
		PaymentReference: order.PaymentReference,
		PaymentMethod:    order.PaymentMethod,
		Status:           order.Status,
		TotalAmount:      order.TotalAmount,
		MerchantID:       order.MerchantID,
		DriverID:         req.OrderDraft.DriverID,
	}, order.PaymentReference)

	return orderResponse(order), true, nil
}

func (s *OrderServiceImpl) GetOrders(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error) {
	datas, err := s.repository.GetOrders(ctx, filter)
	if err != nil {
		return
	}

	orderResponses := make([]dto.OrderResponse, 0, len(datas))
	for _, data := range datas {
		orderResponses = append(orderResponses, orderResponse(data))
	}

	response.Records = orderResponses
	response.Metadata = pkgdto.Metadata{
		TotalCount: len(orderResponses),
		Page:       filter.Page,
		Limit:      filter.Limit,
	}

	return
}

// SweepStaleManualOrders nudges merchants about transfers that have sat in
// manual review past the deadline. It never mutates order status; review
// stays a downstream concern.
func (s *OrderServiceImpl) SweepStaleManualOrders() {
	log.Info().Str("component", "SweepStaleManualOrders").Msg("cron starts")

	cutoff := time.Now().Add(-manualReviewDeadline).Unix()
	orders, err := s.repository.GetPendingVerificationBefore(context.Background(), cutoff)
	if err != nil {
		return
	}

	for _, order := range orders {
		s.publishEvent(dto.EventManualReviewOverdue, dto.ManualReviewOverdueEvent{
			OrderID:          order.ID,
			PaymentReference: order.PaymentReference,
			MerchantID:       order.MerchantID,
			PendingSince:     order.CreatedAt,
		}, order.PaymentReference)
	}

	log.Info().Str("component", "SweepStaleManualOrders").Msg("cron ends")
}

func (s *OrderServiceImpl) publishEvent(eventType string, data interface{}, key string) {
	kafkaMsg := dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Error().Err(err).Str("component", "publishEvent").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err = s.writeKafkaMessageWithKey(jsonMsg, key)
		if err == nil {
			return
		}
		log.Error().Err(err).Str("component", "publishEvent").Msg("")
		time.Sleep(time.Second * time.Duration(i+1))
	}

	// The order is durable either way; a lost event is an observability gap,
	// not a correctness failure.
	log.Error().Str("component", "publishEvent").Str("event_type", eventType).
		Msg(fmt.Sprintf("failed to write Kafka message after %d attempts", maxRetries))
}

func (s *OrderServiceImpl) writeKafkaMessageWithKey(msg []byte, key string) error {
	_, err := s.producer.WriteMessages(
		kafka.Message{
			Key:   []byte(key),
			Value: msg,
		},
	)
	return err
}

func orderResponse(order domain.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		MerchantID:       order.MerchantID,
		Subtotal:         order.Subtotal,
		DeliveryFee:      order.DeliveryFee,
		TotalAmount:      order.TotalAmount,
		PaymentMethod:    order.PaymentMethod,
		PaymentReference: order.PaymentReference,
		Status:           order.Status,
		Breakdown: dto.Breakdown{
			MerchantAmount: order.MerchantAmount,
			DriverAmount:   order.DriverAmount,
			PlatformAmount: order.PlatformAmount,
		},
		CreatedAt: order.CreatedAt,
	}
	if order.DriverID != nil {
		resp.DriverID = *order.DriverID
	}

	return resp
}
