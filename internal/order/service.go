package order

import (
	"context"
	"errors"
	"regexp"
	"time"

	"storefront-be/internal/apperr"
	"storefront-be/internal/catalog"
	"storefront-be/internal/events"
	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var phoneRe = regexp.MustCompile(`^\d{11}$`)

type Service interface {
	// PlaceOrder validates the request, reserves stock for every cart item
	// atomically, and records the order. On any failure nothing is
	// reserved and no order is recorded.
	PlaceOrder(
		ctx context.Context,
		customer Customer,
		items []CartItem,
		deliveryCharge float64,
		totalPrice float64,
	) (*Confirmation, error)
}

type service struct {
	repo      Repository
	cache     catalog.Cache    // nil when no cache is configured
	publisher events.Publisher // nil when events are disabled
}

func NewService(repo Repository, cache catalog.Cache, publisher events.Publisher) Service {
	return &service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

func (s *service) PlaceOrder(
	ctx context.Context,
	customer Customer,
	items []CartItem,
	deliveryCharge float64,
	totalPrice float64,
) (*Confirmation, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Int("item_count", len(items)),
	)

	// Structural validation happens before any store access; a malformed
	// request never touches inventory.
	if err := validateRequest(customer, items); err != nil {
		log.Warn("order request rejected", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	o := &Order{
		ID:             uuid.New(),
		Customer:       customer,
		Items:          items,
		DeliveryCharge: deliveryCharge,
		TotalPrice:     totalPrice,
		OrderDate:      now.Format("2006-01-02"),
		OrderTime:      now.Format("15:04:05"),
		Status:         StatusPending,
		CreatedAt:      now,
	}

	if err := s.repo.PlaceOrderTx(ctx, o); err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		log.Error("order placement failed", zap.Error(err))
		return nil, apperr.Store("failed to place order", err)
	}

	log.Info("order placed",
		zap.String("order_id", o.ID.String()),
		zap.Float64("total_price", o.TotalPrice),
	)

	s.afterCommit(ctx, o)

	return &Confirmation{
		Message:     "Order placed successfully",
		OrderNumber: o.ID.String(),
		OrderDate:   o.OrderDate,
		OrderTime:   o.OrderTime,
	}, nil
}

// afterCommit runs the best-effort side effects: cached product documents
// carry stale stock once the decrement lands, and downstream consumers want
// to hear about the order. Neither can fail the placement.
func (s *service) afterCommit(ctx context.Context, o *Order) {
	if s.cache != nil {
		seen := make(map[string]struct{}, len(o.Items))
		for _, item := range o.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			s.cache.InvalidateProduct(ctx, item.ProductID)
		}
	}

	if s.publisher != nil {
		payload := events.OrderPlacedPayload{
			OrderID:        o.ID.String(),
			DeliveryCharge: o.DeliveryCharge,
			TotalPrice:     o.TotalPrice,
		}
		for _, item := range o.Items {
			payload.Items = append(payload.Items, events.ItemQty{
				ProductID: item.ProductID,
				Size:      item.Size,
				Qty:       item.Quantity,
			})
		}
		s.publisher.PublishOrderPlaced(ctx, payload)
	}
}

func validateRequest(customer Customer, items []CartItem) error {
	if customer.Name == "" {
		return apperr.Validation("customer name is required")
	}
	if customer.Address == "" {
		return apperr.Validation("customer address is required")
	}
	if !phoneRe.MatchString(customer.Phone) {
		return apperr.Validation("phone must be exactly 11 digits")
	}
	if len(items) == 0 {
		return apperr.Validation("cart is empty")
	}

	for _, item := range items {
		if !catalog.IsValidID(item.ProductID) {
			return apperr.Validation("invalid product id")
		}
		if item.Size == "" {
			return apperr.Validation("selected size is required")
		}
		if item.Quantity <= 0 {
			return apperr.Validation("quantity must be greater than zero")
		}
	}
	return nil
}
