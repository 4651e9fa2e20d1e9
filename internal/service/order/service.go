// Package order applies the fulfillment state machine to orders and vendor
// orders and exposes the buyer-facing tracking timeline.
package order

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"marketfront/internal/domain"
	orderrepo "marketfront/internal/repository/order"
)

type Service struct {
	repo   orderrepo.Repository
	logger *log.Logger
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// StatusUpdate carries the operational detail accompanying a transition.
type StatusUpdate struct {
	NewStatus      domain.OrderStatus `json:"newStatus"`
	TrackingNumber string             `json:"trackingNumber,omitempty"`
	Carrier        string             `json:"carrier,omitempty"`
	Description    string             `json:"description,omitempty"`
	Location       string             `json:"location,omitempty"`
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListVendorOrders(ctx context.Context, vendorID string) ([]domain.VendorOrder, error) {
	return s.repo.ListVendorOrdersByVendor(ctx, vendorID)
}

// UpdateStatus advances the platform order. An update not present in the
// transition table is rejected with domain.ErrIllegalTransition and leaves
// every row untouched.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, update StatusUpdate) error {
	if !domain.ValidStatus(update.NewStatus) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrIllegalTransition, update.NewStatus)
	}
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !domain.CanTransition(current.Status, update.NewStatus) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, current.Status, update.NewStatus)
	}
	if err := s.repo.UpdateStatus(ctx, orderID, current.Status, update.NewStatus, trackingEvent(update)); err != nil {
		return err
	}
	s.logger.Printf("order svc: order=%s %s -> %s", orderID, current.Status, update.NewStatus)
	return nil
}

// UpdateVendorStatus advances one vendor's sub-order under the same table,
// independently of the platform order's status.
func (s *Service) UpdateVendorStatus(ctx context.Context, vendorOrderID string, update StatusUpdate) error {
	if !domain.ValidStatus(update.NewStatus) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrIllegalTransition, update.NewStatus)
	}
	current, err := s.repo.GetVendorOrder(ctx, vendorOrderID)
	if err != nil {
		return err
	}
	if !domain.CanTransition(current.Status, update.NewStatus) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, current.Status, update.NewStatus)
	}
	if err := s.repo.UpdateVendorStatus(ctx, vendorOrderID, current.Status, update.NewStatus, trackingEvent(update)); err != nil {
		return err
	}
	s.logger.Printf("order svc: vendor order=%s %s -> %s", vendorOrderID, current.Status, update.NewStatus)
	return nil
}

// MarkPaid moves the payment machine PENDING -> PAID.
func (s *Service) MarkPaid(ctx context.Context, orderID string) error {
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !domain.CanTransitionPayment(current.PaymentStatus, domain.PaymentPaid) {
		return fmt.Errorf("%w: payment %s -> %s", domain.ErrIllegalTransition, current.PaymentStatus, domain.PaymentPaid)
	}
	return s.repo.SetPaymentStatus(ctx, orderID, current.PaymentStatus, domain.PaymentPaid)
}

// Refund is the only path into REFUNDED: it requires a delivered, paid
// order and moves the payment machine and the order status together.
func (s *Service) Refund(ctx context.Context, orderID string, partial bool, description string) error {
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	target := domain.PaymentRefunded
	if partial {
		target = domain.PaymentPartiallyRefunded
	}
	if current.Status != domain.OrderDelivered || !domain.CanTransitionPayment(current.PaymentStatus, target) {
		return fmt.Errorf("%w: refund requires a delivered, paid order", domain.ErrIllegalTransition)
	}
	event := domain.TrackingEvent{
		Status:      string(domain.OrderRefunded),
		Description: description,
		OccurredAt:  time.Now().UTC(),
	}
	return s.repo.Refund(ctx, orderID, target, event)
}

// Tracking returns the order's event ledger sorted ascending by occurrence
// time, independent of insertion order.
func (s *Service) Tracking(ctx context.Context, orderID string) ([]domain.TrackingEvent, error) {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListTracking(ctx, orderID)
}

func trackingEvent(update StatusUpdate) domain.TrackingEvent {
	return domain.TrackingEvent{
		Status:         string(update.NewStatus),
		Description:    update.Description,
		Location:       update.Location,
		Carrier:        update.Carrier,
		TrackingNumber: update.TrackingNumber,
		OccurredAt:     time.Now().UTC(),
	}
}
