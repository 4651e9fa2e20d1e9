package cart

import (
	"context"

	cartledger "marketfront/internal/cart"
	"marketfront/internal/domain"
)

// LedgerMirror adapts the Service to the ledger's Mirror interface so an
// authenticated actor's local adds land in server-side storage too.
type LedgerMirror struct {
	svc *Service
}

func NewLedgerMirror(svc *Service) *LedgerMirror {
	return &LedgerMirror{svc: svc}
}

func (m *LedgerMirror) Add(ctx context.Context, actor domain.Actor, line cartledger.Line) error {
	return m.svc.Add(ctx, actor.ID, AddInput{
		ProductID:    line.ProductID,
		VariantID:    line.VariantID,
		PurchaseType: line.PurchaseType,
		Quantity:     line.Quantity,
	})
}
