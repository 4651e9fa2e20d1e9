// Package cart implements the client-held cart ledger: an explicit state
// container that owns line identity, merge-on-add, quantity mutation, and
// derived totals. The ledger is authoritative until checkout; for
// authenticated actors every add is additionally mirrored to server-side
// storage on a best-effort basis.
package cart

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"marketfront/internal/domain"
)

// Line is one buyable unit in the ledger. Price and display fields are
// snapshots taken at add time, used for display only.
type Line struct {
	ProductID      string              `json:"productId"`
	VariantID      string              `json:"variantId,omitempty"`
	PurchaseType   domain.PurchaseType `json:"purchaseType"`
	ProductName    string              `json:"productName"`
	ImageURL       string              `json:"imageUrl,omitempty"`
	VendorName     string              `json:"vendorName,omitempty"`
	UnitPriceCents int64               `json:"unitPriceCents"`
	Currency       string              `json:"currency"`
	Quantity       int                 `json:"quantity"`
}

// Key returns the line's merge key.
func (l Line) Key() domain.LineKey {
	return domain.NewLineKey(l.ProductID, l.VariantID, l.PurchaseType)
}

// Mirror pushes ledger mutations for an authenticated actor into
// server-side cart storage. Implementations are called best-effort: a
// mirror failure never blocks or rolls back the local mutation.
type Mirror interface {
	Add(ctx context.Context, actor domain.Actor, line Line) error
}

// Ledger accumulates cart lines. It is not safe for concurrent use; each
// client session owns one ledger.
type Ledger struct {
	lines  []Line
	open   bool
	mirror Mirror
	logger *log.Logger
}

// New returns an empty ledger. mirror may be nil for guest-only use.
func New(mirror Mirror, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Ledger{mirror: mirror, logger: logger}
}

// AddLine merges the candidate into the ledger. An existing line with the
// same key absorbs the candidate's quantity and keeps its own display
// metadata; otherwise the candidate is inserted, quantity defaulted to 1.
// Adding marks the cart open. Authenticated adds are mirrored server-side.
func (g *Ledger) AddLine(ctx context.Context, actor domain.Actor, candidate Line) {
	if candidate.Quantity <= 0 {
		candidate.Quantity = 1
	}
	candidate.PurchaseType = candidate.Key().PurchaseType
	g.open = true

	if i := g.indexOf(candidate.Key()); i >= 0 {
		g.lines[i].Quantity += candidate.Quantity
	} else {
		g.lines = append(g.lines, candidate)
	}

	if actor.Authenticated() && g.mirror != nil {
		if err := g.mirror.Add(ctx, actor, candidate); err != nil {
			g.logger.Printf("cart ledger: mirror add user=%s product=%s err=%v", actor.ID, candidate.ProductID, err)
		}
	}
}

// Increment adds one to the line's quantity. Unknown keys are ignored.
func (g *Ledger) Increment(key domain.LineKey) {
	if i := g.indexOf(key); i >= 0 {
		g.lines[i].Quantity++
	}
}

// Decrement removes one from the line's quantity; a line that would drop
// to zero is removed instead.
func (g *Ledger) Decrement(key domain.LineKey) {
	i := g.indexOf(key)
	if i < 0 {
		return
	}
	if g.lines[i].Quantity <= 1 {
		g.remove(i)
		return
	}
	g.lines[i].Quantity--
}

// SetQuantity sets the line's quantity exactly; n <= 0 removes the line.
func (g *Ledger) SetQuantity(key domain.LineKey, n int) {
	i := g.indexOf(key)
	if i < 0 {
		return
	}
	if n <= 0 {
		g.remove(i)
		return
	}
	g.lines[i].Quantity = n
}

// RemoveLine deletes the line with the given key, if present.
func (g *Ledger) RemoveLine(key domain.LineKey) {
	if i := g.indexOf(key); i >= 0 {
		g.remove(i)
	}
}

// Clear drops every line. Called by the client after a confirmed checkout.
func (g *Ledger) Clear() {
	g.lines = nil
}

// Lines returns a copy of the current lines in insertion order.
func (g *Ledger) Lines() []Line {
	out := make([]Line, len(g.lines))
	copy(out, g.lines)
	return out
}

// TotalQuantity is the sum of all line quantities.
func (g *Ledger) TotalQuantity() int {
	total := 0
	for _, l := range g.lines {
		total += l.Quantity
	}
	return total
}

// SubtotalCents sums quantity times the add-time unit price snapshot.
func (g *Ledger) SubtotalCents() int64 {
	var total int64
	for _, l := range g.lines {
		total += l.UnitPriceCents * int64(l.Quantity)
	}
	return total
}

// Open reports the transient UI open flag. It is not persisted.
func (g *Ledger) Open() bool {
	return g.open
}

// SetOpen toggles the transient UI open flag.
func (g *Ledger) SetOpen(open bool) {
	g.open = open
}

// Snapshot serializes the item list for client-side storage. The open flag
// is deliberately excluded.
func (g *Ledger) Snapshot() ([]byte, error) {
	return json.Marshal(g.lines)
}

// Restore replaces the ledger's lines from a previous Snapshot.
func (g *Ledger) Restore(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	kept := lines[:0]
	for _, l := range lines {
		if l.Quantity > 0 {
			l.PurchaseType = l.Key().PurchaseType
			kept = append(kept, l)
		}
	}
	g.lines = kept
	return nil
}

func (g *Ledger) indexOf(key domain.LineKey) int {
	for i, l := range g.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

func (g *Ledger) remove(i int) {
	g.lines = append(g.lines[:i], g.lines[i+1:]...)
}
