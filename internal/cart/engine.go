package cart

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

// RemoteStore is the slice of the storefront backend the engine keeps
// itself synchronized with. Implementations live in internal/infra.
type RemoteStore interface {
	AddItem(ctx context.Context, productID uint64, quantity int64) (int64, error)
	UpdateItem(ctx context.Context, productID uint64, quantity int64) (int64, error)
	RemoveItem(ctx context.Context, productID uint64) error
	FetchCart(ctx context.Context) ([]domain.CartItem, error)
}

// Engine owns the session cart: a set of (product, quantity) lines unique
// by product id. All mutation goes through its methods; consumers read
// snapshots and never touch lines directly.
//
// Every mutation is optimistic: the local line is updated first, then the
// remote store is called, and the line is reconciled to the
// server-confirmed quantity on success or rolled back to its prior state
// on failure. Mutations on the same product id are serialized by a
// per-key lock held across the remote call, so two rapid increments can
// never race into a lost update; mutations on distinct ids proceed
// concurrently. A per-key request sequence discards responses that a
// newer request has already superseded.
type Engine struct {
	mu      sync.Mutex
	entries map[uint64]domain.CartItem
	keys    map[uint64]*keyState
	gen     uint64

	remote RemoteStore
	logger *zap.Logger
}

// keyState carries the serialization lock and request sequencing for one
// product id. States are created on first touch and kept for the life of
// the engine so an in-flight call never loses its lock.
type keyState struct {
	mu      sync.Mutex
	seq     uint64
	applied uint64
}

// New builds an engine backed by remote. A nil remote gives a purely
// local cart: mutations skip the synchronization phase entirely.
func New(remote RemoteStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		entries: make(map[uint64]domain.CartItem),
		keys:    make(map[uint64]*keyState),
		remote:  remote,
		logger:  logger,
	}
}

func (e *Engine) stateFor(id uint64) *keyState {
	e.mu.Lock()
	defer e.mu.Unlock()
	ks, ok := e.keys[id]
	if !ok {
		ks = &keyState{}
		e.keys[id] = ks
	}
	return ks
}

// AddItem merges quantity into the existing line for the product, or
// inserts a new line. Rejects quantity < 1 with ErrInvalidQuantity before
// touching any state.
func (e *Engine) AddItem(ctx context.Context, product domain.Product, quantity int64) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	ks := e.stateFor(product.ID)
	ks.mu.Lock()
	defer ks.mu.Unlock()

	e.mu.Lock()
	prev, existed := e.entries[product.ID]
	next := domain.CartItem{Product: product, Quantity: quantity}
	if existed {
		next.Quantity += prev.Quantity
	}
	e.entries[product.ID] = next
	gen := e.gen
	ks.seq++
	seq := ks.seq
	e.mu.Unlock()

	if e.remote == nil {
		return nil
	}

	confirmed, err := e.remote.AddItem(ctx, product.ID, next.Quantity)
	if err != nil {
		e.rollback(product.ID, prev, existed, gen)
		e.logger.Warn("cart add rolled back",
			zap.Uint64("product_id", product.ID),
			zap.Error(err))
		return &domain.RemoteSyncError{Op: "add item", Cause: err}
	}
	e.reconcile(product.ID, ks, seq, gen, confirmed)
	return nil
}

// UpdateQuantity replaces the stored quantity for the product. A
// quantity of zero or less removes the line. Setting the quantity it
// already has is a no-op and issues no remote call. Fails with
// ErrNotFound when the product is not in the cart.
func (e *Engine) UpdateQuantity(ctx context.Context, productID uint64, quantity int64) error {
	if quantity <= 0 {
		return e.RemoveItem(ctx, productID)
	}

	ks := e.stateFor(productID)
	ks.mu.Lock()
	defer ks.mu.Unlock()

	e.mu.Lock()
	prev, existed := e.entries[productID]
	if !existed {
		e.mu.Unlock()
		return domain.ErrNotFound
	}
	if prev.Quantity == quantity {
		e.mu.Unlock()
		return nil
	}
	next := prev
	next.Quantity = quantity
	e.entries[productID] = next
	gen := e.gen
	ks.seq++
	seq := ks.seq
	e.mu.Unlock()

	if e.remote == nil {
		return nil
	}

	confirmed, err := e.remote.UpdateItem(ctx, productID, quantity)
	if err != nil {
		e.rollback(productID, prev, true, gen)
		e.logger.Warn("cart update rolled back",
			zap.Uint64("product_id", productID),
			zap.Error(err))
		return &domain.RemoteSyncError{Op: "update quantity", Cause: err}
	}
	e.reconcile(productID, ks, seq, gen, confirmed)
	return nil
}

// RemoveItem deletes the line for the product. Removing an absent
// product is a no-op, so the call is idempotent.
func (e *Engine) RemoveItem(ctx context.Context, productID uint64) error {
	ks := e.stateFor(productID)
	ks.mu.Lock()
	defer ks.mu.Unlock()

	e.mu.Lock()
	prev, existed := e.entries[productID]
	if !existed {
		e.mu.Unlock()
		return nil
	}
	delete(e.entries, productID)
	gen := e.gen
	ks.seq++
	seq := ks.seq
	e.mu.Unlock()

	if e.remote == nil {
		return nil
	}

	if err := e.remote.RemoveItem(ctx, productID); err != nil {
		e.rollback(productID, prev, true, gen)
		e.logger.Warn("cart remove rolled back",
			zap.Uint64("product_id", productID),
			zap.Error(err))
		return &domain.RemoteSyncError{Op: "remove item", Cause: err}
	}

	e.mu.Lock()
	if gen == e.gen && seq > ks.applied {
		ks.applied = seq
	}
	e.mu.Unlock()
	return nil
}

// Clear empties the cart. Called after a successful checkout, where the
// backend has already consumed the server-side cart; no remote calls are
// made. In-flight mutations from before the clear cannot resurrect
// lines: their generation no longer matches.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.entries = make(map[uint64]domain.CartItem)
	e.gen++
	e.mu.Unlock()
}

// SyncFromRemote replaces the local cart with the server's view. The
// remote store is the source of truth; local state is only an optimistic
// cache of it.
func (e *Engine) SyncFromRemote(ctx context.Context) error {
	if e.remote == nil {
		return nil
	}
	items, err := e.remote.FetchCart(ctx)
	if err != nil {
		return &domain.RemoteSyncError{Op: "fetch cart", Cause: err}
	}

	e.mu.Lock()
	e.entries = make(map[uint64]domain.CartItem, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		e.entries[it.Product.ID] = it
	}
	e.gen++
	e.mu.Unlock()
	return nil
}

// rollback restores the line to its pre-mutation state, unless the cart
// was cleared or resynced in the meantime.
func (e *Engine) rollback(productID uint64, prev domain.CartItem, existed bool, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return
	}
	if existed {
		e.entries[productID] = prev
	} else {
		delete(e.entries, productID)
	}
}

// reconcile applies the server-confirmed quantity, dropping responses
// that are stale by sequence or that straddle a clear/resync.
func (e *Engine) reconcile(productID uint64, ks *keyState, seq, gen uint64, confirmed int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || seq <= ks.applied {
		return
	}
	ks.applied = seq
	if confirmed < 1 {
		delete(e.entries, productID)
		return
	}
	if it, ok := e.entries[productID]; ok {
		it.Quantity = confirmed
		e.entries[productID] = it
	}
}

// Items returns a snapshot of the cart lines, ordered by product id.
func (e *Engine) Items() []domain.CartItem {
	e.mu.Lock()
	out := make([]domain.CartItem, 0, len(e.entries))
	for _, it := range e.entries {
		out = append(out, it)
	}
	e.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Product.ID < out[j].Product.ID
	})
	return out
}

// Quantity returns the stored quantity for the product, zero when absent.
func (e *Engine) Quantity(productID uint64) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.entries[productID].Quantity
}

// Total is the sum of effective price times quantity over all lines.
// Zero for an empty cart.
func (e *Engine) Total() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total int64
	for _, it := range e.entries {
		total += it.Subtotal()
	}
	return total
}

// Count is the sum of all quantities, not the number of lines. Drives
// the cart-icon badge.
func (e *Engine) Count() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var n int64
	for _, it := range e.entries {
		n += it.Quantity
	}
	return n
}
