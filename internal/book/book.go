package book

import "github.com/quantsim/makerbot/internal/domain"

// Book is the ordered collection of currently-open simulated orders, one
// slice per side, with a running total. The total always equals the sum of
// the two slice lengths. Not safe for concurrent use; the engine serializes
// access.
type Book struct {
	bids  []domain.RestingOrder
	asks  []domain.RestingOrder
	total int
}

// New creates an empty Book.
func New() *Book {
	return &Book{}
}

func (b *Book) side(s domain.Side) *[]domain.RestingOrder {
	if s == domain.SideBid {
		return &b.bids
	}
	return &b.asks
}

// Append adds an order to the end of its side's list.
func (b *Book) Append(o domain.RestingOrder) {
	orders := b.side(o.Side)
	*orders = append(*orders, o)
	b.total++
}

// Len returns the number of open orders on one side.
func (b *Book) Len(s domain.Side) int {
	return len(*b.side(s))
}

// At returns the order at index i on the given side.
func (b *Book) At(s domain.Side, i int) domain.RestingOrder {
	return (*b.side(s))[i]
}

// RemoveAt deletes the order at index i on the given side, preserving the
// order of the remaining entries. Scanning a side from the last index down
// while calling RemoveAt is safe.
func (b *Book) RemoveAt(s domain.Side, i int) {
	orders := b.side(s)
	*orders = append((*orders)[:i], (*orders)[i+1:]...)
	b.total--
}

// Total returns the number of open orders across both sides.
func (b *Book) Total() int {
	return b.total
}

// Orders returns copies of both side lists, for reporting.
func (b *Book) Orders() (bids, asks []domain.RestingOrder) {
	bids = make([]domain.RestingOrder, len(b.bids))
	copy(bids, b.bids)
	asks = make([]domain.RestingOrder, len(b.asks))
	copy(asks, b.asks)
	return bids, asks
}
