// Package domain defines the core types shared by the market-making bot:
// sides, assets, snapshots, resting orders, reporting events, and the
// interfaces implemented by external collaborators (snapshot sources,
// reporting sinks).
package domain

// Side indicates which side of the book a resting order sits on.
type Side string

const (
	// SideBid is a resting order to buy base asset using quote asset.
	SideBid Side = "bid"
	// SideAsk is a resting order to sell base asset for quote asset.
	SideAsk Side = "ask"
)

// Asset names one of the two balances the ledger tracks.
type Asset string

const (
	// AssetQuote is the quote currency (e.g. USDT). Bid orders are sized in it.
	AssetQuote Asset = "quote"
	// AssetBase is the traded asset (e.g. ETH). Ask orders are sized in it.
	AssetBase Asset = "base"
)

// Fixed decimal precision per asset. Quote amounts and all order prices are
// kept to 2 decimals, base amounts to 5.
const (
	QuotePrecision = 2
	BasePrecision  = 5
)

// Asset returns the asset a given side's orders are sized in.
func (s Side) Asset() Asset {
	if s == SideBid {
		return AssetQuote
	}
	return AssetBase
}

// Precision returns the fixed decimal precision for amounts of this asset.
func (a Asset) Precision() int {
	if a == AssetQuote {
		return QuotePrecision
	}
	return BasePrecision
}
