package models

import "github.com/shopspring/decimal"

// MemoMaxRunes bounds the length of a favorite's memo.
const MemoMaxRunes = 2000

type Favorite struct {
	ID           int64  `json:"id"`
	StockCode    string `json:"stockCode"`
	CorpCode     string `json:"corpCode,omitempty"`
	CompanyName  string `json:"companyName"`
	StockName    string `json:"stockName,omitempty"`
	RegisteredAt string `json:"registeredAt,omitempty"`
}

type Memo struct {
	Content   string `json:"content"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Quote is the latest daily price of a listed stock.
type Quote struct {
	CurrentPrice  int64
	PriceChange   int64
	ChangeRate    decimal.Decimal
	PreviousClose int64
	BaseDate      string
}

// Watched pairs a favorite with its quote. Available is false when the
// quote lookup failed; Quote is then the zero value.
type Watched struct {
	Favorite  Favorite
	Quote     Quote
	Available bool
}
