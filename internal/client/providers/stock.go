package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
)

const (
	stockProvider = "stock"

	// DefaultStockURL is the public securities-price endpoint.
	DefaultStockURL = "https://apis.data.go.kr/1160100/service/GetStockSecuritiesInfoService/getStockPriceInfo"

	// QuoteWindowDays is how far back Latest looks for a trading day.
	QuoteWindowDays = 30

	stockResultOK = "00"
)

// StockPrice is one trading day of a listed stock.
type StockPrice struct {
	BaseDate   string `json:"basDt"`
	ShortCode  string `json:"srtnCd"`
	ISIN       string `json:"isinCd"`
	Name       string `json:"itmsNm"`
	Market     string `json:"mrktCtg"`
	Close      string `json:"clpr"`
	Change     string `json:"vs"`
	ChangeRate string `json:"fltRt"`
	Open       string `json:"mkp"`
	High       string `json:"hipr"`
	Low        string `json:"lopr"`
	Volume     string `json:"trqu"`
}

type stockEnvelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			TotalCount int        `json:"totalCount"`
			Items      stockItems `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// stockItems is the "items" wrapper, which the provider sends as "" when a
// query matched nothing.
type stockItems struct {
	Item OneOrMany[StockPrice] `json:"item"`
}

func (s *stockItems) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		*s = stockItems{}
		return nil
	}
	type plain stockItems
	return json.Unmarshal(b, (*plain)(s))
}

// StockClient fetches daily prices for listed stocks.
type StockClient struct {
	url    string
	apiKey string
	http   *http.Client
	clock  timex.Clock
	log    logging.Logger
}

// NewStockClient builds a client. A nil clock means time.Now.
func NewStockClient(cfg Config, clock timex.Clock) (*StockClient, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultStockURL
	}
	if err := cfg.validate(stockProvider); err != nil {
		return nil, err
	}
	return &StockClient{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		http:   cfg.client(),
		clock:  clock,
		log:    cfg.logger(stockProvider),
	}, nil
}

// Prices returns up to rows daily prices for code between begin and end,
// newest first as the provider orders them.
func (c *StockClient) Prices(ctx context.Context, code string, begin, end time.Time, rows int) ([]StockPrice, error) {
	q := url.Values{}
	q.Set("serviceKey", c.apiKey)
	q.Set("numOfRows", strconv.Itoa(rows))
	q.Set("pageNo", "1")
	q.Set("resultType", "json")
	q.Set("likeSrtnCd", code)
	q.Set("beginBasDt", timex.FormatDate(begin))
	q.Set("endBasDt", timex.FormatDate(end))

	var env stockEnvelope
	if err := getJSON(ctx, c.http, c.log, stockProvider, c.url, q, &env); err != nil {
		return nil, err
	}

	h := env.Response.Header
	if h.ResultCode != "" && h.ResultCode != stockResultOK {
		return nil, &StatusError{Provider: stockProvider, StatusCode: http.StatusOK, Code: h.ResultCode, Message: h.ResultMsg}
	}
	return env.Response.Body.Items.Item, nil
}

// Latest returns the most recent quote for code within the last
// QuoteWindowDays. No trading day in the window is common.ErrNotFound.
func (c *StockClient) Latest(ctx context.Context, code string) (models.Quote, error) {
	end := timex.Day(c.clock.Now())
	begin := timex.AddDays(end, -QuoteWindowDays)

	prices, err := c.Prices(ctx, code, begin, end, QuoteWindowDays)
	if err != nil {
		return models.Quote{}, err
	}
	if len(prices) == 0 {
		return models.Quote{}, fmt.Errorf("%w: no prices for %s", common.ErrNotFound, code)
	}
	return prices[0].Quote()
}

// Quote converts a price row. previousClose is derived as close minus
// change.
func (p StockPrice) Quote() (models.Quote, error) {
	closePrice, err := ParseAmount(p.Close)
	if err != nil {
		return models.Quote{}, fmt.Errorf("clpr: %w", err)
	}
	change, err := parseOptional(p.Change)
	if err != nil {
		return models.Quote{}, fmt.Errorf("vs: %w", err)
	}
	rate, err := parseOptional(p.ChangeRate)
	if err != nil {
		return models.Quote{}, fmt.Errorf("fltRt: %w", err)
	}

	return models.Quote{
		CurrentPrice:  closePrice.IntPart(),
		PriceChange:   change.IntPart(),
		ChangeRate:    rate,
		PreviousClose: closePrice.Sub(change).IntPart(),
		BaseDate:      p.BaseDate,
	}, nil
}
