package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
)

const (
	exchangeProvider = "exchange"

	// DefaultExchangeURL is the public currency-rate endpoint.
	DefaultExchangeURL = "https://oapi.koreaexim.go.kr/site/program/financial/exchangeJSON"

	exchangeDataCode = "AP01"
)

// Provider result codes carried on every record. Anything other than
// exchangeResultOK is a whole-request failure.
const (
	exchangeResultOK         = 1
	exchangeResultDataCode   = 2
	exchangeResultAuthCode   = 3
	exchangeResultDailyQuota = 4
)

// exchangeRecord is one element of the provider's array response. Amounts
// arrive as comma-formatted strings.
type exchangeRecord struct {
	Result   *int   `json:"result"`
	CurUnit  string `json:"cur_unit"`
	CurName  string `json:"cur_nm"`
	TTB      string `json:"ttb"`
	TTS      string `json:"tts"`
	DealBasR string `json:"deal_bas_r"`
}

// ExchangeClient fetches daily currency-rate snapshots.
type ExchangeClient struct {
	url    string
	apiKey string
	http   *http.Client
	log    logging.Logger
}

func NewExchangeClient(cfg Config) (*ExchangeClient, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultExchangeURL
	}
	if err := cfg.validate(exchangeProvider); err != nil {
		return nil, err
	}
	return &ExchangeClient{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		http:   cfg.client(),
		log:    cfg.logger(exchangeProvider),
	}, nil
}

// Rates returns every currency quoted on date. A non-business day yields an
// empty snapshot and no error.
func (c *ExchangeClient) Rates(ctx context.Context, date time.Time) (models.RateSnapshot, error) {
	day := timex.Day(date)
	q := url.Values{}
	q.Set("authkey", c.apiKey)
	q.Set("searchdate", timex.FormatDate(day))
	q.Set("data", exchangeDataCode)

	var records []exchangeRecord
	if err := getJSON(ctx, c.http, c.log, exchangeProvider, c.url, q, &records); err != nil {
		return models.RateSnapshot{}, err
	}

	snap := models.RateSnapshot{Date: day}
	for _, r := range records {
		if r.Result != nil && *r.Result != exchangeResultOK {
			return models.RateSnapshot{}, resultError(*r.Result)
		}
		if r.CurUnit == "" {
			continue
		}

		rate, err := r.toRate()
		if err != nil {
			c.log.Warn(ctx, "dropping unparseable rate", "date", timex.FormatDate(day), "currency", r.CurUnit, "err", err)
			continue
		}
		snap.Rates = append(snap.Rates, rate)
	}

	c.log.Debug(ctx, "rates fetched", "date", timex.FormatDate(day), "count", len(snap.Rates))
	return snap, nil
}

func (r exchangeRecord) toRate() (models.Rate, error) {
	base, err := ParseAmount(r.DealBasR)
	if err != nil {
		return models.Rate{}, fmt.Errorf("deal_bas_r: %w", err)
	}
	buy, err := parseOptional(r.TTB)
	if err != nil {
		return models.Rate{}, fmt.Errorf("ttb: %w", err)
	}
	sell, err := parseOptional(r.TTS)
	if err != nil {
		return models.Rate{}, fmt.Errorf("tts: %w", err)
	}
	return models.Rate{
		CurrencyCode: r.CurUnit,
		CurrencyName: r.CurName,
		BaseRate:     base,
		BuyRate:      buy,
		SellRate:     sell,
	}, nil
}

func resultError(code int) error {
	e := &StatusError{Provider: exchangeProvider, StatusCode: http.StatusOK, Code: strconv.Itoa(code)}
	switch code {
	case exchangeResultDataCode:
		e.Message = "invalid data code"
	case exchangeResultAuthCode:
		e.StatusCode = http.StatusUnauthorized
		e.Message = "invalid auth key"
	case exchangeResultDailyQuota:
		e.StatusCode = http.StatusTooManyRequests
		e.Message = "daily request quota exhausted"
	default:
		e.Message = "unknown result code"
	}
	return e
}
