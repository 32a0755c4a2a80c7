package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

type fxRecord struct {
	Result   int    `json:"result"`
	CurUnit  string `json:"cur_unit,omitempty"`
	CurName  string `json:"cur_nm,omitempty"`
	TTB      string `json:"ttb,omitempty"`
	TTS      string `json:"tts,omitempty"`
	DealBasR string `json:"deal_bas_r,omitempty"`
}

type currency struct {
	unit string
	name string
	base float64
}

var currencies = []currency{
	{"USD", "US Dollar", 1310},
	{"JPY(100)", "Japanese Yen", 905},
	{"EUR", "Euro", 1425},
	{"CNH", "Yuan Renminbi", 181.5},
	{"GBP", "British Pound", 1660},
}

// dayNumber is a stable per-day index used to vary generated values.
func dayNumber(day time.Time) int {
	y, m, d := day.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func weekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func fxRate(c currency, day time.Time) decimal.Decimal {
	step := dayNumber(day)%13 - 6
	return decimal.NewFromFloat(c.base).Mul(decimal.NewFromInt(int64(1000 + step))).Div(decimal.NewFromInt(1000)).Round(2)
}

func amount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return humanize.FormatFloat("#,###.##", f)
}

// handleExchange imitates the currency-rate provider: an array of records
// on business days, [] on weekends and a single result record on errors.
func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if s.cfg.ExchangeAPIKey != "" && q.Get("authkey") != s.cfg.ExchangeAPIKey {
		writeRaw(w, []fxRecord{{Result: 3}})
		return
	}
	if q.Get("data") != "AP01" {
		writeRaw(w, []fxRecord{{Result: 2}})
		return
	}

	day, err := timex.ParseDate(q.Get("searchdate"), time.Local)
	if err != nil {
		day = timex.Day(s.clock.Now())
	}
	if weekend(day) || day.After(s.clock.Now()) {
		writeRaw(w, []fxRecord{})
		return
	}

	out := make([]fxRecord, 0, len(currencies))
	for _, c := range currencies {
		base := fxRate(c, day)
		spread := base.Mul(decimal.RequireFromString("0.01")).Round(2)
		out = append(out, fxRecord{
			Result:   1,
			CurUnit:  c.unit,
			CurName:  c.name,
			TTB:      amount(base.Sub(spread)),
			TTS:      amount(base.Add(spread)),
			DealBasR: amount(base),
		})
	}
	writeRaw(w, out)
}

type stockRow struct {
	BasDt   string `json:"basDt"`
	SrtnCd  string `json:"srtnCd"`
	IsinCd  string `json:"isinCd"`
	ItmsNm  string `json:"itmsNm"`
	MrktCtg string `json:"mrktCtg"`
	Clpr    string `json:"clpr"`
	Vs      string `json:"vs"`
	FltRt   string `json:"fltRt"`
	Mkp     string `json:"mkp"`
	Hipr    string `json:"hipr"`
	Lopr    string `json:"lopr"`
	Trqu    string `json:"trqu"`
}

type stockHeader struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
}

type stockBody struct {
	NumOfRows  int `json:"numOfRows"`
	PageNo     int `json:"pageNo"`
	TotalCount int `json:"totalCount"`
	Items      any `json:"items"`
}

type stockResponse struct {
	Response struct {
		Header stockHeader `json:"header"`
		Body   stockBody   `json:"body"`
	} `json:"response"`
}

func closePrice(c company, day time.Time) int64 {
	step := int64(dayNumber(day)%21 - 10)
	return c.basePrice + c.basePrice*step/200
}

func previousTradingDay(day time.Time) time.Time {
	d := timex.AddDays(day, -1)
	for weekend(d) {
		d = timex.AddDays(d, -1)
	}
	return d
}

func priceRow(c company, day time.Time) stockRow {
	cl := closePrice(c, day)
	prev := closePrice(c, previousTradingDay(day))
	vs := cl - prev
	rate := decimal.NewFromInt(vs).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(prev)).Round(2)
	return stockRow{
		BasDt:   timex.FormatDate(day),
		SrtnCd:  c.StockCode,
		IsinCd:  "KR7" + c.StockCode + "003",
		ItmsNm:  c.StockName,
		MrktCtg: c.CorpClsName,
		Clpr:    strconv.FormatInt(cl, 10),
		Vs:      strconv.FormatInt(vs, 10),
		FltRt:   rate.StringFixed(2),
		Mkp:     strconv.FormatInt(prev, 10),
		Hipr:    strconv.FormatInt(max(cl, prev)+c.basePrice/100, 10),
		Lopr:    strconv.FormatInt(min(cl, prev)-c.basePrice/100, 10),
		Trqu:    strconv.FormatInt(1_000_000+int64(dayNumber(day)%97)*10_000, 10),
	}
}

// handleStock imitates the securities-price provider. Matching rows come
// newest first; a single row is sent as a bare object and no rows as an
// empty string, the way the real provider does it.
func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var resp stockResponse
	if s.cfg.StockAPIKey != "" && q.Get("serviceKey") != s.cfg.StockAPIKey {
		resp.Response.Header = stockHeader{ResultCode: "30", ResultMsg: "SERVICE_KEY_IS_NOT_REGISTERED_ERROR"}
		writeRaw(w, resp)
		return
	}
	resp.Response.Header = stockHeader{ResultCode: "00", ResultMsg: "NORMAL SERVICE."}

	rows, _ := strconv.Atoi(q.Get("numOfRows"))
	if rows <= 0 {
		rows = 10
	}
	resp.Response.Body.NumOfRows = rows
	resp.Response.Body.PageNo = 1

	var items []stockRow
	if c, ok := companyByStock(q.Get("likeSrtnCd")); ok {
		today := timex.Day(s.clock.Now())
		end, err := timex.ParseDate(q.Get("endBasDt"), time.Local)
		if err != nil || end.After(today) {
			end = today
		}
		begin, err := timex.ParseDate(q.Get("beginBasDt"), time.Local)
		if err != nil {
			begin = timex.AddDays(end, -30)
		}
		for d := end; !d.Before(begin) && len(items) < rows; d = timex.AddDays(d, -1) {
			if !weekend(d) {
				items = append(items, priceRow(c, d))
			}
		}
	}

	resp.Response.Body.TotalCount = len(items)
	switch len(items) {
	case 0:
		resp.Response.Body.Items = ""
	case 1:
		resp.Response.Body.Items = map[string]any{"item": items[0]}
	default:
		resp.Response.Body.Items = map[string]any{"item": items}
	}
	writeRaw(w, resp)
}

func writeRaw(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
