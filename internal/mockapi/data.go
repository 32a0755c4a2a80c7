package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type company struct {
	CorpCode    string `json:"corpCode"`
	CorpName    string `json:"corpName"`
	CorpNameEng string `json:"corpNameEng,omitempty"`
	StockName   string `json:"stockName,omitempty"`
	StockCode   string `json:"stockCode,omitempty"`
	CeoNm       string `json:"ceoNm,omitempty"`
	CorpClsName string `json:"corpClsName,omitempty"`
	Adres       string `json:"adres,omitempty"`
	HmURL       string `json:"hmUrl,omitempty"`
	IndutyCode  string `json:"indutyCode,omitempty"`
	EstDt       string `json:"estDt,omitempty"`

	basePrice int64
}

var companies = []company{
	{CorpCode: "00126380", CorpName: "Samsung Electronics", CorpNameEng: "SAMSUNG ELECTRONICS CO,.LTD", StockName: "Samsung Elec", StockCode: "005930", CeoNm: "Jong-Hee Han", CorpClsName: "KOSPI", Adres: "Suwon, Gyeonggi-do", HmURL: "www.samsung.com/sec", IndutyCode: "264", EstDt: "19690113", basePrice: 71500},
	{CorpCode: "00164779", CorpName: "SK hynix", CorpNameEng: "SK hynix Inc.", StockName: "SK hynix", StockCode: "000660", CeoNm: "Noh-Jung Kwak", CorpClsName: "KOSPI", Adres: "Icheon, Gyeonggi-do", HmURL: "www.skhynix.com", IndutyCode: "261", EstDt: "19491015", basePrice: 132000},
	{CorpCode: "00401731", CorpName: "LG Electronics", CorpNameEng: "LG Electronics Inc.", StockName: "LG Elec", StockCode: "066570", CeoNm: "William Cho", CorpClsName: "KOSPI", Adres: "Seoul", HmURL: "www.lge.co.kr", IndutyCode: "264", EstDt: "20020401", basePrice: 98400},
	{CorpCode: "00164742", CorpName: "Hyundai Motor", CorpNameEng: "Hyundai Motor Company", StockName: "Hyundai Motor", StockCode: "005380", CeoNm: "Jaehoon Chang", CorpClsName: "KOSPI", Adres: "Seoul", HmURL: "www.hyundai.com", IndutyCode: "301", EstDt: "19671229", basePrice: 184000},
	{CorpCode: "00258801", CorpName: "Kakao", CorpNameEng: "Kakao Corp.", StockName: "Kakao", StockCode: "035720", CeoNm: "Shina Chung", CorpClsName: "KOSPI", Adres: "Jeju", HmURL: "www.kakaocorp.com", IndutyCode: "582", EstDt: "19950216", basePrice: 53900},
	{CorpCode: "00266961", CorpName: "NAVER", CorpNameEng: "NAVER Corp.", StockName: "NAVER", StockCode: "035420", CeoNm: "Soo-yeon Choi", CorpClsName: "KOSPI", Adres: "Seongnam, Gyeonggi-do", HmURL: "www.navercorp.com", IndutyCode: "639", EstDt: "19990602", basePrice: 215000},
}

func findCompany(corpCode string) (company, bool) {
	for _, c := range companies {
		if c.CorpCode == corpCode {
			return c, true
		}
	}
	return company{}, false
}

func companyByStock(stockCode string) (company, bool) {
	for _, c := range companies {
		if c.StockCode == stockCode {
			return c, true
		}
	}
	return company{}, false
}

func searchCompanies(keyword, indutyCode string) []company {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	var out []company
	for _, c := range companies {
		if kw != "" && !strings.Contains(strings.ToLower(c.CorpName), kw) && !strings.Contains(c.StockCode, kw) {
			continue
		}
		if indutyCode != "" && c.IndutyCode != indutyCode {
			continue
		}
		out = append(out, c)
	}
	return out
}

type disclosure struct {
	CorpCode  string `json:"corp_code"`
	CorpName  string `json:"corp_name"`
	StockCode string `json:"stock_code"`
	CorpCls   string `json:"corp_cls"`
	ReportNm  string `json:"report_nm"`
	RceptNo   string `json:"rcept_no"`
	FlrNm     string `json:"flr_nm"`
	RceptDt   string `json:"rcept_dt"`
	Rm        string `json:"rm"`
}

var reportNames = []string{
	"Quarterly Report",
	"Report on Major Management Matters",
	"Changes in Shareholding of Executives",
	"Provisional Earnings Announcement",
	"Audit Report",
}

// disclosuresFor returns n filings, newest first, one every three days
// back from now.
func disclosuresFor(c company, n int, now time.Time) []disclosure {
	out := make([]disclosure, n)
	for i := range out {
		d := now.AddDate(0, 0, -3*i)
		out[i] = disclosure{
			CorpCode:  c.CorpCode,
			CorpName:  c.CorpName,
			StockCode: c.StockCode,
			CorpCls:   "Y",
			ReportNm:  reportNames[i%len(reportNames)],
			RceptNo:   fmt.Sprintf("%s%06d", d.Format("20060102"), 800000+i),
			FlrNm:     c.CorpName,
			RceptDt:   d.Format("20060102"),
		}
	}
	return out
}

type favorite struct {
	ID           int64  `json:"id"`
	StockCode    string `json:"stockCode"`
	CorpCode     string `json:"corpCode,omitempty"`
	CompanyName  string `json:"companyName"`
	StockName    string `json:"stockName,omitempty"`
	RegisteredAt string `json:"registeredAt"`
}

type memo struct {
	Content   string `json:"content"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// library holds per-user favorites and memos.
type library struct {
	mu     sync.Mutex
	favs   map[int64]map[string]favorite
	memos  map[int64]map[string]memo
	nextID int64
}

func newLibrary() *library {
	return &library{favs: map[int64]map[string]favorite{}, memos: map[int64]map[string]memo{}, nextID: 1}
}

func (l *library) list(user int64) []favorite {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]favorite, 0, len(l.favs[user]))
	for _, f := range l.favs[user] {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *library) add(user int64, stockCode, name string, now time.Time) (favorite, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.favs[user] == nil {
		l.favs[user] = map[string]favorite{}
	}
	if _, ok := l.favs[user][stockCode]; ok {
		return favorite{}, false
	}

	f := favorite{ID: l.nextID, StockCode: stockCode, CompanyName: name, RegisteredAt: now.Format("2006-01-02T15:04:05")}
	if c, ok := companyByStock(stockCode); ok {
		f.CorpCode = c.CorpCode
		f.StockName = c.StockName
		if f.CompanyName == "" {
			f.CompanyName = c.CorpName
		}
	}
	l.nextID++
	l.favs[user][stockCode] = f
	return f, true
}

func (l *library) remove(user int64, stockCode string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.favs[user][stockCode]; !ok {
		return false
	}
	delete(l.favs[user], stockCode)
	delete(l.memos[user], stockCode)
	return true
}

func (l *library) has(user int64, stockCode string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.favs[user][stockCode]
	return ok
}

func (l *library) memo(user int64, stockCode string) memo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.memos[user][stockCode]
}

func (l *library) saveMemo(user int64, stockCode, content string, now time.Time) memo {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.memos[user] == nil {
		l.memos[user] = map[string]memo{}
	}
	m := memo{Content: content, UpdatedAt: now.Format("2006-01-02T15:04:05")}
	l.memos[user][stockCode] = m
	return m
}
