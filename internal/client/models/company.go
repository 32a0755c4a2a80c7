package models

// Company is one listed company as served by the backend.
type Company struct {
	CorpCode    string `json:"corpCode"`
	CorpName    string `json:"corpName"`
	CorpNameEng string `json:"corpNameEng,omitempty"`
	StockName   string `json:"stockName,omitempty"`
	StockCode   string `json:"stockCode,omitempty"`
	CeoNm       string `json:"ceoNm,omitempty"`
	CorpCls     string `json:"corpCls,omitempty"`
	CorpClsName string `json:"corpClsName,omitempty"`
	Adres       string `json:"adres,omitempty"`
	HmURL       string `json:"hmUrl,omitempty"`
	PhnNo       string `json:"phnNo,omitempty"`
	IndutyCode  string `json:"indutyCode,omitempty"`
	EstDt       string `json:"estDt,omitempty"`
	AccMt       string `json:"accMt,omitempty"`
	IsFavorite  bool   `json:"isFavorite,omitempty"`
}

// CompanyPage is a page of companies. Page is 1-based.
type CompanyPage struct {
	Companies  []Company
	Total      int64
	TotalPages int
	Page       int
}

// Disclosure is one filing in the disclosure list.
type Disclosure struct {
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

// ViewerURL links the filing in the public disclosure viewer.
func (d Disclosure) ViewerURL() string {
	return DartViewerURL(d.RceptNo)
}

func DartViewerURL(rceptNo string) string {
	return "https://dart.fss.or.kr/dsaf001/main.do?rcpNo=" + rceptNo
}

type DisclosurePage struct {
	Items      []Disclosure
	TotalCount int
	TotalPage  int
	PageNo     int
	PageCount  int
}

// DisclosureType is a filing category filter.
type DisclosureType struct {
	Code string
	Name string
}

// DisclosureTypes lists the filter codes the disclosure endpoint accepts.
// The empty code means all types.
var DisclosureTypes = []DisclosureType{
	{"", "All"},
	{"A", "Periodic"},
	{"B", "Major events"},
	{"C", "Issuance"},
	{"D", "Shareholding"},
	{"E", "Other"},
	{"F", "External audit"},
	{"G", "Funds"},
	{"H", "Asset securitization"},
	{"I", "Exchange"},
	{"J", "Fair trade commission"},
}

// ValidDisclosureType reports whether code is one of DisclosureTypes.
func ValidDisclosureType(code string) bool {
	for _, t := range DisclosureTypes {
		if t.Code == code {
			return true
		}
	}
	return false
}
