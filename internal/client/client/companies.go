package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
)

// CompanyQuery selects a page of companies. Page is 1-based.
type CompanyQuery struct {
	Page       int
	Size       int
	Keyword    string
	IndutyCode string
}

type companyListResponse struct {
	Companies     []models.Company `json:"companies"`
	CurrentPage   int              `json:"currentPage"`
	PageSize      int              `json:"pageSize"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
}

func (c *HTTPClient) ListCompanies(ctx context.Context, q CompanyQuery) (*models.CompanyPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size <= 0 {
		q.Size = 20
	}

	params := url.Values{}
	// the backend pages from zero
	params.Set("page", strconv.Itoa(q.Page-1))
	params.Set("size", strconv.Itoa(q.Size))
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		params.Set("keyword", kw)
	}
	if ic := strings.TrimSpace(q.IndutyCode); ic != "" {
		params.Set("indutyCode", ic)
	}

	var resp companyListResponse
	if err := c.get(ctx, "/companies", params, &resp); err != nil {
		return nil, err
	}

	return &models.CompanyPage{
		Companies:  resp.Companies,
		Total:      resp.TotalElements,
		TotalPages: resp.TotalPages,
		Page:       resp.CurrentPage + 1,
	}, nil
}

func (c *HTTPClient) GetCompany(ctx context.Context, corpCode string) (*models.Company, error) {
	var co models.Company
	if err := c.get(ctx, "/companies/"+url.PathEscape(corpCode), nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

// DisclosureQuery filters a company's filings. Dates are YYYYMMDD; Type is
// one of models.DisclosureTypes.
type DisclosureQuery struct {
	Begin     string
	End       string
	Type      string
	PageNo    int
	PageCount int
}

// disclosureStatusOK and disclosureStatusNoData are the provider status
// codes passed through by the backend.
const (
	disclosureStatusOK     = "000"
	disclosureStatusNoData = "013"
)

type disclosureResponse struct {
	Status     string              `json:"status"`
	Message    string              `json:"message"`
	PageNo     int                 `json:"page_no"`
	PageCount  int                 `json:"page_count"`
	TotalCount int                 `json:"total_count"`
	TotalPage  int                 `json:"total_page"`
	List       []models.Disclosure `json:"list"`
}

func (c *HTTPClient) ListDisclosures(ctx context.Context, corpCode string, q DisclosureQuery) (*models.DisclosurePage, error) {
	if q.PageNo < 1 {
		q.PageNo = 1
	}
	if q.PageCount <= 0 {
		q.PageCount = 10
	}

	params := url.Values{}
	params.Set("pageNo", strconv.Itoa(q.PageNo))
	params.Set("pageCount", strconv.Itoa(q.PageCount))
	if q.Begin != "" {
		params.Set("bgnDe", q.Begin)
	}
	if q.End != "" {
		params.Set("endDe", q.End)
	}
	if q.Type != "" {
		params.Set("pblntfTy", q.Type)
	}

	var resp disclosureResponse
	if err := c.get(ctx, "/companies/"+url.PathEscape(corpCode)+"/disclosures", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case disclosureStatusOK:
	case disclosureStatusNoData:
		return &models.DisclosurePage{PageNo: q.PageNo, PageCount: q.PageCount}, nil
	default:
		msg := resp.Message
		if msg == "" {
			msg = "disclosures not available"
		}
		return nil, fmt.Errorf("%w: disclosure status %s: %s", common.ErrUnavailable, resp.Status, msg)
	}

	return &models.DisclosurePage{
		Items:      resp.List,
		TotalCount: resp.TotalCount,
		TotalPage:  resp.TotalPage,
		PageNo:     resp.PageNo,
		PageCount:  resp.PageCount,
	}, nil
}
