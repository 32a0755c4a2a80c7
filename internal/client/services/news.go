package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/aggregate"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/client"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/providers"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
)

const (
	NewsSortDate      = "date"
	NewsSortRelevance = "sim"

	defaultNewsSize = 10
)

type NewsBackend interface {
	SearchNews(ctx context.Context, q client.NewsSearch) (*models.NewsPage, error)
}

// NewsResults is the accumulated state of the active search.
type NewsResults struct {
	Query   models.NewsQuery
	Items   []models.NewsItem
	Total   int
	Page    int
	HasMore bool
}

// NewsService runs one interactive news search at a time. Search starts
// over; LoadMore appends the next page of the same search.
type NewsService interface {
	Search(ctx context.Context, q models.NewsQuery) (NewsResults, error)
	LoadMore(ctx context.Context) (NewsResults, error)
	Results() NewsResults
}

type NewsOptions struct {
	PageSize int
	Sort     string
	// Dedupe drops articles already shown for the same search.
	Dedupe bool
	Logger logging.Logger
}

type newsService struct {
	backend NewsBackend
	opts    NewsOptions
	acc     *aggregate.Accumulator[models.NewsQuery, models.NewsItem]
	log     logging.Logger
}

func NewNewsService(backend NewsBackend, opts NewsOptions) NewsService {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultNewsSize
	}
	if opts.Sort == "" {
		opts.Sort = NewsSortDate
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	s := &newsService{backend: backend, opts: opts, log: log.With("service", "news")}

	var accOpts []aggregate.AccumulatorOption[models.NewsQuery, models.NewsItem]
	if opts.Dedupe {
		accOpts = append(accOpts, aggregate.WithDedupe[models.NewsQuery](models.NewsItem.Key))
	}
	s.acc = aggregate.NewAccumulator(s.fetch, accOpts...)
	return s
}

// BuildNewsQuery is the provider query text: the company, then the
// hashtag when one is given.
func BuildNewsQuery(q models.NewsQuery) string {
	company := strings.TrimSpace(q.Company)
	tag := strings.TrimSpace(q.Hashtag)
	if tag == "" {
		return company
	}
	return company + " " + tag
}

// NewsStart is the 1-based index of the first item on page.
func NewsStart(page, size int) int {
	return (page-1)*size + 1
}

func (s *newsService) Search(ctx context.Context, q models.NewsQuery) (NewsResults, error) {
	if strings.TrimSpace(q.Company) == "" {
		return NewsResults{}, validationError("company is required")
	}
	if q.Size <= 0 {
		q.Size = s.opts.PageSize
	}
	switch q.Sort {
	case "":
		q.Sort = s.opts.Sort
	case NewsSortDate, NewsSortRelevance:
	default:
		return NewsResults{}, validationError("sort must be date or sim")
	}

	if err := s.acc.NewSearch(ctx, q); err != nil {
		return NewsResults{}, err
	}
	return s.Results(), nil
}

func (s *newsService) LoadMore(ctx context.Context) (NewsResults, error) {
	if err := s.acc.LoadMore(ctx); err != nil {
		return s.Results(), err
	}
	return s.Results(), nil
}

func (s *newsService) Results() NewsResults {
	q, _ := s.acc.Query()
	return NewsResults{
		Query:   q,
		Items:   s.acc.Items(),
		Total:   s.acc.Total(),
		Page:    s.acc.PageIndex(),
		HasMore: s.acc.HasMore(),
	}
}

func (s *newsService) fetch(ctx context.Context, q models.NewsQuery, page int) (aggregate.Page[models.NewsItem], error) {
	resp, err := s.backend.SearchNews(ctx, client.NewsSearch{
		Query:   BuildNewsQuery(q),
		Display: q.Size,
		Start:   NewsStart(page, q.Size),
		Sort:    q.Sort,
	})
	if err != nil {
		return aggregate.Page[models.NewsItem]{}, err
	}

	items := make([]models.NewsItem, len(resp.Items))
	for i, it := range resp.Items {
		it.Title = providers.PlainText(it.Title)
		it.Description = providers.PlainText(it.Description)
		items[i] = it
	}
	s.log.Debug(ctx, "news page", "query", BuildNewsQuery(q), "page", page, "items", len(items), "total", resp.Total)
	return aggregate.Page[models.NewsItem]{Items: items, Total: resp.Total}, nil
}
