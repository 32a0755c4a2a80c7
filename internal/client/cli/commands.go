package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/client"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/services"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
)

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

// ---- companies ----

func (a *App) Companies(ctx context.Context, args []string) error {
	q := client.CompanyQuery{Page: 1}
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			q.Page = n
			args = args[1:]
		}
	}
	q.Keyword = strings.Join(args, " ")

	a.router.Push(PathCompanies)
	page, err := a.backend.ListCompanies(ctx, q)
	if err != nil {
		return err
	}
	if len(page.Companies) == 0 {
		a.println("No companies.")
		return nil
	}

	w := a.table()
	fmt.Fprintln(w, "CORP CODE\tNAME\tSTOCK\tCEO")
	for _, c := range page.Companies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.CorpCode, c.CorpName, c.StockCode, c.CeoNm)
	}
	_ = w.Flush()
	a.printf("Page %d of %d, %d companies.\n", page.Page, page.TotalPages, page.Total)
	return nil
}

func (a *App) Company(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("company <corpCode>")
	}
	c, err := a.backend.GetCompany(ctx, args[0])
	if err != nil {
		return err
	}

	w := a.table()
	fmt.Fprintf(w, "Name\t%s (%s)\n", c.CorpName, c.CorpNameEng)
	fmt.Fprintf(w, "Stock\t%s %s\n", c.StockCode, c.StockName)
	fmt.Fprintf(w, "CEO\t%s\n", c.CeoNm)
	fmt.Fprintf(w, "Class\t%s\n", c.CorpClsName)
	fmt.Fprintf(w, "Address\t%s\n", c.Adres)
	fmt.Fprintf(w, "Web\t%s\n", c.HmURL)
	fmt.Fprintf(w, "Established\t%s\n", c.EstDt)
	return w.Flush()
}

func (a *App) Disclosures(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("disclosures <corpCode> [page]")
	}
	q := client.DisclosureQuery{PageNo: 1, PageCount: 10}
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return usage("disclosures <corpCode> [page]")
		}
		q.PageNo = n
	}

	page, err := a.backend.ListDisclosures(ctx, args[0], q)
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		a.println("No disclosures.")
		return nil
	}

	w := a.table()
	fmt.Fprintln(w, "DATE\tREPORT\tFILER\tLINK")
	for _, d := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.RceptDt, d.ReportNm, d.FlrNm, d.ViewerURL())
	}
	_ = w.Flush()
	a.printf("Page %d of %d.\n", page.PageNo, page.TotalPage)
	return nil
}

// ---- favorites ----

func (a *App) Favorites(ctx context.Context, args []string) error {
	ok, err := a.visit(ctx, PathFavorites)
	if err != nil || !ok {
		return err
	}
	return a.showWatchlist(ctx)
}

func (a *App) showWatchlist(ctx context.Context) error {
	list, err := a.favorites.Watchlist(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No favorites yet. Add one with 'fav add <code> <name>'.")
		return nil
	}

	w := a.table()
	fmt.Fprintln(w, "CODE\tNAME\tPRICE\tCHANGE\tRATE\tDATE")
	for _, it := range list {
		q := it.Quote
		date := q.BaseDate
		if !it.Available {
			date = services.Placeholder
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			it.Favorite.StockCode,
			it.Favorite.CompanyName,
			services.FormatPrice(q.CurrentPrice, it.Available),
			services.FormatPriceChange(q.PriceChange, it.Available),
			services.FormatChangeRate(q.ChangeRate, it.Available),
			date,
		)
	}
	return w.Flush()
}

// Fav adds or removes a favorite. Both are protected actions.
func (a *App) Fav(ctx context.Context, args []string) error {
	if len(args) < 2 || (args[0] != "add" && args[0] != "rm") {
		return usage("fav add <code> <name> | fav rm <code>")
	}

	ok, err := a.visit(ctx, PathFavorites)
	if err != nil || !ok {
		return err
	}

	code := args[1]
	if args[0] == "rm" {
		if err := a.favorites.Remove(ctx, code); err != nil {
			return err
		}
		a.printf("Removed %s.\n", code)
		return nil
	}

	fav, err := a.favorites.Add(ctx, code, strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	a.printf("Added %s %s.\n", fav.StockCode, fav.CompanyName)
	return nil
}

// Memo shows a favorite's memo, or saves text as the new memo. With only a
// code and no text on the line, "edit" prompts for multi-line text.
func (a *App) Memo(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("memo <code> [text | edit]")
	}
	code := args[0]

	ok, err := a.visit(ctx, FavoritePath(code))
	if err != nil || !ok {
		return err
	}

	text := strings.Join(args[1:], " ")
	if text == "" {
		return a.showMemo(ctx, code)
	}
	if text == "edit" {
		text, err = GetMultiline(a.reader, "Memo text", a.out)
		if err != nil {
			return err
		}
	}

	m, err := a.memos.Save(ctx, code, text)
	if err != nil {
		return err
	}
	if m.Message != "" {
		a.println(m.Message)
	} else {
		a.println("Memo saved.")
	}
	return nil
}

func (a *App) showMemo(ctx context.Context, code string) error {
	m, err := a.memos.Get(ctx, code)
	if err != nil {
		return err
	}
	if m.Content == "" {
		a.printf("No memo for %s.\n", code)
		return nil
	}
	a.printf("Memo for %s", code)
	if m.UpdatedAt != "" {
		a.printf(" (updated %s)", m.UpdatedAt)
	}
	a.printf(":\n%s\n", m.Content)
	return nil
}

// ---- chart ----

func (a *App) Chart(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("chart <code> [30|60|90]")
	}
	period := services.DefaultChartPeriod
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return usage("chart <code> [30|60|90]")
		}
		period = n
	}

	ok, err := a.visit(ctx, ChartPath(args[0]))
	if err != nil || !ok {
		return err
	}
	return a.showChart(ctx, args[0], period)
}

func (a *App) showChart(ctx context.Context, code string, period int) error {
	chart, err := a.charts.SelectChart(ctx, code, period)
	if err != nil {
		return err
	}

	a.printf("%s, last %d days (low %s, high %s, %s %s):\n", chart.StockCode, chart.Period,
		services.FormatPrice(chart.Low, true), services.FormatPrice(chart.High, true),
		chart.Change.Direction, services.FormatChangeRate(chart.Change.Percent, true))
	w := a.table()
	for _, q := range chart.Points {
		fmt.Fprintf(w, "%s\t%s\t%s\n", q.BaseDate, services.FormatPrice(q.CurrentPrice, true), services.FormatChangeRate(q.ChangeRate, true))
	}
	return w.Flush()
}

// ---- exchange ----

func (a *App) Rates(ctx context.Context, args []string) error {
	var date time.Time
	if len(args) > 0 {
		d, err := timex.ParseDate(args[0], time.Local)
		if err != nil {
			return usage("rates [YYYYMMDD]")
		}
		date = d
	}

	a.router.Push(PathExchange)
	board, err := a.exchange.Board(ctx, date)
	if err != nil {
		return err
	}

	a.printf("Rates for %s", timex.FormatDate(board.Date))
	if !board.Previous.IsZero() {
		a.printf(", compared with %s", timex.FormatDate(board.Previous))
	}
	a.println(":")

	w := a.table()
	fmt.Fprintln(w, "CURRENCY\tNAME\tBASE\tBUY\tSELL\tCHANGE")
	for _, row := range board.Rows {
		r := row.Rate
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CurrencyCode, r.CurrencyName,
			services.FormatRate(r.BaseRate), services.FormatRate(r.BuyRate), services.FormatRate(r.SellRate),
			formatChange(row),
		)
	}
	return w.Flush()
}

func formatChange(row services.RateRow) string {
	if !row.Compared {
		return services.Placeholder
	}
	c := row.Change
	arrow := "="
	switch c.Direction {
	case models.DirectionUp:
		arrow = "▲"
	case models.DirectionDown:
		arrow = "▼"
	}
	return fmt.Sprintf("%s %s (%s)", arrow, c.Amount.StringFixed(2), services.FormatChangeRate(c.Percent, true))
}

func (a *App) History(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("history <CUR> [days]")
	}
	days := 0
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return usage("history <CUR> [days]")
		}
		days = n
	}

	a.router.Push(PathExchange)
	a.printf("Loading %s history...\n", args[0])
	points, err := a.exchange.SelectHistory(ctx, args[0], days)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		a.printf("No %s quotes in that period.\n", args[0])
		return nil
	}

	w := a.table()
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\n", p.Date.Format(time.DateOnly), services.FormatRate(p.Rate))
	}
	return w.Flush()
}

// ---- news ----

func (a *App) News(ctx context.Context, args []string) error {
	q, err := parseNewsArgs(args)
	if err != nil {
		return err
	}

	a.router.Push(PathNews)
	res, err := a.news.Search(ctx, q)
	if err != nil {
		return err
	}
	a.renderNews(res)
	return nil
}

// parseNewsArgs splits "<company words> [#tag] [sim|date]".
func parseNewsArgs(args []string) (models.NewsQuery, error) {
	var q models.NewsQuery
	var company []string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "#"):
			q.Hashtag = arg
		case arg == services.NewsSortDate || arg == services.NewsSortRelevance:
			q.Sort = arg
		default:
			company = append(company, arg)
		}
	}
	q.Company = strings.Join(company, " ")
	if q.Company == "" {
		return q, usage("news <company> [#tag] [sim|date]")
	}
	return q, nil
}

func (a *App) More(ctx context.Context, args []string) error {
	if a.router.Current() != PathNews {
		a.router.Push(PathNews)
	}
	cur := a.news.Results()
	switch {
	case cur.Query.Company == "":
		a.renderNews(cur)
		return nil
	case !cur.HasMore:
		a.println("No more results.")
		return nil
	}
	before := len(cur.Items)
	res, err := a.news.LoadMore(ctx)
	if err != nil {
		return err
	}
	a.renderNewsFrom(res, before)
	return nil
}

func (a *App) renderNews(res services.NewsResults) {
	if res.Query.Company == "" {
		a.println("No search yet. Try 'news <company>'.")
		return
	}
	a.renderNewsFrom(res, 0)
}

func (a *App) renderNewsFrom(res services.NewsResults, from int) {
	if len(res.Items) == 0 {
		a.printf("No news for %q.\n", services.BuildNewsQuery(res.Query))
		return
	}
	for i := from; i < len(res.Items); i++ {
		it := res.Items[i]
		a.printf("%3d. %s\n     %s  %s\n", i+1, it.Title, it.PubDate, it.Key())
	}
	a.printf("Showing %d of %d.", len(res.Items), res.Total)
	if res.HasMore {
		a.printf(" Type 'more' for the next page.")
	}
	a.println()
}
