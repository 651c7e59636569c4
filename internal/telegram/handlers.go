package telegram

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"stockDashboard/internal/catalog"
	"stockDashboard/internal/chart"
	"stockDashboard/internal/dashboard"
	"stockDashboard/internal/finance"
)

var (
	reHelp      = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
	reMarkets   = regexp.MustCompile(`^/markets(?:@[\w_]+)?$`)
	reCompanies = regexp.MustCompile(`^/companies(?:@[\w_]+)?\s+(.+)$`)
	// /stats NAME[, NAME...] [period]
	reStats = regexp.MustCompile(`^/stats(?:@[\w_]+)?\s+(.+)$`)
	// /corr NAME, NAME[, NAME...] [period]
	reCorr = regexp.MustCompile(`^/corr(?:@[\w_]+)?\s+(.+)$`)
	// /port SYM W SYM W ... [period]
	rePort = regexp.MustCompile(`^/port(?:@[\w_]+)?(?:\s|$)`)
	// /add Name|TICKER|Market|Sector
	reAdd = regexp.MustCompile(`^/add(?:@[\w_]+)?\s+(.+)$`)
)

// Catalog is the part of *catalog.Catalog the bot uses.
type Catalog interface {
	Markets() []string
	Sectors(market string) ([]string, error)
	Companies(market, sector string) map[string]string
	Add(ctx context.Context, e catalog.Entry) (catalog.Entry, error)
}

// Analyzer recomputes an analysis; *dashboard.Service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, st dashboard.State) (*dashboard.Analysis, error)
}

// Sender delivers messages; *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Deps struct {
	Catalog       Catalog
	Dashboard     Analyzer
	Charts        *chart.Renderer
	DefaultPeriod string
}

type Handlers struct {
	api     Sender
	catalog Catalog
	dash    Analyzer
	charts  *chart.Renderer
	period  string
	log     zerolog.Logger
}

func NewHandlers(api Sender, deps Deps, log zerolog.Logger) *Handlers {
	return &Handlers{
		api:     api,
		catalog: deps.Catalog,
		dash:    deps.Dashboard,
		charts:  deps.Charts,
		period:  deps.DefaultPeriod,
		log:     log,
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, m *tgbotapi.Message) {
	txt := strings.TrimSpace(m.Text)
	chatID := m.Chat.ID

	switch {
	case reHelp.MatchString(txt):
		h.reply(chatID, helpText)

	case reMarkets.MatchString(txt):
		h.handleMarkets(chatID)

	case reCompanies.MatchString(txt):
		parts := splitPipe(reCompanies.FindStringSubmatch(txt)[1])
		if len(parts) != 2 {
			h.reply(chatID, "Usage: /companies Market | Sector")
			return
		}
		h.handleCompanies(chatID, parts[0], parts[1])

	case reStats.MatchString(txt):
		names, period := parseSelection(reStats.FindStringSubmatch(txt)[1])
		h.handleStats(ctx, chatID, names, period)

	case reCorr.MatchString(txt):
		names, period := parseSelection(reCorr.FindStringSubmatch(txt)[1])
		if len(names) < 2 {
			h.reply(chatID, "Please provide at least two companies, e.g. /corr Apple, Microsoft 1y")
			return
		}
		h.handleCorrelation(ctx, chatID, names, period)

	case rePort.MatchString(txt):
		symbols, weights, period, err := finance.ParseWeightedPortfolio(txt)
		if err != nil {
			h.reply(chatID, "Portfolio failed: "+err.Error()+"\nUsage: /port SPY 0.5 AAPL 0.5 [1y]")
			return
		}
		h.handlePortfolio(ctx, chatID, symbols, weights, period)

	case reAdd.MatchString(txt):
		e, err := parseEntry(reAdd.FindStringSubmatch(txt)[1])
		if err != nil {
			h.reply(chatID, err.Error())
			return
		}
		h.handleAdd(ctx, chatID, e)
	}
}

func (h *Handlers) handleMarkets(chatID int64) {
	var b strings.Builder
	b.WriteString("Markets\n")
	for _, m := range h.catalog.Markets() {
		sectors, err := h.catalog.Sectors(m)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n  %s\n", m, strings.Join(sectors, ", "))
	}
	h.reply(chatID, b.String())
}

func (h *Handlers) handleCompanies(chatID int64, market, sector string) {
	companies := h.catalog.Companies(market, sector)
	if len(companies) == 0 {
		h.reply(chatID, fmt.Sprintf("No companies listed under %s / %s.", market, sector))
		return
	}
	h.reply(chatID, formatCompanies(market, sector, companies))
}

func (h *Handlers) handleStats(ctx context.Context, chatID int64, names []string, period string) {
	a, err := h.analyze(ctx, dashboard.State{Names: names, Period: period})
	if err != nil {
		h.reply(chatID, "Stats failed: "+err.Error())
		return
	}
	h.replyCode(chatID, formatStats(a.Report()))
	h.sendChart(chatID, chart.KindPrices, a, "Prices: "+strings.Join(a.Symbols, ", ")+" • "+strings.ToUpper(a.Range.Key()))
}

func (h *Handlers) handleCorrelation(ctx context.Context, chatID int64, names []string, period string) {
	a, err := h.analyze(ctx, dashboard.State{Names: names, Period: period})
	if err != nil {
		h.reply(chatID, "Correlation failed: "+err.Error())
		return
	}
	h.sendChart(chatID, chart.KindCorrelation, a, "Correlation of daily log returns • "+strings.ToUpper(a.Range.Key()))
}

func (h *Handlers) handlePortfolio(ctx context.Context, chatID int64, symbols []string, weights []float64, period string) {
	a, err := h.analyze(ctx, dashboard.State{Symbols: symbols, Weights: weights, Period: period})
	if err != nil {
		h.reply(chatID, "Portfolio failed: "+err.Error())
		return
	}
	rep := a.Report()
	h.replyCode(chatID, formatPortfolio(rep))
	h.sendChart(chatID, chart.KindPortfolio, a, "Portfolio: "+strings.Join(a.Symbols, ", ")+" • "+strings.ToUpper(rep.Range))
}

func (h *Handlers) handleAdd(ctx context.Context, chatID int64, e catalog.Entry) {
	added, err := h.catalog.Add(ctx, e)
	if err != nil {
		h.reply(chatID, "Add failed: "+err.Error())
		return
	}
	h.reply(chatID, fmt.Sprintf("Added %s (%s) to %s / %s.", added.Name, added.Ticker, added.Market, added.Sector))
}

func (h *Handlers) analyze(ctx context.Context, st dashboard.State) (*dashboard.Analysis, error) {
	if st.Period == "" {
		st.Period = h.period
	}
	a, err := h.dash.Analyze(ctx, st)
	if err != nil {
		h.log.Warn().Err(err).Strs("names", st.Names).Strs("symbols", st.Symbols).Msg("analysis failed")
		return nil, err
	}
	return a, nil
}

func (h *Handlers) sendChart(chatID int64, kind chart.Kind, a *dashboard.Analysis, caption string) {
	img, err := h.charts.Render(kind, a)
	if err != nil {
		if !errors.Is(err, finance.ErrInsufficientData) {
			h.log.Error().Err(err).Str("chart", string(kind)).Msg("chart failed")
		}
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	name := strings.Join(a.Symbols, "_") + "_" + string(kind) + ".png"
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: img})
	photo.Caption = caption
	h.send(photo)
}

func (h *Handlers) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handlers) replyCode(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "```\n"+text+"```")
	msg.ParseMode = "Markdown"
	h.send(msg)
}

func (h *Handlers) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		h.log.Error().Err(err).Msg("telegram: send failed")
	}
}

const helpText = "Commands\n\n" +
	"- /markets - Markets and their sectors\n" +
	"- /companies Market | Sector - Companies listed under a sector\n" +
	"- /stats NAME[, NAME...] [period] - Per-company statistics and a price chart\n" +
	"- /corr NAME, NAME[, NAME...] [period] - Correlation of daily returns\n" +
	"- /port S1 W1 S2 W2 ... [period] - Weighted portfolio; weights are normalised\n" +
	"- /add Name | TICKER | Market | Sector - Add a company to the catalog\n" +
	"\nPeriods: 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max (default 1y). Daily closes from Yahoo."

// parseSelection splits comma separated names. A trailing word that parses
// as a period is taken as the period unless it is the only word.
func parseSelection(args string) ([]string, string) {
	var names []string
	for _, n := range strings.Split(args, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil, ""
	}

	last := names[len(names)-1]
	fields := strings.Fields(last)
	tail := fields[len(fields)-1]
	if len(names) == 1 && len(fields) == 1 {
		return names, ""
	}
	if _, err := finance.ParsePeriod(tail); err != nil {
		return names, ""
	}
	rest := strings.TrimSpace(strings.TrimSuffix(last, tail))
	if rest == "" {
		names = names[:len(names)-1]
	} else {
		names[len(names)-1] = rest
	}
	return names, tail
}

// parseEntry reads "Name | TICKER | Market | Sector".
func parseEntry(args string) (catalog.Entry, error) {
	parts := splitPipe(args)
	if len(parts) != 4 {
		return catalog.Entry{}, errors.New("Usage: /add Name | TICKER | Market | Sector")
	}
	return catalog.Entry{Name: parts[0], Ticker: parts[1], Market: parts[2], Sector: parts[3]}, nil
}

func splitPipe(s string) []string {
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func formatCompanies(market, sector string, companies map[string]string) string {
	names := make([]string, 0, len(companies))
	for n := range companies {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	fmt.Fprintf(&b, "%s / %s\n", market, sector)
	for _, n := range names {
		fmt.Fprintf(&b, "- %s (%s)\n", n, companies[n])
	}
	return b.String()
}

func formatStats(rep dashboard.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s → %s\n", strings.ToUpper(rep.Range), rep.From, rep.To)
	fmt.Fprintf(&b, "%-10s %9s %9s %8s %8s %8s\n", "SYMBOL", "RET%", "ANN%", "VOL", "SHARPE", "MDD%")
	for _, s := range rep.Stats {
		fmt.Fprintf(&b, "%-10s %9s %9s %8s %8s %8s\n", s.Symbol,
			num(s.TotalReturnPct, 2), num(s.AnnualReturnPct, 2), num(s.Volatility, 4),
			num(s.SharpeRatio, 2), num(s.MaxDrawdownPct, 2))
	}
	return b.String()
}

func formatPortfolio(rep dashboard.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s → %s\n", strings.ToUpper(rep.Range), rep.From, rep.To)
	if rep.Portfolio == nil {
		return b.String()
	}
	p := rep.Portfolio
	for _, sym := range rep.Symbols {
		fmt.Fprintf(&b, "%-10s %6.1f%%\n", sym, float64(p.Weights[sym])*100)
	}
	fmt.Fprintf(&b, "Return %s%% | Annual %s%% | Sharpe %s | Vol %s | MaxDD %s%%\n",
		num(p.TotalReturnPct, 2), num(p.AnnualReturnPct, 2), num(p.SharpeRatio, 2),
		num(p.StdDev, 4), num(p.MaxDrawdownPct, 2))
	return b.String()
}

func num(f dashboard.Float, places int) string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.*f", places, v)
}
