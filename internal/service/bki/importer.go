package bki

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/tgaplan/estimator/internal/domain"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

// Service imports a DIN-276 cost-benchmark index from its published HTML
// pages into the cost-factor table.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// ImportCostFactors fetches the subgroup index, follows every subgroup's
// detail page concurrently and upserts the resulting factor rows under
// tableVersion.
func (s *Service) ImportCostFactors(ctx context.Context, indexURL, tableVersion string) ([]domain.CostFactor, error) {
	doc, err := fetchDocument(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}

	factors := make([]domain.CostFactor, 0, 16)
	factorsMx := sync.Mutex{}
	eg, egCtx := errgroup.WithContext(ctx)

	doc.Find("table.kg-index tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		code := strings.TrimSpace(tr.Find("th").Text())
		link := tr.Find("td a")
		title := strings.TrimSpace(link.Text())

		href, ok := link.Attr("href")
		if !ok {
			err = fmt.Errorf("couldn't find href for subgroup %s", code)
			return false
		}

		eg.Go(func() error {
			factor, fetchErr := s.fetchSubgroup(egCtx, resolveHref(indexURL, href), code, title)
			if fetchErr != nil {
				return fmt.Errorf("fetchSubgroup, code-%s: %w", code, fetchErr)
			}

			factorsMx.Lock()
			defer factorsMx.Unlock()
			factors = append(factors, factor)
			return nil
		})

		return true
	})
	if err != nil {
		return nil, err
	}

	if err = eg.Wait(); err != nil {
		return nil, fmt.Errorf("err in goroutine: %w", err)
	}

	sort.Slice(factors, func(i, j int) bool { return factors[i].SubgroupCode < factors[j].SubgroupCode })

	if s.store != nil {
		if err = s.store.UpsertCostFactors(ctx, tableVersion, factors); err != nil {
			return nil, fmt.Errorf("store.UpsertCostFactors: %w", err)
		}
	}

	logger.Infof(ctx, "imported %d cost factors into table %s", len(factors), tableVersion)

	return factors, nil
}

func (s *Service) fetchSubgroup(ctx context.Context, url, code, title string) (domain.CostFactor, error) {
	doc, err := fetchDocument(ctx, url)
	if err != nil {
		return domain.CostFactor{}, err
	}

	trade := strings.TrimSpace(doc.Find("span.gewerk").Text())
	unit := strings.TrimSpace(doc.Find("span.einheit").Text())
	priceStr := strings.TrimSpace(doc.Find("span.mittel-netto").Text())

	price, err := ParsePrice(priceStr)
	if err != nil {
		return domain.CostFactor{}, fmt.Errorf("failed to parse price %q: %w", priceStr, err)
	}

	return domain.CostFactor{
		SubgroupCode:  code,
		SubgroupTitle: title,
		TradeTitle:    trade,
		Unit:          unit,
		UnitPrice:     price,
		Source:        sourceFor(code, unit),
	}, nil
}

func fetchDocument(ctx context.Context, url string) (doc *goquery.Document, err error) {
	var resp *http.Response
	err = backoff.Retry(
		func() error {
			var httpErr error

			resp, httpErr = http.Get(url)
			if httpErr != nil {
				return fmt.Errorf("http.Get: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), 10),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close reader: %w", closeErr)
		}
	}()

	doc, parseErr := goquery.NewDocumentFromReader(resp.Body)
	if parseErr != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", parseErr)
	}

	return doc, nil
}

// ParsePrice reads a German-formatted money string ("1.234,56") into decimal.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(s, "€"))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

// sourceFor maps a subgroup to the aggregate metric that drives it. Cooling
// subgroups (433/434) price against cooling kW; otherwise the declared unit
// decides.
func sourceFor(code, unit string) domain.QuantitySource {
	if strings.HasPrefix(code, "433") || strings.HasPrefix(code, "434") {
		return domain.SourceCoolingKW
	}

	switch unit {
	case "€/kW":
		return domain.SourceHeatingKW
	case "€/(m³/h)":
		return domain.SourceAirflowM3PerH
	default:
		return domain.SourceAreaM2
	}
}

func resolveHref(indexURL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimSuffix(indexURL, "/") + "/" + strings.TrimPrefix(href, "/")
}
