// internal/service/stats.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/opsledger/billingd/internal/gateway"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/repository"
)

// StatsWindowDays is the evolution window of the global statistics view.
const StatsWindowDays = 30

const priceCacheKey = "stripe_price_amounts"

// StatsService produces the read-side revenue and usage projections for the
// dashboard. Pure projection: recomputed on every call, no side effects.
type StatsService struct {
	orgRepo    repository.OrganizationRepositoryIface
	reportRepo repository.UsageReportRepositoryIface
	gateway    gateway.SubscriptionGateway
	cache      *CacheService
}

func NewStatsService(
	orgRepo repository.OrganizationRepositoryIface,
	reportRepo repository.UsageReportRepositoryIface,
	gw gateway.SubscriptionGateway,
	cacheService *CacheService,
) *StatsService {
	return &StatsService{
		orgRepo:    orgRepo,
		reportRepo: reportRepo,
		gateway:    gw,
		cache:      cacheService,
	}
}

type DailyStat struct {
	Date          string  `json:"date"`
	Users         int     `json:"users"`
	Organizations int     `json:"organizations"`
	Revenue       float64 `json:"revenue"`
}

type StatsOverview struct {
	PastRevenue        float64     `json:"past_revenue"`
	ProjectedRevenue   float64     `json:"projected_revenue"`
	TotalUsers         int         `json:"total_users"`
	TotalOrganizations int         `json:"total_organizations"`
	Evolution          []DailyStat `json:"evolution"`
}

// Overview computes the global statistics: realized revenue from paid
// invoices, the next-month projection from latest counts, current user
// totals, and the per-day evolution over the window. Organizations tagged
// exclude_from_stats are omitted from every aggregate.
func (s *StatsService) Overview(ctx context.Context) (*StatsOverview, error) {
	prices, err := s.priceAmounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving price amounts: %w", err)
	}

	orgs, err := s.orgRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	overview := &StatsOverview{}

	for _, org := range orgs {
		if org.ExcludedFromStats() {
			continue
		}

		if org.Linked() {
			invoices, err := s.gateway.ListInvoices(ctx, *org.StripeCustomerID)
			if err != nil {
				slog.WarnContext(ctx, "failed to fetch invoices for statistics",
					"organization_id", org.ID, "error", err)
			} else {
				for _, invoice := range invoices.Paid {
					overview.PastRevenue += invoice.AmountPaid
				}
			}
		}

		if org.Status != model.StatusActive && org.Status != model.StatusTrial {
			continue
		}
		overview.TotalOrganizations++

		latest, err := s.reportRepo.FindLatestByOrganization(ctx, org.ID)
		if err != nil {
			continue
		}
		overview.TotalUsers += latest.UserCount

		if org.Linked() && org.DeploymentType != nil && org.BillingPeriod != nil {
			overview.ProjectedRevenue += float64(latest.UserCount) * prices.PerUserPerMonth(*org.DeploymentType, *org.BillingPeriod)
		}
	}

	evolution, err := s.Evolution(ctx, StatsWindowDays)
	if err != nil {
		return nil, err
	}
	overview.Evolution = evolution

	overview.PastRevenue = roundCents(overview.PastRevenue)
	overview.ProjectedRevenue = roundCents(overview.ProjectedRevenue)
	return overview, nil
}

// Evolution aggregates the window's reports per day: total active users,
// distinct reporting organizations, and the estimated daily revenue from
// the latest count per organization that day.
func (s *StatsService) Evolution(ctx context.Context, windowDays int) ([]DailyStat, error) {
	prices, err := s.priceAmounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving price amounts: %w", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	reports, err := s.reportRepo.FindSince(ctx, since)
	if err != nil {
		return nil, err
	}

	// Latest report per organization per day; duplicates within a day are
	// superseded, never summed.
	type orgDay struct {
		report *model.UsageReport
		org    *model.Organization
	}
	days := make(map[string]map[uuid.UUID]orgDay)
	for _, report := range reports {
		org := report.Organization
		if org.ExcludedFromStats() {
			continue
		}
		if org.Status != model.StatusActive && org.Status != model.StatusTrial {
			continue
		}

		date := report.ReportedAt.UTC().Format("2006-01-02")
		if days[date] == nil {
			days[date] = make(map[uuid.UUID]orgDay)
		}
		current, ok := days[date][org.ID]
		if !ok || report.ReportedAt.After(current.report.ReportedAt) {
			days[date][org.ID] = orgDay{report: report, org: &org}
		}
	}

	stats := make([]DailyStat, 0, len(days))
	for date, perOrg := range days {
		day := DailyStat{Date: date, Organizations: len(perOrg)}
		for _, entry := range perOrg {
			day.Users += entry.report.UserCount
			if entry.org.Linked() && entry.org.DeploymentType != nil && entry.org.BillingPeriod != nil {
				day.Revenue += float64(entry.report.UserCount) * prices.PerUserPerDay(*entry.org.DeploymentType, *entry.org.BillingPeriod)
			}
		}
		day.Revenue = roundCents(day.Revenue)
		stats = append(stats, day)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

// priceAmounts returns the provider price amounts, cached to avoid four
// provider round-trips per statistics call.
func (s *StatsService) priceAmounts(ctx context.Context) (*gateway.PriceAmounts, error) {
	if s.cache == nil {
		return s.gateway.PriceAmounts(ctx)
	}

	var prices gateway.PriceAmounts
	err := s.cache.GetOrSet(ctx, priceCacheKey, &prices, func() (interface{}, error) {
		return s.gateway.PriceAmounts(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &prices, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
