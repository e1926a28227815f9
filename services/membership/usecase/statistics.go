package usecase

import (
	"context"
	"fmt"
	"membership/domain"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	labelCertified    = "Sudah Sertifikasi"
	labelNotCertified = "Belum Sertifikasi"
	labelUnknown      = "Unknown"
	labelNoLevel      = "Unknown/None"
)

var birthYearBands = []struct {
	Label string
	From  int // inclusive, 0 = open
	To    int // inclusive, 0 = open
}{
	{Label: "<1970", To: 1969},
	{Label: "1970-1979", From: 1970, To: 1979},
	{Label: "1980-1989", From: 1980, To: 1989},
	{Label: "1990-1999", From: 1990, To: 1999},
	{Label: "≥2000", From: 2000},
}

type statisticsUseCase struct {
	repo   domain.StatisticsRepo
	master domain.MasterDataRepo
	now    Clock
}

func NewStatisticsUseCase(repo domain.StatisticsRepo, master domain.MasterDataRepo, now Clock) domain.StatisticsUseCase {
	return &statisticsUseCase{
		repo:   repo,
		master: master,
		now:    now,
	}
}

// ComputeStatistics recomputes every dimension fresh. Only Approved, active
// members are visible; a dangling reference id degrades to "Unknown".
func (suc *statisticsUseCase) ComputeStatistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{}

	total, err := suc.repo.CountMembers(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalMembers = total

	if stats.ByDistrict, err = suc.resolveGrouping(ctx, domain.EntityDistrict, suc.repo.CountByDistrict); err != nil {
		return nil, err
	}
	if stats.ByJob, err = suc.resolveGrouping(ctx, domain.EntityJob, suc.repo.CountByJob); err != nil {
		return nil, err
	}
	if stats.ByEducation, err = suc.resolveGrouping(ctx, domain.EntityEducation, suc.repo.CountByEducation); err != nil {
		return nil, err
	}
	if stats.ByEmployeeStatus, err = suc.resolveGrouping(ctx, domain.EntityEmployeeStatus, suc.repo.CountByEmployeeStatus); err != nil {
		return nil, err
	}

	genderRows, err := suc.repo.CountByGender(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range genderRows {
		stats.ByGender = append(stats.ByGender, domain.LabelCount{Label: row.Value, Count: row.Count})
	}

	if stats.ByBirthYear, err = suc.bucketBirthYears(ctx); err != nil {
		return nil, err
	}

	certRows, err := suc.repo.CountByCertification(ctx)
	if err != nil {
		return nil, err
	}
	certified := domain.LabelCount{Label: labelCertified}
	notCertified := domain.LabelCount{Label: labelNotCertified}
	for _, row := range certRows {
		if row.Value {
			certified.Count = row.Count
		} else {
			notCertified.Count = row.Count
		}
	}
	stats.ByCertification = []domain.LabelCount{certified, notCertified}

	if stats.ByTeachingLevel, err = suc.teachingLevelCounts(ctx); err != nil {
		return nil, err
	}

	trend, err := suc.registrationTrend(ctx)
	if err != nil {
		return nil, err
	}
	stats.RegistrationTrend = *trend

	return stats, nil
}

func (suc *statisticsUseCase) resolveGrouping(ctx context.Context, entity string,
	count func(context.Context) ([]domain.IDCount, error)) ([]domain.ReferenceCount, error) {

	rows, err := count(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.ReferenceCount, 0, len(rows))
	for _, row := range rows {
		name, err := suc.master.ResolveName(ctx, entity, row.ID)
		if err != nil {
			return nil, err
		}

		label := labelUnknown
		if name != nil {
			label = *name
		}
		resolved = append(resolved, domain.ReferenceCount{ID: row.ID, Name: label, Count: row.Count})
	}

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].ID < resolved[j].ID })
	return resolved, nil
}

// bucketBirthYears folds raw calendar-year counts into the fixed bands. The
// year comes straight from the stored date, no timezone adjustment.
func (suc *statisticsUseCase) bucketBirthYears(ctx context.Context) ([]domain.LabelCount, error) {
	rows, err := suc.repo.CountByBirthYear(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make([]domain.LabelCount, len(birthYearBands))
	for i, band := range birthYearBands {
		buckets[i].Label = band.Label
	}

	for _, row := range rows {
		for i, band := range birthYearBands {
			if band.From != 0 && row.Year < band.From {
				continue
			}
			if band.To != 0 && row.Year > band.To {
				continue
			}
			buckets[i].Count += row.Count
			break
		}
	}

	return buckets, nil
}

// teachingLevelCounts is the one non-exclusive dimension: a member counts once
// per held level, and members holding none land in the Unknown/None bucket.
func (suc *statisticsUseCase) teachingLevelCounts(ctx context.Context) ([]domain.ReferenceCount, error) {
	counts, err := suc.resolveGrouping(ctx, domain.EntityTeachingLevel, suc.repo.CountByTeachingLevel)
	if err != nil {
		return nil, err
	}

	none, err := suc.repo.CountWithoutTeachingLevel(ctx)
	if err != nil {
		return nil, err
	}
	if none > 0 {
		counts = append(counts, domain.ReferenceCount{ID: 0, Name: labelNoLevel, Count: none})
	}

	return counts, nil
}

// registrationTrend computes the day/month/year counters plus a 12-point
// monthly series, oldest first. The 12 monthly windows are independent
// aggregates and run concurrently.
func (suc *statisticsUseCase) registrationTrend(ctx context.Context) (*domain.RegistrationTrend, error) {
	now := suc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	trend := &domain.RegistrationTrend{
		Monthly: make([]domain.MonthCount, 12),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := suc.repo.CountRegisteredBetween(gctx, todayStart, now)
		trend.Today = count
		return err
	})
	g.Go(func() error {
		count, err := suc.repo.CountRegisteredBetween(gctx, monthStart, now)
		trend.ThisMonth = count
		return err
	})
	g.Go(func() error {
		count, err := suc.repo.CountRegisteredBetween(gctx, yearStart, now)
		trend.ThisYear = count
		return err
	})

	for i := 0; i < 12; i++ {
		idx := i
		start := monthStart.AddDate(0, idx-11, 0)
		end := start.AddDate(0, 1, 0)

		g.Go(func() error {
			count, err := suc.repo.CountRegisteredBetween(gctx, start, end)
			trend.Monthly[idx] = domain.MonthCount{
				Month: fmt.Sprintf("%04d-%02d", start.Year(), int(start.Month())),
				Count: count,
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return trend, nil
}
