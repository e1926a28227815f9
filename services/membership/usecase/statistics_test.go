package usecase

import (
	"context"
	"fmt"
	"membership/domain"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatisticsRepo struct {
	mu sync.Mutex

	total         int64
	byDistrict    []domain.IDCount
	byGender      []domain.ValueCount
	byBirthYear   []domain.YearCount
	byJob         []domain.IDCount
	byEducation   []domain.IDCount
	byEmployee    []domain.IDCount
	byCert        []domain.BoolCount
	byLevel       []domain.IDCount
	withoutLevel  int64
	registrations []time.Time
}

func (f *fakeStatisticsRepo) CountMembers(ctx context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakeStatisticsRepo) CountByDistrict(ctx context.Context) ([]domain.IDCount, error) {
	return f.byDistrict, nil
}

func (f *fakeStatisticsRepo) CountByGender(ctx context.Context) ([]domain.ValueCount, error) {
	return f.byGender, nil
}

func (f *fakeStatisticsRepo) CountByBirthYear(ctx context.Context) ([]domain.YearCount, error) {
	return f.byBirthYear, nil
}

func (f *fakeStatisticsRepo) CountByJob(ctx context.Context) ([]domain.IDCount, error) {
	return f.byJob, nil
}

func (f *fakeStatisticsRepo) CountByEducation(ctx context.Context) ([]domain.IDCount, error) {
	return f.byEducation, nil
}

func (f *fakeStatisticsRepo) CountByEmployeeStatus(ctx context.Context) ([]domain.IDCount, error) {
	return f.byEmployee, nil
}

func (f *fakeStatisticsRepo) CountByCertification(ctx context.Context) ([]domain.BoolCount, error) {
	return f.byCert, nil
}

func (f *fakeStatisticsRepo) CountByTeachingLevel(ctx context.Context) ([]domain.IDCount, error) {
	return f.byLevel, nil
}

func (f *fakeStatisticsRepo) CountWithoutTeachingLevel(ctx context.Context) (int64, error) {
	return f.withoutLevel, nil
}

func (f *fakeStatisticsRepo) CountRegisteredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, ts := range f.registrations {
		if !ts.Before(from) && ts.Before(to) {
			count++
		}
	}
	return count, nil
}

func statsMaster() *fakeMasterData {
	return &fakeMasterData{
		levelIDs: map[uint]bool{1: true, 2: true},
		names: map[string]string{
			fmt.Sprintf("%s/%d", domain.EntityDistrict, 1):      "Coblong",
			fmt.Sprintf("%s/%d", domain.EntityDistrict, 2):      "Sukajadi",
			fmt.Sprintf("%s/%d", domain.EntityJob, 1):           "Guru",
			fmt.Sprintf("%s/%d", domain.EntityTeachingLevel, 1): "SD/MI",
			fmt.Sprintf("%s/%d", domain.EntityTeachingLevel, 2): "SMP/MTs",
		},
	}
}

func TestComputeStatistics_ResolvesNamesAndFlagsUnknown(t *testing.T) {
	repo := &fakeStatisticsRepo{
		total: 7,
		byDistrict: []domain.IDCount{
			{ID: 2, Count: 3},
			{ID: 1, Count: 3},
			{ID: 9, Count: 1}, // dangling reference
		},
	}
	uc := NewStatisticsUseCase(repo, statsMaster(), time.Now)

	stats, err := uc.ComputeStatistics(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 7, stats.TotalMembers)
	require.Len(t, stats.ByDistrict, 3)
	assert.Equal(t, domain.ReferenceCount{ID: 1, Name: "Coblong", Count: 3}, stats.ByDistrict[0])
	assert.Equal(t, domain.ReferenceCount{ID: 2, Name: "Sukajadi", Count: 3}, stats.ByDistrict[1])
	assert.Equal(t, domain.ReferenceCount{ID: 9, Name: "Unknown", Count: 1}, stats.ByDistrict[2])
}

func TestComputeStatistics_GenderCountsSumToTotal(t *testing.T) {
	repo := &fakeStatisticsRepo{
		total: 10,
		byGender: []domain.ValueCount{
			{Value: "Male", Count: 6},
			{Value: "Female", Count: 4},
		},
	}
	uc := NewStatisticsUseCase(repo, statsMaster(), time.Now)

	stats, err := uc.ComputeStatistics(context.Background())
	require.NoError(t, err)

	var sum int64
	for _, row := range stats.ByGender {
		sum += row.Count
	}
	assert.Equal(t, stats.TotalMembers, sum)
}

func TestComputeStatistics_BirthYearBandBoundaries(t *testing.T) {
	repo := &fakeStatisticsRepo{
		byBirthYear: []domain.YearCount{
			{Year: 1969, Count: 2},
			{Year: 1970, Count: 3},
			{Year: 1979, Count: 1},
			{Year: 1980, Count: 4},
			{Year: 1999, Count: 5},
			{Year: 2000, Count: 6},
			{Year: 2004, Count: 1},
		},
	}
	uc := NewStatisticsUseCase(repo, statsMaster(), time.Now)

	stats, err := uc.ComputeStatistics(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.ByBirthYear, 5)
	assert.Equal(t, domain.LabelCount{Label: "<1970", Count: 2}, stats.ByBirthYear[0])
	assert.Equal(t, domain.LabelCount{Label: "1970-1979", Count: 4}, stats.ByBirthYear[1])
	assert.Equal(t, domain.LabelCount{Label: "1980-1989", Count: 4}, stats.ByBirthYear[2])
	assert.Equal(t, domain.LabelCount{Label: "1990-1999", Count: 5}, stats.ByBirthYear[3])
	assert.Equal(t, domain.LabelCount{Label: "≥2000", Count: 7}, stats.ByBirthYear[4])
}

func TestComputeStatistics_CertificationAlwaysHasBothLabels(t *testing.T) {
	repo := &fakeStatisticsRepo{
		byCert: []domain.BoolCount{{Value: true, Count: 5}},
	}
	uc := NewStatisticsUseCase(repo, statsMaster(), time.Now)

	stats, err := uc.ComputeStatistics(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.ByCertification, 2)
	assert.Equal(t, domain.LabelCount{Label: "Sudah Sertifikasi", Count: 5}, stats.ByCertification[0])
	assert.Equal(t, domain.LabelCount{Label: "Belum Sertifikasi", Count: 0}, stats.ByCertification[1])
}

// Teaching level is non-exclusive: members holding two levels count twice, so
// the dimension may legitimately sum above the member total.
func TestComputeStatistics_TeachingLevelsNotExclusive(t *testing.T) {
	repo := &fakeStatisticsRepo{
		total: 4,
		byLevel: []domain.IDCount{
			{ID: 1, Count: 4},
			{ID: 2, Count: 2},
		},
		withoutLevel: 1,
	}
	uc := NewStatisticsUseCase(repo, statsMaster(), time.Now)

	stats, err := uc.ComputeStatistics(context.Background())
	require.NoError(t, err)

	var sum int64
	for _, row := range stats.ByTeachingLevel {
		sum += row.Count
	}
	assert.Greater(t, sum, stats.TotalMembers)

	require.Len(t, stats.ByTeachingLevel, 3)
	assert.Equal(t, domain.ReferenceCount{ID: 0, Name: "Unknown/None", Count: 1}, stats.ByTeachingLevel[2])
}

func TestComputeStatistics_NoUnknownNoneBucketWhenEveryoneHasLevels(t *testing.T) {
	repo := &fakeStatisticsRepo{
		byLevel:      []domain.IDCount{{ID: 1, Count: 3}},
		withoutLevel: 0,
	}
	uc := NewStatisticsUseCase(repo, statsMaster(), time.Now)

	stats, err := uc.ComputeStatistics(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.ByTeachingLevel, 1)
	assert.Equal(t, "SD/MI", stats.ByTeachingLevel[0].Name)
}

func TestComputeStatistics_RegistrationTrend(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	repo := &fakeStatisticsRepo{
		registrations: []time.Time{
			time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),  // today
			time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),   // this month
			time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),  // this year
			time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC), // last year, inside window
			time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),   // oldest window, first instant
			time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC),  // before the 12-month window
		},
	}
	uc := NewStatisticsUseCase(repo, statsMaster(), fixedClock(now))

	stats, err := uc.ComputeStatistics(context.Background())
	require.NoError(t, err)

	trend := stats.RegistrationTrend
	assert.EqualValues(t, 1, trend.Today)
	assert.EqualValues(t, 2, trend.ThisMonth)
	assert.EqualValues(t, 3, trend.ThisYear)

	require.Len(t, trend.Monthly, 12)
	assert.Equal(t, "2024-07", trend.Monthly[0].Month)
	assert.Equal(t, "2025-06", trend.Monthly[11].Month)

	assert.EqualValues(t, 1, trend.Monthly[0].Count)  // 2024-07
	assert.EqualValues(t, 1, trend.Monthly[5].Count)  // 2024-12
	assert.EqualValues(t, 1, trend.Monthly[8].Count)  // 2025-03
	assert.EqualValues(t, 2, trend.Monthly[11].Count) // 2025-06

	var windowSum int64
	for _, point := range trend.Monthly {
		windowSum += point.Count
	}
	assert.EqualValues(t, 5, windowSum)
}
