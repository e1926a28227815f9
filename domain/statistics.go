package domain

import (
	"context"
	"time"
)

// Statistics is recomputed fresh on every request; it is never persisted.
// Only Approved and active members are counted.
type Statistics struct {
	TotalMembers      int64            `json:"total_members"`
	ByDistrict        []ReferenceCount `json:"members_by_district"`
	ByGender          []LabelCount     `json:"members_by_gender"`
	ByBirthYear       []LabelCount     `json:"members_by_birth_year"`
	ByJob             []ReferenceCount `json:"members_by_job"`
	ByEducation       []ReferenceCount `json:"members_by_education"`
	ByEmployeeStatus  []ReferenceCount `json:"members_by_employee_status"`
	ByCertification   []LabelCount     `json:"members_by_certification"`
	ByTeachingLevel   []ReferenceCount `json:"members_by_teaching_level"`
	RegistrationTrend RegistrationTrend `json:"registration_trend"`
}

type ReferenceCount struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"` // formatted as 2006-01
	Count int64  `json:"count"`
}

type RegistrationTrend struct {
	Today     int64        `json:"today"`
	ThisMonth int64        `json:"this_month"`
	ThisYear  int64        `json:"this_year"`
	Monthly   []MonthCount `json:"monthly"` // 12 points, oldest first
}

// Raw grouped rows as the repository returns them; name resolution and
// bucketing happen in the usecase.
type IDCount struct {
	ID    uint
	Count int64
}

type ValueCount struct {
	Value string
	Count int64
}

type YearCount struct {
	Year  int
	Count int64
}

type BoolCount struct {
	Value bool
	Count int64
}

type StatisticsRepo interface {
	CountMembers(ctx context.Context) (int64, error)
	CountByDistrict(ctx context.Context) ([]IDCount, error)
	CountByGender(ctx context.Context) ([]ValueCount, error)
	CountByBirthYear(ctx context.Context) ([]YearCount, error)
	CountByJob(ctx context.Context) ([]IDCount, error)
	CountByEducation(ctx context.Context) ([]IDCount, error)
	CountByEmployeeStatus(ctx context.Context) ([]IDCount, error)
	CountByCertification(ctx context.Context) ([]BoolCount, error)
	CountByTeachingLevel(ctx context.Context) ([]IDCount, error)
	CountWithoutTeachingLevel(ctx context.Context) (int64, error)
	CountRegisteredBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type StatisticsUseCase interface {
	ComputeStatistics(ctx context.Context) (*Statistics, error)
}
