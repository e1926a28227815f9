package repository

import (
	"context"
	"fmt"
	"membership/domain"
	"time"

	"gorm.io/gorm"
)

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(database *gorm.DB) domain.StatisticsRepo {
	return &statisticsRepository{
		db: database,
	}
}

// visibleMembers scopes every aggregate to the approval gate: only Approved
// and active members are counted.
func (sr *statisticsRepository) visibleMembers(ctx context.Context) *gorm.DB {
	return sr.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("approval_status = ? AND is_active = ?", domain.ApprovalApproved, true)
}

func (sr *statisticsRepository) CountMembers(ctx context.Context) (int64, error) {
	var total int64
	if err := sr.visibleMembers(ctx).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("could not count members: %v", err)
	}
	return total, nil
}

func (sr *statisticsRepository) CountByDistrict(ctx context.Context) ([]domain.IDCount, error) {
	return sr.countGroupedByID(ctx, "district_id")
}

func (sr *statisticsRepository) CountByJob(ctx context.Context) ([]domain.IDCount, error) {
	return sr.countGroupedByID(ctx, "job_id")
}

func (sr *statisticsRepository) CountByEducation(ctx context.Context) ([]domain.IDCount, error) {
	return sr.countGroupedByID(ctx, "education_id")
}

func (sr *statisticsRepository) CountByEmployeeStatus(ctx context.Context) ([]domain.IDCount, error) {
	return sr.countGroupedByID(ctx, "employee_status_id")
}

func (sr *statisticsRepository) countGroupedByID(ctx context.Context, column string) ([]domain.IDCount, error) {
	var rows []domain.IDCount
	err := sr.visibleMembers(ctx).
		Select(column + " AS id, count(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not count members by %s: %v", column, err)
	}
	return rows, nil
}

func (sr *statisticsRepository) CountByGender(ctx context.Context) ([]domain.ValueCount, error) {
	var rows []domain.ValueCount
	err := sr.visibleMembers(ctx).
		Select("gender AS value, count(*) AS count").
		Group("gender").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not count members by gender: %v", err)
	}
	return rows, nil
}

func (sr *statisticsRepository) CountByBirthYear(ctx context.Context) ([]domain.YearCount, error) {
	var rows []domain.YearCount
	err := sr.visibleMembers(ctx).
		Select("EXTRACT(YEAR FROM birth_date)::int AS year, count(*) AS count").
		Group("EXTRACT(YEAR FROM birth_date)").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not count members by birth year: %v", err)
	}
	return rows, nil
}

func (sr *statisticsRepository) CountByCertification(ctx context.Context) ([]domain.BoolCount, error) {
	var rows []domain.BoolCount
	err := sr.visibleMembers(ctx).
		Select("has_educator_certificate AS value, count(*) AS count").
		Group("has_educator_certificate").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not count members by certification: %v", err)
	}
	return rows, nil
}

// CountByTeachingLevel is not mutually exclusive: a member appears once per
// held level, so this dimension may sum above the member total.
func (sr *statisticsRepository) CountByTeachingLevel(ctx context.Context) ([]domain.IDCount, error) {
	var rows []domain.IDCount
	err := sr.db.WithContext(ctx).
		Table("member_teaching_levels AS mtl").
		Joins("JOIN members AS m ON m.member_id = mtl.member_id").
		Where("m.approval_status = ? AND m.is_active = ?", domain.ApprovalApproved, true).
		Select("mtl.teaching_level_id AS id, count(*) AS count").
		Group("mtl.teaching_level_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not count members by teaching level: %v", err)
	}
	return rows, nil
}

func (sr *statisticsRepository) CountWithoutTeachingLevel(ctx context.Context) (int64, error) {
	var total int64
	err := sr.visibleMembers(ctx).
		Where("NOT EXISTS (SELECT 1 FROM member_teaching_levels AS mtl WHERE mtl.member_id = members.member_id)").
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("could not count members without teaching level: %v", err)
	}
	return total, nil
}

func (sr *statisticsRepository) CountRegisteredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := sr.visibleMembers(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("could not count registrations: %v", err)
	}
	return total, nil
}
