package repository

import (
	"context"
	"errors"
	"fmt"
	"membership/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(database *gorm.DB) domain.MemberRepo {
	return &memberRepository{
		db: database,
	}
}

func (mr *memberRepository) Create(ctx context.Context, member *domain.Member, teachingLevelIDs []uint) error {
	tx := mr.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}

	if err := tx.Omit(clause.Associations).Create(member).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not insert member: %v", err)
	}

	levels := teachingLevelRows(teachingLevelIDs)
	if len(levels) > 0 {
		if err := tx.Model(member).Association("TeachingLevels").Append(&levels); err != nil {
			tx.Rollback()
			return fmt.Errorf("could not link teaching levels: %v", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("could not commit transaction: %v", err)
	}

	return nil
}

func (mr *memberRepository) GetByID(ctx context.Context, id uint) (*domain.Member, error) {
	var member domain.Member

	err := mr.db.WithContext(ctx).
		Preload("Religion").
		Preload("Province").
		Preload("Regency").
		Preload("District").
		Preload("Job").
		Preload("Education").
		Preload("EmployeeStatus").
		Preload("TeachingLevels").
		First(&member, "member_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "member"}
		}
		return nil, fmt.Errorf("could not get member: %v", err)
	}

	return &member, nil
}

// Update persists the full member row and, when teachingLevelIDs is non-nil,
// replaces the teaching-level set inside the same transaction so a concurrent
// read never observes an empty set.
func (mr *memberRepository) Update(ctx context.Context, member *domain.Member, teachingLevelIDs *[]uint) error {
	tx := mr.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}

	if err := tx.Omit(clause.Associations).Save(member).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not update member: %v", err)
	}

	if teachingLevelIDs != nil {
		levels := teachingLevelRows(*teachingLevelIDs)
		if err := tx.Model(member).Association("TeachingLevels").Replace(&levels); err != nil {
			tx.Rollback()
			return fmt.Errorf("could not replace teaching levels: %v", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("could not commit transaction: %v", err)
	}

	return nil
}

func (mr *memberRepository) Delete(ctx context.Context, id uint) error {
	tx := mr.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}

	if err := tx.Exec("DELETE FROM member_teaching_levels WHERE member_id = ?", id).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not remove teaching level links: %v", err)
	}

	result := tx.Delete(&domain.Member{}, "member_id = ?", id)
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete member: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return &domain.NotFoundError{Resource: "member"}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("could not commit transaction: %v", err)
	}

	return nil
}

func (mr *memberRepository) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	var existing domain.Member

	query := mr.db.WithContext(ctx).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("member_id <> ?", excludeID)
	}

	err := query.First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("error checking member email: %v", err)
}

func (mr *memberRepository) NIKExists(ctx context.Context, nik string, excludeID uint) (bool, error) {
	var existing domain.Member

	query := mr.db.WithContext(ctx).Where("nik = ?", nik)
	if excludeID != 0 {
		query = query.Where("member_id <> ?", excludeID)
	}

	err := query.First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("error checking member NIK: %v", err)
}

func (mr *memberRepository) Search(ctx context.Context, filter domain.MemberFilter) (*[]domain.Member, int64, error) {
	var members []domain.Member
	var total int64

	query := mr.db.WithContext(ctx).Model(&domain.Member{})

	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.InstitutionName != "" {
		query = query.Where("institution_name ILIKE ?", "%"+filter.InstitutionName+"%")
	}
	if filter.DistrictID != nil {
		query = query.Where("district_id = ?", *filter.DistrictID)
	}
	if filter.ApprovalStatus != nil {
		query = query.Where("approval_status = ?", *filter.ApprovalStatus)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("could not count members: %v", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	err := query.
		Preload("District").
		Preload("Job").
		Preload("TeachingLevels").
		Order("name asc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("could not search members: %v", err)
	}

	return &members, total, nil
}

func teachingLevelRows(ids []uint) []domain.TeachingLevel {
	levels := make([]domain.TeachingLevel, 0, len(ids))
	for _, id := range ids {
		levels = append(levels, domain.TeachingLevel{TeachingLevelID: id})
	}
	return levels
}
