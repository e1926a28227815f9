package repository

import (
	"context"
	"errors"
	"fmt"
	"membership/domain"

	"gorm.io/gorm"
)

type masterDataRepository struct {
	db *gorm.DB
}

func NewMasterDataRepository(database *gorm.DB) domain.MasterDataRepo {
	return &masterDataRepository{
		db: database,
	}
}

// ResolveName looks up the display name of a reference row. A dangling id
// resolves to nil so aggregations can degrade to "Unknown" per row.
func (mdr *masterDataRepository) ResolveName(ctx context.Context, entity string, id uint) (*string, error) {
	table, column, ok := referenceTable(entity)
	if !ok {
		return nil, fmt.Errorf("unknown reference entity: %s", entity)
	}

	var name string
	err := mdr.db.WithContext(ctx).
		Table(table).
		Select("name").
		Where(column+" = ?", id).
		Take(&name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not resolve %s %d: %v", entity, id, err)
	}

	return &name, nil
}

func (mdr *masterDataRepository) TeachingLevelsExist(ctx context.Context, ids []uint) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var count int64
	err := mdr.db.WithContext(ctx).
		Model(&domain.TeachingLevel{}).
		Where("teaching_level_id IN ?", ids).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("could not check teaching levels: %v", err)
	}

	return count == int64(len(unique)), nil
}

func referenceTable(entity string) (table, column string, ok bool) {
	switch entity {
	case domain.EntityReligion:
		return "religions", "religion_id", true
	case domain.EntityProvince:
		return "provinces", "province_id", true
	case domain.EntityRegency:
		return "regencies", "regency_id", true
	case domain.EntityDistrict:
		return "districts", "district_id", true
	case domain.EntityJob:
		return "jobs", "job_id", true
	case domain.EntityEducation:
		return "educations", "education_id", true
	case domain.EntityEmployeeStatus:
		return "employee_statuses", "employee_status_id", true
	case domain.EntityTeachingLevel:
		return "teaching_levels", "teaching_level_id", true
	default:
		return "", "", false
	}
}
