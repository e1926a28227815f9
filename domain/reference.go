package domain

import "context"

// Reference lookup tables. These are simple master data maintained by admins
// through tooling outside this service; the service only reads them.

type Religion struct {
	ReligionID uint   `gorm:"primaryKey;autoIncrement" json:"religion_id"`
	Name       string `gorm:"type:varchar(50);not null;unique" json:"name"`
}

type Province struct {
	ProvinceID uint   `gorm:"primaryKey;autoIncrement" json:"province_id"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
}

type Regency struct {
	RegencyID  uint   `gorm:"primaryKey;autoIncrement" json:"regency_id"`
	ProvinceID uint   `gorm:"not null" json:"province_id"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
}

type District struct {
	DistrictID uint   `gorm:"primaryKey;autoIncrement" json:"district_id"`
	RegencyID  uint   `gorm:"not null" json:"regency_id"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
}

type Job struct {
	JobID uint   `gorm:"primaryKey;autoIncrement" json:"job_id"`
	Name  string `gorm:"type:varchar(100);not null" json:"name"`
}

type Education struct {
	EducationID uint   `gorm:"primaryKey;autoIncrement" json:"education_id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
}

type EmployeeStatus struct {
	EmployeeStatusID uint   `gorm:"primaryKey;autoIncrement" json:"employee_status_id"`
	Name             string `gorm:"type:varchar(100);not null" json:"name"`
}

type TeachingLevel struct {
	TeachingLevelID uint   `gorm:"primaryKey;autoIncrement" json:"teaching_level_id"`
	Name            string `gorm:"type:varchar(100);not null" json:"name"`
}

// Entity type names accepted by MasterDataRepo.ResolveName.
const (
	EntityReligion       = "religion"
	EntityProvince       = "province"
	EntityRegency        = "regency"
	EntityDistrict       = "district"
	EntityJob            = "job"
	EntityEducation      = "education"
	EntityEmployeeStatus = "employee_status"
	EntityTeachingLevel  = "teaching_level"
)

// MasterDataRepo resolves a reference id to its display name.
// A missing row resolves to nil, not an error; callers fall back to "Unknown".
type MasterDataRepo interface {
	ResolveName(ctx context.Context, entity string, id uint) (*string, error)
	TeachingLevelsExist(ctx context.Context, ids []uint) (bool, error)
}
