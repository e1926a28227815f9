package domain

import (
	"context"
	"time"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

func (s ApprovalStatus) Valid() bool {
	return s == ApprovalPending || s == ApprovalApproved || s == ApprovalRejected
}

type Member struct {
	MemberID               uint            `gorm:"primaryKey;autoIncrement" json:"member_id"`
	Email                  string          `gorm:"type:varchar(150);not null;uniqueIndex" json:"email" valid:"required~Email is required,email~Invalid email format"`
	NIK                    string          `gorm:"type:varchar(16);not null;uniqueIndex" json:"nik" valid:"required~NIK is required"`
	NPALegacy              *string         `gorm:"type:varchar(30)" json:"npa_legacy,omitempty"`
	NPA                    *string         `gorm:"type:varchar(30)" json:"npa,omitempty"`
	Name                   string          `gorm:"type:varchar(150);not null" json:"name" valid:"required~Name is required"`
	BirthPlace             string          `gorm:"type:varchar(100);not null" json:"birth_place" valid:"required~Birth place is required"`
	BirthDate              time.Time       `gorm:"type:date;not null" json:"birth_date"`
	Gender                 string          `gorm:"type:gender_enum;not null" json:"gender" valid:"required~Gender is required,in(Male|Female)~Invalid gender"`
	BloodType              *string         `gorm:"type:varchar(3)" json:"blood_type,omitempty"`
	ReligionID             uint            `gorm:"not null" json:"religion_id"`
	Religion               Religion        `gorm:"foreignKey:ReligionID" json:"religion"`
	Address                string          `gorm:"type:text;not null" json:"address" valid:"required~Address is required"`
	ProvinceID             uint            `gorm:"not null" json:"province_id"`
	Province               Province        `gorm:"foreignKey:ProvinceID" json:"province"`
	RegencyID              uint            `gorm:"not null" json:"regency_id"`
	Regency                Regency         `gorm:"foreignKey:RegencyID" json:"regency"`
	DistrictID             uint            `gorm:"not null" json:"district_id"`
	District               District        `gorm:"foreignKey:DistrictID" json:"district"`
	PostalCode             string          `gorm:"type:varchar(10);not null" json:"postal_code" valid:"required~Postal code is required"`
	PhoneNumber            string          `gorm:"type:varchar(15);not null" json:"phone_number" valid:"required~Phone number is required"`
	PhotoPath              *string         `gorm:"type:varchar(255)" json:"photo_path,omitempty"`
	JobID                  uint            `gorm:"not null" json:"job_id"`
	Job                    Job             `gorm:"foreignKey:JobID" json:"job"`
	EducationID            uint            `gorm:"not null" json:"education_id"`
	Education              Education       `gorm:"foreignKey:EducationID" json:"education"`
	EmployeeStatusID       uint            `gorm:"not null" json:"employee_status_id"`
	EmployeeStatus         EmployeeStatus  `gorm:"foreignKey:EmployeeStatusID" json:"employee_status"`
	InstitutionName        string          `gorm:"type:varchar(150);not null" json:"institution_name" valid:"required~Institution name is required"`
	WorkAddress            string          `gorm:"type:text;not null" json:"work_address" valid:"required~Work address is required"`
	Rank                   *string         `gorm:"type:varchar(50)" json:"rank,omitempty"`
	HasEducatorCertificate bool            `gorm:"not null;default:false" json:"has_educator_certificate"`
	Subjects               *string         `gorm:"type:varchar(255)" json:"subjects,omitempty"`
	TeachingLevels         []TeachingLevel `gorm:"many2many:member_teaching_levels;foreignKey:MemberID;joinForeignKey:MemberID;References:TeachingLevelID;joinReferences:TeachingLevelID" json:"teaching_levels"`
	ApprovalStatus         ApprovalStatus  `gorm:"type:approval_enum;not null;default:'Pending'" json:"approval_status"`
	IsActive               bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// PhotoUpload carries one uploaded photo from delivery into the usecase,
// where size and mime validation happen.
type PhotoUpload struct {
	Filename string
	Data     []byte
}

type RegisterMemberInput struct {
	Email                  string
	NIK                    string
	Name                   string
	BirthPlace             string
	BirthDate              time.Time
	Gender                 string
	BloodType              *string
	ReligionID             uint
	Address                string
	ProvinceID             uint
	RegencyID              uint
	DistrictID             uint
	PostalCode             string
	PhoneNumber            string
	JobID                  uint
	EducationID            uint
	EmployeeStatusID       uint
	InstitutionName        string
	WorkAddress            string
	Rank                   *string
	HasEducatorCertificate bool
	Subjects               *string
	TeachingLevelIDs       []uint
	Photo                  *PhotoUpload
}

// UpdateMemberInput is a partial patch: nil pointer means "leave unchanged".
// TeachingLevelIDs, when present, fully replaces the member's set.
type UpdateMemberInput struct {
	Email                  *string
	NIK                    *string
	NPALegacy              *string
	NPA                    *string
	Name                   *string
	BirthPlace             *string
	BirthDate              *time.Time
	Gender                 *string
	BloodType              *string
	ReligionID             *uint
	Address                *string
	ProvinceID             *uint
	RegencyID              *uint
	DistrictID             *uint
	PostalCode             *string
	PhoneNumber            *string
	JobID                  *uint
	EducationID            *uint
	EmployeeStatusID       *uint
	InstitutionName        *string
	WorkAddress            *string
	Rank                   *string
	HasEducatorCertificate *bool
	Subjects               *string
	TeachingLevelIDs       *[]uint
	ApprovalStatus         *ApprovalStatus
	IsActive               *bool
	Photo                  *PhotoUpload
}

type MemberFilter struct {
	Name            string
	InstitutionName string
	DistrictID      *uint
	ApprovalStatus  *ApprovalStatus
	IsActive        *bool
	Page            int
	PerPage         int
}

type MemberRepo interface {
	Create(ctx context.Context, member *Member, teachingLevelIDs []uint) error
	GetByID(ctx context.Context, id uint) (*Member, error)
	Update(ctx context.Context, member *Member, teachingLevelIDs *[]uint) error
	Delete(ctx context.Context, id uint) error
	EmailExists(ctx context.Context, email string, excludeID uint) (bool, error)
	NIKExists(ctx context.Context, nik string, excludeID uint) (bool, error)
	Search(ctx context.Context, filter MemberFilter) (*[]Member, int64, error)
}

type MemberUseCase interface {
	Register(ctx context.Context, input *RegisterMemberInput) (*Member, error)
	Update(ctx context.Context, id uint, patch *UpdateMemberInput) (*Member, error)
	SetApproval(ctx context.Context, id uint, decision ApprovalStatus) (*Member, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Member, error)
	Search(ctx context.Context, filter MemberFilter) (*[]Member, int64, error)
	PublicSearch(ctx context.Context, filter MemberFilter) (*[]Member, int64, error)
}
