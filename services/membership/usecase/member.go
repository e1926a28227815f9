package usecase

import (
	"context"
	"fmt"
	"membership/domain"
	"net/http"
	"regexp"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/sirupsen/logrus"
)

// Clock supplies "now" so timestamps and the registration trend are
// deterministic in tests.
type Clock func() time.Time

const maxPhotoBytes = 1 * 1024 * 1024

var nikPattern = regexp.MustCompile(`^[0-9]{16}$`)

type memberUseCase struct {
	repo     domain.MemberRepo
	master   domain.MasterDataRepo
	assets   domain.AssetStore
	notifier domain.ApprovalNotifier
	log      *logrus.Logger
	now      Clock
	TimeOut  time.Duration
}

func NewMemberUseCase(repo domain.MemberRepo, master domain.MasterDataRepo, assets domain.AssetStore,
	notifier domain.ApprovalNotifier, log *logrus.Logger, now Clock, to time.Duration) domain.MemberUseCase {
	return &memberUseCase{
		repo:     repo,
		master:   master,
		assets:   assets,
		notifier: notifier,
		log:      log,
		now:      now,
		TimeOut:  to,
	}
}

func (muc *memberUseCase) Register(ctx context.Context, input *domain.RegisterMemberInput) (*domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, muc.TimeOut)
	defer cancel()

	member := &domain.Member{
		Email:                  input.Email,
		NIK:                    input.NIK,
		Name:                   input.Name,
		BirthPlace:             input.BirthPlace,
		BirthDate:              input.BirthDate,
		Gender:                 input.Gender,
		BloodType:              input.BloodType,
		ReligionID:             input.ReligionID,
		Address:                input.Address,
		ProvinceID:             input.ProvinceID,
		RegencyID:              input.RegencyID,
		DistrictID:             input.DistrictID,
		PostalCode:             input.PostalCode,
		PhoneNumber:            input.PhoneNumber,
		JobID:                  input.JobID,
		EducationID:            input.EducationID,
		EmployeeStatusID:       input.EmployeeStatusID,
		InstitutionName:        input.InstitutionName,
		WorkAddress:            input.WorkAddress,
		Rank:                   input.Rank,
		HasEducatorCertificate: input.HasEducatorCertificate,
		Subjects:               input.Subjects,
		ApprovalStatus:         domain.ApprovalPending,
		IsActive:               true,
	}

	ve := &domain.ValidationError{Fields: map[string]string{}}

	if _, err := govalidator.ValidateStruct(member); err != nil {
		for field, msg := range govalidator.ErrorsByField(err) {
			ve.Add(field, msg)
		}
	}

	muc.validateCommon(ctx, ve, member, 0)

	if input.BirthDate.IsZero() {
		ve.Add("birth_date", "Birth date is required")
	}

	for field, id := range map[string]uint{
		"religion_id":        input.ReligionID,
		"province_id":        input.ProvinceID,
		"regency_id":         input.RegencyID,
		"district_id":        input.DistrictID,
		"job_id":             input.JobID,
		"education_id":       input.EducationID,
		"employee_status_id": input.EmployeeStatusID,
	} {
		if id == 0 {
			ve.Add(field, "This field is required")
		}
	}

	if len(input.TeachingLevelIDs) == 0 {
		ve.Add("teaching_level_ids", "At least one teaching level must be selected")
	} else {
		exists, err := muc.master.TeachingLevelsExist(ctx, input.TeachingLevelIDs)
		if err != nil {
			return nil, err
		}
		if !exists {
			ve.Add("teaching_level_ids", "Unknown teaching level selected")
		}
	}

	if input.Photo == nil {
		ve.Add("photo", "Photo is required")
	} else {
		validatePhoto(ve, input.Photo)
	}

	if ve.HasErrors() {
		return nil, ve
	}

	photoPath, err := muc.assets.Store(ctx, input.Photo.Data, input.Photo.Filename)
	if err != nil {
		return nil, err
	}
	member.PhotoPath = &photoPath

	now := muc.now()
	member.CreatedAt = now
	member.UpdatedAt = now

	if err := muc.repo.Create(ctx, member, input.TeachingLevelIDs); err != nil {
		// No partial state: reclaim the stored photo before surfacing the error.
		if delErr := muc.assets.Delete(ctx, photoPath); delErr != nil {
			muc.log.Warnf("failed to clean up photo %s after registration failure: %v", photoPath, delErr)
		}
		return nil, err
	}

	return muc.repo.GetByID(ctx, member.MemberID)
}

func (muc *memberUseCase) Update(ctx context.Context, id uint, patch *domain.UpdateMemberInput) (*domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, muc.TimeOut)
	defer cancel()

	member, err := muc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ve := &domain.ValidationError{Fields: map[string]string{}}

	if patch.Email != nil && *patch.Email != member.Email {
		if !govalidator.IsEmail(*patch.Email) {
			ve.Add("email", "Invalid email format")
		} else {
			exists, err := muc.repo.EmailExists(ctx, *patch.Email, id)
			if err != nil {
				return nil, err
			}
			if exists {
				ve.Add("email", fmt.Sprintf("Email %s is already registered", *patch.Email))
			}
		}
		member.Email = *patch.Email
	}

	if patch.NIK != nil && *patch.NIK != member.NIK {
		if !nikPattern.MatchString(*patch.NIK) {
			ve.Add("nik", "NIK must be exactly 16 digits")
		} else {
			exists, err := muc.repo.NIKExists(ctx, *patch.NIK, id)
			if err != nil {
				return nil, err
			}
			if exists {
				ve.Add("nik", fmt.Sprintf("NIK %s is already registered", *patch.NIK))
			}
		}
		member.NIK = *patch.NIK
	}

	if patch.Gender != nil {
		if *patch.Gender != "Male" && *patch.Gender != "Female" {
			ve.Add("gender", "Invalid gender")
		}
		member.Gender = *patch.Gender
	}

	if patch.ApprovalStatus != nil {
		if !patch.ApprovalStatus.Valid() {
			ve.Add("approval_status", "Invalid approval status")
		}
		member.ApprovalStatus = *patch.ApprovalStatus
	}

	if patch.TeachingLevelIDs != nil {
		if len(*patch.TeachingLevelIDs) == 0 {
			ve.Add("teaching_level_ids", "At least one teaching level must be selected")
		} else {
			exists, err := muc.master.TeachingLevelsExist(ctx, *patch.TeachingLevelIDs)
			if err != nil {
				return nil, err
			}
			if !exists {
				ve.Add("teaching_level_ids", "Unknown teaching level selected")
			}
		}
	}

	if patch.Photo != nil {
		validatePhoto(ve, patch.Photo)
	}

	applyScalarPatch(member, patch)

	if ve.HasErrors() {
		return nil, ve
	}

	if patch.Photo != nil {
		// Best-effort delete of the replaced asset; a failed delete never
		// blocks the member's edit.
		if member.PhotoPath != nil {
			if err := muc.assets.Delete(ctx, *member.PhotoPath); err != nil {
				muc.log.Warnf("failed to delete replaced photo %s: %v", *member.PhotoPath, err)
			}
		}

		photoPath, err := muc.assets.Store(ctx, patch.Photo.Data, patch.Photo.Filename)
		if err != nil {
			return nil, err
		}
		member.PhotoPath = &photoPath
	}

	member.UpdatedAt = muc.now()

	if err := muc.repo.Update(ctx, member, patch.TeachingLevelIDs); err != nil {
		return nil, err
	}

	return muc.repo.GetByID(ctx, id)
}

// SetApproval moves a member through the approval gate. Re-applying the
// decision already recorded is a no-op success; any other transition out of
// a decided state is rejected.
func (muc *memberUseCase) SetApproval(ctx context.Context, id uint, decision domain.ApprovalStatus) (*domain.Member, error) {
	if decision != domain.ApprovalApproved && decision != domain.ApprovalRejected {
		return nil, domain.NewValidationError("status", "Status must be Approved or Rejected")
	}

	member, err := muc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if member.ApprovalStatus == decision {
		return member, nil
	}

	if member.ApprovalStatus != domain.ApprovalPending {
		return nil, domain.NewValidationError("status", "Approval has already been decided")
	}

	member.ApprovalStatus = decision
	member.UpdatedAt = muc.now()

	if err := muc.repo.Update(ctx, member, nil); err != nil {
		return nil, err
	}

	if muc.notifier != nil {
		if err := muc.notifier.NotifyDecision(ctx, member, decision); err != nil {
			muc.log.Errorf("approval notification failed for member %d: %v", id, err)
		}
	}

	return member, nil
}

func (muc *memberUseCase) Delete(ctx context.Context, id uint) error {
	member, err := muc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := muc.repo.Delete(ctx, id); err != nil {
		return err
	}

	if member.PhotoPath != nil {
		if err := muc.assets.Delete(ctx, *member.PhotoPath); err != nil {
			muc.log.Warnf("failed to delete photo %s of removed member %d: %v", *member.PhotoPath, id, err)
		}
	}

	return nil
}

func (muc *memberUseCase) GetByID(ctx context.Context, id uint) (*domain.Member, error) {
	return muc.repo.GetByID(ctx, id)
}

func (muc *memberUseCase) Search(ctx context.Context, filter domain.MemberFilter) (*[]domain.Member, int64, error) {
	return muc.repo.Search(ctx, filter)
}

// PublicSearch never exposes Pending or Rejected members.
func (muc *memberUseCase) PublicSearch(ctx context.Context, filter domain.MemberFilter) (*[]domain.Member, int64, error) {
	approved := domain.ApprovalApproved
	active := true
	filter.ApprovalStatus = &approved
	filter.IsActive = &active

	return muc.repo.Search(ctx, filter)
}

// validateCommon covers the checks shared by registration: NIK format and the
// global uniqueness of email and NIK.
func (muc *memberUseCase) validateCommon(ctx context.Context, ve *domain.ValidationError, member *domain.Member, excludeID uint) {
	if member.NIK != "" && !nikPattern.MatchString(member.NIK) {
		ve.Add("nik", "NIK must be exactly 16 digits")
	}

	if member.Email != "" && govalidator.IsEmail(member.Email) {
		exists, err := muc.repo.EmailExists(ctx, member.Email, excludeID)
		if err == nil && exists {
			ve.Add("email", fmt.Sprintf("Email %s is already registered", member.Email))
		}
	}

	if nikPattern.MatchString(member.NIK) {
		exists, err := muc.repo.NIKExists(ctx, member.NIK, excludeID)
		if err == nil && exists {
			ve.Add("nik", fmt.Sprintf("NIK %s is already registered", member.NIK))
		}
	}
}

func validatePhoto(ve *domain.ValidationError, photo *domain.PhotoUpload) {
	if len(photo.Data) == 0 {
		ve.Add("photo", "Photo is empty")
		return
	}
	if len(photo.Data) > maxPhotoBytes {
		ve.Add("photo", "Photo must not exceed 1MB")
	}

	mime := http.DetectContentType(photo.Data)
	if mime != "image/jpeg" && mime != "image/png" {
		ve.Add("photo", "Photo must be a JPEG or PNG image")
	}
}

func applyScalarPatch(member *domain.Member, patch *domain.UpdateMemberInput) {
	if patch.NPALegacy != nil {
		member.NPALegacy = patch.NPALegacy
	}
	if patch.NPA != nil {
		member.NPA = patch.NPA
	}
	if patch.Name != nil {
		member.Name = *patch.Name
	}
	if patch.BirthPlace != nil {
		member.BirthPlace = *patch.BirthPlace
	}
	if patch.BirthDate != nil {
		member.BirthDate = *patch.BirthDate
	}
	if patch.BloodType != nil {
		member.BloodType = patch.BloodType
	}
	if patch.ReligionID != nil {
		member.ReligionID = *patch.ReligionID
	}
	if patch.Address != nil {
		member.Address = *patch.Address
	}
	if patch.ProvinceID != nil {
		member.ProvinceID = *patch.ProvinceID
	}
	if patch.RegencyID != nil {
		member.RegencyID = *patch.RegencyID
	}
	if patch.DistrictID != nil {
		member.DistrictID = *patch.DistrictID
	}
	if patch.PostalCode != nil {
		member.PostalCode = *patch.PostalCode
	}
	if patch.PhoneNumber != nil {
		member.PhoneNumber = *patch.PhoneNumber
	}
	if patch.JobID != nil {
		member.JobID = *patch.JobID
	}
	if patch.EducationID != nil {
		member.EducationID = *patch.EducationID
	}
	if patch.EmployeeStatusID != nil {
		member.EmployeeStatusID = *patch.EmployeeStatusID
	}
	if patch.InstitutionName != nil {
		member.InstitutionName = *patch.InstitutionName
	}
	if patch.WorkAddress != nil {
		member.WorkAddress = *patch.WorkAddress
	}
	if patch.Rank != nil {
		member.Rank = patch.Rank
	}
	if patch.HasEducatorCertificate != nil {
		member.HasEducatorCertificate = *patch.HasEducatorCertificate
	}
	if patch.Subjects != nil {
		member.Subjects = patch.Subjects
	}
	if patch.IsActive != nil {
		member.IsActive = *patch.IsActive
	}
}
