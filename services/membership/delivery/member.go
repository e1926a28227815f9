package delivery

import (
	"io"
	"membership/config"
	"membership/domain"
	"membership/middleware"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type memberHandler struct {
	uc domain.MemberUseCase
}

func NewMemberHandler(app *fiber.App, useCase domain.MemberUseCase) {
	handler := &memberHandler{
		uc: useCase,
	}

	route := app.Group("/member")
	route.Post("/register", handler.Register)
	route.Get("/search", handler.PublicSearch)
	route.Get("/profile", middleware.AuthRequired(), handler.Profile)
	route.Put("/modify/:id", middleware.AuthRequired(), handler.Update)
	route.Put("/approval/:id", middleware.AuthRequired(), middleware.RoleRequired("admin"), handler.SetApproval)
	route.Delete("/rm/:id", middleware.AuthRequired(), middleware.RoleRequired("admin"), handler.Delete)
	route.Get("/get-all", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.GetAll)
	route.Get("/:id", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.GetByID)
}

func (mh *memberHandler) Register(c *fiber.Ctx) error {
	input, err := parseRegisterForm(c)
	if err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "RegisterMember")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	member, err := mh.uc.Register(c.Context(), input)
	if err != nil {
		return respondError(c, nil, "RegisterMember", "Failed to register member", err)
	}

	config.PrintLogInfo(&member.Name, fiber.StatusCreated, "RegisterMember")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration submitted, waiting for approval",
		"data":    member,
	})
}

func (mh *memberHandler) Update(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*middleware.Claims)

	id, err := c.ParamsInt("id")
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "UpdateMember")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid member id",
		})
	}

	// Members may only modify their own record; admins may modify anyone.
	isStaff := userToken.Role == "admin" || userToken.Role == "staff"
	if !isStaff && userToken.MemberID != uint(id) {
		config.PrintLogInfo(&userToken.Username, fiber.StatusForbidden, "UpdateMember")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Access denied",
		})
	}

	patch, err := parseUpdateForm(c, isStaff)
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "UpdateMember")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	member, err := mh.uc.Update(c.Context(), uint(id), patch)
	if err != nil {
		return respondError(c, &userToken.Username, "UpdateMember", "Failed to update member", err)
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "UpdateMember")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Member updated successfully",
		"data":    member,
	})
}

func (mh *memberHandler) SetApproval(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*middleware.Claims)

	id, err := c.ParamsInt("id")
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "SetApproval")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid member id",
		})
	}

	var payload struct {
		Status domain.ApprovalStatus `json:"status"`
	}
	if err := c.BodyParser(&payload); err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "SetApproval")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	member, err := mh.uc.SetApproval(c.Context(), uint(id), payload.Status)
	if err != nil {
		return respondError(c, &userToken.Username, "SetApproval", "Failed to set approval status", err)
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "SetApproval")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Approval status updated successfully",
		"data":    member,
	})
}

func (mh *memberHandler) Delete(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*middleware.Claims)

	id, err := c.ParamsInt("id")
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "DeleteMember")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid member id",
		})
	}

	if err := mh.uc.Delete(c.Context(), uint(id)); err != nil {
		return respondError(c, &userToken.Username, "DeleteMember", "Failed to delete member", err)
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "DeleteMember")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Member deleted successfully",
	})
}

func (mh *memberHandler) Profile(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*middleware.Claims)

	if userToken.MemberID == 0 {
		config.PrintLogInfo(&userToken.Username, fiber.StatusNotFound, "MemberProfile")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "No member record linked to this account",
		})
	}

	member, err := mh.uc.GetByID(c.Context(), userToken.MemberID)
	if err != nil {
		return respondError(c, &userToken.Username, "MemberProfile", "Failed to retrieve profile", err)
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "MemberProfile")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Profile retrieved successfully",
		"data":    member,
	})
}

func (mh *memberHandler) GetByID(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*middleware.Claims)

	id, err := c.ParamsInt("id")
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "GetMemberByID")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid member id",
		})
	}

	member, err := mh.uc.GetByID(c.Context(), uint(id))
	if err != nil {
		return respondError(c, &userToken.Username, "GetMemberByID", "Failed to retrieve member", err)
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "GetMemberByID")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Member retrieved successfully",
		"data":    member,
	})
}

func (mh *memberHandler) GetAll(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*middleware.Claims)

	filter := parseFilter(c)
	if status := c.Query("approval_status"); status != "" {
		s := domain.ApprovalStatus(status)
		filter.ApprovalStatus = &s
	}
	if active := c.Query("is_active"); active != "" {
		v := active == "true"
		filter.IsActive = &v
	}

	members, total, err := mh.uc.Search(c.Context(), filter)
	if err != nil {
		return respondError(c, &userToken.Username, "GetAllMembers", "Failed to retrieve members", err)
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "GetAllMembers")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Members retrieved successfully",
		"data":    members,
		"total":   total,
	})
}

// PublicSearch is the anonymous directory: Pending and Rejected members are
// never visible here.
func (mh *memberHandler) PublicSearch(c *fiber.Ctx) error {
	filter := parseFilter(c)

	members, total, err := mh.uc.PublicSearch(c.Context(), filter)
	if err != nil {
		return respondError(c, nil, "PublicSearch", "Failed to search members", err)
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "PublicSearch")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Members retrieved successfully",
		"data":    members,
		"total":   total,
	})
}

func parseFilter(c *fiber.Ctx) domain.MemberFilter {
	filter := domain.MemberFilter{
		Name:            c.Query("name"),
		InstitutionName: c.Query("institution"),
		Page:            c.QueryInt("page", 1),
		PerPage:         c.QueryInt("per_page", 20),
	}

	if district := c.QueryInt("district_id"); district > 0 {
		id := uint(district)
		filter.DistrictID = &id
	}

	return filter
}

func parseRegisterForm(c *fiber.Ctx) (*domain.RegisterMemberInput, error) {
	input := &domain.RegisterMemberInput{
		Email:           strings.ToLower(strings.TrimSpace(c.FormValue("email"))),
		NIK:             strings.TrimSpace(c.FormValue("nik")),
		Name:            strings.TrimSpace(c.FormValue("name")),
		BirthPlace:      c.FormValue("birth_place"),
		Gender:          c.FormValue("gender"),
		Address:         c.FormValue("address"),
		PostalCode:      c.FormValue("postal_code"),
		PhoneNumber:     c.FormValue("phone_number"),
		InstitutionName: c.FormValue("institution_name"),
		WorkAddress:     c.FormValue("work_address"),
	}

	if v := c.FormValue("birth_date"); v != "" {
		birthDate, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
		input.BirthDate = birthDate
	}

	input.BloodType = optionalFormValue(c, "blood_type")
	input.Rank = optionalFormValue(c, "rank")
	input.Subjects = optionalFormValue(c, "subjects")
	input.HasEducatorCertificate = c.FormValue("has_educator_certificate") == "true"

	input.ReligionID = formUint(c, "religion_id")
	input.ProvinceID = formUint(c, "province_id")
	input.RegencyID = formUint(c, "regency_id")
	input.DistrictID = formUint(c, "district_id")
	input.JobID = formUint(c, "job_id")
	input.EducationID = formUint(c, "education_id")
	input.EmployeeStatusID = formUint(c, "employee_status_id")

	levelIDs, err := formTeachingLevels(c)
	if err != nil {
		return nil, err
	}
	input.TeachingLevelIDs = levelIDs

	photo, err := formPhoto(c)
	if err != nil {
		return nil, err
	}
	input.Photo = photo

	return input, nil
}

func parseUpdateForm(c *fiber.Ctx, isStaff bool) (*domain.UpdateMemberInput, error) {
	patch := &domain.UpdateMemberInput{}

	if v := optionalFormValue(c, "email"); v != nil {
		lowered := strings.ToLower(strings.TrimSpace(*v))
		patch.Email = &lowered
	}
	patch.NIK = optionalFormValue(c, "nik")
	patch.Name = optionalFormValue(c, "name")
	patch.BirthPlace = optionalFormValue(c, "birth_place")
	patch.Gender = optionalFormValue(c, "gender")
	patch.BloodType = optionalFormValue(c, "blood_type")
	patch.Address = optionalFormValue(c, "address")
	patch.PostalCode = optionalFormValue(c, "postal_code")
	patch.PhoneNumber = optionalFormValue(c, "phone_number")
	patch.InstitutionName = optionalFormValue(c, "institution_name")
	patch.WorkAddress = optionalFormValue(c, "work_address")
	patch.Rank = optionalFormValue(c, "rank")
	patch.Subjects = optionalFormValue(c, "subjects")

	if v := optionalFormValue(c, "birth_date"); v != nil {
		birthDate, err := time.Parse("2006-01-02", *v)
		if err != nil {
			return nil, err
		}
		patch.BirthDate = &birthDate
	}

	if v := optionalFormValue(c, "has_educator_certificate"); v != nil {
		b := *v == "true"
		patch.HasEducatorCertificate = &b
	}

	patch.ReligionID = optionalFormUint(c, "religion_id")
	patch.ProvinceID = optionalFormUint(c, "province_id")
	patch.RegencyID = optionalFormUint(c, "regency_id")
	patch.DistrictID = optionalFormUint(c, "district_id")
	patch.JobID = optionalFormUint(c, "job_id")
	patch.EducationID = optionalFormUint(c, "education_id")
	patch.EmployeeStatusID = optionalFormUint(c, "employee_status_id")

	if hasFormField(c, "teaching_level_ids") {
		levelIDs, err := formTeachingLevels(c)
		if err != nil {
			return nil, err
		}
		patch.TeachingLevelIDs = &levelIDs
	}

	// Approval status, NPA and the active flag are admin-only fields.
	if isStaff {
		if v := optionalFormValue(c, "approval_status"); v != nil {
			s := domain.ApprovalStatus(*v)
			patch.ApprovalStatus = &s
		}
		if v := optionalFormValue(c, "is_active"); v != nil {
			b := *v == "true"
			patch.IsActive = &b
		}
		patch.NPA = optionalFormValue(c, "npa")
		patch.NPALegacy = optionalFormValue(c, "npa_legacy")
	}

	if _, err := c.FormFile("photo"); err == nil {
		photo, err := formPhoto(c)
		if err != nil {
			return nil, err
		}
		patch.Photo = photo
	}

	return patch, nil
}

func hasFormField(c *fiber.Ctx, key string) bool {
	form, err := c.MultipartForm()
	if err != nil {
		return false
	}
	_, ok := form.Value[key]
	return ok
}

func optionalFormValue(c *fiber.Ctx, key string) *string {
	if !hasFormField(c, key) {
		return nil
	}
	v := c.FormValue(key)
	return &v
}

func formUint(c *fiber.Ctx, key string) uint {
	n, err := strconv.Atoi(c.FormValue(key))
	if err != nil || n < 0 {
		return 0
	}
	return uint(n)
}

func optionalFormUint(c *fiber.Ctx, key string) *uint {
	if !hasFormField(c, key) {
		return nil
	}
	v := formUint(c, key)
	return &v
}

func formTeachingLevels(c *fiber.Ctx) ([]uint, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	var ids []uint
	for _, raw := range form.Value["teaching_level_ids"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil || n <= 0 {
				continue
			}
			ids = append(ids, uint(n))
		}
	}

	return ids, nil
}

func formPhoto(c *fiber.Ctx) (*domain.PhotoUpload, error) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		// Photo missing entirely; the usecase reports the validation error.
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &domain.PhotoUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	}, nil
}
