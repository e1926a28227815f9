package usecase

import (
	"context"
	"membership/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	lastHTML  string
	renderErr error
}

func (f *fakeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	f.lastHTML = html
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	return []byte("%PDF-1.4 fake"), nil
}

func documentMember() *domain.Member {
	photoPath := "/uploads/photo-1.png"
	subjects := "Matematika"
	return &domain.Member{
		MemberID:               7,
		Email:                  "guru@example.com",
		NIK:                    "3174012345678901",
		Name:                   "Siti Rahayu",
		BirthPlace:             "Bandung",
		BirthDate:              time.Date(1988, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:                 "Female",
		ReligionID:             1,
		Religion:               domain.Religion{ReligionID: 1, Name: "Islam"},
		Address:                "Jl. Merdeka No. 5",
		Province:               domain.Province{ProvinceID: 1, Name: "Jawa Barat"},
		Regency:                domain.Regency{RegencyID: 1, Name: "Kota Bandung"},
		District:               domain.District{DistrictID: 1, Name: "Coblong"},
		PostalCode:             "40111",
		PhoneNumber:            "081234567890",
		PhotoPath:              &photoPath,
		Job:                    domain.Job{JobID: 1, Name: "Guru"},
		Education:              domain.Education{EducationID: 1, Name: "S1"},
		EmployeeStatus:         domain.EmployeeStatus{EmployeeStatusID: 1, Name: "PNS"},
		InstitutionName:        "SDN 1 Bandung",
		WorkAddress:            "Jl. Sekolah No. 2",
		HasEducatorCertificate: true,
		Subjects:               &subjects,
		TeachingLevels: []domain.TeachingLevel{
			{TeachingLevelID: 1, Name: "SD/MI"},
			{TeachingLevelID: 2, Name: "SMP/MTs"},
		},
		ApprovalStatus: domain.ApprovalApproved,
		IsActive:       true,
	}
}

func documentConfig() DocumentConfig {
	return DocumentConfig{
		AssociationName:    "Persatuan Guru Profesional Indonesia",
		AssociationAddress: "Jl. Pendidikan No. 1, Jakarta",
		ChairmanName: "Dr. Ahmad Sudrajat",
		// Points at a directory that does not exist so logo and signature
		// fall back to the placeholder, keeping the tests hermetic.
		AssetDir: "./testdata-missing",
	}
}

func newDocumentFixtures(t *testing.T) (*fakeMemberRepo, *fakeAssetStore, *fakeRenderer) {
	t.Helper()
	repo := newFakeMemberRepo()
	member := documentMember()
	repo.members[member.MemberID] = member
	repo.nextID = member.MemberID + 1

	assets := newFakeAssetStore()
	assets.stored[*member.PhotoPath] = pngBytes

	return repo, assets, &fakeRenderer{}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Siti_Rahayu", sanitizeFilename("Siti Rahayu"))
	assert.Equal(t, "Dr_Ahmad_S_Pd", sanitizeFilename("Dr. Ahmad, S.Pd."))
	assert.Equal(t, "Budi", sanitizeFilename("  Budi  "))
	assert.Equal(t, "", sanitizeFilename("!!!"))
}

func TestIndonesianDate(t *testing.T) {
	assert.Equal(t, "17 Agustus 1975", indonesianDate(time.Date(1975, 8, 17, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1 Januari 2025", indonesianDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestImageDataURI_RejectsNonImage(t *testing.T) {
	assert.Equal(t, placeholderDataURI, imageDataURI([]byte("plain text, not an image")))
	assert.Contains(t, imageDataURI(pngBytes), "data:image/png;base64,")
}

func TestGenerateBiodata_ContainsMemberData(t *testing.T) {
	repo, assets, renderer := newDocumentFixtures(t)
	printedAt := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	uc := NewBiodataUseCase(repo, renderer, assets, documentConfig(), fixedClock(printedAt))

	doc, err := uc.GenerateBiodata(context.Background(), 7, 7, "member")
	require.NoError(t, err)

	assert.Equal(t, "Biodata_Siti_Rahayu.pdf", doc.Filename)
	assert.Equal(t, []byte("%PDF-1.4 fake"), doc.Content)

	html := renderer.lastHTML
	assert.Contains(t, html, "BIODATA ANGGOTA")
	assert.Contains(t, html, "Siti Rahayu")
	assert.Contains(t, html, "3174012345678901")
	assert.Contains(t, html, "Perempuan")
	assert.Contains(t, html, "Bandung, 12 April 1988")
	assert.Contains(t, html, "SD/MI, SMP/MTs")
	assert.Contains(t, html, "Persatuan Guru Profesional Indonesia")
	assert.Contains(t, html, "Dr. Ahmad Sudrajat")
	assert.Contains(t, html, "15 Juni 2025")
	// Photo travels inline, never as a file reference.
	assert.Contains(t, html, "data:image/png;base64,")
}

func TestGenerateBiodata_NPAFallsBackToLegacy(t *testing.T) {
	repo, assets, renderer := newDocumentFixtures(t)
	legacy := "OLD-1234"
	repo.members[7].NPALegacy = &legacy
	uc := NewBiodataUseCase(repo, renderer, assets, documentConfig(), time.Now)

	_, err := uc.GenerateBiodata(context.Background(), 7, 7, "member")
	require.NoError(t, err)
	assert.Contains(t, renderer.lastHTML, "OLD-1234")

	npa := "NPA-9999"
	repo.members[7].NPA = &npa
	_, err = uc.GenerateBiodata(context.Background(), 7, 7, "member")
	require.NoError(t, err)
	assert.Contains(t, renderer.lastHTML, "NPA-9999")
	assert.NotContains(t, renderer.lastHTML, "OLD-1234")
}

func TestGenerateBiodata_MissingPhotoUsesPlaceholder(t *testing.T) {
	repo, assets, renderer := newDocumentFixtures(t)
	repo.members[7].PhotoPath = nil
	uc := NewBiodataUseCase(repo, renderer, assets, documentConfig(), time.Now)

	_, err := uc.GenerateBiodata(context.Background(), 7, 7, "member")
	require.NoError(t, err)
	assert.Contains(t, renderer.lastHTML, placeholderDataURI)
}

func TestGenerateBiodata_AccessControl(t *testing.T) {
	repo, assets, renderer := newDocumentFixtures(t)
	uc := NewBiodataUseCase(repo, renderer, assets, documentConfig(), time.Now)

	// A member reaching for someone else's record reads as not found.
	_, err := uc.GenerateBiodata(context.Background(), 7, 8, "member")
	var nfe *domain.NotFoundError
	require.ErrorAs(t, err, &nfe)

	_, err = uc.GenerateBiodata(context.Background(), 7, 99, "admin")
	assert.NoError(t, err)

	_, err = uc.GenerateBiodata(context.Background(), 7, 99, "staff")
	assert.NoError(t, err)
}

func TestGenerateBiodata_RenderFailurePropagates(t *testing.T) {
	repo, assets, renderer := newDocumentFixtures(t)
	renderer.renderErr = &domain.RenderError{Err: context.DeadlineExceeded}
	uc := NewBiodataUseCase(repo, renderer, assets, documentConfig(), time.Now)

	_, err := uc.GenerateBiodata(context.Background(), 7, 7, "member")
	var re *domain.RenderError
	assert.ErrorAs(t, err, &re)
}

func TestGenerateCard_ContainsMemberData(t *testing.T) {
	repo, assets, renderer := newDocumentFixtures(t)
	npa := "NPA-2025-0007"
	repo.members[7].NPA = &npa
	uc := NewMembershipCardUseCase(repo, renderer, assets, documentConfig())

	doc, err := uc.GenerateCard(context.Background(), 7, 7, "member")
	require.NoError(t, err)

	assert.Equal(t, "Kartu_Anggota_Siti_Rahayu.pdf", doc.Filename)

	html := renderer.lastHTML
	assert.Contains(t, html, "KARTU TANDA ANGGOTA")
	assert.Contains(t, html, "Siti Rahayu")
	assert.Contains(t, html, "NPA-2025-0007")
	assert.Contains(t, html, "3174012345678901")
	assert.Contains(t, html, "Kota Bandung, Jawa Barat")
	assert.Contains(t, html, "SDN 1 Bandung")
	assert.Contains(t, html, "Berlaku selama menjadi anggota")
	// The QR code is embedded inline next to the photo.
	assert.GreaterOrEqual(t, strings.Count(html, "data:image/png;base64,"), 2)
}

func TestGenerateCard_AccessControl(t *testing.T) {
	repo, assets, renderer := newDocumentFixtures(t)
	uc := NewMembershipCardUseCase(repo, renderer, assets, documentConfig())

	_, err := uc.GenerateCard(context.Background(), 7, 8, "member")
	var nfe *domain.NotFoundError
	require.ErrorAs(t, err, &nfe)

	_, err = uc.GenerateCard(context.Background(), 7, 99, "admin")
	assert.NoError(t, err)
}
