package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"membership/domain"
	"strings"
)

const biodataTemplateText = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: "Times New Roman", serif; font-size: 12pt; margin: 8mm 12mm; }
  .letterhead { display: flex; align-items: center; border-bottom: 3px double #000; padding-bottom: 8px; }
  .letterhead img { width: 70px; height: 70px; }
  .letterhead .identity { flex: 1; text-align: center; }
  .letterhead h1 { font-size: 16pt; margin: 0; }
  .letterhead p { font-size: 10pt; margin: 2px 0 0 0; }
  h2.title { text-align: center; text-decoration: underline; margin: 20px 0 4px 0; font-size: 14pt; }
  .npa { text-align: center; margin: 0 0 16px 0; }
  .content { display: flex; }
  .fields { flex: 1; }
  table { border-collapse: collapse; }
  td { vertical-align: top; padding: 3px 6px 3px 0; font-size: 11pt; }
  td.label { width: 170px; }
  .photo-box { width: 113px; height: 151px; border: 1px solid #000; margin-left: 16px; }
  .photo-box img { width: 100%; height: 100%; object-fit: cover; }
  .signature { margin-top: 32px; width: 240px; margin-left: auto; text-align: center; font-size: 11pt; }
  .signature img { width: 120px; height: 60px; object-fit: contain; margin: 8px 0; }
  .footer { margin-top: 40px; font-size: 8pt; color: #555; }
</style>
</head>
<body>
  <div class="letterhead">
    <img src="{{.Logo}}">
    <div class="identity">
      <h1>{{.AssociationName}}</h1>
      <p>{{.AssociationAddress}}</p>
    </div>
  </div>

  <h2 class="title">BIODATA ANGGOTA</h2>
  <p class="npa">Nomor Pokok Anggota: {{.NPA}}</p>

  <div class="content">
    <div class="fields">
      <table>
        {{range .Rows}}
        <tr><td class="label">{{.Label}}</td><td>: {{.Value}}</td></tr>
        {{end}}
      </table>
    </div>
    <div class="photo-box"><img src="{{.Photo}}"></div>
  </div>

  <div class="signature">
    <p>Jakarta, {{.Date}}<br>Ketua Umum,</p>
    <img src="{{.Signature}}">
    <p><strong>{{.ChairmanName}}</strong></p>
  </div>

  <div class="footer">Dicetak melalui sistem keanggotaan pada {{.PrintedAt}}</div>
</body>
</html>`

var biodataTemplate = template.Must(template.New("biodata").Parse(biodataTemplateText))

type biodataRow struct {
	Label string
	Value string
}

type biodataData struct {
	Logo               template.URL
	Signature          template.URL
	Photo              template.URL
	AssociationName    string
	AssociationAddress string
	ChairmanName       string
	NPA                string
	Rows               []biodataRow
	Date               string
	PrintedAt          string
}

type biodataUseCase struct {
	repo     domain.MemberRepo
	renderer domain.Renderer
	assets   domain.AssetReader
	cfg      DocumentConfig
	now      Clock
}

func NewBiodataUseCase(repo domain.MemberRepo, renderer domain.Renderer, assets domain.AssetReader,
	cfg DocumentConfig, now Clock) domain.BiodataUseCase {
	return &biodataUseCase{
		repo:     repo,
		renderer: renderer,
		assets:   assets,
		cfg:      cfg,
		now:      now,
	}
}

// GenerateBiodata renders the member's biodata sheet. Non-staff callers can
// only reach their own record; anything else reads as not found.
func (buc *biodataUseCase) GenerateBiodata(ctx context.Context, memberID, requesterID uint, requesterRole string) (*domain.DocumentFile, error) {
	if !canAccessMember(memberID, requesterID, requesterRole) {
		return nil, &domain.NotFoundError{Resource: "member"}
	}

	member, err := buc.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	html, err := buc.buildHTML(ctx, member)
	if err != nil {
		return nil, err
	}

	pdf, err := buc.renderer.Render(ctx, html)
	if err != nil {
		return nil, err
	}

	return &domain.DocumentFile{
		Filename: fmt.Sprintf("Biodata_%s.pdf", sanitizeFilename(member.Name)),
		Content:  pdf,
	}, nil
}

func (buc *biodataUseCase) buildHTML(ctx context.Context, member *domain.Member) (string, error) {
	levelNames := make([]string, 0, len(member.TeachingLevels))
	for _, level := range member.TeachingLevels {
		levelNames = append(levelNames, level.Name)
	}
	levels := "-"
	if len(levelNames) > 0 {
		levels = strings.Join(levelNames, ", ")
	}

	npa := orDash(member.NPA)
	if npa == "-" {
		npa = orDash(member.NPALegacy)
	}

	data := biodataData{
		Logo:               template.URL(loadAssetOrPlaceholder(buc.cfg.AssetDir, "logo.png")),
		Signature:          template.URL(loadAssetOrPlaceholder(buc.cfg.AssetDir, "signature.png")),
		Photo:              template.URL(buc.memberPhoto(ctx, member)),
		AssociationName:    buc.cfg.AssociationName,
		AssociationAddress: buc.cfg.AssociationAddress,
		ChairmanName:       buc.cfg.ChairmanName,
		NPA:                npa,
		Date:               indonesianDate(buc.now()),
		PrintedAt:          indonesianTimestamp(buc.now()),
		Rows: []biodataRow{
			{Label: "Nama Lengkap", Value: member.Name},
			{Label: "NIK", Value: member.NIK},
			{Label: "Tempat, Tanggal Lahir", Value: fmt.Sprintf("%s, %s", member.BirthPlace, indonesianDate(member.BirthDate))},
			{Label: "Jenis Kelamin", Value: genderLabel(member.Gender)},
			{Label: "Golongan Darah", Value: orDash(member.BloodType)},
			{Label: "Agama", Value: referenceName(member.Religion.Name)},
			{Label: "Alamat", Value: member.Address},
			{Label: "Kecamatan", Value: referenceName(member.District.Name)},
			{Label: "Kabupaten/Kota", Value: referenceName(member.Regency.Name)},
			{Label: "Provinsi", Value: referenceName(member.Province.Name)},
			{Label: "Kode Pos", Value: member.PostalCode},
			{Label: "Telepon", Value: member.PhoneNumber},
			{Label: "Email", Value: member.Email},
			{Label: "Pekerjaan", Value: referenceName(member.Job.Name)},
			{Label: "Pendidikan Terakhir", Value: referenceName(member.Education.Name)},
			{Label: "Status Kepegawaian", Value: referenceName(member.EmployeeStatus.Name)},
			{Label: "Instansi/Sekolah", Value: member.InstitutionName},
			{Label: "Alamat Instansi", Value: member.WorkAddress},
			{Label: "Pangkat/Golongan", Value: orDash(member.Rank)},
			{Label: "Sertifikat Pendidik", Value: boolLabel(member.HasEducatorCertificate)},
			{Label: "Mata Pelajaran", Value: orDash(member.Subjects)},
			{Label: "Jenjang Mengajar", Value: levels},
		},
	}

	var buf bytes.Buffer
	if err := biodataTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("could not build biodata document: %v", err)
	}
	return buf.String(), nil
}

func (buc *biodataUseCase) memberPhoto(ctx context.Context, member *domain.Member) string {
	if member.PhotoPath == nil {
		return placeholderDataURI
	}

	data, err := buc.assets.Read(ctx, *member.PhotoPath)
	if err != nil {
		return placeholderDataURI
	}
	return imageDataURI(data)
}

func canAccessMember(memberID, requesterID uint, requesterRole string) bool {
	if requesterRole == "admin" || requesterRole == "staff" {
		return true
	}
	return requesterID == memberID
}

func genderLabel(gender string) string {
	switch gender {
	case "Male":
		return "Laki-laki"
	case "Female":
		return "Perempuan"
	default:
		return gender
	}
}

func referenceName(name string) string {
	if name == "" {
		return "-"
	}
	return name
}
