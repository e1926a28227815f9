package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"membership/domain"
)

const cardTemplateText = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; margin: 10mm; }
  .card {
    width: 280px; height: 180px; border: 1px solid #1a3c6e; border-radius: 8px;
    overflow: hidden; display: flex; flex-direction: column;
  }
  .card-header {
    background: #1a3c6e; color: #fff; display: flex; align-items: center;
    padding: 6px 8px;
  }
  .card-header img { width: 28px; height: 28px; margin-right: 6px; }
  .card-header .name { font-size: 8pt; font-weight: bold; line-height: 1.2; }
  .card-header .sub { font-size: 6pt; }
  .card-body { display: flex; flex: 1; padding: 8px; }
  .card-photo { width: 54px; height: 72px; border: 1px solid #aaa; }
  .card-photo img { width: 100%; height: 100%; object-fit: cover; }
  .card-fields { flex: 1; padding-left: 8px; font-size: 7pt; }
  .card-fields .member-name { font-size: 9pt; font-weight: bold; margin-bottom: 2px; }
  .card-fields p { margin: 1px 0; }
  .card-footer {
    display: flex; align-items: center; justify-content: space-between;
    padding: 4px 8px; border-top: 1px solid #ddd;
  }
  .card-footer .validity { font-size: 6pt; font-style: italic; }
  .card-footer img { width: 36px; height: 36px; }
</style>
</head>
<body>
  <div class="card">
    <div class="card-header">
      <img src="{{.Logo}}">
      <div>
        <div class="name">{{.AssociationName}}</div>
        <div class="sub">KARTU TANDA ANGGOTA</div>
      </div>
    </div>
    <div class="card-body">
      <div class="card-photo"><img src="{{.Photo}}"></div>
      <div class="card-fields">
        <p class="member-name">{{.Name}}</p>
        <p>NPA: {{.NPA}}</p>
        <p>NIK: {{.NIK}}</p>
        <p>{{.Region}}</p>
        <p>{{.Institution}}</p>
      </div>
    </div>
    <div class="card-footer">
      <span class="validity">Berlaku selama menjadi anggota</span>
      <img src="{{.QR}}">
    </div>
  </div>
</body>
</html>`

var cardTemplate = template.Must(template.New("card").Parse(cardTemplateText))

type cardData struct {
	Logo            template.URL
	Photo           template.URL
	QR              template.URL
	AssociationName string
	Name            string
	NPA             string
	NIK             string
	Region          string
	Institution     string
}

type membershipCardUseCase struct {
	repo     domain.MemberRepo
	renderer domain.Renderer
	assets   domain.AssetReader
	cfg      DocumentConfig
}

func NewMembershipCardUseCase(repo domain.MemberRepo, renderer domain.Renderer, assets domain.AssetReader,
	cfg DocumentConfig) domain.MembershipCardUseCase {
	return &membershipCardUseCase{
		repo:     repo,
		renderer: renderer,
		assets:   assets,
		cfg:      cfg,
	}
}

func (cuc *membershipCardUseCase) GenerateCard(ctx context.Context, memberID, requesterID uint, requesterRole string) (*domain.DocumentFile, error) {
	if !canAccessMember(memberID, requesterID, requesterRole) {
		return nil, &domain.NotFoundError{Resource: "member"}
	}

	member, err := cuc.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	html, err := cuc.buildHTML(ctx, member)
	if err != nil {
		return nil, err
	}

	pdf, err := cuc.renderer.Render(ctx, html)
	if err != nil {
		return nil, err
	}

	return &domain.DocumentFile{
		Filename: fmt.Sprintf("Kartu_Anggota_%s.pdf", sanitizeFilename(member.Name)),
		Content:  pdf,
	}, nil
}

func (cuc *membershipCardUseCase) buildHTML(ctx context.Context, member *domain.Member) (string, error) {
	npa := orDash(member.NPA)
	if npa == "-" {
		npa = orDash(member.NPALegacy)
	}

	// The QR carries the NPA when issued, otherwise the internal member id,
	// so a scanned card can always be verified against the register.
	qrContent := npa
	if qrContent == "-" {
		qrContent = fmt.Sprintf("MEMBER-%d", member.MemberID)
	}

	photo := placeholderDataURI
	if member.PhotoPath != nil {
		if data, err := cuc.assets.Read(ctx, *member.PhotoPath); err == nil {
			photo = imageDataURI(data)
		}
	}

	data := cardData{
		Logo:            template.URL(loadAssetOrPlaceholder(cuc.cfg.AssetDir, "logo.png")),
		Photo:           template.URL(photo),
		QR:              template.URL(qrDataURI(qrContent)),
		AssociationName: cuc.cfg.AssociationName,
		Name:            member.Name,
		NPA:             npa,
		NIK:             member.NIK,
		Region:          fmt.Sprintf("%s, %s", referenceName(member.Regency.Name), referenceName(member.Province.Name)),
		Institution:     member.InstitutionName,
	}

	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("could not build membership card: %v", err)
	}
	return buf.String(), nil
}
