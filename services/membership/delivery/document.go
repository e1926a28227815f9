package delivery

import (
	"fmt"
	"membership/config"
	"membership/domain"
	"membership/middleware"

	"github.com/gofiber/fiber/v2"
)

type documentHandler struct {
	biodata domain.BiodataUseCase
	card    domain.MembershipCardUseCase
}

func NewDocumentHandler(app *fiber.App, biodata domain.BiodataUseCase, card domain.MembershipCardUseCase) {
	handler := &documentHandler{
		biodata: biodata,
		card:    card,
	}

	route := app.Group("/document")
	route.Get("/biodata/download", middleware.AuthRequired(), handler.DownloadBiodata)
	route.Post("/membership-card/download", middleware.AuthRequired(), handler.DownloadMembershipCard)
}

func (dh *documentHandler) DownloadBiodata(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*middleware.Claims)

	doc, err := dh.biodata.GenerateBiodata(c.Context(), userToken.MemberID, userToken.MemberID, userToken.Role)
	if err != nil {
		return respondError(c, &userToken.Username, "DownloadBiodata", "Failed to generate biodata", err)
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "DownloadBiodata")
	return sendPDF(c, doc)
}

// DownloadMembershipCard renders the caller's card; admins may pass a
// member_id in the body to generate someone else's.
func (dh *documentHandler) DownloadMembershipCard(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*middleware.Claims)

	var payload struct {
		MemberID uint `json:"member_id"`
	}
	_ = c.BodyParser(&payload)

	targetID := userToken.MemberID
	if payload.MemberID != 0 {
		targetID = payload.MemberID
	}

	doc, err := dh.card.GenerateCard(c.Context(), targetID, userToken.MemberID, userToken.Role)
	if err != nil {
		return respondError(c, &userToken.Username, "DownloadMembershipCard", "Failed to generate membership card", err)
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "DownloadMembershipCard")
	return sendPDF(c, doc)
}

func sendPDF(c *fiber.Ctx, doc *domain.DocumentFile) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	return c.Send(doc.Content)
}
