package usecase

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
)

// DocumentConfig carries the letterhead identity and the directory holding
// the static document assets (logo.png, signature.png).
type DocumentConfig struct {
	AssociationName    string
	AssociationAddress string
	ChairmanName       string
	AssetDir           string
}

// 1x1 light-gray PNG used whenever an image asset cannot be read; a missing
// photo or logo degrades instead of failing the document.
const placeholderDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mPcv2vXfwAHrgNC4EWQlAAAAABJRU5ErkJggg=="

var (
	filenamePattern = regexp.MustCompile(`[^A-Za-z0-9]+`)

	indonesianMonths = [...]string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
)

// sanitizeFilename replaces every non-alphanumeric run so the name is safe in
// a Content-Disposition header.
func sanitizeFilename(name string) string {
	return strings.Trim(filenamePattern.ReplaceAllString(name, "_"), "_")
}

// indonesianDate renders e.g. "17 Agustus 1975".
func indonesianDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
}

func indonesianTimestamp(t time.Time) string {
	return fmt.Sprintf("%s %s", indonesianDate(t), t.Format("15:04"))
}

func imageDataURI(data []byte) string {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return placeholderDataURI
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

// loadAssetOrPlaceholder embeds a static asset from the asset directory.
func loadAssetOrPlaceholder(assetDir, name string) string {
	data, err := os.ReadFile(filepath.Join(assetDir, name))
	if err != nil {
		return placeholderDataURI
	}
	return imageDataURI(data)
}

// qrDataURI encodes content into an inline QR image for the membership card.
func qrDataURI(content string) string {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return placeholderDataURI
	}
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png))
}

func boolLabel(v bool) string {
	if v {
		return "Ya"
	}
	return "Tidak"
}

func orDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}
