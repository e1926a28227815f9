package domain

import "context"

// Renderer turns a self-contained HTML document into PDF bytes. The engine
// instance behind a call is scoped to that call and released on every exit
// path. Engine failure surfaces as *RenderError.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// AssetStore is the {store, delete} contract over the physical photo storage.
// Delete is best-effort for callers replacing an asset; they log and continue.
type AssetStore interface {
	Store(ctx context.Context, data []byte, hint string) (string, error)
	Delete(ctx context.Context, path string) error
}

// AssetReader hands back the raw bytes of a stored asset so document
// pipelines can embed it inline. A failed read degrades to a placeholder.
type AssetReader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// DocumentFile is a rendered download: PDF bytes plus the attachment filename.
type DocumentFile struct {
	Filename string
	Content  []byte
}

type BiodataUseCase interface {
	// GenerateBiodata renders the biodata sheet for memberID. requesterID is
	// the authenticated member; non-admins may only fetch their own sheet.
	GenerateBiodata(ctx context.Context, memberID uint, requesterID uint, requesterRole string) (*DocumentFile, error)
}

type MembershipCardUseCase interface {
	GenerateCard(ctx context.Context, memberID uint, requesterID uint, requesterRole string) (*DocumentFile, error)
}
