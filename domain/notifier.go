package domain

import "context"

// ApprovalNotifier tells a member the outcome of the approval gate, over
// WhatsApp and email. Best-effort: the lifecycle manager logs failures and
// never lets them fail the approval itself.
type ApprovalNotifier interface {
	NotifyDecision(ctx context.Context, member *Member, decision ApprovalStatus) error
}
