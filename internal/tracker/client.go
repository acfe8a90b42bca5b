package tracker

import "context"

// Client creates issues in the remote tracker. The resolution service only
// ever creates; ids are assigned remotely and read back, never updated.
type Client interface {
	CreateIssue(ctx context.Context, req CreateIssueRequest) (*Issue, error)
}
