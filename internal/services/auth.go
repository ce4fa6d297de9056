package services

import (
	"context"
	"fmt"

	"github.com/vocabhub/vocab-backend/internal/pkg/ctxutil"
	apperrors "github.com/vocabhub/vocab-backend/internal/pkg/errors"
)

// Permissions gating workspace-scoped vocabulary access.
const (
	PermWorkspaceRead  = "workspace:vocabulary:read"
	PermWorkspaceWrite = "workspace:vocabulary:write"
)

// AuthOracle is the external permission check the engine consults before
// touching workspace-scoped documents. The engine never interprets the
// permission string; it only forwards it.
type AuthOracle interface {
	HasPermission(ctx context.Context, permission, resourceID, subjectID string) (bool, error)
}

// AllowAllOracle grants everything. Used by tests and single-tenant
// deployments.
type AllowAllOracle struct{}

func (AllowAllOracle) HasPermission(ctx context.Context, permission, resourceID, subjectID string) (bool, error) {
	return true, nil
}

// requirePrincipal returns the caller's principal or ErrUnauthorized when
// the context carries none.
func requirePrincipal(ctx context.Context) (ctxutil.Principal, error) {
	p, ok := ctxutil.GetPrincipal(ctx)
	if !ok {
		return ctxutil.Principal{}, apperrors.ErrUnauthorized
	}
	return p, nil
}

// requireWorkspaceAccess resolves the principal and asks the oracle for
// permission on the workspace.
func requireWorkspaceAccess(ctx context.Context, oracle AuthOracle, permission, workspaceID string) (ctxutil.Principal, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return ctxutil.Principal{}, err
	}
	ok, err := oracle.HasPermission(ctx, permission, workspaceID, p.ID)
	if err != nil {
		return ctxutil.Principal{}, fmt.Errorf("permission check: %w", err)
	}
	if !ok {
		return ctxutil.Principal{}, fmt.Errorf("%w: %s on workspace %s", apperrors.ErrNotAuthorized, permission, workspaceID)
	}
	return p, nil
}
