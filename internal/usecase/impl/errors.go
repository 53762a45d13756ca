package impl

import (
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/repository"

	"github.com/pkg/errors"
)

// repoErrors maps repository sentinels to the domain errors rendered to clients.
var repoErrors = []struct {
	sentinel error
	domain   *domainerrors.BaseError
}{
	{repository.ErrMemberNotFound, domainerrors.ErrMemberNotFound},
	{repository.ErrDuplicateEmail, domainerrors.ErrDuplicateMember},
	{repository.ErrItemNotFound, domainerrors.ErrItemNotFound},
	{repository.ErrVersionConflict, domainerrors.ErrConcurrentModification},
	{repository.ErrCartItemNotFound, domainerrors.ErrCartItemNotFound},
	{repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound},
}

// translateRepoError replaces a repository sentinel with its domain error and
// returns any other error unchanged.
func translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range repoErrors {
		if errors.Is(err, m.sentinel) {
			return m.domain
		}
	}

	return err
}
