package port

import "context"

// UnitOfWork is a pattern that allows running repository calls inside one transaction
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(uow UnitOfWork) error) error
	SessionRepo() UploadSessionRepository
}
