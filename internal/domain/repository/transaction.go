package repository

import "context"

// TransactionManager runs a unit of work inside one database transaction.
type TransactionManager interface {
	// Execute runs fn within a database transaction on behalf of actor, the
	// email of the acting principal. Every audited record written through the
	// factory is stamped with actor. If fn returns an error the transaction is
	// rolled back, otherwise it is committed.
	Execute(ctx context.Context, actor string, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to a single transaction.
type RepositoryFactory interface {
	MemberRepo() MemberRepository
	ItemRepo() ItemRepository
	ItemImageRepo() ItemImageRepository
	CartRepo() CartRepository
	CartItemRepo() CartItemRepository
	OrderRepo() OrderRepository
}
