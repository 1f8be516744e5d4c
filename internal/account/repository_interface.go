package account

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID int) (*Account, error)
	Debit(ctx context.Context, userID int, amount int64, txType, reference string, metadata []byte) (*Transaction, error)
	ListTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error)
}
