package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInvalidAmount       = errors.New("debit amount must be positive")
)

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID int) (*Account, error) {
	a := &Account{}
	err := r.db.GetContext(ctx, a,
		`SELECT id, user_id, wallet_balance, total_funding, created_at, updated_at
		 FROM accounts
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

// Debit takes a row lock on the account, checks the balance, applies the
// charge, and appends the transaction record in one SQL transaction. The
// lock serializes concurrent debits against the same account; nothing is
// persisted on any failure path.
func (r *postgresRepository) Debit(ctx context.Context, userID int, amount int64, txType, reference string, metadata []byte) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var a Account
	err = tx.QueryRowxContext(ctx,
		`SELECT id, user_id, wallet_balance, total_funding, created_at, updated_at
		 FROM accounts
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if a.WalletBalance < amount {
		return nil, ErrInsufficientBalance
	}

	newBalance := a.WalletBalance - amount
	newFunding := a.TotalFunding + amount

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts
		 SET wallet_balance = $1, total_funding = $2, updated_at = NOW()
		 WHERE id = $3`,
		newBalance, newFunding, a.ID,
	)
	if err != nil {
		return nil, err
	}

	record := &Transaction{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO transactions (user_id, account_id, type, amount, status, reference, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, account_id, type, amount, status, reference, metadata, created_at`,
		userID, a.ID, txType, amount, StatusSuccess, reference, metadata,
	).StructScan(record)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *postgresRepository) ListTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs,
		`SELECT id, user_id, account_id, type, amount, status, reference, metadata, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	if txs == nil {
		txs = []Transaction{}
	}

	return txs, nil
}
