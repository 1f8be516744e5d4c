package account

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Account is the per-user wallet. Amounts are integer minor units.
type Account struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user_id"`
	WalletBalance int64     `db:"wallet_balance" json:"wallet_balance"`
	TotalFunding  int64     `db:"total_funding" json:"total_funding"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is an append-only purchase record. Rows are never updated
// or deleted.
type Transaction struct {
	ID        int            `db:"id" json:"id"`
	UserID    int            `db:"user_id" json:"user_id"`
	AccountID int            `db:"account_id" json:"account_id"`
	Type      string         `db:"type" json:"type"`
	Amount    int64          `db:"amount" json:"amount"`
	Status    string         `db:"status" json:"status"`
	Reference string         `db:"reference" json:"reference"`
	Metadata  types.JSONText `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

const (
	TypeData        = "data"
	TypeAirtime     = "airtime"
	TypeElectricity = "electricity"
	TypeCable       = "cable"

	StatusSuccess = "success"
	StatusFailed  = "failed"
)
