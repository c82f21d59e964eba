package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the sign indicator of a transaction: DEPOSIT credits the
// box, WITHDRAW debits it. The stored amount itself is always positive.
type Direction string

const (
	DirectionDeposit  Direction = "DEPOSIT"
	DirectionWithdraw Direction = "WITHDRAW"
)

func (d Direction) Valid() bool {
	return d == DirectionDeposit || d == DirectionWithdraw
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Customer struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Currency struct {
	ID            int64  `db:"id" json:"id"`
	Code          string `db:"code" json:"code"`
	Name          string `db:"name" json:"name"`
	Symbol        string `db:"symbol" json:"symbol"`
	DecimalPlaces int    `db:"decimal_places" json:"decimal_places"`
	IsActive      bool   `db:"is_active" json:"is_active"`
}

type AccountType struct {
	ID   int64  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

type CashBox struct {
	ID            int64     `db:"id" json:"id"`
	CustomerID    int64     `db:"customer_id" json:"customer_id"`
	CurrencyID    int64     `db:"currency_id" json:"currency_id"`
	AccountTypeID int64     `db:"account_type_id" json:"account_type_id"`
	Name          string    `db:"name" json:"name"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Transaction is immutable once created; corrections are entered as new
// compensating rows, never as updates.
type Transaction struct {
	ID        int64           `db:"id" json:"id"`
	CashBoxID int64           `db:"cashbox_id" json:"cashbox_id"`
	Direction Direction       `db:"direction" json:"direction"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Note      string          `db:"note" json:"note"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
