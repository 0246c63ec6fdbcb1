package bank

import (
	"errors"
	"fmt"
)

var ErrInsufficient = errors.New("insufficient funds")

type Account struct {
	owner   string
	balance int
	Ledger
}

func NewAccount() *Account { return &Account{} }

func NewAccount__1(owner string) *Account { return &Account{owner: owner} }

func newAccount(owner string, balance int) (Account, error) {
	if balance < 0 {
		return Account{}, errors.New("negative balance")
	}
	return Account{owner: owner, balance: balance}, nil
}

func NewAccountReport(a *Account) string { return fmt.Sprint(a.balance) }

func openAccount(owner string) *Account { return &Account{owner: owner} }

func (a *Account) Deposit__0(amount int) int {
	a.balance += amount
	return a.balance
}

func (a *Account) Deposit__1(amount int, memo string) int {
	a.Record(memo)
	return a.Deposit__0(amount)
}

func (a Account) Balance() int { return a.balance }

func (a Account) String() string { return a.owner }

func (a *Account) applyFee(fee int) error {
	if fee > a.balance {
		return ErrInsufficient
	}
	a.balance -= fee
	return nil
}

type Ledger struct {
	entries []string
}

func (l *Ledger) Record(entry string) { l.entries = append(l.entries, entry) }

func (l *Ledger) reset() { l.entries = nil }

type Celsius float64

func (c Celsius) Fahrenheit() float64 { return float64(c)*9/5 + 32 }

type Box[T any] struct{ value T }

type Reader interface{ Read() string }

type Alias = Account
