package entity

import "time"

type ShopID string

func (id ShopID) String() string {
	return string(id)
}

func (id ShopID) Valid() bool {
	return len(id) != 0
}

type WithdrawMethod struct {
	BankName          string `json:"bank_name"`
	BankCountry       string `json:"bank_country"`
	BankAccountNumber string `json:"bank_account_number"`
	BankHolderName    string `json:"bank_holder_name"`
}

type Shops []Shop

type Shop struct {
	ID               ShopID
	Name             string
	Email            string
	Password         string
	Description      string
	Address          string
	PhoneNumber      string
	ZipCode          string
	Avatar           Image
	WithdrawMethod   *WithdrawMethod
	AvailableBalance float64
	CreatedAt        time.Time
}
