package model

import "github.com/shopora/go-shop-backend/internal/app/entity"

type RegisterShopRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	ZipCode     string `json:"zip_code"`
	Avatar      string `json:"avatar,omitempty"`
}

type ShopActivationRequest struct {
	ActivationToken string `json:"activation_token"`
}

type LoginShopRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateShopInfoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	ZipCode     string `json:"zip_code"`
}

type UpdateShopAvatarRequest struct {
	Avatar string `json:"avatar"`
}

type WithdrawMethodRequest struct {
	BankName          string `json:"bank_name"`
	BankCountry       string `json:"bank_country"`
	BankAccountNumber string `json:"bank_account_number"`
	BankHolderName    string `json:"bank_holder_name"`
}

type ShopPayload struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Email            string                 `json:"email"`
	Description      string                 `json:"description,omitempty"`
	Address          string                 `json:"address"`
	PhoneNumber      string                 `json:"phone_number"`
	ZipCode          string                 `json:"zip_code"`
	Avatar           entity.Image           `json:"avatar"`
	AvailableBalance float64                `json:"available_balance"`
	WithdrawMethod   *entity.WithdrawMethod `json:"withdraw_method,omitempty"`
	CreatedAt        string                 `json:"created_at"`
}

type ShopResponse struct {
	Success bool        `json:"success"`
	Shop    ShopPayload `json:"shop"`
}

type ShopsResponse struct {
	Success bool          `json:"success"`
	Shops   []ShopPayload `json:"shops"`
}
