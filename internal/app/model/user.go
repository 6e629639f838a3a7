package model

import "github.com/shopora/go-shop-backend/internal/app/entity"

type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

type ActivationRequest struct {
	ActivationToken string `json:"activation_token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserInfoRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

type UpdateAddressRequest struct {
	Country     string `json:"country"`
	City        string `json:"city"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	ZipCode     string `json:"zip_code"`
	AddressType string `json:"address_type"`
}

type UpdatePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type UserPayload struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	PhoneNumber string           `json:"phone_number,omitempty"`
	Role        string           `json:"role"`
	Avatar      entity.Image     `json:"avatar"`
	Addresses   []entity.Address `json:"addresses"`
	CreatedAt   string           `json:"created_at"`
}

type UserResponse struct {
	Success bool        `json:"success"`
	User    UserPayload `json:"user"`
}

type UsersResponse struct {
	Success bool          `json:"success"`
	Users   []UserPayload `json:"users"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
