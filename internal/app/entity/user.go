package entity

import (
	"fmt"
	"time"
)

type UserID string

func (id UserID) String() string {
	return string(id)
}

func (id UserID) Valid() bool {
	return len(id) != 0
}

type Role string

const (
	RoleUser   Role = `user`
	RoleSeller Role = `seller`
	RoleAdmin  Role = `admin`
)

type Address struct {
	Country     string `json:"country"`
	City        string `json:"city"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	ZipCode     string `json:"zip_code"`
	AddressType string `json:"address_type"`
}

type Users []User

type User struct {
	ID          UserID
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Role        Role
	Avatar      Image
	Addresses   []Address
	CreatedAt   time.Time
}

type AuthCtxKey struct{}

type AuthCtx struct {
	UserID     UserID
	Role       Role
	StatusCode int
}

func CreateAuthCtx(userID UserID, role Role, code int) AuthCtx {
	return AuthCtx{
		UserID:     userID,
		Role:       role,
		StatusCode: code,
	}
}

func (u *User) AddAddress(address Address) error {
	for _, existing := range u.Addresses {
		if existing.AddressType == address.AddressType {
			return fmt.Errorf("%s address already exists", address.AddressType)
		}
	}

	u.Addresses = append(u.Addresses, address)

	return nil
}

func (u *User) RemoveAddress(addressType string) bool {
	for i, existing := range u.Addresses {
		if existing.AddressType == addressType {
			u.Addresses = append(u.Addresses[:i], u.Addresses[i+1:]...)
			return true
		}
	}

	return false
}
