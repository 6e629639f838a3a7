package converter

import (
	"github.com/golang-module/carbon/v2"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
)

func ConvertUserToPayload(user entity.User) model.UserPayload {
	addresses := user.Addresses
	if addresses == nil {
		addresses = []entity.Address{}
	}

	return model.UserPayload{
		ID:          user.ID.String(),
		Name:        user.Name,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        string(user.Role),
		Avatar:      user.Avatar,
		Addresses:   addresses,
		CreatedAt:   carbon.CreateFromStdTime(user.CreatedAt).ToRfc3339String(),
	}
}

func ConvertUsersToPayload(users entity.Users) []model.UserPayload {
	payload := make([]model.UserPayload, 0, len(users))

	for _, user := range users {
		payload = append(payload, ConvertUserToPayload(user))
	}

	return payload
}

func ConvertAddressRequestToEntity(request model.UpdateAddressRequest) entity.Address {
	return entity.Address{
		Country:     request.Country,
		City:        request.City,
		Address1:    request.Address1,
		Address2:    request.Address2,
		ZipCode:     request.ZipCode,
		AddressType: request.AddressType,
	}
}
