package converter

import (
	"github.com/golang-module/carbon/v2"

	"github.com/shopora/go-shop-backend/internal/app/entity"
	"github.com/shopora/go-shop-backend/internal/app/model"
)

func ConvertShopToPayload(shop entity.Shop) model.ShopPayload {
	return model.ShopPayload{
		ID:               shop.ID.String(),
		Name:             shop.Name,
		Email:            shop.Email,
		Description:      shop.Description,
		Address:          shop.Address,
		PhoneNumber:      shop.PhoneNumber,
		ZipCode:          shop.ZipCode,
		Avatar:           shop.Avatar,
		AvailableBalance: shop.AvailableBalance,
		WithdrawMethod:   shop.WithdrawMethod,
		CreatedAt:        carbon.CreateFromStdTime(shop.CreatedAt).ToRfc3339String(),
	}
}

func ConvertShopsToPayload(shops entity.Shops) []model.ShopPayload {
	payload := make([]model.ShopPayload, 0, len(shops))

	for _, shop := range shops {
		payload = append(payload, ConvertShopToPayload(shop))
	}

	return payload
}

func ConvertWithdrawMethodRequestToEntity(request model.WithdrawMethodRequest) entity.WithdrawMethod {
	return entity.WithdrawMethod{
		BankName:          request.BankName,
		BankCountry:       request.BankCountry,
		BankAccountNumber: request.BankAccountNumber,
		BankHolderName:    request.BankHolderName,
	}
}
