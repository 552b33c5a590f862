package handlers

import (
	"github.com/go-playground/validator/v10"

	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

// RegisterValidators adds the domain validation tags used by request structs.
func RegisterValidators() error {
	if err := utils.RegisterRule("permission", func(fl validator.FieldLevel) bool {
		_, err := apitoken.ParsePermission(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	return utils.RegisterRule("orderstatus", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := order.ParseStatus(s)
		return err == nil
	})
}
