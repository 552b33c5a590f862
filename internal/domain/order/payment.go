package order

import (
	"fmt"
	"strings"
)

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentMoMo         PaymentMethod = "momo"
	PaymentVNPay        PaymentMethod = "vnpay"
	PaymentCard         PaymentMethod = "card"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentCOD:          "COD",
	PaymentBankTransfer: "Chuyển khoản",
	PaymentMoMo:         "MoMo",
	PaymentVNPay:        "VNPay",
	PaymentCard:         "Thẻ",
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := paymentLabels[m]; !ok {
		return "", fmt.Errorf("unknown payment method: %q", s)
	}
	return m, nil
}

func (m PaymentMethod) Label() string {
	if label, ok := paymentLabels[m]; ok {
		return label
	}
	return string(m)
}
