package models

// PaymentMethodKind определяет тип способа оплаты (влияет на иконку в интерфейсе).
type PaymentMethodKind string

const (
	KindWallet PaymentMethodKind = "wallet"
	KindCard   PaymentMethodKind = "card"
	KindNew    PaymentMethodKind = "new"
)

// PaymentMethod — способ оплаты, доступный при активации Auto-Pay.
type PaymentMethod struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Kind        PaymentMethodKind `json:"kind"`
	Recommended bool              `json:"recommended"`
}

// AddNewMethodID — идентификатор пункта «добавить новый способ оплаты».
const AddNewMethodID = "new"

// DefaultPaymentMethods возвращает фиксированный список способов оплаты.
func DefaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: "twint", Name: "TWINT", Kind: KindWallet, Recommended: true},
		{ID: "visa", Name: "Visa ****1234", Kind: KindCard},
		{ID: AddNewMethodID, Name: "Add new payment method", Kind: KindNew},
	}
}
