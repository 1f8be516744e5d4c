package purchase

// DataPurchaseRequest buys a data bundle. No amount is submitted; the
// charge is the provider's discounted plan price.
type DataPurchaseRequest struct {
	Network string `json:"network" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Plan    string `json:"plan" validate:"required"`
}

type AirtimePurchaseRequest struct {
	Network     string `json:"network" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	AirtimeType string `json:"airtime_type" validate:"required"`
}

type ElectricityPurchaseRequest struct {
	DiscoName   string `json:"disco_name" validate:"required"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	MeterNumber string `json:"meter_number" validate:"required"`
	MeterType   string `json:"meter_type" validate:"required"`
}

type CablePurchaseRequest struct {
	CableName       string `json:"cable_name" validate:"required"`
	CablePlan       string `json:"cable_plan" validate:"required"`
	SmartCardNumber string `json:"smart_card_number" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
}
