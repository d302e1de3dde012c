package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleType determines which submit action a draft sale is offered; it has no
// effect on the pricing math.
type SaleType int

const (
	SaleTypeDraft    SaleType = 0
	SaleTypeProforma SaleType = 1
	SaleTypeInvoice  SaleType = 2
)

func (t SaleType) String() string {
	names := [...]string{"Draft", "Proforma", "Invoice"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Draft"
	}
	return names[t]
}

func (t SaleType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *SaleType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = SaleType(i)
		return nil
	}
	switch str {
	case "Draft":
		*t = SaleTypeDraft
	case "Proforma":
		*t = SaleTypeProforma
	case "Invoice":
		*t = SaleTypeInvoice
	}
	return nil
}

func (t SaleType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *SaleType) Scan(value interface{}) error {
	if value == nil {
		*t = SaleTypeDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = SaleType(v)
	case int:
		*t = SaleType(v)
	}
	return nil
}
