package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus represents the fulfilment state of a submitted sale.
type SaleStatus int

const (
	SaleStatusPending   SaleStatus = 0
	SaleStatusDelivered SaleStatus = 1
	SaleStatusCancelled SaleStatus = 2
)

func (s SaleStatus) String() string {
	names := [...]string{"Pending", "Delivered", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = SaleStatusPending
	case "Delivered":
		*s = SaleStatusDelivered
	case "Cancelled":
		*s = SaleStatusCancelled
	}
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
