package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// VendorStatus represents whether a vendor is currently being ordered from
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
)

func (s VendorStatus) String() string {
	return string(s)
}

// Valid reports whether the status is a known vendor status
func (s VendorStatus) Valid() bool {
	return s == VendorStatusActive || s == VendorStatusInactive
}

func (s VendorStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *VendorStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = VendorStatus(str)
	return nil
}

func (s VendorStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *VendorStatus) Scan(value interface{}) error {
	if value == nil {
		*s = VendorStatusActive
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = VendorStatus(v)
	case []byte:
		*s = VendorStatus(string(v))
	}
	return nil
}
