package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point price value. The wire representation is a string
// with exactly two fraction digits ("199.00"); inputs with more than two
// fraction digits are rejected rather than silently rounded.
type Money struct {
	decimal.Decimal
}

func NewMoney(value string) (Money, error) {
	var m Money
	if err := m.set(value); err != nil {
		return Money{}, err
	}
	return m, nil
}

// MustMoney parses value and panics on failure. Seed data only.
func MustMoney(value string) Money {
	m, err := NewMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Money) set(value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("invalid decimal value %q", value)
	}
	if d.Exponent() < -2 {
		return fmt.Errorf("price %q has more than 2 fraction digits", value)
	}
	m.Decimal = d
	return nil
}

func (m Money) String() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	// accept both "12.50" and 12.5 on input
	return m.set(strings.Trim(string(data), `"`))
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. The wire representation
// is an ISO-8601 date string ("2024-05-17").
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v.UTC().Truncate(24 * time.Hour)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}
