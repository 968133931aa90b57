package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyMarshalAlwaysTwoFractionDigits(t *testing.T) {
	for input, want := range map[string]string{
		"9.99":   `"9.99"`,
		"24.5":   `"24.50"`,
		"199":    `"199.00"`,
		"0":      `"0.00"`,
		"1234.1": `"1234.10"`,
	} {
		m, err := NewMoney(input)
		require.NoError(t, err, input)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, want, string(data), input)
	}
}

func TestMoneyRejectsExcessFractionDigits(t *testing.T) {
	_, err := NewMoney("9.999")
	assert.Error(t, err)

	var m Money
	assert.Error(t, m.UnmarshalJSON([]byte(`"10.123"`)))
	assert.Error(t, m.UnmarshalJSON([]byte(`"not-a-number"`)))
}

func TestMoneyUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var m Money
	require.NoError(t, m.UnmarshalJSON([]byte(`"12.50"`)))
	assert.Equal(t, "12.50", m.String())

	require.NoError(t, m.UnmarshalJSON([]byte(`12.5`)))
	assert.Equal(t, "12.50", m.String())
}

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-05-17")
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-17"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d.String(), back.String())
}

func TestDateRejectsBadInput(t *testing.T) {
	for _, input := range []string{"17/05/2024", "2024-13-01", "2024-05-17T10:00:00Z", ""} {
		_, err := ParseDate(input)
		assert.Error(t, err, input)
	}
}

func TestDateScanFromDriverValues(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2023-01-02"))
	assert.Equal(t, "2023-01-02", d.String())

	require.NoError(t, d.Scan([]byte("2023-02-03")))
	assert.Equal(t, "2023-02-03", d.String())

	assert.Error(t, d.Scan(42))
}
