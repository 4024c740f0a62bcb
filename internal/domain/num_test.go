package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNum_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want Num
	}{
		{`"100.5"`, Some(100.5)},
		{`42`, Some(42)},
		{`null`, None()},
		{`""`, None()},
		{`"abc"`, None()},
		{`{"x":1}`, None()},
		{`"NaN"`, None()},
	}
	for _, c := range cases {
		var got Num
		require.NoError(t, json.Unmarshal([]byte(c.in), &got), c.in)
		require.Equal(t, c.want, got, c.in)
	}
}

func TestHistoryRecord_DecodeMalformedField(t *testing.T) {
	body := `{"datetime":"2018-01-01T00:00:00Z","priceUsd":"100","priceBtc":"0.01","volume":"oops","marketcap":null}`
	var rec HistoryRecord
	require.NoError(t, json.Unmarshal([]byte(body), &rec))
	require.Equal(t, Some(100), rec.PriceUSD)
	require.Equal(t, Some(0.01), rec.PriceBTC)
	require.False(t, rec.Volume.Valid)
	require.False(t, rec.Marketcap.Valid)
}

func TestHistoryRecord_DecodeBadDatetime(t *testing.T) {
	cases := []string{
		`{"datetime":"","priceUsd":"1"}`,
		`{"datetime":"garbage","priceUsd":"1"}`,
		`{"datetime":12345,"priceUsd":"1"}`,
		`{"datetime":null,"priceUsd":"1"}`,
		`{"priceUsd":"1"}`,
	}
	for _, body := range cases {
		var rec HistoryRecord
		require.NoError(t, json.Unmarshal([]byte(body), &rec), body)
		require.True(t, rec.Datetime.IsZero(), body)
		require.Equal(t, Some(1), rec.PriceUSD, body)
	}
}

func TestHistoryRecord_JSONRoundTripKeepsDatetime(t *testing.T) {
	in := HistoryRecord{Datetime: time.Date(2024, 3, 10, 10, 30, 0, 500, time.UTC), PriceUSD: Some(2)}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	var out HistoryRecord
	require.NoError(t, json.Unmarshal(b, &out))
	require.True(t, in.Datetime.Equal(out.Datetime))
	require.Equal(t, in.PriceUSD, out.PriceUSD)
}

func TestNum_MarshalJSON(t *testing.T) {
	b, err := json.Marshal([]Num{Some(0.011), None()})
	require.NoError(t, err)
	require.JSONEq(t, `[0.011,null]`, string(b))
}

func TestParseUnitAndRange(t *testing.T) {
	u, err := ParseUnit("btc")
	require.NoError(t, err)
	require.Equal(t, UnitBTC, u)
	_, err = ParseUnit("eth")
	require.ErrorIs(t, err, ErrUnknownUnit)

	r, err := ParseTimeRange("2W")
	require.NoError(t, err)
	require.Equal(t, TimeRange2W, r)
	_, err = ParseTimeRange("3d")
	require.ErrorIs(t, err, ErrUnknownTimeRange)
}

func TestNormalizeTicker(t *testing.T) {
	tk, err := NormalizeTicker(" san ")
	require.NoError(t, err)
	require.Equal(t, Ticker("SAN"), tk)
	_, err = NormalizeTicker("a/b")
	require.ErrorIs(t, err, ErrUnsupportedTicker)
}
