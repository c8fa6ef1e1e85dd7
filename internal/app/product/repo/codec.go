package repo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
)

// numericScale is the fractional precision of a Spanner NUMERIC column.
const numericScale = 9

func moneyToNumeric(m domain.Money) *big.Rat {
	return m.Decimal().Rat()
}

func numericToMoney(r *big.Rat) (domain.Money, error) {
	d, err := decimal.NewFromString(r.FloatString(numericScale))
	if err != nil {
		return domain.Money{}, fmt.Errorf("invalid numeric %s: %w", r.String(), err)
	}
	return domain.NewMoney(d)
}

// encodeVariantPrices writes a variant table as a JSON object of decimal
// strings. An empty table is stored as NULL.
func encodeVariantPrices(prices domain.VariantPrices) spanner.NullJSON {
	if len(prices) == 0 {
		return spanner.NullJSON{}
	}
	return spanner.NullJSON{Value: prices.Strings(), Valid: true}
}

// DecodeVariantPrices normalizes a stored variant table into a map.
//
// Accepted shapes, as decoded from a JSON column:
//   - an object: {"10ml": "1500", "20ml": 2500}
//   - an array of pairs: [["10ml", "1500"], ["20ml", 2500]]
//   - an array of entries: [{"key": "10ml", "value": "1500"}]
//
// Raw JSON text (string or []byte) is parsed first. nil decodes to an empty
// table. Later duplicates of a key win.
func DecodeVariantPrices(raw any) (domain.VariantPrices, error) {
	prices := domain.VariantPrices{}

	switch v := raw.(type) {
	case nil:
		return prices, nil
	case string:
		if v == "" {
			return prices, nil
		}
		return decodeVariantJSON([]byte(v))
	case []byte:
		if len(v) == 0 {
			return prices, nil
		}
		return decodeVariantJSON(v)
	case map[string]string:
		for key, value := range v {
			if err := putVariant(prices, key, value); err != nil {
				return nil, err
			}
		}
	case map[string]any:
		for key, value := range v {
			if err := putVariant(prices, key, value); err != nil {
				return nil, err
			}
		}
	case []any:
		for i, item := range v {
			key, value, err := variantEntry(item)
			if err != nil {
				return nil, fmt.Errorf("variant entry %d: %w", i, err)
			}
			if err := putVariant(prices, key, value); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported variant table type %T", domain.ErrInvalidArgument, raw)
	}

	return prices, nil
}

func decodeVariantJSON(b []byte) (domain.VariantPrices, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: invalid variant table json: %v", domain.ErrInvalidArgument, err)
	}
	return DecodeVariantPrices(v)
}

func variantEntry(item any) (string, any, error) {
	switch e := item.(type) {
	case []any:
		if len(e) != 2 {
			return "", nil, fmt.Errorf("%w: pair must have two elements, got %d", domain.ErrInvalidArgument, len(e))
		}
		key, ok := e[0].(string)
		if !ok {
			return "", nil, fmt.Errorf("%w: pair key must be a string", domain.ErrInvalidArgument)
		}
		return key, e[1], nil
	case map[string]any:
		key, ok := e["key"].(string)
		if !ok {
			return "", nil, fmt.Errorf("%w: entry needs a string \"key\"", domain.ErrInvalidArgument)
		}
		value, ok := e["value"]
		if !ok {
			return "", nil, fmt.Errorf("%w: entry %q has no \"value\"", domain.ErrInvalidArgument, key)
		}
		return key, value, nil
	default:
		return "", nil, fmt.Errorf("%w: unsupported entry type %T", domain.ErrInvalidArgument, item)
	}
}

func putVariant(prices domain.VariantPrices, key string, value any) error {
	if key == "" {
		return fmt.Errorf("%w: variant key cannot be empty", domain.ErrInvalidArgument)
	}
	amount, err := variantAmount(value)
	if err != nil {
		return fmt.Errorf("variant %q: %w", key, err)
	}
	prices[key] = amount
	return nil
}

func variantAmount(value any) (domain.Money, error) {
	switch v := value.(type) {
	case string:
		return domain.ParseMoney(v)
	case json.Number:
		return domain.ParseMoney(v.String())
	case float64:
		return domain.NewMoney(decimal.NewFromFloat(v))
	case int64:
		return domain.NewMoneyFromInt(v)
	case int:
		return domain.NewMoneyFromInt(int64(v))
	default:
		return domain.Money{}, fmt.Errorf("%w: unsupported amount type %T", domain.ErrInvalidArgument, value)
	}
}
