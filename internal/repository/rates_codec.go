package repository

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// decodeRateMap は jsonb の {"<catalogue id>": rate} を読み込む。
// rate は数値・文字列どちらでもよい。
func decodeRateMap(raw []byte) (map[string]decimal.Decimal, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]decimal.Decimal{}, nil
	}
	var m map[string]decimal.Decimal
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode rate map: %w", err)
	}
	if m == nil {
		m = map[string]decimal.Decimal{}
	}
	return m, nil
}
