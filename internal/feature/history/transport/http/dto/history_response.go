// Package dto はhistoryフィーチャーのHTTPレスポンスDTOを定義します。
package dto

import (
	"encoding/json"

	"stock_relay/internal/feature/history/domain/entity"
)

// DateLayout はレスポンスの日付フォーマット（YYYY/MM/DD）です。
const DateLayout = "2006/01/02"

// NoDataMessage はデータが存在しない場合に返すメッセージです。
const NoDataMessage = "No data found for the given date range or ticker."

// ErrorResponse はエラーレスポンスのDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// PriceRow は1日分の株価です。JSONでは [date, open, high, low, close, volume] の配列になります。
type PriceRow struct {
	Date   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// MarshalJSON はフィールド名を持たない6要素の配列としてエンコードします。
func (r PriceRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([6]any{r.Date, r.Open, r.High, r.Low, r.Close, r.Volume})
}

// UnmarshalJSON は6要素の配列からデコードします。CLIの出力を読み戻すクライアント向けです。
func (r *PriceRow) UnmarshalJSON(b []byte) error {
	raw := [6]any{&r.Date, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume}
	return json.Unmarshal(b, &raw)
}

// NewPriceRow はドメインエンティティをレスポンス行に変換します。
// 日付は取引所のローカル日付で出力します。
func NewPriceRow(b entity.PriceBar) PriceRow {
	return PriceRow{
		Date:   b.Time.Format(DateLayout),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
	}
}

// HistoryResult は成功（行の配列）とデータなし（エラーオブジェクト）のどちらかを表します。
// ワイヤ形式は成功時が配列、データなし時が {"error": ...} のオブジェクトです。
type HistoryResult struct {
	rows    []PriceRow
	noData  bool
	message string
}

// Success は行の配列を持つ結果を生成します。
func Success(bars []entity.PriceBar) HistoryResult {
	rows := make([]PriceRow, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, NewPriceRow(b))
	}
	return HistoryResult{rows: rows}
}

// NoData はデータなしの結果を生成します。
func NoData(message string) HistoryResult {
	return HistoryResult{noData: true, message: message}
}

// MarshalJSON は結果の種類に応じて配列またはオブジェクトとしてエンコードします。
func (r HistoryResult) MarshalJSON() ([]byte, error) {
	if r.noData {
		return json.Marshal(ErrorResponse{Error: r.message})
	}
	if r.rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.rows)
}
