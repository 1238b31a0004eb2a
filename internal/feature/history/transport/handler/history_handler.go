// Package handler はhistoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_relay/internal/feature/history/domain/entity"
	"stock_relay/internal/feature/history/transport/http/dto"
	"stock_relay/internal/feature/history/usecase"
)

// HistoryUsecase は株価履歴取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type HistoryUsecase interface {
	GetHistory(ctx context.Context, ticker, start, end string) ([]entity.PriceBar, error)
}

// HistoryHandler は株価履歴のHTTPリクエストを処理します。
type HistoryHandler struct {
	uc HistoryUsecase
}

// NewHistoryHandler は指定されたusecaseでHistoryHandlerの新しいインスタンスを生成します。
func NewHistoryHandler(uc HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// GetStock は銘柄と期間を受け取り、日足を [date, open, high, low, close, volume] の配列で返します。
//
// エンドポイント例:
// GET /stock/:ticker?start=2023-01-03&end=2023-01-05
//
// - データなし: 200 と {"error": "No data found ..."}
// - 日付の形式不正: 400
// - プロバイダーの失敗: 502
func (h *HistoryHandler) GetStock(c *gin.Context) {
	ticker := c.Param("ticker")
	start := c.Query("start")
	end := c.Query("end")

	bars, err := h.uc.GetHistory(c.Request.Context(), ticker, start, end)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.Success(bars))
	case errors.Is(err, usecase.ErrNoData):
		// ステータスではなくペイロードの形でデータなしを表す
		c.JSON(http.StatusOK, dto.NoData(dto.NoDataMessage))
	case errors.Is(err, usecase.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("history lookup failed", "ticker", ticker, "start", start, "end", end, "error", err)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	}
}
