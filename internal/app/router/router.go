package router

import (
	"net/http"

	historyhandler "stock_relay/internal/feature/history/transport/handler"
	"stock_relay/internal/platform/http/handler"
	"stock_relay/internal/platform/http/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter はルーティングとCORSを設定したginエンジンを生成します。
// metrics が nil の場合 /metrics は登録しません。
func NewRouter(history *historyhandler.HistoryHandler, metrics http.Handler) *gin.Engine {
	r := gin.Default()

	// すべてのレスポンスにCORSヘッダーを付与
	r.Use(middleware.CORS())

	// 導通確認用
	r.GET("/", handler.Root)
	r.HEAD("/", handler.Root)

	// 株価履歴
	r.GET("/stock/:ticker", history.GetStock)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	return r
}
