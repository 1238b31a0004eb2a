// Package middleware はgin用の共通ミドルウェアを提供します。
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS はすべてのオリジン・メソッド・リクエストヘッダーを許可するCORSミドルウェアを返します。
//
// 注意:
//   - 資格情報付きリクエストではブラウザが "*" を受け付けないため、リクエストのOriginをそのまま返す
//   - プリフライトでは Access-Control-Request-Headers をそのまま Access-Control-Allow-Headers として返す
//   - 信頼できる環境・開発環境向けの設定であり、本番のセキュリティ境界ではない
func CORS() gin.HandlerFunc {
	handle := cors.New(cors.Config{
		AllowOriginFunc: func(string) bool { return true },
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Content-Length",
			"Accept",
			"Accept-Encoding",
			"Accept-Language",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions && c.GetHeader("Origin") != "" {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Writer = &allowRequestedHeaders{ResponseWriter: c.Writer, requested: requested}
			}
		}
		handle(c)
	}
}

// allowRequestedHeaders はヘッダー送信直前に Access-Control-Allow-Headers を
// プリフライトで要求されたヘッダーに置き換えます。
type allowRequestedHeaders struct {
	gin.ResponseWriter
	requested string
	applied   bool
}

func (w *allowRequestedHeaders) WriteHeader(code int) {
	w.allow()
	w.ResponseWriter.WriteHeader(code)
}

func (w *allowRequestedHeaders) WriteHeaderNow() {
	w.allow()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *allowRequestedHeaders) allow() {
	if w.applied || w.Written() {
		return
	}
	w.applied = true
	h := w.Header()
	h.Set("Access-Control-Allow-Headers", w.requested)
	h.Add("Vary", "Access-Control-Request-Headers")
}
