package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// EditKeyHeader carries the memorial edit key on update/delete requests.
const EditKeyHeader = "X-Edit-Key"

// CORS answers preflight OPTIONS for every route and allows any origin.
// Memorials are public pages edited from anonymous browsers, so there is no
// origin allow-list to enforce.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", EditKeyHeader, RequestIDHeader},
		ExposeHeaders:   []string{RequestIDHeader},
		MaxAge:          12 * time.Hour,
	})
}
