package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// DefaultOrigin is used when no origin survives filtering
const DefaultOrigin = "http://localhost:3000"

// SecureCORS returns CORS middleware for the given origins.
// The wildcard origin is dropped when appEnv is "production".
func SecureCORS(origins []string, appEnv string) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     filterOrigins(origins, appEnv),
		AllowMethods:     []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, HeaderAPIKey},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func filterOrigins(origins []string, appEnv string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "" || (appEnv == "production" && origin == "*") {
			continue
		}
		out = append(out, origin)
	}
	if len(out) == 0 {
		return []string{DefaultOrigin}
	}
	return out
}
