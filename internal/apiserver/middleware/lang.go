package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/luminahq/lumina/internal/common/cnst"
	"github.com/luminahq/lumina/internal/i18n"
)

// LangMiddleware resolves the request's language preference and stores
// it in the context for the i18n response helpers.
func LangMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cnst.XLang, i18n.LanguageFromRequest(c.Request))
		c.Next()
	}
}
