package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// TransactionAttributes annotates the New Relic transaction started by nrgin with
// request identifiers, so traces can be found by trip or user.
// It is a no-op when no transaction is attached to the request.
func TransactionAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := nrgin.Transaction(c)
		if txn == nil {
			c.Next()
			return
		}

		if requestID := c.GetString("request_id"); requestID != "" {
			txn.AddAttribute("request_id", requestID)
		}
		for _, name := range []string{"id", "userID"} {
			if v := c.Param(name); v != "" {
				txn.AddAttribute("param."+name, v)
			}
		}

		c.Next()

		if c.Writer.Status() >= 500 {
			for _, e := range c.Errors {
				txn.NoticeError(e.Err)
			}
		}
	}
}
