package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire shape of every failed quiz endpoint. The browser and
// terminal clients key off the single "error" field, so unlike a fuller API
// envelope there is no metadata block here.
type ErrorBody struct {
	Error string `json:"error"`
}

// Success sends the payload as-is. Quiz endpoints use flat response shapes.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Fail sends an error response for the given code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, ErrorBody{Error: GetMessage(code)})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{Error: GetMessage(code)})
}
