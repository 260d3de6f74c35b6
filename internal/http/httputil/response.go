package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hqminh2201/evm-route-engine/internal/common"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

func BadRequest(c *gin.Context, err string) {
	Error(c, http.StatusBadRequest, err)
}

func NotFound(c *gin.Context, err string) {
	Error(c, http.StatusNotFound, err)
}

func InternalError(c *gin.Context, err string) {
	Error(c, http.StatusInternalServerError, err)
}

// InternalErrorDetail carries a best-effort detail string alongside the
// user-facing message for unexpected failures.
func InternalErrorDetail(c *gin.Context, err, detail string) {
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error:   err,
		Detail:  detail,
	})
}

// FromHTTPError renders a typed HTTP error with its status, code and
// optional detail.
func FromHTTPError(c *gin.Context, e *common.HttpError) {
	c.JSON(e.StatusCode, Response{
		Success: false,
		Code:    e.Code,
		Error:   e.Message,
		Detail:  e.Detail,
	})
}
