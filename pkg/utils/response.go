package utils

import "github.com/gin-gonic/gin"

// Response is the uniform JSON envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListResponse includes a result count alongside the data array.
func ListResponse(c *gin.Context, status int, results int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Results: &results,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   message,
	})
}
