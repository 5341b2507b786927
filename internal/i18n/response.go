package i18n

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondWithError sends an appropriate HTTP error response for the given error
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	errorMsg := TranslateError(c, err)

	var errWithCode *ErrorWithCode
	if errors.As(err, &errWithCode) {
		statusCode = int(errWithCode.GetCode())
	}

	c.JSON(statusCode, gin.H{"error": errorMsg})
}

// RespondWithSuccess sends a success HTTP response with an internationalized message
func RespondWithSuccess(c *gin.Context, statusCode int, msgID string, data map[string]any, payload interface{}) {
	response := gin.H{
		"message": TranslateMessage(c, msgID, data),
	}

	for k, v := range data {
		response[k] = v
	}

	if payload != nil {
		switch p := payload.(type) {
		case map[string]any:
			for k, v := range p {
				response[k] = v
			}
		case gin.H:
			for k, v := range p {
				response[k] = v
			}
		default:
			response["data"] = payload
		}
	}

	c.JSON(statusCode, response)
}

// Success creates a success response with status 200
func Success(msgID string) *SuccessResponse {
	return &SuccessResponse{StatusCode: http.StatusOK, MsgID: msgID}
}

// Created creates a success response with status 201
func Created(msgID string) *SuccessResponse {
	return &SuccessResponse{StatusCode: http.StatusCreated, MsgID: msgID}
}

// SuccessResponse represents a response with success message
type SuccessResponse struct {
	StatusCode int
	MsgID      string
	Data       map[string]interface{}
	Payload    interface{}
}

// With adds a key-value pair to the response data
func (r *SuccessResponse) With(key string, value interface{}) *SuccessResponse {
	if r.Data == nil {
		r.Data = make(map[string]interface{})
	}
	r.Data[key] = value
	return r
}

// WithPayload attaches a payload to the response
func (r *SuccessResponse) WithPayload(payload interface{}) *SuccessResponse {
	r.Payload = payload
	return r
}

// Send sends the success response to the client
func (r *SuccessResponse) Send(c *gin.Context) {
	RespondWithSuccess(c, r.StatusCode, r.MsgID, r.Data, r.Payload)
}
