package model

type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
