package api

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	// detail 錯誤描述，沿用既有用戶端讀取的欄位名稱
	Detail string `json:"detail" example:"email already registered"`
}
