package response

// Body is the envelope every JSON endpoint answers with.
type Body struct {
	Success    bool        `json:"success"`
	Code       string      `json:"code,omitempty"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

func Success(data interface{}, message string) Body {
	return Body{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func Paginated(data interface{}, pagination interface{}) Body {
	return Body{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	}
}

func Error(code, message string, details interface{}) Body {
	return Body{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	}
}
