package dtos

type GoogleLoginRequest struct {
	Token       string `json:"token" binding:"required"`
	IsExtension bool   `json:"isExtension"`
}

// AIRequest is shared by every /api/ai endpoint.
type AIRequest struct {
	JDText     string `json:"jdText"`
	ResumeText string `json:"resumeText"`
}
