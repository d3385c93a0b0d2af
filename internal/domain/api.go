package domain

// SendMessageRequest is the request to run one chat turn.
type SendMessageRequest struct {
	Prompt      string `json:"prompt" binding:"required"`
	ImageBase64 string `json:"image_base64,omitempty"`
	ImageMIME   string `json:"image_mime,omitempty"`
}

// GenerateImageRequest is the request to generate a composite design image.
type GenerateImageRequest struct {
	ProductImageURLs []string `json:"product_image_urls"`
}

// SelectRoomRequest is the request to choose a room in the intake flow.
type SelectRoomRequest struct {
	Room string `json:"room" binding:"required"`
}

// UploadSpaceRequest is the request to attach a space photo in the intake flow.
type UploadSpaceRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// ToggleInspirationRequest is the request to toggle an inspiration style.
type ToggleInspirationRequest struct {
	Style string `json:"style" binding:"required"`
}

// SetBudgetRequest is the request to set the intake budget in whole dollars.
type SetBudgetRequest struct {
	Budget int `json:"budget" binding:"required"`
}

// FlowStateResponse describes the current intake flow state.
type FlowStateResponse struct {
	Step         string   `json:"step"`
	Room         string   `json:"room,omitempty"`
	HasSpace     bool     `json:"has_space"`
	Inspirations []string `json:"inspirations,omitempty"`
}
