package domain

// GeneratedImage is a stored design rendering. The id is assigned by the
// image store and is never client-generated; a non-durable record (store
// failure fallback) carries a synthetic negative id instead.
type GeneratedImage struct {
	ID          int64  `json:"id"`
	SessionID   string `json:"sessionId"`
	Base64Image string `json:"base64Image"`
	CreatedAt   string `json:"createdAt"`
	Durable     bool   `json:"durable"`
}
