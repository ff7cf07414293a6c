package packets

// PlayRequest asks for an out-of-band playback of one named call.
type PlayRequest struct {
	Call string `json:"call" binding:"required"`
}
