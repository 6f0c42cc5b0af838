package models

// VerificationArea mirrors CircleArea but keeps the center as a pointer so a
// request without one can be rejected with INVALID_AREA instead of silently
// verifying against (0, 0).
type VerificationArea struct {
	AreaType string  `json:"areaType"`
	Center   *Point  `json:"center"`
	Radius   float64 `json:"radius"`
}

type VerificationRequest struct {
	Device *Device          `json:"device" binding:"required"`
	Area   VerificationArea `json:"area" binding:"required"`
	MaxAge *int             `json:"maxAge,omitempty"`
}

type VerificationResult string

const (
	VerificationTrue    VerificationResult = "TRUE"
	VerificationFalse   VerificationResult = "FALSE"
	VerificationUnknown VerificationResult = "UNKNOWN"
)

type VerificationResponse struct {
	VerificationResult VerificationResult `json:"verificationResult"`
	LastLocationTime   string             `json:"lastLocationTime,omitempty"`
	Distance           *float64           `json:"distance,omitempty"`
}

type RetrievalRequest struct {
	Device     *Device `json:"device,omitempty"`
	MaxAge     *int    `json:"maxAge,omitempty"`
	MaxSurface *int    `json:"maxSurface,omitempty"`
}

type RetrievalResponse struct {
	LastLocationTime string     `json:"lastLocationTime"`
	Area             CircleArea `json:"area"`
}
