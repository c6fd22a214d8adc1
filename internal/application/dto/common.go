package dto

// DateLayout formato de fechas de calendario en la API (sin hora ni zona).
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AckResponse confirmación simple para operaciones sin cuerpo de respuesta.
type AckResponse struct {
	OK bool `json:"ok"`
}
