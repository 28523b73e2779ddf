package model

// Attendance is one presence record as returned by GET /presencas.
// Durations are in seconds.
type Attendance struct {
	ID                  string   `json:"id"`
	PersonUUID          string   `json:"uuid"`
	TotalProcessingTime float64  `json:"tempo_processamento_total"`
	CaptureTime         float64  `json:"tempo_captura_frame"`
	DetectionTime       float64  `json:"tempo_deteccao"`
	RecognitionTime     float64  `json:"tempo_reconhecimento"`
	QueueTime           float64  `json:"tempo_fila"`
	CapturedPhoto       string   `json:"foto_captura"`
	VideoTag            string   `json:"tag_video"`
	Tags                []string `json:"tags"`
	CaptureDate         string   `json:"data_captura_frame"`
	StartTimestamp      *float64 `json:"timestamp_inicial,omitempty"`
	EndTimestamp        *float64 `json:"timestamp_final,omitempty"`
}

// ProcessingTime is capture + detection + recognition, the per-row total shown in the table.
func (a Attendance) ProcessingTime() float64 {
	return a.CaptureTime + a.DetectionTime + a.RecognitionTime
}
