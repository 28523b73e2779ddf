package model

import "time"

// CapturedFrame is a still admitted by the capture throttler.
// It lives only until its single upload attempt completes or fails.
type CapturedFrame struct {
	ID        string
	Image     []byte
	MIME      string
	Timestamp time.Time
}

// FrameStatistic is the per-tag aggregate of GET /frames/estatisticas.
type FrameStatistic struct {
	VideoTag            string  `json:"tag_video"`
	TotalFrames         int     `json:"total_frames"`
	MinFaces            *int    `json:"menor_qtd_faces_detectadas"`
	MinFacesFrame       *string `json:"uuid_menor_qtd"`
	MaxFaces            *int    `json:"maior_qtd_faces_detectadas"`
	MaxFacesFrame       *string `json:"uuid_maior_qtd"`
	FramesWithoutPeople int     `json:"frames_sem_pessoas"`
}

// GroupingSummary is one element of GET /frames/agrupamentos.
type GroupingSummary struct {
	FrameStatistic
	TotalPeople     int      `json:"total_pessoas"`
	FPS             *float64 `json:"fps"`
	Duration        *float64 `json:"duracao"`
	DetectedChart   string   `json:"grafico_detectados"`
	RecognizedChart string   `json:"grafico_reconhecidos"`
}
