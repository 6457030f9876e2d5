package models

import "time"

// LastResume is the most recently analyzed upload, kept for GET /last-resume.
type LastResume struct {
	Filename   string         `json:"filename"`
	UploadedAt time.Time      `json:"uploaded_at"`
	Role       string         `json:"role"`
	Company    string         `json:"company"`
	Text       string         `json:"text"`
	Analysis   map[string]any `json:"analysis"`
}

type StageStatus string

const (
	StageCompleted  StageStatus = "completed"
	StageInProgress StageStatus = "in_progress"
	StagePending    StageStatus = "pending"
)

type Stage struct {
	Stage  int         `json:"stage"`
	Name   string      `json:"name"`
	Status StageStatus `json:"status"`
}

type StagesResponse struct {
	Stages []Stage `json:"stages"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
