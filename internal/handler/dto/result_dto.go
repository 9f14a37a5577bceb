package dto

import "time"

// ResultRequest - тело POST и PUT /nback/. Указатели нужны, чтобы отличать
// отсутствующее поле от нулевого значения: score=0 допустим.
type ResultRequest struct {
	Score       *int       `json:"score" binding:"required"`
	Level       *int       `json:"level" binding:"required"`
	SubmittedAt *time.Time `json:"submitted_at" binding:"required"`
}
