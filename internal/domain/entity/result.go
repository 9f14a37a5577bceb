package entity

import (
	"time"

	"gorm.io/gorm"
)

// dayKeyLayout - формат ключа календарного дня в колонке result_day
const dayKeyLayout = "2006-01-02"

// Result представляет результат N-Back теста пользователя за один календарный день
type Result struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;index;uniqueIndex:idx_n_back_results_user_day" json:"user_id"`
	Score       int       `gorm:"not null" json:"score"`
	Level       int       `gorm:"not null" json:"level"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`

	// Day - дата из SubmittedAt в его собственном смещении. Уникальна в паре с UserID.
	Day string `gorm:"column:result_day;size:10;not null;uniqueIndex:idx_n_back_results_user_day" json:"-"`
}

// TableName определяет имя таблицы для GORM
func (Result) TableName() string {
	return "n_back_results"
}

// BeforeSave синхронизирует ключ дня с SubmittedAt
func (r *Result) BeforeSave(tx *gorm.DB) error {
	r.Day = DayOf(r.SubmittedAt).Key
	return nil
}

// DayWindow - календарный день [Start, End] включительно, вычисленный из момента отправки.
type DayWindow struct {
	Key   string
	Start time.Time
	End   time.Time
}

// DayOf возвращает окно дня, в который попадает t. Граница дня берется из даты
// самого t в его часовом поясе, а не из часов сервера.
func DayOf(t time.Time) DayWindow {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return DayWindow{
		Key:   start.Format(dayKeyLayout),
		Start: start,
		End:   start.AddDate(0, 0, 1).Add(-time.Nanosecond),
	}
}

// Contains сообщает, попадает ли t в окно
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Improve применяет политику улучшения к записи: более высокий уровень заменяет
// уровень и очки, при равном уровне заменяются только строго большие очки.
// SubmittedAt обновляется только при улучшении. Возвращает true, если запись изменилась.
func (r *Result) Improve(score, level int, submittedAt time.Time) bool {
	switch {
	case level > r.Level:
		r.Level = level
		r.Score = score
	case level == r.Level && score > r.Score:
		r.Score = score
	default:
		return false
	}
	r.SubmittedAt = submittedAt
	return true
}
