package helper

import (
	"strconv"
	"time"

	"github.com/yourusername/nback-api/internal/domain/entity"
)

// ExportHeaders - заголовки колонок выгрузки результатов. Date - сохраненный ключ дня,
// он не пересчитывается из SubmittedAt, который из БД приходит в зоне сессии.
var ExportHeaders = []string{"Date", "Level", "Score", "Submitted at"}

// ResultToRecord преобразует результат в строку CSV
func ResultToRecord(r entity.Result) []string {
	return []string{
		r.Day,
		strconv.Itoa(r.Level),
		strconv.Itoa(r.Score),
		r.SubmittedAt.Format(time.RFC3339),
	}
}

// ResultToRow преобразует результат в строку XLSX. Числа остаются числами.
func ResultToRow(r entity.Result) []interface{} {
	return []interface{}{
		r.Day,
		r.Level,
		r.Score,
		r.SubmittedAt.Format(time.RFC3339),
	}
}
