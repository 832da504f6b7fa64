package database

import "time"

// ReportRow — строка таблицы reports. Тело отчета и результат анализа хранятся
// раздельными JSON-колонками: тот же контракт «писать раздельно, мерджить при
// чтении», что и у файлового хранилища.
type ReportRow struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	Status          string    `gorm:"type:varchar(16);not null"`
	ExecutionTimeMs int64     `gorm:"not null"`
	Timestamp       time.Time `gorm:"index;not null"`
	ReportJSON      string    `gorm:"column:report_json;type:jsonb;not null"`
	AnalysisJSON    *string   `gorm:"column:analysis_json;type:jsonb"`
}

func (ReportRow) TableName() string {
	return "reports"
}
