package models

// QueryRecord is one persisted question/answer pair. The ID is assigned by the
// database on insert and never changes afterwards.
type QueryRecord struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Question string `gorm:"type:text" json:"question"`
	Answer   string `gorm:"type:text" json:"answer"`
}

// TableName pins the table to "queries".
func (QueryRecord) TableName() string {
	return "queries"
}
