package model

type SchemaMeta struct {
	Key       string `gorm:"column:key;type:varchar(128);primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (SchemaMeta) TableName() string {
	return "schema_meta"
}
