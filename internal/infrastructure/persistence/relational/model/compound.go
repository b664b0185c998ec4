package model

import "labstore/internal/domain/lab"

type Compound struct {
	ID            uint64   `gorm:"column:id;primaryKey;autoIncrement"`
	SampleID      uint64   `gorm:"column:sample_id;not null;index"`
	Sample        *Sample  `gorm:"foreignKey:SampleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ColumnID      *int     `gorm:"column:column_id"`
	RetentionTime *float64 `gorm:"column:retention_time"`
	LowRT         *float64 `gorm:"column:low_rt"`
	HighRT        *float64 `gorm:"column:high_rt"`
	Value         *float64 `gorm:"column:value"`
	AreaCount     *float64 `gorm:"column:area_count"`
	IsRT          *bool    `gorm:"column:is_rt"`
	IsSurrogate   *bool    `gorm:"column:is_surrogate"`
	IsAggregate   *bool    `gorm:"column:is_aggregate"`
	IsReported    *bool    `gorm:"column:is_reported"`
}

func (Compound) TableName() string {
	return lab.EntityCompound
}
