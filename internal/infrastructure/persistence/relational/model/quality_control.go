package model

import "labstore/internal/domain/lab"

type QualityControl struct {
	ID           uint64   `gorm:"column:id;primaryKey;autoIncrement"`
	MethodGroup  *string  `gorm:"column:method_group;type:text"`
	ControlType  *string  `gorm:"column:control_type;type:varchar(32);check:control_types,control_type IN ('limit','breakdown','recovery')"`
	Key          *string  `gorm:"column:key;type:text"`
	Level        *string  `gorm:"column:level;type:text"`
	Method       *string  `gorm:"column:method;type:text"`
	Matrix       *string  `gorm:"column:matrix;type:text"`
	CompoundName *string  `gorm:"column:compound_name;type:text"`
	TrueVal      *float64 `gorm:"column:true_val"`
	LowLimit     *float64 `gorm:"column:low_limit"`
	HighLimit    *float64 `gorm:"column:high_limit"`
	Flag         *string  `gorm:"column:flag;type:text"`
}

func (QualityControl) TableName() string {
	return lab.EntityQualityControl
}
