package model

import "labstore/internal/domain/lab"

type Sample struct {
	ID               uint64       `gorm:"column:id;primaryKey;autoIncrement"`
	CalibrationID    uint64       `gorm:"column:calibration_id;not null;index"`
	Calibration      *Calibration `gorm:"foreignKey:CalibrationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Identifier       *string      `gorm:"column:identifier;type:text"`
	Misc             *string      `gorm:"column:misc;type:text"`
	RunType          *string      `gorm:"column:run_type;type:text"`
	Vial             *int         `gorm:"column:vial"`
	AmtAnalyzed      *float64     `gorm:"column:amt_analyzed"`
	Multiplyer       *float64     `gorm:"column:multiplyer"`
	Folder           *string      `gorm:"column:folder;type:text"`
	Operator         *string      `gorm:"column:operator;type:text"`
	AcquiMethod      *string      `gorm:"column:acqui_method;type:text"`
	QuantMethod      *string      `gorm:"column:quant_method;type:text"`
	LastModified     *lab.Date    `gorm:"column:last_modified;type:date"`
	DateAcquiredCol1 *lab.Date    `gorm:"column:date_acquired_col_1;type:date"`
	DateAcquiredCol2 *lab.Date    `gorm:"column:date_acquired_col_2;type:date"`
	Col1WindowLow    *float64     `gorm:"column:col_1_window_low"`
	Col1WindowHigh   *float64     `gorm:"column:col_1_window_high"`
	Col2WindowLow    *float64     `gorm:"column:col_2_window_low"`
	Col2WindowHigh   *float64     `gorm:"column:col_2_window_high"`
}

func (Sample) TableName() string {
	return lab.EntitySample
}
