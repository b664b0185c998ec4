package model

import "labstore/internal/domain/lab"

type Calibrant struct {
	ID            uint64       `gorm:"column:id;primaryKey;autoIncrement"`
	CalibrationID uint64       `gorm:"column:calibration_id;not null;index"`
	Calibration   *Calibration `gorm:"foreignKey:CalibrationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Number        *int         `gorm:"column:number"`
	Folder        *string      `gorm:"column:folder;type:text"`
	TrueVal       *float64     `gorm:"column:true_val"`
	Response      *float64     `gorm:"column:response"`
	RespFac       *float64     `gorm:"column:resp_fac"`
	ColumnID      *int         `gorm:"column:column_id"`
}

func (Calibrant) TableName() string {
	return lab.EntityCalibrant
}
