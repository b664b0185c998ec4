package model

import "labstore/internal/domain/lab"

type AuditEntry struct {
	ID       uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	SampleID uint64    `gorm:"column:sample_id;not null;index"`
	Sample   *Sample   `gorm:"foreignKey:SampleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Date     *lab.Date `gorm:"column:date;type:date"`
	Event    *string   `gorm:"column:event;type:text"`
	Message  *string   `gorm:"column:message;type:text"`
	User     *string   `gorm:"column:user;type:text"`
}

func (AuditEntry) TableName() string {
	return lab.EntityAuditEntry
}
