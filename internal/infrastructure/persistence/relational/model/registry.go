package model

import "labstore/internal/domain/lab"

// ForEntity returns a fresh row model for the named entity.
func ForEntity(name string) (any, bool) {
	switch name {
	case lab.EntitySample:
		return &Sample{}, true
	case lab.EntityCompound:
		return &Compound{}, true
	case lab.EntityAuditEntry:
		return &AuditEntry{}, true
	case lab.EntityCalibration:
		return &Calibration{}, true
	case lab.EntityCalibrant:
		return &Calibrant{}, true
	case lab.EntityQualityControl:
		return &QualityControl{}, true
	}
	return nil, false
}
