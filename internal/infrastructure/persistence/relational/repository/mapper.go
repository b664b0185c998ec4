package repository

import (
	"labstore/internal/domain/lab"
	"labstore/internal/infrastructure/persistence/relational/model"
)

func enumPtr[T ~string](v T) *string {
	if v == "" {
		return nil
	}
	s := string(v)
	return &s
}

func enumValue[T ~string](v *string) T {
	if v == nil {
		return ""
	}
	return T(*v)
}

func toSampleRow(s lab.Sample) model.Sample {
	return model.Sample{
		ID:               s.ID,
		CalibrationID:    s.CalibrationID,
		Identifier:       s.Identifier,
		Misc:             s.Misc,
		RunType:          s.RunType,
		Vial:             s.Vial,
		AmtAnalyzed:      s.AmtAnalyzed,
		Multiplyer:       s.Multiplyer,
		Folder:           s.Folder,
		Operator:         s.Operator,
		AcquiMethod:      s.AcquiMethod,
		QuantMethod:      s.QuantMethod,
		LastModified:     s.LastModified,
		DateAcquiredCol1: s.DateAcquiredCol1,
		DateAcquiredCol2: s.DateAcquiredCol2,
		Col1WindowLow:    s.Col1WindowLow,
		Col1WindowHigh:   s.Col1WindowHigh,
		Col2WindowLow:    s.Col2WindowLow,
		Col2WindowHigh:   s.Col2WindowHigh,
	}
}

func mapSample(row model.Sample) lab.Sample {
	return lab.Sample{
		ID:               row.ID,
		CalibrationID:    row.CalibrationID,
		Identifier:       row.Identifier,
		Misc:             row.Misc,
		RunType:          row.RunType,
		Vial:             row.Vial,
		AmtAnalyzed:      row.AmtAnalyzed,
		Multiplyer:       row.Multiplyer,
		Folder:           row.Folder,
		Operator:         row.Operator,
		AcquiMethod:      row.AcquiMethod,
		QuantMethod:      row.QuantMethod,
		LastModified:     row.LastModified,
		DateAcquiredCol1: row.DateAcquiredCol1,
		DateAcquiredCol2: row.DateAcquiredCol2,
		Col1WindowLow:    row.Col1WindowLow,
		Col1WindowHigh:   row.Col1WindowHigh,
		Col2WindowLow:    row.Col2WindowLow,
		Col2WindowHigh:   row.Col2WindowHigh,
	}
}

func toCompoundRow(c lab.Compound) model.Compound {
	return model.Compound{
		ID:            c.ID,
		SampleID:      c.SampleID,
		ColumnID:      c.ColumnID,
		RetentionTime: c.RetentionTime,
		LowRT:         c.LowRT,
		HighRT:        c.HighRT,
		Value:         c.Value,
		AreaCount:     c.AreaCount,
		IsRT:          c.IsRT,
		IsSurrogate:   c.IsSurrogate,
		IsAggregate:   c.IsAggregate,
		IsReported:    c.IsReported,
	}
}

func mapCompound(row model.Compound) lab.Compound {
	return lab.Compound{
		ID:            row.ID,
		SampleID:      row.SampleID,
		ColumnID:      row.ColumnID,
		RetentionTime: row.RetentionTime,
		LowRT:         row.LowRT,
		HighRT:        row.HighRT,
		Value:         row.Value,
		AreaCount:     row.AreaCount,
		IsRT:          row.IsRT,
		IsSurrogate:   row.IsSurrogate,
		IsAggregate:   row.IsAggregate,
		IsReported:    row.IsReported,
	}
}

func toAuditEntryRow(a lab.AuditEntry) model.AuditEntry {
	return model.AuditEntry{
		ID:       a.ID,
		SampleID: a.SampleID,
		Date:     a.Date,
		Event:    a.Event,
		Message:  a.Message,
		User:     a.User,
	}
}

func mapAuditEntry(row model.AuditEntry) lab.AuditEntry {
	return lab.AuditEntry{
		ID:       row.ID,
		SampleID: row.SampleID,
		Date:     row.Date,
		Event:    row.Event,
		Message:  row.Message,
		User:     row.User,
	}
}

func toCalibrationRow(c lab.Calibration) model.Calibration {
	return model.Calibration{
		ID:              c.ID,
		CalType:         enumPtr(c.CalType),
		IntegrationType: enumPtr(c.IntegrationType),
		RegressionType:  enumPtr(c.RegressionType),
		CompoundName:    c.CompoundName,
		Number:          c.Number,
		Intercept:       c.Intercept,
		LinearCoef:      c.LinearCoef,
		QuadCoef:        c.QuadCoef,
		Correlation:     c.Correlation,
		RSD:             c.RSD,
		ParamFlag:       c.ParamFlag,
	}
}

func mapCalibration(row model.Calibration) lab.Calibration {
	return lab.Calibration{
		ID:              row.ID,
		CalType:         enumValue[lab.CalibrationType](row.CalType),
		IntegrationType: enumValue[lab.IntegrationType](row.IntegrationType),
		RegressionType:  enumValue[lab.RegressionType](row.RegressionType),
		CompoundName:    row.CompoundName,
		Number:          row.Number,
		Intercept:       row.Intercept,
		LinearCoef:      row.LinearCoef,
		QuadCoef:        row.QuadCoef,
		Correlation:     row.Correlation,
		RSD:             row.RSD,
		ParamFlag:       row.ParamFlag,
	}
}

func toCalibrantRow(c lab.Calibrant) model.Calibrant {
	return model.Calibrant{
		ID:            c.ID,
		CalibrationID: c.CalibrationID,
		Number:        c.Number,
		Folder:        c.Folder,
		TrueVal:       c.TrueVal,
		Response:      c.Response,
		RespFac:       c.RespFac,
		ColumnID:      c.ColumnID,
	}
}

func mapCalibrant(row model.Calibrant) lab.Calibrant {
	return lab.Calibrant{
		ID:            row.ID,
		CalibrationID: row.CalibrationID,
		Number:        row.Number,
		Folder:        row.Folder,
		TrueVal:       row.TrueVal,
		Response:      row.Response,
		RespFac:       row.RespFac,
		ColumnID:      row.ColumnID,
	}
}

func toQualityControlRow(q lab.QualityControl) model.QualityControl {
	return model.QualityControl{
		ID:           q.ID,
		MethodGroup:  q.MethodGroup,
		ControlType:  enumPtr(q.ControlType),
		Key:          q.Key,
		Level:        q.Level,
		Method:       q.Method,
		Matrix:       q.Matrix,
		CompoundName: q.CompoundName,
		TrueVal:      q.TrueVal,
		LowLimit:     q.LowLimit,
		HighLimit:    q.HighLimit,
		Flag:         q.Flag,
	}
}

func mapQualityControl(row model.QualityControl) lab.QualityControl {
	return lab.QualityControl{
		ID:           row.ID,
		MethodGroup:  row.MethodGroup,
		ControlType:  enumValue[lab.ControlType](row.ControlType),
		Key:          row.Key,
		Level:        row.Level,
		Method:       row.Method,
		Matrix:       row.Matrix,
		CompoundName: row.CompoundName,
		TrueVal:      row.TrueVal,
		LowLimit:     row.LowLimit,
		HighLimit:    row.HighLimit,
		Flag:         row.Flag,
	}
}
