package lab

// Entity names double as collection names in the store.
const (
	EntitySample         = "sample"
	EntityCompound       = "compound"
	EntityAuditEntry     = "audit_entry"
	EntityCalibration    = "calibration"
	EntityCalibrant      = "calibrant"
	EntityQualityControl = "quality_control"
)

// Sample is one submitted analytical sample and its acquisition metadata.
type Sample struct {
	ID               uint64
	CalibrationID    uint64
	Identifier       *string
	Misc             *string
	RunType          *string
	Vial             *int
	AmtAnalyzed      *float64
	Multiplyer       *float64
	Folder           *string
	Operator         *string
	AcquiMethod      *string
	QuantMethod      *string
	LastModified     *Date
	DateAcquiredCol1 *Date
	DateAcquiredCol2 *Date
	Col1WindowLow    *float64
	Col1WindowHigh   *float64
	Col2WindowLow    *float64
	Col2WindowHigh   *float64
}

func (s Sample) Validate() error {
	if s.CalibrationID == 0 {
		return violation(EntitySample, "calibration_id", ConstraintNotNull, "calibration reference is required", nil)
	}
	dates := []struct {
		field string
		value *Date
	}{
		{"last_modified", s.LastModified},
		{"date_acquired_col_1", s.DateAcquiredCol1},
		{"date_acquired_col_2", s.DateAcquiredCol2},
	}
	for _, d := range dates {
		if err := checkDate(EntitySample, d.field, d.value); err != nil {
			return err
		}
	}
	return nil
}

// Compound is one compound's quantitation result within a Sample.
type Compound struct {
	ID            uint64
	SampleID      uint64
	ColumnID      *int
	RetentionTime *float64
	LowRT         *float64
	HighRT        *float64
	Value         *float64
	AreaCount     *float64
	IsRT          *bool
	IsSurrogate   *bool
	IsAggregate   *bool
	IsReported    *bool
}

func (c Compound) Validate() error {
	if c.SampleID == 0 {
		return violation(EntityCompound, "sample_id", ConstraintNotNull, "sample reference is required", nil)
	}
	return nil
}

// AuditEntry records one user action taken against a Sample.
type AuditEntry struct {
	ID       uint64
	SampleID uint64
	Date     *Date
	Event    *string
	Message  *string
	User     *string
}

func (a AuditEntry) Validate() error {
	if a.SampleID == 0 {
		return violation(EntityAuditEntry, "sample_id", ConstraintNotNull, "sample reference is required", nil)
	}
	return checkDate(EntityAuditEntry, "date", a.Date)
}

func checkDate(entity, field string, d *Date) error {
	if d == nil || d.Storable() {
		return nil
	}
	return violation(entity, field, ConstraintCheck, d.String(), ErrDateOutOfRange)
}

// Calibration is one calibration curve definition for a compound.
type Calibration struct {
	ID              uint64
	CalType         CalibrationType
	IntegrationType IntegrationType
	RegressionType  RegressionType
	CompoundName    *string
	Number          *int
	Intercept       *float64
	LinearCoef      *float64
	QuadCoef        *float64
	Correlation     *float64
	RSD             *float64
	ParamFlag       *string
}

// WithDefaults fills the declared column defaults for unset enum fields.
func (c Calibration) WithDefaults() Calibration {
	if c.CalType == "" {
		c.CalType = DefaultCalibrationType
	}
	if c.IntegrationType == "" {
		c.IntegrationType = DefaultIntegrationType
	}
	return c
}

func (c Calibration) Validate() error {
	if c.CalType != "" && !c.CalType.Valid() {
		return violation(EntityCalibration, "cal_type", ConstraintEnum, string(c.CalType), ErrInvalidCalibrationType)
	}
	if c.IntegrationType != "" && !c.IntegrationType.Valid() {
		return violation(EntityCalibration, "integration_type", ConstraintEnum, string(c.IntegrationType), ErrInvalidIntegrationType)
	}
	if c.RegressionType != "" && !c.RegressionType.Valid() {
		return violation(EntityCalibration, "regression_type", ConstraintEnum, string(c.RegressionType), ErrInvalidRegressionType)
	}
	return nil
}

// Calibrant is one standard point used to build a Calibration.
type Calibrant struct {
	ID            uint64
	CalibrationID uint64
	Number        *int
	Folder        *string
	TrueVal       *float64
	Response      *float64
	RespFac       *float64
	ColumnID      *int
}

func (c Calibrant) Validate() error {
	if c.CalibrationID == 0 {
		return violation(EntityCalibrant, "calibration_id", ConstraintNotNull, "calibration reference is required", nil)
	}
	return nil
}

// QualityControl is one QC limit, recovery or breakdown rule for a
// method/compound pair. Flag is kept verbatim; its meaning is not defined.
type QualityControl struct {
	ID           uint64
	MethodGroup  *string
	ControlType  ControlType
	Key          *string
	Level        *string
	Method       *string
	Matrix       *string
	CompoundName *string
	TrueVal      *float64
	LowLimit     *float64
	HighLimit    *float64
	Flag         *string
}

func (q QualityControl) Validate() error {
	if q.ControlType != "" && !q.ControlType.Valid() {
		return violation(EntityQualityControl, "control_type", ConstraintEnum, string(q.ControlType), ErrInvalidControlType)
	}
	return nil
}
