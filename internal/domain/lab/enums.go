package lab

// CalibrationType is the curve model of a calibration (domain calibration_types).
type CalibrationType string

const (
	CalLinear         CalibrationType = "linear"
	CalAvgRespFac     CalibrationType = "avg_resp_fac"
	CalLinearThruZero CalibrationType = "linear_thru_zero"
	CalQuad           CalibrationType = "quad"
	CalQuadThrZero    CalibrationType = "quad_thr_zero"
)

const DefaultCalibrationType = CalAvgRespFac

func CalibrationTypes() []CalibrationType {
	return []CalibrationType{CalLinear, CalAvgRespFac, CalLinearThruZero, CalQuad, CalQuadThrZero}
}

func (t CalibrationType) Valid() bool {
	switch t {
	case CalLinear, CalAvgRespFac, CalLinearThruZero, CalQuad, CalQuadThrZero:
		return true
	}
	return false
}

// IntegrationType is how peaks are integrated (domain integration_types).
type IntegrationType string

const (
	IntegrationHeight IntegrationType = "height"
	IntegrationArea   IntegrationType = "area"
)

const DefaultIntegrationType = IntegrationHeight

func IntegrationTypes() []IntegrationType {
	return []IntegrationType{IntegrationHeight, IntegrationArea}
}

func (t IntegrationType) Valid() bool {
	switch t {
	case IntegrationHeight, IntegrationArea:
		return true
	}
	return false
}

// RegressionType is the weighting used for a fit (domain regression_types).
// The empty value means unset and is stored as NULL.
type RegressionType string

const (
	RegressionEqualWeights       RegressionType = "equal_weights"
	RegressionInverseConc        RegressionType = "inverse_conc"
	RegressionInverseConcSquared RegressionType = "inverse_conc_squared"
)

func RegressionTypes() []RegressionType {
	return []RegressionType{RegressionEqualWeights, RegressionInverseConc, RegressionInverseConcSquared}
}

func (t RegressionType) Valid() bool {
	switch t {
	case RegressionEqualWeights, RegressionInverseConc, RegressionInverseConcSquared:
		return true
	}
	return false
}

// ControlType is the kind of QC rule (domain control_types).
// The empty value means unset and is stored as NULL.
type ControlType string

const (
	ControlLimit     ControlType = "limit"
	ControlBreakdown ControlType = "breakdown"
	ControlRecovery  ControlType = "recovery"
)

func ControlTypes() []ControlType {
	return []ControlType{ControlLimit, ControlBreakdown, ControlRecovery}
}

func (t ControlType) Valid() bool {
	switch t {
	case ControlLimit, ControlBreakdown, ControlRecovery:
		return true
	}
	return false
}

// Strings returns the literal values of an enumerated domain.
func Strings[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}
