package schema

import "labstore/internal/domain/lab"

// Enumerated domain names as they appear in the store.
const (
	EnumCalibrationTypes = "calibration_types"
	EnumIntegrationTypes = "integration_types"
	EnumRegressionTypes  = "regression_types"
	EnumControlTypes     = "control_types"
)

// Define declares the trace-organics lab schema.
func Define() (*Handle, error) {
	return Build(LabEnums(), LabEntities())
}

func LabEnums() []EnumDomain {
	return []EnumDomain{
		{Name: EnumCalibrationTypes, Values: lab.Strings(lab.CalibrationTypes())},
		{Name: EnumIntegrationTypes, Values: lab.Strings(lab.IntegrationTypes())},
		{Name: EnumRegressionTypes, Values: lab.Strings(lab.RegressionTypes())},
		{Name: EnumControlTypes, Values: lab.Strings(lab.ControlTypes())},
	}
}

func LabEntities() []Entity {
	return []Entity{
		{
			Name: lab.EntitySample,
			Doc:  "A trace organics sample result.",
			Fields: []Field{
				primaryKey(),
				reference("calibration_id", lab.EntityCalibration),
				column("identifier", TypeString),
				column("misc", TypeString),
				column("run_type", TypeString),
				column("vial", TypeInteger),
				column("amt_analyzed", TypeFloat),
				column("multiplyer", TypeFloat),
				column("folder", TypeString),
				column("operator", TypeString),
				column("acqui_method", TypeString),
				column("quant_method", TypeString),
				column("last_modified", TypeDate),
				column("date_acquired_col_1", TypeDate),
				column("date_acquired_col_2", TypeDate),
				column("col_1_window_low", TypeFloat),
				column("col_1_window_high", TypeFloat),
				column("col_2_window_low", TypeFloat),
				column("col_2_window_high", TypeFloat),
			},
		},
		{
			Name: lab.EntityCompound,
			Doc:  "The result for a particular compound obtained for a sample.",
			Fields: []Field{
				primaryKey(),
				reference("sample_id", lab.EntitySample),
				column("column_id", TypeInteger),
				column("retention_time", TypeFloat),
				column("low_rt", TypeFloat),
				column("high_rt", TypeFloat),
				column("value", TypeFloat),
				column("area_count", TypeFloat),
				column("is_rt", TypeBool),
				column("is_surrogate", TypeBool),
				column("is_aggregate", TypeBool),
				column("is_reported", TypeBool),
			},
		},
		{
			Name: lab.EntityAuditEntry,
			Doc:  "Audit entries documenting user actions taken on sample data.",
			Fields: []Field{
				primaryKey(),
				reference("sample_id", lab.EntitySample),
				column("date", TypeDate),
				column("event", TypeString),
				column("message", TypeString),
				column("user", TypeString),
			},
		},
		{
			Name: lab.EntityCalibration,
			Doc:  "A calibration curve definition for a compound.",
			Fields: []Field{
				primaryKey(),
				enumColumn("cal_type", EnumCalibrationTypes, string(lab.DefaultCalibrationType)),
				enumColumn("integration_type", EnumIntegrationTypes, string(lab.DefaultIntegrationType)),
				enumColumn("regression_type", EnumRegressionTypes, ""),
				column("compound_name", TypeString),
				column("number", TypeInteger),
				column("intercept", TypeFloat),
				column("linear_coef", TypeFloat),
				column("quad_coef", TypeFloat),
				column("correlation", TypeFloat),
				column("rsd", TypeFloat),
				column("param_flag", TypeString),
			},
		},
		{
			Name: lab.EntityCalibrant,
			Doc:  "A standard point used to build a calibration.",
			Fields: []Field{
				primaryKey(),
				reference("calibration_id", lab.EntityCalibration),
				column("number", TypeInteger),
				column("folder", TypeString),
				column("true_val", TypeFloat),
				column("response", TypeFloat),
				column("resp_fac", TypeFloat),
				column("column_id", TypeInteger),
			},
		},
		{
			Name: lab.EntityQualityControl,
			Doc:  "A QC limit, breakdown or recovery rule for a method and compound.",
			Fields: []Field{
				primaryKey(),
				column("method_group", TypeString),
				enumColumn("control_type", EnumControlTypes, ""),
				column("key", TypeString),
				column("level", TypeString),
				column("method", TypeString),
				column("matrix", TypeString),
				column("compound_name", TypeString),
				column("true_val", TypeFloat),
				column("low_limit", TypeFloat),
				column("high_limit", TypeFloat),
				// Meaning undefined upstream; stored verbatim.
				column("flag", TypeString),
			},
		},
	}
}
