package model

import "labstore/internal/domain/lab"

type Calibration struct {
	ID              uint64   `gorm:"column:id;primaryKey;autoIncrement"`
	CalType         *string  `gorm:"column:cal_type;type:varchar(32);default:avg_resp_fac;check:calibration_types,cal_type IN ('linear','avg_resp_fac','linear_thru_zero','quad','quad_thr_zero')"`
	IntegrationType *string  `gorm:"column:integration_type;type:varchar(32);default:height;check:integration_types,integration_type IN ('height','area')"`
	RegressionType  *string  `gorm:"column:regression_type;type:varchar(32);check:regression_types,regression_type IN ('equal_weights','inverse_conc','inverse_conc_squared')"`
	CompoundName    *string  `gorm:"column:compound_name;type:text"`
	Number          *int     `gorm:"column:number"`
	Intercept       *float64 `gorm:"column:intercept"`
	LinearCoef      *float64 `gorm:"column:linear_coef"`
	QuadCoef        *float64 `gorm:"column:quad_coef"`
	Correlation     *float64 `gorm:"column:correlation"`
	RSD             *float64 `gorm:"column:rsd"`
	ParamFlag       *string  `gorm:"column:param_flag;type:text"`
}

func (Calibration) TableName() string {
	return lab.EntityCalibration
}
