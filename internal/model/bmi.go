package model

// BMI category thresholds. Buckets are half-open: a value on a boundary
// belongs to the higher bucket.
const (
	BMINormalFrom     = 18.5
	BMIOverweightFrom = 25.0
	BMIObeseFrom      = 30.0
)

// BMICategory is the WHO-style BMI bucket.
type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// ComputeBMI returns weight / (height in metres)^2. ok is false for a
// non-positive height, which the schema never admits.
func ComputeBMI(heightCM, weightKG int) (bmi float64, ok bool) {
	if heightCM <= 0 {
		return 0, false
	}
	m := float64(heightCM) / 100
	return float64(weightKG) / (m * m), true
}

// CategorizeBMI buckets a BMI value.
func CategorizeBMI(bmi float64) BMICategory {
	switch {
	case bmi < BMINormalFrom:
		return BMIUnderweight
	case bmi < BMIOverweightFrom:
		return BMINormal
	case bmi < BMIObeseFrom:
		return BMIOverweight
	default:
		return BMIObese
	}
}
