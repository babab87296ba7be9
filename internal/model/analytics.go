package model

// SearchFilter holds the optional search criteria. Nil means "no filter".
// It is echoed back to the client as "filters".
type SearchFilter struct {
	DepartmentID   *int     `json:"department"`
	HobbyID        *int     `json:"hobby"`
	Gender         *string  `json:"gender"`
	PartTimeJob    *bool    `json:"part_time_job"`
	StressLevel    *string  `json:"stress_level"`
	MinCollegeMark *float64 `json:"min_college_mark"`
	MaxCollegeMark *float64 `json:"max_college_mark"`
	Limit          int      `json:"limit"`
}

// SearchRow is one flattened search result.
type SearchRow struct {
	ID                 int             `json:"id"`
	Gender             Gender          `json:"gender"`
	Department         string          `json:"department"`
	Hobby              string          `json:"hobby"`
	HeightCM           int             `json:"height_cm"`
	WeightKG           int             `json:"weight_kg"`
	CollegeMark        *float64        `json:"college_mark"`
	StressLevel        *StressLevel    `json:"stress_level"`
	PartTimeJob        *bool           `json:"part_time_job"`
	SalaryExpectation  *int            `json:"salary_expectation"`
	DailyStudyingTime  *DailyStudyTime `json:"daily_studying_time"`
	WillingnessPercent *int            `json:"willingness_percent"`
}

// SearchResult is the search response body.
type SearchResult struct {
	Filters SearchFilter `json:"filters"`
	Count   int          `json:"count"`
	Results []SearchRow  `json:"results"`
}

// StressDistribution counts students per stress label. The Fair key is kept
// for response compatibility although no canonical stress level maps to it.
type StressDistribution struct {
	Good int `json:"Good"`
	Fair int `json:"Fair"`
	Bad  int `json:"Bad"`
}

// DepartmentSummary aggregates one department.
type DepartmentSummary struct {
	DepartmentID         int                `json:"department_id"`
	DepartmentName       string             `json:"department_name"`
	StudentCount         int                `json:"student_count"`
	AvgCollegeMark       *float64           `json:"avg_college_mark"`
	AvgSalaryExpectation *float64           `json:"avg_salary_expectation"`
	StressDistribution   StressDistribution `json:"stress_distribution"`
}

// PartTimeGroup aggregates the students with or without a part-time job.
type PartTimeGroup struct {
	StudentCount          int      `json:"student_count"`
	AvgCollegeMark        *float64 `json:"avg_college_mark"`
	AvgSalaryExpectation  *float64 `json:"avg_salary_expectation"`
	AvgWillingnessPercent *float64 `json:"avg_willingness_percent"`
}

// PartTimeImpact compares both part-time groups.
type PartTimeImpact struct {
	WithPartTimeJob    PartTimeGroup `json:"with_part_time_job"`
	WithoutPartTimeJob PartTimeGroup `json:"without_part_time_job"`
}

// StudyTimePerformance aggregates one daily study time bucket.
type StudyTimePerformance struct {
	DailyStudyingTime     DailyStudyTime `json:"daily_studying_time"`
	StudentCount          int            `json:"student_count"`
	AvgCollegeMark        *float64       `json:"avg_college_mark"`
	AvgWillingnessPercent *float64       `json:"avg_willingness_percent"`
}

// RiskCriteria is echoed back with the risk list.
type RiskCriteria struct {
	StressLevel    string  `json:"stress_level"`
	MaxCollegeMark float64 `json:"max_college_mark"`
	Limit          int     `json:"limit"`
}

// RiskRow is one at-risk student.
type RiskRow struct {
	ID          int          `json:"id"`
	Gender      Gender       `json:"gender"`
	Department  string       `json:"department"`
	Hobby       string       `json:"hobby"`
	CollegeMark *float64     `json:"college_mark"`
	StressLevel *StressLevel `json:"stress_level"`
	PartTimeJob *bool        `json:"part_time_job"`
}

// RiskResult is the risk list response body.
type RiskResult struct {
	Criteria RiskCriteria `json:"criteria"`
	Count    int          `json:"count"`
	Results  []RiskRow    `json:"results"`
}

// BMI grouping keys.
const (
	BMIGroupNone       = ""
	BMIGroupGender     = "gender"
	BMIGroupDepartment = "department"
)

// BMIBuckets counts students per BMI category.
type BMIBuckets struct {
	Underweight int `json:"underweight"`
	Normal      int `json:"normal"`
	Overweight  int `json:"overweight"`
	Obese       int `json:"obese"`
}

// BMIGroup is one BMI distribution row. Exactly one of Gender and
// Department is set when grouped, neither when ungrouped.
type BMIGroup struct {
	Gender     *string    `json:"gender,omitempty"`
	Department *string    `json:"department,omitempty"`
	Total      int        `json:"total"`
	AvgBMI     *float64   `json:"avg_bmi"`
	Buckets    BMIBuckets `json:"buckets"`
}

// BMIDistribution is the BMI response body.
type BMIDistribution struct {
	GroupBy *string    `json:"group_by"`
	Count   int        `json:"count"`
	Results []BMIGroup `json:"results"`
}

// Listing wraps the analytics responses that only carry a count and rows.
type Listing[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}
