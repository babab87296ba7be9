package ingest

import "strings"

// Normalized CSV headers. The source survey spells some of them wrong and
// the loader matches them verbatim.
const (
	colCertification = "certification course"
	colGender        = "gender"
	colDepartment    = "department"
	colHeight        = "height(cm)"
	colWeight        = "weight(kg)"
	colMark10th      = "10th mark"
	colMark12th      = "12th mark"
	colCollegeMark   = "college mark"
	colHobby         = "hobbies"
	colStudyTime     = "daily studing time"
	colPreference    = "prefer to study in"
	colSalary        = "salary expectation"
	colLikesDegree   = "do you like your degree?"
	colWillingness   = "willingness to pursue a career based on their degree"
	colMediaVideo    = "social medai & video"
	colTravelling    = "travelling time"
	colStress        = "stress level"
	colFinancial     = "financial status"
	colPartTime      = "part-time job"
)

// RequiredColumns lists every header a survey file must carry, normalized.
var RequiredColumns = []string{
	colCertification, colGender, colDepartment, colHeight, colWeight,
	colMark10th, colMark12th, colCollegeMark, colHobby,
	colStudyTime, colPreference, colSalary, colLikesDegree,
	colWillingness, colMediaVideo, colTravelling, colStress, colFinancial, colPartTime,
}

// NormalizeHeader trims, collapses whitespace and case-folds a header.
func NormalizeHeader(h string) string {
	return strings.ToLower(NormalizeCell(h))
}

// NormalizeCell trims and collapses internal whitespace runs to one space.
func NormalizeCell(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// foldKey is the lookup key used by the free-text mappings.
func foldKey(v string) string {
	return strings.ToLower(NormalizeCell(v))
}
