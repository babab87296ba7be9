package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"time"
)

// Physical measurement bounds shared by the loader, the API and the schema.
const (
	HeightMinCM = 50
	HeightMaxCM = 250
	WeightMinKG = 20
	WeightMaxKG = 300

	MarkMin    = 0.0
	MarkMax    = 100.0
	SalaryMax  = 10_000_000
	PercentMax = 100
)

// Student is a survey respondent together with their metrics.
type Student struct {
	ID          int             `json:"id"`
	Gender      Gender          `json:"gender"`
	Department  Lookup          `json:"department"`
	Hobby       Lookup          `json:"hobby"`
	HeightCM    int             `json:"height_cm"`
	WeightKG    int             `json:"weight_kg"`
	CreatedAt   time.Time       `json:"created_at"`
	Metrics     *StudentMetrics `json:"metrics"`
	BMI         *float64        `json:"bmi"`
	BMICategory BMICategory     `json:"bmi_category,omitempty"`
}

// FillBMI sets the derived BMI fields from height and weight.
func (s *Student) FillBMI() {
	bmi, ok := ComputeBMI(s.HeightCM, s.WeightKG)
	if !ok {
		s.BMI, s.BMICategory = nil, ""
		return
	}
	rounded := math.Round(bmi*100) / 100
	s.BMI = &rounded
	s.BMICategory = CategorizeBMI(bmi)
}

// Validate checks the student's own columns. Keys are JSON field names.
func (s *Student) Validate() map[string]string {
	fields := map[string]string{}
	if !s.Gender.Valid() {
		fields["gender"] = "must be one of Male, Female, Other"
	}
	if s.HeightCM < HeightMinCM || s.HeightCM > HeightMaxCM {
		fields["height_cm"] = "must be between 50 and 250"
	}
	if s.WeightKG < WeightMinKG || s.WeightKG > WeightMaxKG {
		fields["weight_kg"] = "must be between 20 and 300"
	}
	if s.Metrics != nil {
		for k, v := range s.Metrics.Validate() {
			fields["metrics."+k] = v
		}
	}
	return fields
}

// StudentMetrics holds the survey answers of one student. The *_minutes
// fields are derived from their bucket and never accepted from clients.
type StudentMetrics struct {
	CertificationCourse bool            `json:"certification_course"`
	Mark10th            float64         `json:"mark_10th"`
	Mark12th            float64         `json:"mark_12th"`
	CollegeMark         float64         `json:"college_mark"`
	DailyStudyingTime   DailyStudyTime  `json:"daily_studying_time"`
	StudyMinutes        int             `json:"study_minutes"`
	PreferToStudyIn     StudyPreference `json:"prefer_to_study_in"`
	SalaryExpectation   int             `json:"salary_expectation"`
	LikesDegree         bool            `json:"likes_degree"`
	WillingnessPercent  int             `json:"willingness_percent"`
	SocialMediaVideo    MediaVideoTime  `json:"social_media_video"`
	SocialMinutes       int             `json:"social_minutes"`
	TravellingTime      TravelingTime   `json:"travelling_time"`
	TravelMinutes       int             `json:"travel_minutes"`
	StressLevel         StressLevel     `json:"stress_level"`
	FinancialStatus     FinancialStatus `json:"financial_status"`
	PartTimeJob         bool            `json:"part_time_job"`
}

// DeriveMinutes recomputes the minute columns from the time buckets.
func (m *StudentMetrics) DeriveMinutes() {
	m.StudyMinutes, _ = m.DailyStudyingTime.Minutes()
	m.SocialMinutes, _ = m.SocialMediaVideo.Minutes()
	m.TravelMinutes, _ = m.TravellingTime.Minutes()
}

// Validate checks every metrics field against its domain.
func (m *StudentMetrics) Validate() map[string]string {
	fields := map[string]string{}
	checkMark := func(key string, v float64) {
		if math.IsNaN(v) || v < MarkMin || v > MarkMax {
			fields[key] = "must be between 0 and 100"
		}
	}
	checkMark("mark_10th", m.Mark10th)
	checkMark("mark_12th", m.Mark12th)
	checkMark("college_mark", m.CollegeMark)

	if _, ok := m.DailyStudyingTime.Minutes(); !ok {
		fields["daily_studying_time"] = "unknown study time bucket"
	}
	if _, ok := m.SocialMediaVideo.Minutes(); !ok {
		fields["social_media_video"] = "unknown media time bucket"
	}
	if _, ok := m.TravellingTime.Minutes(); !ok {
		fields["travelling_time"] = "unknown travel time bucket"
	}
	if !m.PreferToStudyIn.Valid() {
		fields["prefer_to_study_in"] = "must be one of Morning, Night, Anytime"
	}
	if !m.StressLevel.Valid() {
		fields["stress_level"] = "must be one of Good, Fabulous, Bad, Awful"
	}
	if !m.FinancialStatus.Valid() {
		fields["financial_status"] = "must be one of Awful, Bad, Good, Fabulous"
	}
	if m.SalaryExpectation < 0 || m.SalaryExpectation > SalaryMax {
		fields["salary_expectation"] = "must be between 0 and 10000000"
	}
	if m.WillingnessPercent < 0 || m.WillingnessPercent > PercentMax {
		fields["willingness_percent"] = "must be between 0 and 100"
	}
	return fields
}

// LookupRef references a department or hobby in a write payload: a JSON
// number selects an existing row by id, a JSON string selects (or creates)
// a row by name.
type LookupRef struct {
	ID   int
	Name string
	ByID bool
}

var errLookupRef = errors.New("must be an id or a name")

func (r *LookupRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*r = LookupRef{Name: name}
		return nil
	}
	var id int
	if err := json.Unmarshal(b, &id); err != nil {
		return errLookupRef
	}
	*r = LookupRef{ID: id, ByID: true}
	return nil
}

// StudentWrite is the body of POST, PUT and PATCH on students. Nil fields
// are left unchanged on PATCH and reported missing on POST and PUT.
type StudentWrite struct {
	Gender     *Gender       `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	Department *LookupRef    `json:"department"`
	Hobby      *LookupRef    `json:"hobby"`
	HeightCM   *int          `json:"height_cm" binding:"omitempty,min=50,max=250"`
	WeightKG   *int          `json:"weight_kg" binding:"omitempty,min=20,max=300"`
	Metrics    *MetricsWrite `json:"metrics"`
}

// MetricsWrite is the nested metrics payload. Minute fields are not part of it.
type MetricsWrite struct {
	CertificationCourse *bool            `json:"certification_course"`
	Mark10th            *float64         `json:"mark_10th" binding:"omitempty,min=0,max=100"`
	Mark12th            *float64         `json:"mark_12th" binding:"omitempty,min=0,max=100"`
	CollegeMark         *float64         `json:"college_mark" binding:"omitempty,min=0,max=100"`
	DailyStudyingTime   *DailyStudyTime  `json:"daily_studying_time" binding:"omitempty,oneof=0-30m 30-60m 1-2h 2-3h 3-4h >4h"`
	PreferToStudyIn     *StudyPreference `json:"prefer_to_study_in" binding:"omitempty,oneof=Morning Night Anytime"`
	SalaryExpectation   *int             `json:"salary_expectation" binding:"omitempty,min=0,max=10000000"`
	LikesDegree         *bool            `json:"likes_degree"`
	WillingnessPercent  *int             `json:"willingness_percent" binding:"omitempty,min=0,max=100"`
	SocialMediaVideo    *MediaVideoTime  `json:"social_media_video" binding:"omitempty,oneof=0m 1-30m 30-60m 60-90m 90-120m >2h"`
	TravellingTime      *TravelingTime   `json:"travelling_time" binding:"omitempty,oneof=0-30m 30-60m 60-90m 90-120m 120-150m 150-180m >3h"`
	StressLevel         *StressLevel     `json:"stress_level" binding:"omitempty,oneof=Good Fabulous Bad Awful"`
	FinancialStatus     *FinancialStatus `json:"financial_status" binding:"omitempty,oneof=Awful Bad Good Fabulous"`
	PartTimeJob         *bool            `json:"part_time_job"`
}

const msgRequired = "is required"

// Missing lists every field a full write (POST or PUT) must carry.
func (w *StudentWrite) Missing() map[string]string {
	fields := map[string]string{}
	if w.Gender == nil {
		fields["gender"] = msgRequired
	}
	if w.Department == nil {
		fields["department"] = msgRequired
	}
	if w.Hobby == nil {
		fields["hobby"] = msgRequired
	}
	if w.HeightCM == nil {
		fields["height_cm"] = msgRequired
	}
	if w.WeightKG == nil {
		fields["weight_kg"] = msgRequired
	}
	if w.Metrics == nil {
		fields["metrics"] = msgRequired
		return fields
	}
	for k, v := range w.Metrics.Missing() {
		fields["metrics."+k] = v
	}
	return fields
}

// Missing lists nil metrics fields.
func (m *MetricsWrite) Missing() map[string]string {
	fields := map[string]string{}
	required := map[string]bool{
		"certification_course": m.CertificationCourse != nil,
		"mark_10th":            m.Mark10th != nil,
		"mark_12th":            m.Mark12th != nil,
		"college_mark":         m.CollegeMark != nil,
		"daily_studying_time":  m.DailyStudyingTime != nil,
		"prefer_to_study_in":   m.PreferToStudyIn != nil,
		"salary_expectation":   m.SalaryExpectation != nil,
		"likes_degree":         m.LikesDegree != nil,
		"willingness_percent":  m.WillingnessPercent != nil,
		"social_media_video":   m.SocialMediaVideo != nil,
		"travelling_time":      m.TravellingTime != nil,
		"stress_level":         m.StressLevel != nil,
		"financial_status":     m.FinancialStatus != nil,
		"part_time_job":        m.PartTimeJob != nil,
	}
	for k, present := range required {
		if !present {
			fields[k] = msgRequired
		}
	}
	return fields
}

// ApplyTo copies the non-nil scalar fields onto s. References are resolved
// by the caller.
func (w *StudentWrite) ApplyTo(s *Student) {
	if w.Gender != nil {
		s.Gender = *w.Gender
	}
	if w.HeightCM != nil {
		s.HeightCM = *w.HeightCM
	}
	if w.WeightKG != nil {
		s.WeightKG = *w.WeightKG
	}
	if w.Metrics != nil {
		if s.Metrics == nil {
			s.Metrics = &StudentMetrics{}
		}
		w.Metrics.ApplyTo(s.Metrics)
	}
}

// ApplyTo copies the non-nil fields onto m and recomputes the minutes.
func (w *MetricsWrite) ApplyTo(m *StudentMetrics) {
	if w.CertificationCourse != nil {
		m.CertificationCourse = *w.CertificationCourse
	}
	if w.Mark10th != nil {
		m.Mark10th = *w.Mark10th
	}
	if w.Mark12th != nil {
		m.Mark12th = *w.Mark12th
	}
	if w.CollegeMark != nil {
		m.CollegeMark = *w.CollegeMark
	}
	if w.DailyStudyingTime != nil {
		m.DailyStudyingTime = *w.DailyStudyingTime
	}
	if w.PreferToStudyIn != nil {
		m.PreferToStudyIn = *w.PreferToStudyIn
	}
	if w.SalaryExpectation != nil {
		m.SalaryExpectation = *w.SalaryExpectation
	}
	if w.LikesDegree != nil {
		m.LikesDegree = *w.LikesDegree
	}
	if w.WillingnessPercent != nil {
		m.WillingnessPercent = *w.WillingnessPercent
	}
	if w.SocialMediaVideo != nil {
		m.SocialMediaVideo = *w.SocialMediaVideo
	}
	if w.TravellingTime != nil {
		m.TravellingTime = *w.TravellingTime
	}
	if w.StressLevel != nil {
		m.StressLevel = *w.StressLevel
	}
	if w.FinancialStatus != nil {
		m.FinancialStatus = *w.FinancialStatus
	}
	if w.PartTimeJob != nil {
		m.PartTimeJob = *w.PartTimeJob
	}
	m.DeriveMinutes()
}
