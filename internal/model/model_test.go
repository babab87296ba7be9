package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBMI(t *testing.T) {
	bmi, ok := ComputeBMI(170, 70)
	require.True(t, ok)
	assert.InDelta(t, 24.22, bmi, 0.01)
	assert.Equal(t, BMINormal, CategorizeBMI(bmi))

	_, ok = ComputeBMI(0, 70)
	assert.False(t, ok)
}

func TestCategorizeBMIBoundaries(t *testing.T) {
	tests := []struct {
		bmi  float64
		want BMICategory
	}{
		{18.49, BMIUnderweight},
		{18.5, BMINormal},
		{24.99, BMINormal},
		{25.0, BMIOverweight},
		{29.99, BMIOverweight},
		{30.0, BMIObese},
		{41.2, BMIObese},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeBMI(tt.bmi), "bmi %v", tt.bmi)
	}
}

func TestStudentFillBMI(t *testing.T) {
	s := &Student{HeightCM: 160, WeightKG: 80}
	s.FillBMI()
	require.NotNil(t, s.BMI)
	assert.Equal(t, 31.25, *s.BMI)
	assert.Equal(t, BMIObese, s.BMICategory)
}

func TestParseFlag(t *testing.T) {
	for _, in := range []string{"yes", " Y ", "TRUE", "t", "1"} {
		v, ok := ParseFlag(in)
		assert.True(t, ok, in)
		assert.True(t, v, in)
	}
	for _, in := range []string{"No", "n", "false", "F", "0"} {
		v, ok := ParseFlag(in)
		assert.True(t, ok, in)
		assert.False(t, v, in)
	}
	_, ok := ParseFlag("maybe")
	assert.False(t, ok)
	_, ok = ParseFlag("")
	assert.False(t, ok)
}

func TestEnumMinutes(t *testing.T) {
	m, ok := Study1to2h.Minutes()
	assert.True(t, ok)
	assert.Equal(t, 90, m)

	m, ok = Media0.Minutes()
	assert.True(t, ok)
	assert.Equal(t, 0, m)

	m, ok = TravelOver3h.Minutes()
	assert.True(t, ok)
	assert.Equal(t, 195, m)

	_, ok = DailyStudyTime("1 - 2 Hour").Minutes()
	assert.False(t, ok)
}

func TestDailyStudyTimeRank(t *testing.T) {
	assert.Less(t, Study0to30.Rank(), Study30to60.Rank())
	assert.Less(t, Study3to4h.Rank(), StudyOver4h.Rank())
	assert.Equal(t, len(DailyStudyTimes), DailyStudyTime("bogus").Rank())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Computer Science", NormalizeName("  Computer \t  Science "))
	assert.True(t, ValidLookupName(" BCA "))
	assert.False(t, ValidLookupName(" X "))
}

func TestLookupRefUnmarshal(t *testing.T) {
	var w StudentWrite
	require.NoError(t, json.Unmarshal([]byte(`{"department": 3, "hobby": "Chess"}`), &w))
	require.NotNil(t, w.Department)
	assert.True(t, w.Department.ByID)
	assert.Equal(t, 3, w.Department.ID)
	require.NotNil(t, w.Hobby)
	assert.False(t, w.Hobby.ByID)
	assert.Equal(t, "Chess", w.Hobby.Name)

	err := json.Unmarshal([]byte(`{"department": {"id": 3}}`), &w)
	assert.Error(t, err)
}

func TestStudentWriteMissing(t *testing.T) {
	college := 70.0
	w := StudentWrite{Metrics: &MetricsWrite{CollegeMark: &college}}
	missing := w.Missing()

	assert.Equal(t, msgRequired, missing["gender"])
	assert.Equal(t, msgRequired, missing["metrics.stress_level"])
	assert.NotContains(t, missing, "metrics")
	assert.NotContains(t, missing, "metrics.college_mark")

	assert.Contains(t, (&StudentWrite{}).Missing(), "metrics")
}

func TestMetricsWriteRecomputesMinutes(t *testing.T) {
	m := &StudentMetrics{DailyStudyingTime: Study0to30, SocialMediaVideo: Media0, TravellingTime: Travel0to30}
	m.DeriveMinutes()
	assert.Equal(t, 15, m.StudyMinutes)

	study := Study1to2h
	(&MetricsWrite{DailyStudyingTime: &study}).ApplyTo(m)
	assert.Equal(t, Study1to2h, m.DailyStudyingTime)
	assert.Equal(t, 90, m.StudyMinutes)
	assert.Equal(t, 0, m.SocialMinutes)
	assert.Equal(t, 15, m.TravelMinutes)
}

func TestStudentValidate(t *testing.T) {
	s := &Student{
		Gender:   GenderFemale,
		HeightCM: 165,
		WeightKG: 55,
		Metrics: &StudentMetrics{
			CollegeMark:       101,
			DailyStudyingTime: Study2to3h,
			SocialMediaVideo:  Media30to60,
			TravellingTime:    Travel30to60,
			PreferToStudyIn:   PreferNight,
			StressLevel:       StressGood,
			FinancialStatus:   FinancialGood,
		},
	}
	fields := s.Validate()
	assert.Len(t, fields, 1)
	assert.Contains(t, fields, "metrics.college_mark")

	s.Metrics.CollegeMark = 88
	s.HeightCM = 30
	fields = s.Validate()
	assert.Equal(t, map[string]string{"height_cm": "must be between 50 and 250"}, fields)
}
