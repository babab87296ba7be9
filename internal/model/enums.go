package model

// Gender represents the student's gender.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists every canonical gender.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// DailyStudyTime is the self-reported daily study bucket.
type DailyStudyTime string

const (
	Study0to30  DailyStudyTime = "0-30m"
	Study30to60 DailyStudyTime = "30-60m"
	Study1to2h  DailyStudyTime = "1-2h"
	Study2to3h  DailyStudyTime = "2-3h"
	Study3to4h  DailyStudyTime = "3-4h"
	StudyOver4h DailyStudyTime = ">4h"
)

// DailyStudyTimes is the canonical bucket order, shortest first.
var DailyStudyTimes = []DailyStudyTime{Study0to30, Study30to60, Study1to2h, Study2to3h, Study3to4h, StudyOver4h}

// Minutes returns the representative minute value of the bucket.
func (d DailyStudyTime) Minutes() (int, bool) {
	switch d {
	case Study0to30:
		return 15, true
	case Study30to60:
		return 45, true
	case Study1to2h:
		return 90, true
	case Study2to3h:
		return 150, true
	case Study3to4h:
		return 210, true
	case StudyOver4h:
		return 270, true
	}
	return 0, false
}

// Rank is the bucket's position in DailyStudyTimes, or len(DailyStudyTimes) if unknown.
func (d DailyStudyTime) Rank() int {
	for i, v := range DailyStudyTimes {
		if v == d {
			return i
		}
	}
	return len(DailyStudyTimes)
}

// MediaVideoTime is the daily social media and video bucket.
type MediaVideoTime string

const (
	Media0       MediaVideoTime = "0m"
	Media1to30   MediaVideoTime = "1-30m"
	Media30to60  MediaVideoTime = "30-60m"
	Media60to90  MediaVideoTime = "60-90m"
	Media90to120 MediaVideoTime = "90-120m"
	MediaOver2h  MediaVideoTime = ">2h"
)

var MediaVideoTimes = []MediaVideoTime{Media0, Media1to30, Media30to60, Media60to90, Media90to120, MediaOver2h}

func (m MediaVideoTime) Minutes() (int, bool) {
	switch m {
	case Media0:
		return 0, true
	case Media1to30:
		return 15, true
	case Media30to60:
		return 45, true
	case Media60to90:
		return 75, true
	case Media90to120:
		return 105, true
	case MediaOver2h:
		return 150, true
	}
	return 0, false
}

// TravelingTime is the one-way travel duration bucket.
type TravelingTime string

const (
	Travel0to30    TravelingTime = "0-30m"
	Travel30to60   TravelingTime = "30-60m"
	Travel60to90   TravelingTime = "60-90m"
	Travel90to120  TravelingTime = "90-120m"
	Travel120to150 TravelingTime = "120-150m"
	Travel150to180 TravelingTime = "150-180m"
	TravelOver3h   TravelingTime = ">3h"
)

var TravelingTimes = []TravelingTime{Travel0to30, Travel30to60, Travel60to90, Travel90to120, Travel120to150, Travel150to180, TravelOver3h}

func (t TravelingTime) Minutes() (int, bool) {
	switch t {
	case Travel0to30:
		return 15, true
	case Travel30to60:
		return 45, true
	case Travel60to90:
		return 75, true
	case Travel90to120:
		return 105, true
	case Travel120to150:
		return 135, true
	case Travel150to180:
		return 165, true
	case TravelOver3h:
		return 195, true
	}
	return 0, false
}

// StudyPreference is the preferred time of day to study.
type StudyPreference string

const (
	PreferMorning StudyPreference = "Morning"
	PreferNight   StudyPreference = "Night"
	PreferAnytime StudyPreference = "Anytime"
)

func (p StudyPreference) Valid() bool {
	switch p {
	case PreferMorning, PreferNight, PreferAnytime:
		return true
	}
	return false
}

// StressLevel is the self-reported stress level.
type StressLevel string

const (
	StressGood     StressLevel = "Good"
	StressFabulous StressLevel = "Fabulous"
	StressBad      StressLevel = "Bad"
	StressAwful    StressLevel = "Awful"
)

func (s StressLevel) Valid() bool {
	switch s {
	case StressGood, StressFabulous, StressBad, StressAwful:
		return true
	}
	return false
}

// FinancialStatus is the self-reported financial situation.
type FinancialStatus string

const (
	FinancialAwful    FinancialStatus = "Awful"
	FinancialBad      FinancialStatus = "Bad"
	FinancialGood     FinancialStatus = "Good"
	FinancialFabulous FinancialStatus = "Fabulous"
)

func (f FinancialStatus) Valid() bool {
	switch f {
	case FinancialAwful, FinancialBad, FinancialGood, FinancialFabulous:
		return true
	}
	return false
}
