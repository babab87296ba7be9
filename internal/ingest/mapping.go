package ingest

import (
	"fmt"

	"github.com/stemsi/survey-analytics/internal/model"
)

// The survey export uses free text for every categorical answer. Each
// function maps the folded text to its canonical value or fails.

func mapGender(raw string) (model.Gender, error) {
	switch foldKey(raw) {
	case "male":
		return model.GenderMale, nil
	case "female":
		return model.GenderFemale, nil
	case "other":
		return model.GenderOther, nil
	}
	return "", fmt.Errorf("invalid gender: %q", raw)
}

func mapStudyPreference(raw string) (model.StudyPreference, error) {
	switch foldKey(raw) {
	case "morning":
		return model.PreferMorning, nil
	case "night":
		return model.PreferNight, nil
	case "anytime":
		return model.PreferAnytime, nil
	}
	return "", fmt.Errorf("invalid study preference: %q", raw)
}

func mapStressLevel(raw string) (model.StressLevel, error) {
	switch foldKey(raw) {
	case "awful":
		return model.StressAwful, nil
	case "bad":
		return model.StressBad, nil
	case "good":
		return model.StressGood, nil
	case "fabulous":
		return model.StressFabulous, nil
	}
	return "", fmt.Errorf("invalid stress level: %q", raw)
}

func mapFinancialStatus(raw string) (model.FinancialStatus, error) {
	switch foldKey(raw) {
	case "awful":
		return model.FinancialAwful, nil
	case "bad":
		return model.FinancialBad, nil
	case "good":
		return model.FinancialGood, nil
	case "fabulous":
		return model.FinancialFabulous, nil
	}
	return "", fmt.Errorf("invalid financial status: %q", raw)
}

func mapDailyStudyTime(raw string) (model.DailyStudyTime, error) {
	switch foldKey(raw) {
	case "0 - 30 minute":
		return model.Study0to30, nil
	case "30 - 60 minute":
		return model.Study30to60, nil
	case "1 - 2 hour":
		return model.Study1to2h, nil
	case "2 - 3 hour":
		return model.Study2to3h, nil
	case "3 - 4 hour":
		return model.Study3to4h, nil
	case "more than 4 hour":
		return model.StudyOver4h, nil
	}
	return "", fmt.Errorf("invalid daily studying time: %q", raw)
}

func mapMediaVideoTime(raw string) (model.MediaVideoTime, error) {
	switch foldKey(raw) {
	case "0 minute":
		return model.Media0, nil
	case "1 - 30 minute":
		return model.Media1to30, nil
	case "30 - 60 minute":
		return model.Media30to60, nil
	case "1 - 1.30 hour":
		return model.Media60to90, nil
	case "1.30 - 2 hour":
		return model.Media90to120, nil
	case "more than 2 hour":
		return model.MediaOver2h, nil
	}
	return "", fmt.Errorf("invalid social media & video time: %q", raw)
}

func mapTravelingTime(raw string) (model.TravelingTime, error) {
	switch foldKey(raw) {
	case "0 - 30 minutes":
		return model.Travel0to30, nil
	case "30 - 60 minutes":
		return model.Travel30to60, nil
	case "1 - 1.30 hour":
		return model.Travel60to90, nil
	case "1.30 - 2 hour":
		return model.Travel90to120, nil
	case "2 - 2.30 hour":
		return model.Travel120to150, nil
	case "2.30 - 3 hour":
		return model.Travel150to180, nil
	case "more than 3 hour":
		return model.TravelOver3h, nil
	}
	return "", fmt.Errorf("invalid travelling time: %q", raw)
}
