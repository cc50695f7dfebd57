package handlers

import (
	"github.com/quiterx/selfrealization-bot/internal/messages"
	"github.com/quiterx/selfrealization-bot/internal/models"
)

// Menu selects the reply keyboard shown with a message.
type Menu int

const (
	MenuNone   Menu = iota // keep whatever keyboard the user has
	MenuRemove             // hide the keyboard while waiting for input
	MenuMain
	MenuCalories
	MenuWater
	MenuActivity
	MenuWeight
	MenuNotes
	MenuFAQ
)

// Button is an inline button; Data comes back as a menu action.
type Button struct {
	Text string
	Data string
}

type Reply struct {
	Text   string
	Menu   Menu
	Inline [][]Button
}

var menuRows = map[Menu][][]string{
	MenuMain: {
		{messages.BtnCalories, messages.BtnWater},
		{messages.BtnActivity, messages.BtnWeight},
		{messages.BtnNotes, messages.BtnTip},
		{messages.BtnCoach},
	},
	MenuCalories: {
		{messages.BtnSubtractCalories, messages.BtnResetCalories},
		{messages.BtnCalorieLimit, messages.BtnCalorieHistory},
		{messages.BtnBack},
	},
	MenuWater: {
		{messages.BtnAddWater, messages.BtnResetWater},
		{messages.BtnWaterLimit, messages.BtnWaterHistory},
		{messages.BtnBack},
	},
	MenuActivity: {
		{messages.BtnAddSteps, messages.BtnWorkout},
		{messages.BtnResetActivity, messages.BtnActivityHistory},
		{messages.BtnBack},
	},
	MenuWeight: {
		{messages.BtnAddWeight, messages.BtnResetWeight},
		{messages.BtnWeightHistory},
		{messages.BtnBack},
	},
	MenuNotes: {
		{messages.BtnAddPlan, messages.BtnAddThought},
		{messages.BtnTodayNotes, messages.BtnNotesHistory},
		{messages.BtnBack},
	},
	MenuFAQ: {
		{messages.BtnFAQ, messages.BtnAsk},
		{messages.BtnBack},
	},
}

// Rows returns the button labels of m, nil for MenuNone and MenuRemove.
func (m Menu) Rows() [][]string {
	return menuRows[m]
}

// Callback data.
const (
	cbResetPrefix  = "reset_"
	cbCancelPrefix = "cancel_reset_"
	cbCancelLegacy = "cancel_reset" // calories confirmation of older messages
	cbFAQPrefix    = "faq_"
)

func resetConfirm(m models.Metric) [][]Button {
	return [][]Button{
		{{Text: messages.BtnConfirmReset, Data: cbResetPrefix + string(m)}},
		{{Text: messages.BtnCancelReset, Data: cbCancelPrefix + string(m)}},
	}
}

func metricMenu(m models.Metric) Menu {
	switch m {
	case models.MetricCalories:
		return MenuCalories
	case models.MetricWater:
		return MenuWater
	case models.MetricActivity:
		return MenuActivity
	case models.MetricWeight:
		return MenuWeight
	}
	return MenuMain
}

// pendingMenu is the menu shown once a pending input is consumed.
func pendingMenu(p models.Pending) Menu {
	switch p {
	case models.PendingCalories, models.PendingCalorieLimit:
		return MenuCalories
	case models.PendingWater, models.PendingWaterLimit:
		return MenuWater
	case models.PendingSteps:
		return MenuActivity
	case models.PendingWeight:
		return MenuWeight
	case models.PendingPlan, models.PendingThought:
		return MenuNotes
	case models.PendingQuestion:
		return MenuFAQ
	}
	return MenuMain
}
