package models

// Pending names the free-text value the conversation expects next from an account.
type Pending string

const (
	PendingNone         Pending = ""
	PendingCalories     Pending = "subtract_calories"
	PendingCalorieLimit Pending = "set_limit"
	PendingWater        Pending = "subtract_water"
	PendingWaterLimit   Pending = "set_water_limit"
	PendingSteps        Pending = "add_steps"
	PendingWeight       Pending = "add_weight"
	PendingPlan         Pending = "add_plan"
	PendingThought      Pending = "add_thought"
	PendingQuestion     Pending = "ask_question"
)

// InputType is the value type a pending input is parsed as.
type InputType int

const (
	InputText InputType = iota
	InputInt
	InputFloat
)

// Expects reports how text for p must be parsed.
func (p Pending) Expects() InputType {
	switch p {
	case PendingCalories, PendingCalorieLimit, PendingWater, PendingWaterLimit, PendingSteps:
		return InputInt
	case PendingWeight:
		return InputFloat
	default:
		return InputText
	}
}

// Valid reports whether p is a known pending kind (PendingNone included).
func (p Pending) Valid() bool {
	switch p {
	case PendingNone, PendingCalories, PendingCalorieLimit, PendingWater, PendingWaterLimit,
		PendingSteps, PendingWeight, PendingPlan, PendingThought, PendingQuestion:
		return true
	}
	return false
}
