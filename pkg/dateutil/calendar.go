package dateutil

// StepCalendar maps simulation steps onto calendar months for a fixed number
// of steps per year. Supported step counts divide evenly into or by 12
// (1, 2, 3, 4, 6, 12, 24, ...).
type StepCalendar struct {
	stepsPerYear int
}

// StepSlot describes where a single step falls in the calendar.
type StepSlot struct {
	Step       int // 1-based step index across the whole horizon
	Year       int // 1-based projection year
	FirstMonth int // first calendar month the step touches
	MonthCount int // months covered (1 for monthly or finer steps)
	SubStep    int // 0-based position inside the month for sub-monthly steps
	SubSteps   int // steps per month (1 for monthly or coarser steps)
	LastOfYear bool
}

// NewStepCalendar returns a calendar for the given number of steps per year.
// Non-positive values fall back to monthly steps.
func NewStepCalendar(stepsPerYear int) StepCalendar {
	if stepsPerYear <= 0 {
		stepsPerYear = 12
	}
	return StepCalendar{stepsPerYear: stepsPerYear}
}

// StepsPerYear returns the number of steps in one projection year.
func (c StepCalendar) StepsPerYear() int { return c.stepsPerYear }

// StepMonths returns the length of a step in months (12 / stepsPerYear).
func (c StepCalendar) StepMonths() float64 { return 12.0 / float64(c.stepsPerYear) }

// Slot resolves the calendar position of a 1-based step.
func (c StepCalendar) Slot(step int) StepSlot {
	slot := StepSlot{
		Step:       step,
		Year:       (step-1)/c.stepsPerYear + 1,
		LastOfYear: step%c.stepsPerYear == 0,
	}
	if c.stepsPerYear >= 12 {
		perMonth := c.stepsPerYear / 12
		slot.FirstMonth = ((step-1)/perMonth)%12 + 1
		slot.MonthCount = 1
		slot.SubStep = (step - 1) % perMonth
		slot.SubSteps = perMonth
		return slot
	}
	span := 12 / c.stepsPerYear
	slot.FirstMonth = ((step-1)%c.stepsPerYear)*span + 1
	slot.MonthCount = span
	slot.SubSteps = 1
	return slot
}

// Months returns the calendar months covered by the slot.
func (s StepSlot) Months() []int {
	out := make([]int, 0, s.MonthCount)
	for i := 0; i < s.MonthCount; i++ {
		out = append(out, s.FirstMonth+i)
	}
	return out
}

// FirstOfMonth reports whether this is the first step inside its month.
func (s StepSlot) FirstOfMonth() bool { return s.SubStep == 0 }
