package main

import (
	"flag"
	"fmt"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
)

// Prints the step calendar and contribution schedule for one year of a
// projection, to check how a frequency maps steps to months.
func main() {
	freq := flag.String("frequency", "monthly", "monthly, biweekly or annual")
	monthly := flag.Float64("monthly", 1000, "monthly contribution")
	skip := flag.String("skip", "", "skip months, e.g. 8")
	extra := flag.String("extra", "", "extra months, e.g. 12")
	flag.Parse()

	f := domain.Frequency(*freq)
	if !f.Valid() {
		fmt.Printf("unknown frequency %q\n", *freq)
		return
	}
	cal := dateutil.NewStepCalendar(f.StepsPerYear())
	fmt.Printf("%d steps/year, %g months per step\n", cal.StepsPerYear(), cal.StepMonths())
	fmt.Println("step  months      sub  first  last")
	for step := 1; step <= cal.StepsPerYear(); step++ {
		s := cal.Slot(step)
		fmt.Printf("%4d  %-10v  %d/%d  %-5v  %v\n", s.Step, s.Months(), s.SubStep+1, s.SubSteps, s.FirstOfMonth(), s.LastOfYear)
	}

	in := domain.DefaultInvestmentInputs()
	in.Monthly = *monthly
	in.Frequency = f
	in.AnnualReturn = 0
	in.Inflation = 0
	in.SkipMonths = dateutil.ParseMonths(*skip)
	in.ExtraMonths = dateutil.ParseMonths(*extra)
	in.ExtraAmount = *monthly

	res := calculation.ProjectInvestment(in)
	if len(res.Rows) > 0 {
		fmt.Printf("contributed in year 1: %.2f\n", res.Rows[0].CumContrib)
	}
}
