package report

import (
	"fmt"
	"strings"

	"github.com/kingrea/bizplan/internal/form"
)

// Text renders doc as labelled plain text in report order. Lists collapse to
// their filled entries and only filled implementation rows are listed.
func Text(doc form.Document) string {
	var b strings.Builder
	kv := func(label, value string) {
		fmt.Fprintf(&b, "%s: %s\n", label, orNA(value))
	}
	heading := func(n int, title string) {
		fmt.Fprintf(&b, "\nSECTION %d: %s\n", n, title)
	}

	kv("Name", doc.Name)
	kv("Date", doc.Date)

	heading(1, "CRITICAL REVIEW")
	kv("What's working", joinFilled(doc.WorkingItems[:]))
	kv("What's not working", joinFilled(doc.NotWorkingItems[:]))
	kv("What to add", joinFilled(doc.AddItems[:]))
	kv("What to stop", joinFilled(doc.StopItems[:]))
	kv("What to learn", joinFilled(doc.LearnItems[:]))

	heading(2, "LEAD GENERATION")
	kv("Leads per day", doc.LeadsPerDay)
	kv("Leads per week", doc.LeadsPerWeek)
	kv("Leads per month", doc.LeadsPerMonth)
	kv("Methods", strings.Join(doc.LeadMethods.Selected(), ", "))
	kv("Most effective method", doc.MostEffectiveLeadMethod)
	kv("Focus area", doc.LeadAreaFocus)

	heading(3, "OUTBOUND CONTACTS")
	kv("Contacts per day", doc.ContactsPerDay)
	kv("Contacts per week", doc.ContactsPerWeek)
	kv("Challenges", doc.ContactChallenges)
	kv("Main objection", doc.AppointmentObjection)
	kv("Appointment hook", doc.AppointmentHook)

	heading(4, "SALES CONVERSION")
	kv("Conversion ratio", doc.ConversionRatio)
	kv("Obstacles", doc.ConversionObstacles)
	kv("Strategies", joinFilled(doc.ConversionStrategies[:]))

	heading(5, "COMMISSION/SALES STRUCTURE")
	kv("Average commission", doc.AverageCommission)
	kv("Highest transaction source", doc.HighestTransactionSource)
	kv("Strategy to increase commission", doc.IncreaseCommissionStrategy)
	kv("Unprofitable segments", doc.UnprofitableSegments)

	heading(6, "WORK HOURS")
	kv("Hours worked per week", doc.WorkHoursRange)
	kv("Effective hours percentage", doc.EffectiveHoursPercentage)
	kv("Work-life balance", doc.WorkLifeBalance)
	kv("Balance improvement", doc.WorkLifeBalanceChanges)

	heading(7, "SALES TOOLS & RESOURCES")
	kv("Uses CRM", doc.UsesCRM)
	kv("CRM effectiveness", doc.CRMEffectiveness)
	kv("Additional tools needed", doc.AdditionalTools)

	heading(8, "TRAINING & DEVELOPMENT")
	kv("Training frequency", doc.TrainingFrequency)
	kv("Hours working on business", doc.BusinessWorkHours)
	kv("Focus area for training", doc.TrainingFocusArea)
	kv("Weekly scorecard review", doc.ReviewsScorecard)
	kv("Monthly goal review", doc.MonthlyGoalReview)
	kv("Has team", doc.HasTeam)
	kv("Team changes", doc.TeamChanges)

	heading(9, "INCOME AND SAVINGS GOALS")
	kv("Income goal", doc.IncomeGoal)
	kv("Revenue goal", doc.RevenueGoal)
	kv("Units required", doc.UnitsRequired)
	kv("Leads required", doc.LeadsRequired)
	kv("Contacts required", doc.ContactsRequired)
	kv("Conversion percentage", doc.ConversionPercentage)
	kv("Total expenses", doc.TotalExpenses)
	kv("Expenses - People", doc.ExpensePeople)
	kv("Expenses - Rent", doc.ExpenseRent)
	kv("Expenses - Marketing", doc.ExpenseMarketing)
	kv("Expenses - Compliance", doc.ExpenseCompliance)
	kv("Expenses - Other", doc.ExpenseOther)
	kv("Gross revenue", doc.GrossRevenue)
	kv("Profit", doc.Profit)
	kv("Savings goal", doc.SavingsGoal)
	kv("Hours worked goal", doc.HoursWorkedGoal)
	kv("Family/relationship goal", doc.FamilyGoal)
	kv("Giving goal", doc.GivingGoal)
	kv("Vacation goal", doc.VacationGoal)
	kv("Reading goal", doc.ReadingGoal)
	kv("Physical goal", doc.PhysicalGoal)

	heading(10, "GOALS RECAP")
	kv("Goals importance", doc.GoalsImportance)
	kv("Impact of accomplishing goals", doc.GoalsAccomplishmentEffect)
	kv("Is the work worth it", doc.WorkWorthIt)
	kv("Prevention factors", doc.WorkPreventionFactors)
	kv("Accountability measures", doc.AccountabilityMeasures)
	kv("90-day commitment", doc.NinetyDayCommitment)
	kv("Belief in possibility", doc.GoalsBelief)
	kv("Goals to change", doc.GoalsToChange)

	heading(11, "SHORT TERM GOALS")
	for i, g := range doc.ShortTermGoals {
		kv(fmt.Sprintf("Goal %d", i+1), g.Goal)
		kv(fmt.Sprintf("Action %d", i+1), g.Action)
	}

	heading(12, "VISION")
	kv("3-year vision", doc.ThreeYearVision)
	kv("5-year vision", doc.FiveYearVision)

	heading(13, "IMPLEMENTATION ITEMS")
	rows := 0
	for _, item := range doc.ImplementationItems {
		if strings.TrimSpace(item.Item) == "" {
			continue
		}
		rows++
		fmt.Fprintf(&b, "%d. %s (Speed: %s, Impact: %s, Total: %s, Priority: %s)\n",
			rows, item.Item, orNA(item.SpeedScore), orNA(item.ImpactScore), orNA(item.TotalScore), orNA(item.Priority))
	}
	if rows == 0 {
		b.WriteString(Placeholder + "\n")
	}
	return b.String()
}

func joinFilled(values []string) string {
	var filled []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			filled = append(filled, v)
		}
	}
	return strings.Join(filled, ", ")
}
