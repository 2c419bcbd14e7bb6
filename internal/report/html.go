// Package report renders a questionnaire into its printable HTML form and the
// plain labelled text sent to the summarizer.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingrea/bizplan/internal/form"
)

// Placeholder stands in for every empty slot.
const Placeholder = "N/A"

type line struct {
	Label string
	Value string
}

type block struct {
	Heading string
	Lines   []line
}

type section struct {
	Title  string
	Blocks []block
}

type page struct {
	Title    string
	Header   []line
	Sections []section
	Items    []form.ImplementationItem
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"orNA": orNA,
}).Parse(pageHTML))

// HTML renders the full report page. Output depends only on doc.
func HTML(doc form.Document) string {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, buildPage(doc)); err != nil {
		panic(fmt.Sprintf("report: render: %v", err))
	}
	return buf.String()
}

// FileName returns the download name for doc's report.
func FileName(doc form.Document) string {
	name := unnamed(doc.Name, "unnamed")
	name = strings.NewReplacer("/", "-", "\\", "-", string(os.PathSeparator), "-").Replace(name)
	if name == "." || name == ".." {
		name = "unnamed"
	}
	return "business-plan-" + name + ".html"
}

// WriteFile renders doc into dir and returns the written path.
func WriteFile(dir string, doc form.Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: ensure dir: %w", err)
	}
	path := filepath.Join(dir, FileName(doc))
	if err := os.WriteFile(path, []byte(HTML(doc)), 0o644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	return path, nil
}

func unnamed(name, fallback string) string {
	if name = strings.TrimSpace(name); name == "" {
		return fallback
	}
	return name
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	return value
}

func numbered(values []string) []line {
	lines := make([]line, len(values))
	for i, v := range values {
		lines[i] = line{Label: fmt.Sprintf("%d.", i+1), Value: v}
	}
	return lines
}

func single(heading, value string) block {
	return block{Heading: heading, Lines: []line{{Value: value}}}
}

func check(on bool) string {
	if on {
		return "✓"
	}
	return ""
}

func buildPage(doc form.Document) page {
	titles := form.Sections()
	title := func(n int) string {
		return fmt.Sprintf("%d. %s", n, titles[n-1].Title)
	}
	percent := ""
	if strings.TrimSpace(doc.EffectiveHoursPercentage) != "" {
		percent = doc.EffectiveHoursPercentage + "%"
	}
	m := doc.LeadMethods

	var goals []block
	for i, g := range doc.ShortTermGoals {
		goals = append(goals, block{
			Heading: fmt.Sprintf("Goal %d", i+1),
			Lines:   []line{{Label: "Goal:", Value: g.Goal}, {Label: "Action:", Value: g.Action}},
		})
	}

	return page{
		Title: unnamed(doc.Name, "Unnamed"),
		Header: []line{
			{Label: "Name:", Value: doc.Name},
			{Label: "Date:", Value: doc.Date},
		},
		Items: doc.ImplementationItems[:],
		Sections: []section{
			{Title: title(1), Blocks: []block{
				{Heading: "What's working?", Lines: numbered(doc.WorkingItems[:])},
				{Heading: "What's not working?", Lines: numbered(doc.NotWorkingItems[:])},
				{Heading: "What do I need to add?", Lines: numbered(doc.AddItems[:])},
				{Heading: "What should I stop doing?", Lines: numbered(doc.StopItems[:])},
				{Heading: "What do I need to learn?", Lines: numbered(doc.LearnItems[:])},
			}},
			{Title: title(2), Blocks: []block{
				{Heading: "How many leads do you generate?", Lines: []line{
					{Label: "Per Day:", Value: doc.LeadsPerDay},
					{Label: "Per Week:", Value: doc.LeadsPerWeek},
					{Label: "Per Month:", Value: doc.LeadsPerMonth},
				}},
				{Heading: "What methods do you use to generate leads?", Lines: []line{
					{Label: "Cold Calling:", Value: check(m.ColdCalling)},
					{Label: "Email Campaigns:", Value: check(m.EmailCampaigns)},
					{Label: "Social Media Outreach:", Value: check(m.SocialMedia)},
					{Label: "Referrals:", Value: check(m.Referrals)},
					{Label: "Networking Events:", Value: check(m.NetworkingEvents)},
					{Label: "Other:", Value: check(m.Other)},
					{Label: "Other (specify):", Value: m.OtherSpecify},
				}},
				single("Which lead generation method has been most effective for you?", doc.MostEffectiveLeadMethod),
				single("What area needs the most focus?", doc.LeadAreaFocus),
			}},
			{Title: title(3), Blocks: []block{
				{Heading: "How many outbound contacts do you make?", Lines: []line{
					{Label: "Per Day:", Value: doc.ContactsPerDay},
					{Label: "Per Week:", Value: doc.ContactsPerWeek},
				}},
				single("What challenges do you face in making outbound contacts?", doc.ContactChallenges),
				single("What is your number one objection to an appointment?", doc.AppointmentObjection),
				single("What is your bait (hook) for securing an appointment?", doc.AppointmentHook),
			}},
			{Title: title(4), Blocks: []block{
				single("What is your current conversion ratio?", doc.ConversionRatio),
				single("What obstacles do you encounter during the conversion process?", doc.ConversionObstacles),
				{Heading: "What strategies do you use to improve your conversion rate?", Lines: numbered(doc.ConversionStrategies[:])},
			}},
			{Title: title(5), Blocks: []block{
				single("Average commission/revenue per sale:", doc.AverageCommission),
				single("Source of highest transaction values:", doc.HighestTransactionSource),
				single("Strategy to increase average commission:", doc.IncreaseCommissionStrategy),
				single("Unprofitable segments to reconsider:", doc.UnprofitableSegments),
			}},
			{Title: title(6), Blocks: []block{
				single("Average hours worked per week:", doc.WorkHoursRange),
				single("Percentage of highly effective work hours:", percent),
				single("Optimal work-life balance:", doc.WorkLifeBalance),
				single("Changes for better work-life balance:", doc.WorkLifeBalanceChanges),
			}},
			{Title: title(7), Blocks: []block{
				single("Uses CRM system:", doc.UsesCRM),
				single("CRM system effectiveness:", doc.CRMEffectiveness),
				single("Additional tools or resources needed:", doc.AdditionalTools),
			}},
			{Title: title(8), Blocks: []block{
				single("Frequency of sales training:", doc.TrainingFrequency),
				single("Hours per week working on business:", doc.BusinessWorkHours),
				single("Area needing focus and training:", doc.TrainingFocusArea),
				single("Reviews scorecard weekly:", doc.ReviewsScorecard),
				single("Monthly review of goals:", doc.MonthlyGoalReview),
				single("Has team:", doc.HasTeam),
				single("Team changes or hiring plans:", doc.TeamChanges),
			}},
			{Title: title(9), Blocks: []block{
				{Heading: "Income and Revenue Goals:", Lines: []line{
					{Label: "Income Goal (Low):", Value: doc.IncomeGoal},
					{Label: "Gross Revenue Goal (Low):", Value: doc.RevenueGoal},
					{Label: "Units Required:", Value: doc.UnitsRequired},
					{Label: "Leads Required:", Value: doc.LeadsRequired},
					{Label: "Contacts Required:", Value: doc.ContactsRequired},
					{Label: "Conversion Percentage:", Value: doc.ConversionPercentage},
				}},
				{Heading: "Total Expenses:", Lines: []line{
					{Label: "Total:", Value: doc.TotalExpenses},
					{Label: "People:", Value: doc.ExpensePeople},
					{Label: "Rent:", Value: doc.ExpenseRent},
					{Label: "Marketing:", Value: doc.ExpenseMarketing},
					{Label: "Compliance:", Value: doc.ExpenseCompliance},
					{Label: "Other:", Value: doc.ExpenseOther},
				}},
				{Heading: "Revenue and Profit:", Lines: []line{
					{Label: "Gross Revenue:", Value: doc.GrossRevenue},
					{Label: "Profit:", Value: doc.Profit},
				}},
				{Heading: "Other Goals:", Lines: []line{
					{Label: "Savings Goal:", Value: doc.SavingsGoal},
					{Label: "Hours Worked Goal:", Value: doc.HoursWorkedGoal},
					{Label: "Family/Relationship Goal:", Value: doc.FamilyGoal},
					{Label: "Giving Goal:", Value: doc.GivingGoal},
					{Label: "Vacation Goal:", Value: doc.VacationGoal},
					{Label: "Reading Goal:", Value: doc.ReadingGoal},
					{Label: "Physical Goal:", Value: doc.PhysicalGoal},
				}},
			}},
			{Title: title(10), Blocks: []block{
				single("Why are these goals important to you?", doc.GoalsImportance),
				single("What would accomplishing these goals do for you and your family?", doc.GoalsAccomplishmentEffect),
				single("Is the work worth it?", doc.WorkWorthIt),
				single("What would prevent you from doing the work?", doc.WorkPreventionFactors),
				single("Habits or accountability measures:", doc.AccountabilityMeasures),
				single("Commitment to 90-day work:", doc.NinetyDayCommitment),
				single("Do you believe it's possible?", doc.GoalsBelief),
				single("Goals or objectives that need to be changed:", doc.GoalsToChange),
			}},
			{Title: title(11), Blocks: goals},
			{Title: title(12), Blocks: []block{
				single("3 year vision:", doc.ThreeYearVision),
				single("5 year vision:", doc.FiveYearVision),
			}},
		},
	}
}
