// Package form defines the business-planning questionnaire: the document that
// holds every answer, the ordered section catalogue that drives editing, and
// the required-field checks run before submission.
package form

import (
	"strconv"
	"strings"
)

// Slot counts for the fixed-size answer groups.
const (
	ReviewSlots         = 3
	ChangeSlots         = 2
	StrategySlots       = 3
	ShortTermGoalSlots  = 3
	ImplementationSlots = 10
)

// LeadMethods records which lead generation channels are in use.
type LeadMethods struct {
	ColdCalling      bool   `json:"coldCalling,omitempty"`
	EmailCampaigns   bool   `json:"emailCampaigns,omitempty"`
	SocialMedia      bool   `json:"socialMedia,omitempty"`
	Referrals        bool   `json:"referrals,omitempty"`
	NetworkingEvents bool   `json:"networkingEvents,omitempty"`
	Other            bool   `json:"other,omitempty"`
	OtherSpecify     string `json:"otherSpecify,omitempty"`
}

// Selected returns the keys of the checked methods in display order.
func (m LeadMethods) Selected() []string {
	var out []string
	for _, entry := range []struct {
		key string
		on  bool
	}{
		{"coldCalling", m.ColdCalling},
		{"emailCampaigns", m.EmailCampaigns},
		{"socialMedia", m.SocialMedia},
		{"referrals", m.Referrals},
		{"networkingEvents", m.NetworkingEvents},
		{"other", m.Other},
	} {
		if entry.on {
			out = append(out, entry.key)
		}
	}
	return out
}

// GoalAction pairs a short-term goal with the action that gets it done.
type GoalAction struct {
	Goal   string `json:"goal"`
	Action string `json:"action"`
}

// ImplementationItem is one scored row of the top-10 implementation table.
type ImplementationItem struct {
	Item        string `json:"item"`
	SpeedScore  string `json:"speedScore"`
	ImpactScore string `json:"impactScore"`
	TotalScore  string `json:"totalScore"`
	Priority    string `json:"priority"`
}

// IsBlank reports whether no cell of the row has been filled in.
func (i ImplementationItem) IsBlank() bool {
	return strings.TrimSpace(i.Item) == "" &&
		strings.TrimSpace(i.SpeedScore) == "" &&
		strings.TrimSpace(i.ImpactScore) == "" &&
		strings.TrimSpace(i.TotalScore) == "" &&
		strings.TrimSpace(i.Priority) == ""
}

// ScoreSum returns speed + impact when both parse as integers.
func (i ImplementationItem) ScoreSum() (int, bool) {
	speed, err := strconv.Atoi(strings.TrimSpace(i.SpeedScore))
	if err != nil {
		return 0, false
	}
	impact, err := strconv.Atoi(strings.TrimSpace(i.ImpactScore))
	if err != nil {
		return 0, false
	}
	return speed + impact, true
}

// ComputeTotal fills TotalScore from the two scores when it is still blank.
func (i *ImplementationItem) ComputeTotal() bool {
	if strings.TrimSpace(i.TotalScore) != "" {
		return false
	}
	sum, ok := i.ScoreSum()
	if !ok {
		return false
	}
	i.TotalScore = strconv.Itoa(sum)
	return true
}

// Document is the complete questionnaire. Fixed-size groups are arrays so a
// decoded draft can never grow or shrink them.
type Document struct {
	Name string `json:"name"`
	Date string `json:"date"`

	// Section 1: Critical Review
	WorkingItems    [ReviewSlots]string `json:"workingItems"`
	NotWorkingItems [ReviewSlots]string `json:"notWorkingItems"`
	AddItems        [ChangeSlots]string `json:"addItems"`
	StopItems       [ChangeSlots]string `json:"stopItems"`
	LearnItems      [ChangeSlots]string `json:"learnItems"`

	// Section 2: Lead Generation
	LeadsPerDay             string      `json:"leadsPerDay,omitempty"`
	LeadsPerWeek            string      `json:"leadsPerWeek,omitempty"`
	LeadsPerMonth           string      `json:"leadsPerMonth,omitempty"`
	LeadMethods             LeadMethods `json:"leadMethods"`
	MostEffectiveLeadMethod string      `json:"mostEffectiveLeadMethod,omitempty"`
	LeadAreaFocus           string      `json:"leadAreaFocus,omitempty"`

	// Section 3: Outbound Contacts
	ContactsPerDay       string `json:"contactsPerDay,omitempty"`
	ContactsPerWeek      string `json:"contactsPerWeek,omitempty"`
	ContactChallenges    string `json:"contactChallenges,omitempty"`
	AppointmentObjection string `json:"appointmentObjection,omitempty"`
	AppointmentHook      string `json:"appointmentHook,omitempty"`

	// Section 4: Sales Conversion
	ConversionRatio      string                `json:"conversionRatio,omitempty"`
	ConversionObstacles  string                `json:"conversionObstacles,omitempty"`
	ConversionStrategies [StrategySlots]string `json:"conversionStrategies"`

	// Section 5: Commission/Sales Structure
	AverageCommission          string `json:"averageCommission,omitempty"`
	HighestTransactionSource   string `json:"highestTransactionSource,omitempty"`
	IncreaseCommissionStrategy string `json:"increaseCommissionStrategy,omitempty"`
	UnprofitableSegments       string `json:"unprofitableSegments,omitempty"`

	// Section 6: Work Hours
	WorkHoursRange           string `json:"workHoursRange,omitempty"`
	EffectiveHoursPercentage string `json:"effectiveHoursPercentage,omitempty"`
	WorkLifeBalance          string `json:"workLifeBalance,omitempty"`
	WorkLifeBalanceChanges   string `json:"workLifeBalanceChanges,omitempty"`

	// Section 7: Sales Tools & Resources
	UsesCRM          string `json:"usesCRM,omitempty"`
	CRMEffectiveness string `json:"crmEffectiveness,omitempty"`
	AdditionalTools  string `json:"additionalTools,omitempty"`

	// Section 8: Training & Development
	TrainingFrequency string `json:"trainingFrequency,omitempty"`
	BusinessWorkHours string `json:"businessWorkHours,omitempty"`
	TrainingFocusArea string `json:"trainingFocusArea,omitempty"`
	ReviewsScorecard  string `json:"reviewsScorecard,omitempty"`
	MonthlyGoalReview string `json:"monthlyGoalReview,omitempty"`
	HasTeam           string `json:"hasTeam,omitempty"`
	TeamChanges       string `json:"teamChanges,omitempty"`

	// Section 9: Income and Savings Goals
	IncomeGoal           string `json:"incomeGoal,omitempty"`
	RevenueGoal          string `json:"revenueGoal,omitempty"`
	UnitsRequired        string `json:"unitsRequired,omitempty"`
	LeadsRequired        string `json:"leadsRequired,omitempty"`
	ContactsRequired     string `json:"contactsRequired,omitempty"`
	ConversionPercentage string `json:"conversionPercentage,omitempty"`
	TotalExpenses        string `json:"totalExpenses,omitempty"`
	ExpensePeople        string `json:"expensePeople,omitempty"`
	ExpenseRent          string `json:"expenseRent,omitempty"`
	ExpenseMarketing     string `json:"expenseMarketing,omitempty"`
	ExpenseCompliance    string `json:"expenseCompliance,omitempty"`
	ExpenseOther         string `json:"expenseOther,omitempty"`
	GrossRevenue         string `json:"grossRevenue,omitempty"`
	Profit               string `json:"profit,omitempty"`
	SavingsGoal          string `json:"savingsGoal,omitempty"`
	HoursWorkedGoal      string `json:"hoursWorkedGoal,omitempty"`
	FamilyGoal           string `json:"familyGoal,omitempty"`
	GivingGoal           string `json:"givingGoal,omitempty"`
	VacationGoal         string `json:"vacationGoal,omitempty"`
	ReadingGoal          string `json:"readingGoal,omitempty"`
	PhysicalGoal         string `json:"physicalGoal,omitempty"`

	// Section 10: Goals Recap
	GoalsImportance           string `json:"goalsImportance,omitempty"`
	GoalsAccomplishmentEffect string `json:"goalsAccomplishmentEffect,omitempty"`
	WorkWorthIt               string `json:"workWorthIt,omitempty"`
	WorkPreventionFactors     string `json:"workPreventionFactors,omitempty"`
	AccountabilityMeasures    string `json:"accountabilityMeasures,omitempty"`
	NinetyDayCommitment       string `json:"ninetyDayCommitment,omitempty"`
	GoalsBelief               string `json:"goalsBelief,omitempty"`
	GoalsToChange             string `json:"goalsToChange,omitempty"`

	// Section 11: Short Term Goals
	ShortTermGoals [ShortTermGoalSlots]GoalAction `json:"shortTermGoals"`

	// Section 12: Vision
	ThreeYearVision string `json:"threeYearVision,omitempty"`
	FiveYearVision  string `json:"fiveYearVision,omitempty"`

	// Section 13: Implementation Items
	ImplementationItems [ImplementationSlots]ImplementationItem `json:"implementationItems"`
}

// FilledCount returns how many field slots hold a value.
func (d Document) FilledCount() int {
	count := 0
	for _, f := range allFields() {
		if f.filled(&d) {
			count++
		}
	}
	return count
}

// IsEmpty reports whether nothing has been entered yet.
func (d Document) IsEmpty() bool {
	return d.FilledCount() == 0
}
