package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnknownField is returned when a key path does not name a field.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrInvalidText rejects values that are not valid UTF-8, which JSON
	// storage could not keep intact.
	ErrInvalidText = errors.New("form: value is not valid UTF-8")
)

// Kind tells the editor how a field is entered.
type Kind int

const (
	KindText Kind = iota
	KindLongText
	KindNumber
	KindCheckbox
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLongText:
		return "long-text"
	case KindNumber:
		return "number"
	case KindCheckbox:
		return "checkbox"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Field describes one answerable slot. Key is a dotted path in the draft's
// JSON shape, e.g. "workingItems.0" or "implementationItems.3.speedScore".
type Field struct {
	Key         string
	Label       string
	Kind        Kind
	Options     []string
	Placeholder string

	text func(*Document) *string
	flag func(*Document) *bool
}

// Value returns the field's current value as text. Checkboxes render as
// "true"/"false".
func (f Field) Value(d *Document) string {
	if f.flag != nil {
		return strconv.FormatBool(*f.flag(d))
	}
	return *f.text(d)
}

// Checked reports the state of a checkbox field.
func (f Field) Checked(d *Document) bool {
	if f.flag == nil {
		return false
	}
	return *f.flag(d)
}

// Set stores value into the document.
func (f Field) Set(d *Document, value string) error {
	if f.flag != nil {
		value = strings.TrimSpace(value)
		if value == "" {
			*f.flag(d) = false
			return nil
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("form: %s expects true/false, got %q", f.Key, value)
		}
		*f.flag(d) = parsed
		return nil
	}
	*f.text(d) = value
	return nil
}

func (f Field) filled(d *Document) bool {
	if f.flag != nil {
		return *f.flag(d)
	}
	return strings.TrimSpace(*f.text(d)) != ""
}

// Section is one numbered page of the questionnaire.
type Section struct {
	Number int
	Title  string
	Fields []Field
}

// Choice lists used by radio-style questions.
var (
	YesNo             = []string{"Yes", "No"}
	WorkHourRanges    = []string{"1-20 hours", "21-40 hours", "41-60 hours", "61+ hours"}
	CRMEffectiveness  = []string{"Very Effective", "Somewhat Effective", "Neutral", "Somewhat Ineffective", "Very Ineffective"}
	TrainingFrequency = []string{"Never", "Rarely (1-2 times per year)", "Occasionally (3-5 times per year)", "Regularly (6+ times per year)"}
	BusinessHours     = []string{"0 hours", "1-2 hours", "3-5 hours", "6-9 hours"}
)

var (
	headerFields = []Field{
		textField("name", "Name", KindText, func(d *Document) *string { return &d.Name }),
		textField("date", "Date (YYYY-MM-DD)", KindText, func(d *Document) *string { return &d.Date }),
	}
	catalogue = buildSections()
	index     = buildIndex()
)

// TotalSections is the number of pages in the questionnaire.
func TotalSections() int {
	return len(catalogue)
}

// Header returns the name and date fields shown above every section.
func Header() []Field {
	return append([]Field(nil), headerFields...)
}

// Sections returns the questionnaire pages in order.
func Sections() []Section {
	out := make([]Section, len(catalogue))
	for i, s := range catalogue {
		out[i] = Section{Number: s.Number, Title: s.Title, Fields: append([]Field(nil), s.Fields...)}
	}
	return out
}

// SectionAt returns the page with the given 1-based number.
func SectionAt(number int) (Section, bool) {
	if number < 1 || number > len(catalogue) {
		return Section{}, false
	}
	s := catalogue[number-1]
	return Section{Number: s.Number, Title: s.Title, Fields: append([]Field(nil), s.Fields...)}, true
}

// Lookup finds a field descriptor by key path.
func Lookup(key string) (Field, bool) {
	f, ok := index[strings.TrimSpace(key)]
	return f, ok
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (string, error) {
	f, ok := Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return f.Value(d), nil
}

// Set stores value under key. Editing either score of an implementation row
// keeps its total in step unless the total was typed by hand.
func (d *Document) Set(key string, value string) error {
	f, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("%w: %s", ErrInvalidText, key)
	}
	row, isScore := scoreRow(key)
	if !isScore {
		return f.Set(d, value)
	}
	item := &d.ImplementationItems[row]
	previous, hadSum := item.ScoreSum()
	if err := f.Set(d, value); err != nil {
		return err
	}
	total := strings.TrimSpace(item.TotalScore)
	if hadSum && total == strconv.Itoa(previous) {
		item.TotalScore = ""
	}
	item.ComputeTotal()
	return nil
}

func scoreRow(key string) (int, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[0] != "implementationItems" {
		return 0, false
	}
	if parts[2] != "speedScore" && parts[2] != "impactScore" {
		return 0, false
	}
	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return row, true
}

func textField(key, label string, kind Kind, ref func(*Document) *string) Field {
	return Field{Key: key, Label: label, Kind: kind, text: ref}
}

func choiceField(key, label string, options []string, ref func(*Document) *string) Field {
	return Field{Key: key, Label: label, Kind: KindChoice, Options: options, text: ref}
}

func checkField(key, label string, ref func(*Document) *bool) Field {
	return Field{Key: key, Label: label, Kind: KindCheckbox, flag: ref}
}

func listFields(key, label string, slots int, ref func(*Document, int) *string) []Field {
	fields := make([]Field, 0, slots)
	for i := 0; i < slots; i++ {
		slot := i
		fields = append(fields, Field{
			Key:   fmt.Sprintf("%s.%d", key, slot),
			Label: fmt.Sprintf("%s %d.", label, slot+1),
			Kind:  KindText,
			text:  func(d *Document) *string { return ref(d, slot) },
		})
	}
	return fields
}

func buildSections() []Section {
	var sections []Section
	add := func(title string, groups ...[]Field) {
		var fields []Field
		for _, g := range groups {
			fields = append(fields, g...)
		}
		sections = append(sections, Section{Number: len(sections) + 1, Title: title, Fields: fields})
	}
	one := func(f Field) []Field { return []Field{f} }

	add("Critical Review of Your Business and Behaviors",
		listFields("workingItems", "What's working?", ReviewSlots, func(d *Document, i int) *string { return &d.WorkingItems[i] }),
		listFields("notWorkingItems", "What's not working?", ReviewSlots, func(d *Document, i int) *string { return &d.NotWorkingItems[i] }),
		listFields("addItems", "What do I need to add?", ChangeSlots, func(d *Document, i int) *string { return &d.AddItems[i] }),
		listFields("stopItems", "What should I stop doing?", ChangeSlots, func(d *Document, i int) *string { return &d.StopItems[i] }),
		listFields("learnItems", "What do I need to learn?", ChangeSlots, func(d *Document, i int) *string { return &d.LearnItems[i] }),
	)

	add("Lead Generation",
		one(textField("leadsPerDay", "Leads per day", KindNumber, func(d *Document) *string { return &d.LeadsPerDay })),
		one(textField("leadsPerWeek", "Leads per week", KindNumber, func(d *Document) *string { return &d.LeadsPerWeek })),
		one(textField("leadsPerMonth", "Leads per month", KindNumber, func(d *Document) *string { return &d.LeadsPerMonth })),
		one(checkField("leadMethods.coldCalling", "Cold Calling", func(d *Document) *bool { return &d.LeadMethods.ColdCalling })),
		one(checkField("leadMethods.emailCampaigns", "Email Campaigns", func(d *Document) *bool { return &d.LeadMethods.EmailCampaigns })),
		one(checkField("leadMethods.socialMedia", "Social Media Outreach", func(d *Document) *bool { return &d.LeadMethods.SocialMedia })),
		one(checkField("leadMethods.referrals", "Referrals", func(d *Document) *bool { return &d.LeadMethods.Referrals })),
		one(checkField("leadMethods.networkingEvents", "Networking Events", func(d *Document) *bool { return &d.LeadMethods.NetworkingEvents })),
		one(checkField("leadMethods.other", "Other", func(d *Document) *bool { return &d.LeadMethods.Other })),
		one(textField("leadMethods.otherSpecify", "Other (please specify)", KindText, func(d *Document) *string { return &d.LeadMethods.OtherSpecify })),
		one(textField("mostEffectiveLeadMethod", "Which lead generation method has been most effective for you?", KindLongText, func(d *Document) *string { return &d.MostEffectiveLeadMethod })),
		one(textField("leadAreaFocus", "What area needs the most focus?", KindLongText, func(d *Document) *string { return &d.LeadAreaFocus })),
	)

	add("Outbound Contacts",
		one(textField("contactsPerDay", "Outbound contacts per day", KindNumber, func(d *Document) *string { return &d.ContactsPerDay })),
		one(textField("contactsPerWeek", "Outbound contacts per week", KindNumber, func(d *Document) *string { return &d.ContactsPerWeek })),
		one(textField("contactChallenges", "What challenges do you face in making outbound contacts?", KindLongText, func(d *Document) *string { return &d.ContactChallenges })),
		one(textField("appointmentObjection", "What is your number one objection to an appointment?", KindLongText, func(d *Document) *string { return &d.AppointmentObjection })),
		one(textField("appointmentHook", "What is your bait (hook) for securing an appointment?", KindLongText, func(d *Document) *string { return &d.AppointmentHook })),
	)

	add("Sales Conversion",
		one(textField("conversionRatio", "What is your current conversion ratio?", KindText, func(d *Document) *string { return &d.ConversionRatio })),
		one(textField("conversionObstacles", "What obstacles do you encounter during the conversion process?", KindLongText, func(d *Document) *string { return &d.ConversionObstacles })),
		listFields("conversionStrategies", "Strategy to improve conversion", StrategySlots, func(d *Document, i int) *string { return &d.ConversionStrategies[i] }),
	)

	add("Commission/Sales Structure",
		one(textField("averageCommission", "Average commission/revenue per sale", KindNumber, func(d *Document) *string { return &d.AverageCommission })),
		one(textField("highestTransactionSource", "Source of highest transaction values", KindLongText, func(d *Document) *string { return &d.HighestTransactionSource })),
		one(textField("increaseCommissionStrategy", "Strategy to increase average commission", KindLongText, func(d *Document) *string { return &d.IncreaseCommissionStrategy })),
		one(textField("unprofitableSegments", "Unprofitable segments to reconsider", KindLongText, func(d *Document) *string { return &d.UnprofitableSegments })),
	)

	add("Work Hours",
		one(choiceField("workHoursRange", "Average hours worked per week", WorkHourRanges, func(d *Document) *string { return &d.WorkHoursRange })),
		one(textField("effectiveHoursPercentage", "Percentage of highly effective work hours", KindNumber, func(d *Document) *string { return &d.EffectiveHoursPercentage })),
		one(choiceField("workLifeBalance", "Do you have an optimal work-life balance?", YesNo, func(d *Document) *string { return &d.WorkLifeBalance })),
		one(textField("workLifeBalanceChanges", "Changes for better work-life balance", KindLongText, func(d *Document) *string { return &d.WorkLifeBalanceChanges })),
	)

	add("Sales Tools & Resources",
		one(choiceField("usesCRM", "Do you use a CRM system?", YesNo, func(d *Document) *string { return &d.UsesCRM })),
		one(choiceField("crmEffectiveness", "How effective is your CRM system?", CRMEffectiveness, func(d *Document) *string { return &d.CRMEffectiveness })),
		one(textField("additionalTools", "Additional tools or resources needed", KindLongText, func(d *Document) *string { return &d.AdditionalTools })),
	)

	add("Training & Development",
		one(choiceField("trainingFrequency", "How often do you attend sales training?", TrainingFrequency, func(d *Document) *string { return &d.TrainingFrequency })),
		one(choiceField("businessWorkHours", "Hours per week working on (not in) your business", BusinessHours, func(d *Document) *string { return &d.BusinessWorkHours })),
		one(textField("trainingFocusArea", "Area needing focus and training", KindLongText, func(d *Document) *string { return &d.TrainingFocusArea })),
		one(choiceField("reviewsScorecard", "Do you review your scorecard weekly?", YesNo, func(d *Document) *string { return &d.ReviewsScorecard })),
		one(choiceField("monthlyGoalReview", "Do you review your goals monthly?", YesNo, func(d *Document) *string { return &d.MonthlyGoalReview })),
		one(textField("hasTeam", "Do you have a team? Who is on it?", KindText, func(d *Document) *string { return &d.HasTeam })),
		one(textField("teamChanges", "Team changes or hiring plans", KindLongText, func(d *Document) *string { return &d.TeamChanges })),
	)

	add("Income and Savings Goals",
		one(textField("incomeGoal", "Income Goal (Low)", KindNumber, func(d *Document) *string { return &d.IncomeGoal })),
		one(textField("revenueGoal", "Gross Revenue Goal (Low)", KindNumber, func(d *Document) *string { return &d.RevenueGoal })),
		one(textField("unitsRequired", "Units Required", KindNumber, func(d *Document) *string { return &d.UnitsRequired })),
		one(textField("leadsRequired", "Leads Required", KindNumber, func(d *Document) *string { return &d.LeadsRequired })),
		one(textField("contactsRequired", "Contacts Required", KindNumber, func(d *Document) *string { return &d.ContactsRequired })),
		one(textField("conversionPercentage", "Conversion Percentage", KindNumber, func(d *Document) *string { return &d.ConversionPercentage })),
		one(textField("totalExpenses", "Total Expenses", KindNumber, func(d *Document) *string { return &d.TotalExpenses })),
		one(textField("expensePeople", "Expenses - People", KindNumber, func(d *Document) *string { return &d.ExpensePeople })),
		one(textField("expenseRent", "Expenses - Rent", KindNumber, func(d *Document) *string { return &d.ExpenseRent })),
		one(textField("expenseMarketing", "Expenses - Marketing", KindNumber, func(d *Document) *string { return &d.ExpenseMarketing })),
		one(textField("expenseCompliance", "Expenses - Compliance", KindNumber, func(d *Document) *string { return &d.ExpenseCompliance })),
		one(textField("expenseOther", "Expenses - Other", KindNumber, func(d *Document) *string { return &d.ExpenseOther })),
		one(textField("grossRevenue", "Gross Revenue", KindNumber, func(d *Document) *string { return &d.GrossRevenue })),
		one(textField("profit", "Profit", KindNumber, func(d *Document) *string { return &d.Profit })),
		one(textField("savingsGoal", "Savings Goal", KindText, func(d *Document) *string { return &d.SavingsGoal })),
		one(textField("hoursWorkedGoal", "Hours Worked Goal", KindText, func(d *Document) *string { return &d.HoursWorkedGoal })),
		one(textField("familyGoal", "Family/Relationship Goal", KindText, func(d *Document) *string { return &d.FamilyGoal })),
		one(textField("givingGoal", "Giving Goal", KindText, func(d *Document) *string { return &d.GivingGoal })),
		one(textField("vacationGoal", "Vacation Goal", KindText, func(d *Document) *string { return &d.VacationGoal })),
		one(textField("readingGoal", "Reading Goal", KindText, func(d *Document) *string { return &d.ReadingGoal })),
		one(textField("physicalGoal", "Physical Goal", KindText, func(d *Document) *string { return &d.PhysicalGoal })),
	)

	add("Goals Recap",
		one(textField("goalsImportance", "Why are these goals important to you?", KindLongText, func(d *Document) *string { return &d.GoalsImportance })),
		one(textField("goalsAccomplishmentEffect", "What would accomplishing these goals do for you and your family?", KindLongText, func(d *Document) *string { return &d.GoalsAccomplishmentEffect })),
		one(textField("workWorthIt", "Is the work worth it?", KindLongText, func(d *Document) *string { return &d.WorkWorthIt })),
		one(textField("workPreventionFactors", "What would prevent you from doing the work?", KindLongText, func(d *Document) *string { return &d.WorkPreventionFactors })),
		one(textField("accountabilityMeasures", "What habits or accountability measures will you put in place?", KindLongText, func(d *Document) *string { return &d.AccountabilityMeasures })),
		one(textField("ninetyDayCommitment", "Can you commit to the work required for the next 90 days?", KindLongText, func(d *Document) *string { return &d.NinetyDayCommitment })),
		one(textField("goalsBelief", "Do you believe it's possible?", KindLongText, func(d *Document) *string { return &d.GoalsBelief })),
		one(textField("goalsToChange", "Goals or objectives that need to be changed", KindLongText, func(d *Document) *string { return &d.GoalsToChange })),
	)

	var goals []Field
	for i := 0; i < ShortTermGoalSlots; i++ {
		slot := i
		goals = append(goals,
			textField(fmt.Sprintf("shortTermGoals.%d.goal", slot), fmt.Sprintf("Goal %d", slot+1), KindText,
				func(d *Document) *string { return &d.ShortTermGoals[slot].Goal }),
			textField(fmt.Sprintf("shortTermGoals.%d.action", slot), fmt.Sprintf("Action for goal %d", slot+1), KindLongText,
				func(d *Document) *string { return &d.ShortTermGoals[slot].Action }),
		)
	}
	add("Short Term Goals", goals)

	add("Vision",
		one(textField("threeYearVision", "3 year vision", KindLongText, func(d *Document) *string { return &d.ThreeYearVision })),
		one(textField("fiveYearVision", "5 year vision", KindLongText, func(d *Document) *string { return &d.FiveYearVision })),
	)

	var rows []Field
	for i := 0; i < ImplementationSlots; i++ {
		slot := i
		prefix := fmt.Sprintf("implementationItems.%d", slot)
		rows = append(rows,
			textField(prefix+".item", fmt.Sprintf("Item %d", slot+1), KindText,
				func(d *Document) *string { return &d.ImplementationItems[slot].Item }),
			textField(prefix+".speedScore", fmt.Sprintf("Item %d speed of implementation (1-10)", slot+1), KindNumber,
				func(d *Document) *string { return &d.ImplementationItems[slot].SpeedScore }),
			textField(prefix+".impactScore", fmt.Sprintf("Item %d impact on business (1-10)", slot+1), KindNumber,
				func(d *Document) *string { return &d.ImplementationItems[slot].ImpactScore }),
			textField(prefix+".totalScore", fmt.Sprintf("Item %d total score", slot+1), KindNumber,
				func(d *Document) *string { return &d.ImplementationItems[slot].TotalScore }),
			textField(prefix+".priority", fmt.Sprintf("Item %d priority order", slot+1), KindNumber,
				func(d *Document) *string { return &d.ImplementationItems[slot].Priority }),
		)
	}
	add("Top 10 Items to Implement", rows)

	return sections
}

func buildIndex() map[string]Field {
	idx := make(map[string]Field)
	for _, f := range allFields() {
		idx[f.Key] = f
	}
	return idx
}

func allFields() []Field {
	fields := append([]Field(nil), headerFields...)
	for _, s := range catalogue {
		fields = append(fields, s.Fields...)
	}
	return fields
}
