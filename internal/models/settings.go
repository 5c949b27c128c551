package models

// ReminderFrequency is how often the user wants spending reminders.
type ReminderFrequency string

const (
	RemindDaily   ReminderFrequency = "daily"
	RemindWeekly  ReminderFrequency = "weekly"
	RemindMonthly ReminderFrequency = "monthly"
	RemindNever   ReminderFrequency = "never"
)

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Settings holds the local user's preferences.
type Settings struct {
	MonthlyExpenseLimit float64           `json:"monthlyExpenseLimit"`
	Currency            string            `json:"currency"`
	ReminderFrequency   ReminderFrequency `json:"reminderFrequency"`
	Theme               Theme             `json:"theme"`
	Notifications       bool              `json:"notifications"`
}

// DefaultSettings returns the first-run settings.
func DefaultSettings() Settings {
	return Settings{
		MonthlyExpenseLimit: 2000,
		Currency:            "USD",
		ReminderFrequency:   RemindWeekly,
		Theme:               ThemeLight,
		Notifications:       true,
	}
}

// SettingsPatch is a partial update to the settings.
type SettingsPatch struct {
	MonthlyExpenseLimit *float64
	Currency            *string
	ReminderFrequency   *ReminderFrequency
	Theme               *Theme
	Notifications       *bool
}

// Apply merges the patch into the settings.
func (s *Settings) Apply(p SettingsPatch) {
	if p.MonthlyExpenseLimit != nil {
		s.MonthlyExpenseLimit = *p.MonthlyExpenseLimit
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.ReminderFrequency != nil {
		s.ReminderFrequency = *p.ReminderFrequency
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
}
