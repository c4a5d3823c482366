package models

import "time"

type Employee struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmployeeID string `gorm:"column:employee_id;type:text;uniqueIndex" json:"employee_id"` // company-assigned code, e.g. CUBS-0042
	Name       string `gorm:"column:name;type:text" json:"name"`
	Email      string `gorm:"column:email;type:text" json:"email"`
	Trade      string `gorm:"column:trade;type:text" json:"trade"`

	CompanyName string `gorm:"column:company_name;type:text;index" json:"company_name"`
	Nationality string `gorm:"column:nationality;type:text" json:"nationality"`
	Phone       string `gorm:"column:phone;type:text" json:"phone"`

	JoinDate    *time.Time `gorm:"column:join_date;type:date" json:"join_date,omitempty"`
	LeaveDate   *time.Time `gorm:"column:leave_date;type:date" json:"leave_date,omitempty"`
	BasicSalary float64    `gorm:"column:basic_salary;type:numeric" json:"basic_salary"`

	VisaNumber           string     `gorm:"column:visa_number;type:text" json:"visa_number"`
	VisaExpiryDate       *time.Time `gorm:"column:visa_expiry_date;type:date;index" json:"visa_expiry_date,omitempty"`
	PassportNumber       string     `gorm:"column:passport_number;type:text" json:"passport_number"`
	PassportExpiryDate   *time.Time `gorm:"column:passport_expiry_date;type:date" json:"passport_expiry_date,omitempty"`
	LabourCardExpiryDate *time.Time `gorm:"column:labour_card_expiry_date;type:date" json:"labour_card_expiry_date,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`

	// one flag per expiry alert threshold; cleared whenever the visa date changes
	Notified60 bool `gorm:"column:notified_60" json:"notified_60"`
	Notified30 bool `gorm:"column:notified_30" json:"notified_30"`
	Notified15 bool `gorm:"column:notified_15" json:"notified_15"`
	Notified7  bool `gorm:"column:notified_7" json:"notified_7"`
	Notified1  bool `gorm:"column:notified_1" json:"notified_1"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }

// NotifiedFlagColumn maps an alert threshold (days before expiry) to the
// column holding its sent flag.
func NotifiedFlagColumn(days int) string {
	switch days {
	case 60:
		return "notified_60"
	case 30:
		return "notified_30"
	case 15:
		return "notified_15"
	case 7:
		return "notified_7"
	case 1:
		return "notified_1"
	default:
		return ""
	}
}
