package model

import "time"

// Period qualifies a half-day leave.
type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

// LeaveRecord is one person's leave on one calendar day.
type LeaveRecord struct {
	Day           int     `json:"date"`
	FullDate      string  `json:"fullDate"`
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	Employee      string  `json:"employee"`
	EmployeeRaw   string  `json:"employeeRaw"`
	LeaveType     string  `json:"leaveType"`
	Period        *Period `json:"period"`
	DisplayName   string  `json:"displayName"`
	LeaveTypeName string  `json:"leaveTypeName"`
	Color         string  `json:"color"`
}

// Holiday is a public or company holiday on one calendar day.
type Holiday struct {
	Day      int    `json:"date"`
	FullDate string `json:"fullDate"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	Name     string `json:"name"`
}

// MonthRef identifies a calendar month.
type MonthRef struct {
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	MonthName string `json:"monthName"`
}

// MonthRecord holds the normalized leaves and holidays of one month.
type MonthRecord struct {
	MonthRef
	Holidays []Holiday     `json:"holidays"`
	Leaves   []LeaveRecord `json:"leaves"`
}

// MonthArchive is the structure stored in each per-month history file.
type MonthArchive struct {
	ScrapedAt time.Time `json:"scrapedAt"`
	MonthRecord
}

// AggregateStore is the multi-month file read by calendar consumers.
type AggregateStore struct {
	ScrapedAt time.Time     `json:"scrapedAt"`
	Months    []MonthRef    `json:"months"`
	Holidays  []Holiday     `json:"holidays"`
	Leaves    []LeaveRecord `json:"leaves"`
}
