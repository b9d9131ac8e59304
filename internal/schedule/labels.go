package schedule

import (
	"fmt"
	"strings"

	"github.com/ukydev/workshop-maintenance/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Labels are the human-facing strings for one locale.
type Labels struct {
	Locale     string
	Tag        language.Tag
	DateLayout string

	DaysLeft    string // ok status, %d = days remaining
	DueSoon     string // upcoming status, %d = days remaining
	OverdueDays string // overdue status and overdue history, %d = days
	OnTime      string

	SheetName       string
	WorkshopHeader  string
	EquipmentHeader string
	TaskHeader      string
	DateHeader      string
	StatusHeader    string
	ReportTitle     string
}

// EnglishLabels is the default label set.
var EnglishLabels = Labels{
	Locale:          "en",
	Tag:             language.English,
	DateLayout:      "2006-01-02",
	DaysLeft:        "%d days left",
	DueSoon:         "Due soon (%d days left)",
	OverdueDays:     "Overdue %d days",
	OnTime:          "On time",
	SheetName:       "History",
	WorkshopHeader:  "Workshop",
	EquipmentHeader: "Equipment",
	TaskHeader:      "Task",
	DateHeader:      "Maintenance date",
	StatusHeader:    "Status",
	ReportTitle:     "Maintenance history",
}

// VietnameseLabels matches the wording used on the shop floor.
var VietnameseLabels = Labels{
	Locale:          "vi",
	Tag:             language.Vietnamese,
	DateLayout:      "02/01/2006",
	DaysLeft:        "Còn %d ngày",
	DueSoon:         "Sắp tới hạn (còn %d ngày)",
	OverdueDays:     "Quá hạn %d ngày",
	OnTime:          "Đúng hạn",
	SheetName:       "Lịch sử",
	WorkshopHeader:  "Xưởng",
	EquipmentHeader: "Tên thiết bị",
	TaskHeader:      "Hạng mục",
	DateHeader:      "Ngày bảo trì",
	StatusHeader:    "Tình trạng",
	ReportTitle:     "Lịch sử bảo trì",
}

// LabelsFor returns the label set for a locale, falling back to English.
func LabelsFor(locale string) Labels {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "vi", "vi-vn", "vi_vn":
		return VietnameseLabels
	default:
		return EnglishLabels
	}
}

// TaskLabel renders the live status of a task.
func (l Labels) TaskLabel(status Status, daysRemaining int) string {
	switch status {
	case StatusOverdue:
		if daysRemaining < 0 {
			daysRemaining = -daysRemaining
		}
		return fmt.Sprintf(l.OverdueDays, daysRemaining)
	case StatusUpcoming:
		return fmt.Sprintf(l.DueSoon, daysRemaining)
	default:
		return fmt.Sprintf(l.DaysLeft, daysRemaining)
	}
}

// TimelinessLabel renders the combined status string of a history entry.
func (l Labels) TimelinessLabel(e models.HistoryEntryWithStatus) string {
	if e.Status == models.Overdue {
		return fmt.Sprintf(l.OverdueDays, e.OverdueDays)
	}
	return l.OnTime
}

// collator is not safe for concurrent use, so callers get a fresh one per sort.
func (l Labels) collator() *collate.Collator {
	return collate.New(l.Tag)
}
