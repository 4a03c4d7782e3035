package classification

import "github.com/Veraticus/rota/internal/model"

// DefaultRestKeywords returns the keywords that mark a cell as a rest day.
func DefaultRestKeywords() []string {
	return []string{"WOFF", "W/OFF", "RD", "OFF", "REST", "RDO", "LEAVE"}
}

// DefaultTimings returns the known exact timing strings for each working shift.
func DefaultTimings() []Timing {
	return []Timing{
		{Label: model.LabelMorning, Values: []string{"0600-1400", "0700-1500", "0800-1600", "0900-1700"}},
		{Label: model.LabelAfternoon, Values: []string{"1200-2000", "1300-2100", "1400-2200", "1500-2300"}},
		{Label: model.LabelNight, Values: []string{"1800-0200", "1900-0300", "2000-0400", "2100-0500", "2200-0600"}},
	}
}
