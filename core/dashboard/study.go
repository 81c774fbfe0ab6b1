package dashboard

import (
	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/study"
)

const (
	// DefaultStudyWindow is the number of trailing days of the study chart.
	DefaultStudyWindow = 10
	MaxStudyWindow     = 366
)

type DayTotal struct {
	Date    core.Date `json:"date"`
	Seconds int64     `json:"seconds"`
}

type SubjectTotal struct {
	Subject string `json:"subject"`
	Seconds int64  `json:"seconds"`
}

type StudySummary struct {
	From         core.Date      `json:"from"`
	To           core.Date      `json:"to"`
	Days         []DayTotal     `json:"days"`     // oldest first
	Subjects     []SubjectTotal `json:"subjects"` // 국어, 영어, 수학, 기타
	TotalSeconds int64          `json:"total_seconds"`
}

// StudyTime sums the sessions dated in the n days ending today, per day and per subject.
// Unknown subjects are folded into 기타 and negative durations are ignored.
// n defaults to DefaultStudyWindow and is capped at MaxStudyWindow.
func StudyTime(today core.Date, n int, sessions []study.Session) StudySummary {
	switch {
	case n <= 0:
		n = DefaultStudyWindow
	case n > MaxStudyWindow:
		n = MaxStudyWindow
	}
	from := today.AddDays(-(n - 1))

	days := make([]DayTotal, n)
	dayIdx := make(map[core.Date]int, n)
	for i := 0; i < n; i++ {
		d := from.AddDays(i)
		days[i] = DayTotal{Date: d}
		dayIdx[d] = i
	}

	subjects := make([]SubjectTotal, len(core.AllSubjects))
	subjIdx := make(map[string]int, len(core.AllSubjects))
	for i, s := range core.AllSubjects {
		subjects[i] = SubjectTotal{Subject: s}
		subjIdx[s] = i
	}

	var total int64
	for _, s := range sessions {
		i, ok := dayIdx[s.SessionDate]
		if !ok || s.DurationSeconds < 0 {
			continue
		}
		days[i].Seconds += s.DurationSeconds
		subjects[subjIdx[core.NormalizeSubject(s.Subject)]].Seconds += s.DurationSeconds
		total += s.DurationSeconds
	}

	return StudySummary{From: from, To: today, Days: days, Subjects: subjects, TotalSeconds: total}
}
