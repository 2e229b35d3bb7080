package stats

import (
	"time"

	"github.com/sandeepkv93/taskmaster/internal/model"
)

// WeekDays is the number of calendar days covered by WeeklyProgress.
const WeekDays = 7

type Stats struct {
	Total          int                    `json:"total"`
	Completed      int                    `json:"completed"`
	Active         int                    `json:"active"`
	CompletionRate float64                `json:"completionRate"`
	TodayCompleted int                    `json:"todayCompleted"`
	WeeklyProgress [WeekDays]int          `json:"weeklyProgress"`
	ByPriority     map[model.Priority]int `json:"byPriority"`
	ByCategory     map[model.Category]int `json:"byCategory"`
}

// Compute derives a fresh snapshot from todos. Calendar days are taken in
// now's location; WeeklyProgress runs from six days ago to today.
func Compute(todos []model.Todo, now time.Time) Stats {
	out := Stats{
		Total:      len(todos),
		ByPriority: make(map[model.Priority]int, len(model.AllPriorities)),
		ByCategory: make(map[model.Category]int, len(model.AllCategories)),
	}
	for _, p := range model.AllPriorities {
		out.ByPriority[p] = 0
	}
	for _, c := range model.AllCategories {
		out.ByCategory[c] = 0
	}

	loc := now.Location()
	today := DayKey(now, loc)
	week := make(map[civilDay]int, WeekDays)
	for i := 0; i < WeekDays; i++ {
		week[civil(today.AddDate(0, 0, i-(WeekDays-1)))] = i
	}
	for _, t := range todos {
		if t.Completed {
			out.Completed++
		}
		out.ByPriority[t.Priority]++
		out.ByCategory[t.Category]++

		if !t.Completed || t.CompletedAt == nil {
			continue
		}
		day := DayKey(*t.CompletedAt, loc)
		if day.Equal(today) {
			out.TodayCompleted++
		}
		if idx, ok := week[civil(day)]; ok {
			out.WeeklyProgress[idx]++
		}
	}

	out.Active = out.Total - out.Completed
	if out.Total > 0 {
		out.CompletionRate = float64(out.Completed) / float64(out.Total) * 100
	}
	return out
}

func DayKey(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func WeekLabels(now time.Time) [WeekDays]string {
	var out [WeekDays]string
	today := DayKey(now, now.Location())
	for i := 0; i < WeekDays; i++ {
		out[i] = today.AddDate(0, 0, i-(WeekDays-1)).Weekday().String()[:3]
	}
	return out
}

type civilDay struct {
	year  int
	month time.Month
	day   int
}

func civil(t time.Time) civilDay {
	y, m, d := t.Date()
	return civilDay{year: y, month: m, day: d}
}
