package analytics

import (
	"time"

	"github.com/adanyl0v/go-workspace/internal/models"
)

const DefaultWindowDays = 30

// DailyBucket is one calendar day of the trend series.
type DailyBucket struct {
	Date      time.Time `json:"date"`
	Created   int       `json:"created"`
	Completed int       `json:"completed"`
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{year: y, month: m, day: d}
}

// Window returns the inclusive bounds of the windowDays calendar days
// ending on anchor's day, in anchor's location.
func Window(windowDays int, anchor time.Time) (start, end time.Time) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	y, m, d := anchor.Date()
	loc := anchor.Location()
	start = time.Date(y, m, d-(windowDays-1), 0, 0, 0, 0, loc)
	end = time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	return start, end
}

// BuildTrends counts, per calendar day of the trailing window, the tasks
// created that day and how many of those are completed now.
//
// Completion is grouped by creation day since tasks carry no completion
// timestamp. Records missing a status, priority or creation time are
// skipped, as in CountTasks. The result always holds windowDays buckets
// in ascending order.
func BuildTrends(tasks []models.Task, windowDays int, anchor time.Time) []DailyBucket {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	start, end := Window(windowDays, anchor)
	loc := anchor.Location()

	buckets := make([]DailyBucket, windowDays)
	index := make(map[dayKey]int, windowDays)
	y, m, d := start.Date()
	for i := range buckets {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		buckets[i].Date = day
		index[keyOf(day)] = i
	}

	for i := range tasks {
		task := &tasks[i]
		if isMalformed(task) {
			continue
		}

		createdAt := task.CreatedAt.In(loc)
		if createdAt.Before(start) || createdAt.After(end) {
			continue
		}

		j, ok := index[keyOf(createdAt)]
		if !ok {
			continue
		}
		buckets[j].Created++
		if task.Status == models.StatusCompleted {
			buckets[j].Completed++
		}
	}

	return buckets
}
