// Dev tool: renders a sample packed week to week.png for eyeballing the
// grid layout without a database.
package main

import (
	"log"
	"os"
	"time"

	"session-scheduler/internal/model"
	"session-scheduler/internal/render"
	"session-scheduler/internal/schedule"
)

func main() {
	weekStart := schedule.WeekStart(time.Now())

	slots := []*model.Slot{
		sample(1, weekStart, 0, 9, 0, 10, 0, model.SlotStatusOpen),
		sample(2, weekStart, 0, 9, 30, 10, 30, model.SlotStatusOpen),
		sample(3, weekStart, 0, 9, 0, 10, 0, model.SlotStatusBooked),
		sample(4, weekStart, 1, 14, 0, 15, 30, model.SlotStatusTentative),
		sample(5, weekStart, 2, 11, 0, 12, 0, model.SlotStatusConfirmed),
		sample(6, weekStart, 4, 16, 0, 18, 0, model.SlotStatusOpen),
	}

	layout, err := schedule.Pack(slots, weekStart, 4)
	if err != nil {
		log.Fatalf("pack: %v", err)
	}

	img, err := render.WeekImage(layout, 8, 20)
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	if err := os.WriteFile("week.png", img, 0o644); err != nil {
		log.Fatalf("write: %v", err)
	}
	log.Printf("wrote week.png (%d bytes, %d lanes max)", len(img), layout.MaxLanes)
}

func sample(id int64, weekStart time.Time, day, sh, sm, eh, em int, status model.SlotStatus) *model.Slot {
	d := weekStart.AddDate(0, 0, day)
	start := time.Date(d.Year(), d.Month(), d.Day(), sh, sm, 0, 0, d.Location())
	end := time.Date(d.Year(), d.Month(), d.Day(), eh, em, 0, 0, d.Location())
	year, week := model.WeekOf(start)
	return &model.Slot{
		ID:        id,
		OwnerID:   1,
		CourseID:  1,
		StartTime: start,
		EndTime:   end,
		Year:      year,
		Week:      week,
		Status:    status,
	}
}
