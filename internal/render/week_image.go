// Package render draws the packed weekly grid as a PNG. Lanes within a day
// are laid out side by side, so overlapping availability stays readable.
package render

import (
	"bytes"
	"image/color"
	"image/png"
	"time"

	"session-scheduler/internal/model"
	"session-scheduler/internal/schedule"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth    = 1400
	imageHeight   = 900
	headerHeight  = 80
	leftLabels    = 70
	dayPaddingX   = 4
	lanePadding   = 2
	minSlotHeight = 8.0
	slotRadius    = 4.0
	daysInWeek    = 7
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}
	slotTextColor  = color.RGBA{20, 24, 28, 230}

	statusColors = map[model.SlotStatus]color.RGBA{
		model.SlotStatusOpen:      {133, 193, 85, 220},
		model.SlotStatusTentative: {250, 210, 110, 230},
		model.SlotStatusBooked:    {255, 182, 193, 255},
		model.SlotStatusConfirmed: {120, 170, 240, 230},
	}
	slotDefaultColor = color.RGBA{220, 220, 220, 200}
)

// WeekImage renders one packed week. firstHour/lastHour bound the visible
// time axis; slots outside the bounds are clipped to it.
func WeekImage(layout *schedule.WeekLayout, firstHour, lastHour int) ([]byte, error) {
	if firstHour < 0 || firstHour > 23 {
		firstHour = 0
	}
	if lastHour <= firstHour || lastHour > 23 {
		lastHour = 23
	}
	totalHours := lastHour - firstHour + 1

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabels) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(totalHours)

	drawHeader(dc, layout.WeekStart)
	drawHourLabels(dc, firstHour, totalHours, cellHeight)

	for dayIdx := range layout.Days {
		day := &layout.Days[dayIdx]
		x := float64(leftLabels + dayIdx*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIdx)
		drawDayHeader(dc, day.Date, x, dayWidth)
		drawHourLines(dc, x, y, dayWidth, totalHours, cellHeight)
		drawLanes(dc, day, x, y, dayWidth, firstHour, lastHour, cellHeight)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawHeader(dc *gg.Context, weekStart time.Time) {
	title := weekStart.Format("02.01.2006") + " - " + weekStart.AddDate(0, 0, 6).Format("02.01.2006")
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, imageWidth/2, headerHeight/3, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, firstHour, totalHours int, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for h := 0; h < totalHours; h++ {
		y := float64(headerHeight) + float64(h)*cellHeight
		label := time.Date(0, 1, 1, firstHour+h, 0, 0, 0, time.UTC).Format("15:04")
		dc.DrawStringAnchored(label, leftLabels-8, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIdx int) {
	if dayIdx%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x float64, dayWidth int) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("Mon 02.01"), x+float64(dayWidth)/2, headerHeight-18, 0.5, 0.5)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth, totalHours int, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for h := 0; h <= totalHours; h++ {
		hy := y + float64(h)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawLanes(dc *gg.Context, day *schedule.Day, x, y float64, dayWidth, firstHour, lastHour int, cellHeight float64) {
	laneCount := len(day.Lanes)
	if laneCount == 0 {
		return
	}
	laneWidth := (float64(dayWidth) - 2*dayPaddingX) / float64(laneCount)

	for laneIdx, lane := range day.Lanes {
		laneX := x + dayPaddingX + float64(laneIdx)*laneWidth
		for _, slot := range lane {
			drawSlot(dc, slot, laneX, y, laneWidth, firstHour, lastHour, cellHeight)
		}
	}
}

func drawSlot(dc *gg.Context, slot *model.Slot, x, y, laneWidth float64, firstHour, lastHour int, cellHeight float64) {
	startHour := float64(slot.StartTime.Hour()) + float64(slot.StartTime.Minute())/60.0
	endHour := float64(slot.EndTime.Hour()) + float64(slot.EndTime.Minute())/60.0

	// Clip to the visible time axis so an out-of-bounds slot never paints
	// over the header band.
	lo, hi := float64(firstHour), float64(lastHour+1)
	if endHour <= lo || startHour >= hi {
		return
	}
	if startHour < lo {
		startHour = lo
	}
	if endHour > hi {
		endHour = hi
	}

	slotY := y + (startHour-float64(firstHour))*cellHeight
	slotHeight := (endHour - startHour) * cellHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}

	fill, ok := statusColors[slot.Status]
	if !ok {
		fill = slotDefaultColor
	}

	w := laneWidth - 2*lanePadding
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+lanePadding, slotY+1, w, slotHeight-2, slotRadius)
	dc.Fill()

	dc.SetColor(darken(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+lanePadding, slotY+1, w, slotHeight-2, slotRadius)
	dc.Stroke()

	if slotHeight > 14 {
		dc.SetColor(slotTextColor)
		label := slot.StartTime.Format("15:04") + "-" + slot.EndTime.Format("15:04")
		dc.DrawStringAnchored(label, x+laneWidth/2, slotY+slotHeight/2, 0.5, 0.5)
	}
}

func darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
