package service

import "appointment-booking-server/internal/models"

var slotCatalog = buildCatalog(map[models.SlotBand][]string{
	models.BandMorning:   {"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM"},
	models.BandAfternoon: {"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM", "04:00 PM"},
	models.BandEvening:   {"06:00 PM", "06:30 PM", "07:00 PM", "07:30 PM", "08:00 PM"},
})

func buildCatalog(bands map[models.SlotBand][]string) []models.Slot {
	var out []models.Slot
	for _, band := range []models.SlotBand{models.BandMorning, models.BandAfternoon, models.BandEvening} {
		for _, t := range bands[band] {
			out = append(out, models.Slot{Band: band, Time: t})
		}
	}
	return out
}

// SlotCatalog returns the fixed set of bookable slots.
func SlotCatalog() []models.Slot {
	return append([]models.Slot(nil), slotCatalog...)
}
