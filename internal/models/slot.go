package models

// SlotBand groups bookable times into parts of the day
type SlotBand string

const (
	BandMorning   SlotBand = "morning"
	BandAfternoon SlotBand = "afternoon"
	BandEvening   SlotBand = "evening"
)

// Slot is a discrete bookable time within a band
type Slot struct {
	Band SlotBand `json:"band"`
	Time string   `json:"time"`
}
