package models

// Doctor is a reference entity seeded at startup
type Doctor struct {
	ID             string   `gorm:"primaryKey;size:64" json:"id"`
	Name           string   `gorm:"size:100;not null" json:"name"`
	Specialization string   `gorm:"size:100" json:"specialization"`
	Avatar         string   `gorm:"size:255" json:"avatar"`
	Rating         *float64 `json:"rating,omitempty"`
	Experience     string   `gorm:"size:50" json:"experience,omitempty"`
	Fee            *float64 `json:"fee,omitempty"`
}

// Clone returns a copy of d that shares no pointers with it.
func (d Doctor) Clone() Doctor {
	d.Rating = cloneValue(d.Rating)
	d.Fee = cloneValue(d.Fee)
	return d
}
