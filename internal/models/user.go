package models

// User represents the patient whose session the store holds
type User struct {
	ID                string  `gorm:"primaryKey;size:64" json:"id"`
	Name              string  `gorm:"size:100" json:"name"`
	Phone             string  `gorm:"size:32" json:"phone"`
	Email             string  `gorm:"size:255" json:"email,omitempty"`
	Avatar            string  `gorm:"size:255" json:"avatar"`
	ProfileCompletion int     `json:"profileCompletion"`
	Gender            *string `gorm:"size:20" json:"gender,omitempty"`
	Age               *int    `json:"age,omitempty"`
	Height            *int    `json:"height,omitempty"`
	Weight            *int    `json:"weight,omitempty"`
}

// UserPatch holds the fields of a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Name              *string `json:"name,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Email             *string `json:"email,omitempty"`
	Avatar            *string `json:"avatar,omitempty"`
	ProfileCompletion *int    `json:"profileCompletion,omitempty" binding:"omitempty,min=0,max=100"`
	Gender            *string `json:"gender,omitempty"`
	Age               *int    `json:"age,omitempty"`
	Height            *int    `json:"height,omitempty"`
	Weight            *int    `json:"weight,omitempty"`
}

// Apply merges the non-nil fields of p into u.
func (u *User) Apply(p UserPatch) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.ProfileCompletion != nil {
		u.ProfileCompletion = *p.ProfileCompletion
	}
	if p.Gender != nil {
		u.Gender = cloneValue(p.Gender)
	}
	if p.Age != nil {
		u.Age = cloneValue(p.Age)
	}
	if p.Height != nil {
		u.Height = cloneValue(p.Height)
	}
	if p.Weight != nil {
		u.Weight = cloneValue(p.Weight)
	}
}

// Clone returns a copy of u that shares no pointers with it.
func (u User) Clone() User {
	u.Gender = cloneValue(u.Gender)
	u.Age = cloneValue(u.Age)
	u.Height = cloneValue(u.Height)
	u.Weight = cloneValue(u.Weight)
	return u
}

func cloneValue[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
