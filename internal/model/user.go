package model

import "time"

// Seniority levels offered at sign-up
var Seniorities = []string{"Executive", "Senior", "Mid-level", "Junior"}

// Departments offered at sign-up
var Departments = []string{"Technology", "Product", "HR", "Finance", "Operations", "Marketing"}

// Locations offered at sign-up (UAE emirates)
var Locations = []string{
	"Abu Dhabi", "Dubai", "Sharjah", "Ajman", "Umm Al Quwain", "Ras Al Khaimah", "Fujairah",
}

// User is a registered participant or admin
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	JobTitle     string    `json:"jobTitle,omitempty" bson:"jobTitle,omitempty"`
	Seniority    string    `json:"seniority,omitempty" bson:"seniority,omitempty"`
	Department   string    `json:"department,omitempty" bson:"department,omitempty"`
	Location     string    `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Participant builds the interview profile for this user
func (u *User) Participant() Participant {
	return Participant{
		UserID:     u.ID,
		UserName:   u.Name,
		JobTitle:   u.JobTitle,
		Department: u.Department,
		Seniority:  u.Seniority,
		Location:   u.Location,
	}
}
