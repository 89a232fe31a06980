package chat

import "time"

// Session captures one chat with a doctor; its transcript lives only in memory.
type Session struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctorId"`
	Replying  bool      `json:"replying"`
	CreatedAt time.Time `json:"createdAt"`
}
