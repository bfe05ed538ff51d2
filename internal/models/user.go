package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
