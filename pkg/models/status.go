package models

import "time"

type StatusCheck struct {
	ID         string    `json:"id" bson:"id"`
	ClientName string    `json:"client_name" bson:"client_name"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// CreateStatusCheck requires the client_name key. An empty name is accepted.
type CreateStatusCheck struct {
	ClientName *string `json:"client_name" binding:"required"`
}
