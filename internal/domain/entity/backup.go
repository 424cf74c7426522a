package entity

import "time"

// Backup copia fechada del catálogo (lista rotativa, la más antigua se descarta primero).
type Backup struct {
	CreatedAt time.Time `json:"timestamp"`
	Database  Database  `json:"data"`
}
