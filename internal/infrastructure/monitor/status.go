package monitor

import "time"

type Status struct {
	PostgreSQL  bool      `json:"postgresql"`
	Redis       bool      `json:"redis"`
	History     bool      `json:"history"`
	HistorySize int       `json:"history_size"`
	LastCheck   time.Time `json:"last_check"`
}
