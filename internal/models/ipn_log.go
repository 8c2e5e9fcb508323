package models

import "time"

// IPNLog maps to the `ipn_log` table. One row per inbound notification,
// kept for post-mortem debugging and pruned by the retention job.
type IPNLog struct {
	ID        string    `gorm:"column:id;primaryKey;size:40" json:"id"`
	RawBody   string    `gorm:"column:raw_body;type:text" json:"raw_body"`
	Outcome   string    `gorm:"column:outcome;size:200" json:"outcome"`
	RemoteIP  string    `gorm:"column:remote_ip;size:100" json:"remote_ip"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (IPNLog) TableName() string {
	return "ipn_log"
}
