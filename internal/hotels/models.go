package hotels

import "time"

type Hotel struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Address   string    `json:"address" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Hotel) TableName() string {
	return "hotels"
}

type CreateHotelRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Address string `json:"address" binding:"max=255"`
}
