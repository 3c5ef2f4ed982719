package db_models

import "gorm.io/datatypes"

// Session tokens are sealed before they reach the table.
type Session struct {
	BaseModel
	AccessToken    string `gorm:"type:text"`
	RefreshToken   string `gorm:"type:text"`
	Profile        datatypes.JSON
	TokenExpiresAt int64
	ExpiresAt      int64 `gorm:"index"`
}
