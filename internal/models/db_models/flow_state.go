package db_models

// FlowState is one field of a browser session's flow storage.
type FlowState struct {
	BaseModel
	SessionID string `gorm:"size:64;not null;uniqueIndex:idx_flow_session_key"`
	FieldKey  string `gorm:"size:128;not null;uniqueIndex:idx_flow_session_key"`
	Value     string `gorm:"type:text"`
	ExpiresAt int64  `gorm:"index"` // 0 = never
}
