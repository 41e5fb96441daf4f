package model

// Settings is the small fixed record of user toggles persisted locally.
type Settings struct {
	AutoSave        bool `json:"autoSave"`
	Notifications   bool `json:"notifications"`
	DarkMode        bool `json:"darkMode"`
	HighQualityScan bool `json:"highQualityScan"`
}

// DefaultSettings returns the values used when nothing has been stored yet.
func DefaultSettings() Settings {
	return Settings{
		AutoSave:        true,
		Notifications:   true,
		DarkMode:        false,
		HighQualityScan: true,
	}
}
