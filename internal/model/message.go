package model

// Level classifies a user-visible message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a user-visible notice produced while handling an interaction.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}
