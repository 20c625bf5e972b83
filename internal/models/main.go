package models

// ModelRegistry lists every model handed to gorm AutoMigrate, in dependency order.
var ModelRegistry = []any{
	&WaitlistEntry{},
	&BlockedAttempt{},
	&Customer{},
	&Job{},
}
