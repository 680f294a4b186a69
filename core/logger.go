package core

// Logger is any leveled logger the app can report to.
// Implementations may inspect trailing args for known types (errors, identities)
// before forwarding them.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
