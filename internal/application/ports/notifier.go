package ports

// Notifier is the user-feedback surface. Checkout converts every backend
// failure into a notification here instead of letting it propagate.
type Notifier interface {
	Success(userID, title, message string)
	Error(userID, title, message string)
}
