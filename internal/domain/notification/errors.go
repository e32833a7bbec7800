package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrRecipientRequired    = errors.New("notification needs a user or target roles")
)
