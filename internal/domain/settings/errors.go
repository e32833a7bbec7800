package settings

import "errors"

var (
	ErrSettingsNotFound  = errors.New("settings not found")
	ErrInvalidLunchBreak = errors.New("lunch break end must be after lunch break start")
)
