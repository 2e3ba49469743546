package model

import "errors"

var userMessages = []struct {
	err error
	msg string
}{
	{ErrUnitsInvalid, "Please enter a valid positive number for units"},
	{ErrActivityTypeEmpty, "Please select an activity type"},
	{ErrActivityTypeUnknown, "Please select an activity type"},
	{ErrChallengeFieldsMissing, "Please fill in all fields"},
	{ErrChallengeNameTooLong, "Challenge name is too long"},
	{ErrChallengeGoalInvalid, "Please enter a valid goal amount"},
	{ErrCredentialsMissing, "Email and password are required"},
	{ErrNameMissing, "Please enter your name"},
	{ErrBioTooLong, "Bio is too long"},
}

// UserMessage returns the form error text for a validation error, or
// fallback when err is not one of this package's sentinels.
func UserMessage(err error, fallback string) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return fallback
}
