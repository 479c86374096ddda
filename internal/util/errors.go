package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")

	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrVideoNotFound  = errors.New("video asset not found")

	// ErrAccessDenied is a negative visibility verdict, not a server
	// fault: denied courses are simply omitted or answered with 404.
	ErrAccessDenied = errors.New("access denied")

	ErrSessionNotFound     = errors.New("playback session not found")
	ErrSessionClosed       = errors.New("playback session closed")
	ErrInvalidTransition   = errors.New("invalid playback transition")
	ErrMediaLoad           = errors.New("media load failure")
	ErrMetadataUnavailable = errors.New("media metadata unavailable")

	ErrInvalidVideoExt = errors.New("invalid video file extension")
)
