package domain

import "errors"

var (
	ErrInstanceNotFound = errors.New("instance not found")
	ErrInstanceParse    = errors.New("instance record is malformed")
	ErrInstanceExists   = errors.New("instance already exists")
	ErrInvalidName      = errors.New("invalid instance name")
	ErrIconNotFound     = errors.New("icon not found")
	ErrNoExecutable     = errors.New("no game executable configured")
	ErrModNotFound      = errors.New("mod not found")
	ErrModExists        = errors.New("mod already exists")

	// Diagnostics attached to ModInfo.Err; a scan never fails because of them.
	ErrArchiveUnreadable = errors.New("archive could not be opened")
	ErrModInfoMissing    = errors.New("archive has no modinfo.json")
	ErrModInfoInvalid    = errors.New("modinfo.json could not be decoded")
)
