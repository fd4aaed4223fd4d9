// Package errors provides structured error handling with stable machine codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"

	// User errors
	CodeUserNotFound      Code = "USER_NOT_FOUND"
	CodeUserEmptyUsername Code = "USER_EMPTY_USERNAME"
	CodeUserEmptyFullname Code = "USER_EMPTY_FULLNAME"
	CodeUserEmptyEmail    Code = "USER_EMPTY_EMAIL"
	CodeUserEmptySubject  Code = "USER_EMPTY_SUBJECT"
	CodeUserExists        Code = "USER_ALREADY_EXISTS"

	// Follow errors
	CodeFollowSelf Code = "FOLLOW_SELF"

	// Post errors
	CodePostNotFound     Code = "POST_NOT_FOUND"
	CodePostEmptyStorage Code = "POST_EMPTY_STORAGE_ID"
	CodePostImageMissing Code = "POST_IMAGE_MISSING"

	// Comment errors
	CodeCommentEmptyContent Code = "COMMENT_EMPTY_CONTENT"

	// Media errors
	CodeMediaNotFound Code = "MEDIA_NOT_FOUND"

	// Generic request errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP response status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthorized:
		return http.StatusUnauthorized

	case CodeForbidden, CodeFollowSelf:
		return http.StatusForbidden

	case CodeUserNotFound,
		CodePostNotFound,
		CodeMediaNotFound,
		CodeNotFound:
		return http.StatusNotFound

	case CodeUserExists:
		return http.StatusConflict

	case CodeUserEmptyUsername,
		CodeUserEmptyFullname,
		CodeUserEmptyEmail,
		CodeUserEmptySubject,
		CodePostEmptyStorage,
		CodePostImageMissing,
		CodeCommentEmptyContent,
		CodeInvalidArgument:
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
