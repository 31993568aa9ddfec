package services

import "github.com/go-kratos/kratos/v2/errors"

// 错误原因码，供 errors.Is 按 reason 比对。
const (
	ReasonTitleNotFound     = "TITLE_NOT_FOUND"
	ReasonPartNotFound      = "PART_NOT_FOUND"
	ReasonStatsNotFound     = "STATS_NOT_FOUND"
	ReasonUserNotFound      = "USER_NOT_FOUND"
	ReasonAdminNotFound     = "ADMIN_NOT_FOUND"
	ReasonInvalidCode       = "INVALID_CODE"
	ReasonInvalidPartNumber = "INVALID_PART_NUMBER"
	ReasonInvalidField      = "INVALID_FIELD"
	ReasonInvalidChannelID  = "INVALID_CHANNEL_ID"
	ReasonInvalidLink       = "INVALID_LINK"
	ReasonInvalidQuery      = "INVALID_QUERY"
	ReasonNoParts           = "NO_PARTS"
	ReasonLastAdmin         = "LAST_ADMIN"
	ReasonBotNotAdmin       = "BOT_NOT_ADMIN"
	ReasonChatUnavailable   = "CHAT_UNAVAILABLE"
	ReasonStorageFailed     = "STORAGE_FAILED"
)

// 领域哨兵错误。
var (
	ErrTitleNotFound = errors.NotFound(ReasonTitleNotFound, "title not found")
	ErrPartNotFound  = errors.NotFound(ReasonPartNotFound, "part not found")
	ErrStatsNotFound = errors.NotFound(ReasonStatsNotFound, "stats not found")
	ErrUserNotFound  = errors.NotFound(ReasonUserNotFound, "user not found")
	ErrAdminNotFound = errors.NotFound(ReasonAdminNotFound, "admin not found")

	ErrInvalidCode       = errors.BadRequest(ReasonInvalidCode, "code must contain digits only")
	ErrInvalidPartNumber = errors.BadRequest(ReasonInvalidPartNumber, "part number must be a positive integer")
	ErrInvalidField      = errors.BadRequest(ReasonInvalidField, "invalid field or value")
	ErrInvalidChannelID  = errors.BadRequest(ReasonInvalidChannelID, "channel id must be numeric")
	ErrInvalidLink       = errors.BadRequest(ReasonInvalidLink, "link must be a full http(s) url")
	ErrInvalidQuery      = errors.BadRequest(ReasonInvalidQuery, "search query is empty")
	ErrNoParts           = errors.BadRequest(ReasonNoParts, "at least one part is required")
	ErrLastAdmin         = errors.BadRequest(ReasonLastAdmin, "the last admin cannot be removed")
	ErrBotNotAdmin       = errors.BadRequest(ReasonBotNotAdmin, "bot is not an administrator of the chat")
	ErrChatUnavailable   = errors.BadRequest(ReasonChatUnavailable, "chat is not reachable")
)

// storageError 包装存储层失败，对外只暴露通用信息。
func storageError(op string, err error) error {
	return errors.InternalServer(ReasonStorageFailed, op+" failed").WithCause(err)
}

// domainOr 原样返回领域错误（4xx），其余包装为存储失败。
func domainOr(op string, err error) error {
	var e *errors.Error
	if errors.As(err, &e) && e.Code < 500 {
		return err
	}
	return storageError(op, err)
}
