package audit

import (
	"context"

	"github.com/smile19439/forum-express-grading/pkg/log"
)

// Audit actions.
const (
	ActionSignUp         = "user.sign_up"
	ActionLogin          = "user.login"
	ActionLoginFailed    = "user.login_failed"
	ActionUpdateProfile  = "user.update_profile"
	ActionAddFavorite    = "relation.add_favorite"
	ActionRemoveFavorite = "relation.remove_favorite"
	ActionAddLike        = "relation.add_like"
	ActionRemoveLike     = "relation.remove_like"
	ActionFollow         = "relation.follow"
	ActionUnfollow       = "relation.unfollow"
)

// Field constants for audit entries.
const (
	FieldAction   = "action"
	FieldTargetID = "target_id"
	FieldDetail   = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, userID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogTarget emits an audit log entry that references a target entity.
func LogTarget(ctx context.Context, action string, userID, targetID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldTargetID, targetID).
		Msg(msg)
}

// LogWithDetail emits an audit log with an extra detail field.
func LogWithDetail(ctx context.Context, action string, userID string, detail string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldDetail, detail).
		Msg(msg)
}
