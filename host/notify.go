package host

import (
	"errors"

	"github.com/machinefabric/exteditor-go/compose"
	"github.com/machinefabric/exteditor-go/dispatch"
	"github.com/machinefabric/exteditor-go/editor"
	"github.com/machinefabric/exteditor-go/protocol"
	"github.com/machinefabric/exteditor-go/session"
)

// Notification titles for failures the user sees
const (
	TitleInvalidRequest   = "ExtEditorR received an invalid request"
	TitleSessionActive    = "ExtEditorR is already editing this message"
	TitleCreateTemp       = "ExtEditorR failed to create temporary file"
	TitleWriteTemp        = "ExtEditorR failed to write to temporary file"
	TitleReadTemp         = "ExtEditorR failed to read from temporary file"
	TitleProcessTemp      = "ExtEditorR failed to process temporary file"
	TitleSpawn            = "ExtEditorR failed to start editor"
	TitleEditorExit       = "ExtEditorR encountered error from external editor"
	TitleResponseTooLarge = "ExtEditorR failed to send response to Thunderbird"
	TitleInternal         = "ExtEditorR encountered an unexpected error"
)

// NotificationFor renders err as a user notification. Every failure
// resets the client's action except a rejected duplicate session, whose
// original session still owns it.
func NotificationFor(err error) compose.Notification {
	var (
		mismatch *protocol.VersionMismatchError
		invalid  *protocol.SchemaValidationError
		ioErr    *editor.IOError
		spawn    *editor.ProcessSpawnError
		exit     *editor.EditorExitError
	)

	switch {
	case errors.As(err, &mismatch):
		return mismatch.Notification()
	case errors.Is(err, session.ErrSessionActive):
		return compose.Notification{Title: TitleSessionActive, Message: err.Error()}
	case errors.As(err, &invalid), errors.Is(err, compose.ErrNoSessionID):
		return compose.Notification{Title: TitleInvalidRequest, Message: err.Error(), Reset: true}
	case errors.As(err, &ioErr):
		return compose.Notification{Title: ioTitle(ioErr.Op), Message: ioErr.Error(), Reset: true}
	case errors.As(err, &spawn):
		return compose.Notification{Title: TitleSpawn, Message: spawn.Error(), Reset: true}
	case errors.As(err, &exit):
		return compose.Notification{Title: TitleEditorExit, Message: exit.Error(), Reset: true}
	case errors.Is(err, dispatch.ErrResponseTooLarge):
		return compose.Notification{Title: TitleResponseTooLarge, Message: err.Error(), Reset: true}
	default:
		return compose.Notification{Title: TitleInternal, Message: err.Error(), Reset: true}
	}
}

func ioTitle(op string) string {
	switch op {
	case "create":
		return TitleCreateTemp
	case "write":
		return TitleWriteTemp
	case "parse":
		return TitleProcessTemp
	default:
		return TitleReadTemp
	}
}
