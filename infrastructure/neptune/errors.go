package neptune

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

// ErrConnectionClosed reports that the server dropped the websocket before
// the traversal completed (close code 1006).
var ErrConnectionClosed = errors.New("graph connection closed prematurely")

// classifyError marks abrupt transport closures so callers can tell them
// apart from traversal errors. Other errors are returned unchanged.
func classifyError(err error) error {
	if err == nil || errors.Is(err, ErrConnectionClosed) {
		return err
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseAbnormalClosure {
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}

	// the driver sometimes flattens the close error into its message
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "close 1006") || strings.Contains(msg, "abnormal closure") {
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
	return err
}
