package server

import (
	"fmt"

	"github.com/google/uuid"
	"go.jetify.com/typeid/v2"
)

// PrefixRender is the typeid prefix of render ids
const PrefixRender = "render"

// newRenderID returns a sortable id such as render_01h455vb4pex5vsknk084sn02q
func newRenderID() string {
	return typeid.MustGenerate(PrefixRender).String()
}

// validateRenderID checks that id is a well-formed render id
func validateRenderID(id string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != PrefixRender {
		return fmt.Errorf("expected prefix %q but got %q in id %q", PrefixRender, parsed.Prefix(), id)
	}
	return nil
}

// newSessionID identifies one websocket connection
func newSessionID() string {
	return uuid.New().String()
}
