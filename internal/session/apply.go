package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/constat/sketch/backend-go/internal/catalog"
	"github.com/constat/sketch/backend-go/internal/editor"
)

var errUnknownType = errors.New("unknown message type")

// handle applies one client message and answers with a fresh frame, or an
// error when nothing changed.
func (s *Session) handle(msg *Message) {
	if msg.Type == TypeSave {
		s.startSave()
		return
	}

	if err := s.apply(msg); err != nil {
		code := errorCode(err)
		s.logger.Debug("message rejected", "type", msg.Type, "code", code, "error", err)
		s.sendError(code, err)
		return
	}
	s.sendFrame()
}

func (s *Session) apply(msg *Message) error {
	ed := s.editor

	switch msg.Type {
	case TypePointerDown, TypePointerMove:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if msg.Type == TypePointerDown {
			return ed.PointerDown(p.Pointer, p.X, p.Y)
		}
		return ed.PointerMove(p.Pointer, p.X, p.Y)

	case TypePointerUp, TypePointerCancel:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if msg.Type == TypePointerUp {
			return ed.PointerUp(p.Pointer)
		}
		return ed.PointerCancel(p.Pointer)

	case TypeRotate:
		var p RotatePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		ed.RotateSelected(p.Delta)
	case TypeLayerUp:
		ed.LayerUp()
	case TypeLayerDown:
		ed.LayerDown()
	case TypeMoveToLayer:
		var p LayerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		ed.MoveSelectedToLayer(p.Z)
	case TypeAdd:
		var p AddPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if _, err := ed.Add(catalog.Kind(p.Kind)); err != nil {
			return err
		}
	case TypeDuplicate:
		ed.DuplicateSelected()
	case TypeDeleteRequest:
		ed.RequestDelete()
	case TypeDeleteConfirm:
		ed.ConfirmDelete()
	case TypeDeleteCancel:
		ed.CancelDelete()

	case TypeFullscreen, TypeControls, TypeLayers, TypeAddPanel:
		var p TogglePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		toggle(ed, msg.Type, p.Open)
	case TypeResize:
		var p ResizePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		ed.Resize(editor.Screen{Width: p.Width, Height: p.Height})

	case TypeFrameTick:
		// Frame only.
	default:
		return fmt.Errorf("%w: %q", errUnknownType, msg.Type)
	}
	return nil
}

func toggle(ed *editor.Editor, msgType string, open bool) {
	switch msgType {
	case TypeFullscreen:
		ed.SetFullscreen(open)
	case TypeControls:
		ed.SetControlsVisible(open)
	case TypeLayers:
		if open {
			ed.OpenLayerChooser()
		} else {
			ed.CloseLayerChooser()
		}
	case TypeAddPanel:
		if open {
			ed.OpenAddPanel()
		} else {
			ed.CloseAddPanel()
		}
	}
}

type payloadError struct {
	err error
}

func (e payloadError) Error() string { return "invalid payload: " + e.err.Error() }
func (e payloadError) Unwrap() error { return e.err }

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return payloadError{errors.New("missing payload")}
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return payloadError{err}
	}
	return nil
}

func errorCode(err error) string {
	var pe payloadError
	switch {
	case errors.As(err, &pe):
		return CodeBadPayload
	case errors.Is(err, editor.ErrPointerBusy):
		return CodePointerBusy
	case errors.Is(err, editor.ErrModalOpen):
		return CodeModalOpen
	case errors.Is(err, catalog.ErrUnknownKind):
		return CodeBadKind
	case errors.Is(err, errUnknownType):
		return CodeUnknownType
	}
	return CodeBadPayload
}
