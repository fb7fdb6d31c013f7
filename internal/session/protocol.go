package session

import (
	"encoding/json"

	"github.com/constat/sketch/backend-go/internal/catalog"
	"github.com/constat/sketch/backend-go/internal/editor"
	"github.com/constat/sketch/backend-go/internal/render"
	"github.com/constat/sketch/backend-go/internal/scene"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Gestures (client → server)
	TypePointerDown   = "pointer.down"
	TypePointerMove   = "pointer.move"
	TypePointerUp     = "pointer.up"
	TypePointerCancel = "pointer.cancel"

	// Toolbar actions (client → server)
	TypeRotate        = "action.rotate"
	TypeLayerUp       = "action.layerUp"
	TypeLayerDown     = "action.layerDown"
	TypeMoveToLayer   = "action.moveToLayer"
	TypeAdd           = "action.add"
	TypeDuplicate     = "action.duplicate"
	TypeDeleteRequest = "action.deleteRequest"
	TypeDeleteConfirm = "action.deleteConfirm"
	TypeDeleteCancel  = "action.deleteCancel"

	// Host chrome (client → server)
	TypeFullscreen = "ui.fullscreen"
	TypeControls   = "ui.controls"
	TypeLayers     = "ui.layers"
	TypeAddPanel   = "ui.addPanel"
	TypeResize     = "ui.resize"

	TypeFrameTick = "frame.tick"
	TypeSave      = "sketch.save"

	// Server → client
	TypeWelcome    = "welcome"
	TypeFrame      = "frame"
	TypeSaved      = "sketch.saved"
	TypeSaveFailed = "sketch.saveFailed"
	TypeError      = "error"
)

// Error codes carried by TypeError messages.
const (
	CodeBadPayload  = "bad_payload"
	CodeUnknownType = "unknown_type"
	CodePointerBusy = "pointer_busy"
	CodeModalOpen   = "modal_open"
	CodeBadKind     = "bad_kind"
)

type PointerPayload struct {
	Pointer int     `json:"pointer"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type RotatePayload struct {
	Delta float64 `json:"delta"`
}

type LayerPayload struct {
	Z int `json:"z"`
}

type AddPayload struct {
	Kind string `json:"kind"`
}

// TogglePayload opens or closes a piece of chrome.
type TogglePayload struct {
	Open bool `json:"open"`
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type WelcomePayload struct {
	SessionID string          `json:"sessionId"`
	ClientID  string          `json:"clientId"`
	Catalog   []catalog.Group `json:"catalog"`
	Layers    []editor.Layer  `json:"layers"`
	Screen    editor.Screen   `json:"screen"`
	Frame     FramePayload    `json:"frame"`
}

type FramePayload struct {
	Canvas    scene.Size           `json:"canvas"`
	Commands  []render.DrawCommand `json:"commands"`
	UI        editor.UIState       `json:"ui"`
	Info      *editor.Info         `json:"info,omitempty"`
	Layers    []editor.Layer       `json:"layers,omitempty"` // Only while the chooser is open
	Animating bool                 `json:"animating"`
}

type SavedPayload struct {
	SketchID string `json:"sketchId"`
	URL      string `json:"url"`
	DataURI  string `json:"dataUri"`
}

type SaveFailedPayload struct {
	Reason string `json:"reason"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
