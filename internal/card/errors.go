package card

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies why a render failed.
type Kind int

const (
	// KindDecode means the background or logo bytes could not be decoded.
	KindDecode Kind = iota + 1
	// KindRender covers everything else: invalid style knobs and failures while
	// measuring, laying out or compositing.
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode failure"
	case KindRender:
		return "render failure"
	}
	return "unknown failure"
}

// ErrInvalidStyle is wrapped by render failures caused by a bad tag color or
// title opacity.
var ErrInvalidStyle = stderrors.New("invalid style")

// Error is returned by Render. No image is produced when it is non-nil.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func decodeErr(err error) error { return &Error{Kind: KindDecode, Err: err} }
func renderErr(err error) error { return &Error{Kind: KindRender, Err: err} }

// KindOf reports the Kind of err, or 0 when err is not a render error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsDecode(err error) bool { return KindOf(err) == KindDecode }
func IsRender(err error) bool { return KindOf(err) == KindRender }
