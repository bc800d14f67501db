package editor

import (
	"errors"
	"fmt"

	"github.com/MadMatas/img-editor/utils"
)

var (
	// ErrNoTargetSelected is returned when an action requires a selected image.
	ErrNoTargetSelected = errors.New("no image selected")

	// ErrSampleRead is the parent of every pixel sampling failure.
	ErrSampleRead = errors.New("unable to read pixel")

	// ErrTaintedSurface is returned when the surface holds pixels that cannot be read back.
	ErrTaintedSurface = fmt.Errorf("%w: surface is tainted by a cross-origin image", ErrSampleRead)

	// ErrSampleOutOfBounds is returned when the sampled point falls outside of the surface.
	ErrSampleOutOfBounds = fmt.Errorf("%w: point out of surface bounds", ErrSampleRead)

	// ErrInvalidSurface is returned when the surface has no usable backing store.
	ErrInvalidSurface = fmt.Errorf("%w: surface has an invalid size", ErrSampleRead)

	// ErrNoSession is returned by pointer events received outside of a sampling session.
	ErrNoSession = errors.New("no color sampling session is active")

	// ErrFilterNoop is returned when filters are applied without an eligible image.
	ErrFilterNoop = errors.New("filters require a selected image")

	// ErrSessionActive is returned when a sampling session is already running.
	ErrSessionActive = errors.New("a color sampling session is already active")

	// ErrInvalidColor is returned for malformed hex colors.
	ErrInvalidColor = utils.ErrInvalidHex

	// ErrUnknownProperty is returned for a property name the panel does not know.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrPropertyNotApplicable is returned when a property does not apply to the drawable kind.
	ErrPropertyNotApplicable = errors.New("property does not apply to this object")
)
