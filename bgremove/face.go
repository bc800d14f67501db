package bgremove

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// minFaceQuality is the lowest detection score accepted as a face.
const minFaceQuality = 5.0

// FaceDetector finds faces with a pigo cascade classifier.
type FaceDetector struct {
	classifier *pigo.Pigo
	// MinSize is the smallest face size in pixels.
	MinSize int
	// Angle is the expected in-plane rotation of the faces, in the [0, 1] range.
	Angle float64
}

// NewFaceDetector unpacks a pigo cascade file.
func NewFaceDetector(cascade []byte) (*FaceDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}
	return &FaceDetector{classifier: classifier, MinSize: 20}, nil
}

// LoadFaceDetector reads and unpacks the cascade file found at path.
func LoadFaceDetector(path string) (*FaceDetector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the cascade file: %w", err)
	}
	return NewFaceDetector(cascade)
}

// Detect returns the bounding boxes of the faces found in the image.
func (fd *FaceDetector) Detect(img *image.NRGBA) []image.Rectangle {
	b := img.Bounds()
	dx, dy := b.Dx(), b.Dy()
	if dx == 0 || dy == 0 {
		return nil
	}

	cParams := pigo.CascadeParams{
		MinSize:     fd.MinSize,
		MaxSize:     max(dx, dy),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	// The result contains quadruplets representing the row, column, scale and detection score.
	dets := fd.classifier.RunCascade(cParams, fd.Angle)
	// Calculate the intersection over union (IoU) of two clusters.
	dets = fd.classifier.ClusterDetections(dets, 0.2)

	var faces []image.Rectangle
	for _, det := range dets {
		if det.Q < minFaceQuality {
			continue
		}
		half := det.Scale / 2
		r := image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half)
		faces = append(faces, r.Add(b.Min).Intersect(b))
	}
	return faces
}
