package sampler

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

var ErrEmptySnapshot = errors.New("sampler: empty magnitude snapshot")

// Level maps a byte magnitude snapshot to a noise level in [0, 100]: the mean
// magnitude as a percentage of 255.
func Level(snapshot []byte) (float64, error) {
	return level(snapshot, make([]float64, len(snapshot)))
}

// level uses scratch, which must be at least as long as snapshot, to avoid
// allocating on every frame.
func level(snapshot []byte, scratch []float64) (float64, error) {
	if len(snapshot) == 0 {
		return 0, ErrEmptySnapshot
	}
	scratch = scratch[:len(snapshot)]
	for i, b := range snapshot {
		scratch[i] = float64(b)
	}
	average := floats.Sum(scratch) / float64(len(snapshot))
	return average / 255 * 100, nil
}

// Label formats the minute and second of t as zero-padded MM:SS.
func Label(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Minute(), t.Second())
}
