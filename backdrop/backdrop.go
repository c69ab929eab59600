// Package backdrop holds the two images shown behind the play control and
// the boolean that flips between them on every press.
package backdrop

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/tools/godoc/vfs"
)

const (
	RegistryFile    = "backdrop.json"
	DefaultOriginal = "anger.png"
	DefaultToggled  = "joy.png"
)

type Image struct {
	Path string
	// Data is the encoded image, nil when only the path is known.
	Data []byte
}

// Backdrop starts on the original image. Its toggle is independent of the
// playback state.
type Backdrop struct {
	m         sync.Mutex
	original  Image
	toggled   Image
	isToggled bool
}

func New(original, toggled Image) *Backdrop {
	return &Backdrop{original: original, toggled: toggled}
}

// Default knows the asset names but has no image data.
func Default() *Backdrop {
	return New(Image{Path: DefaultOriginal}, Image{Path: DefaultToggled})
}

// Toggle switches to the other image and returns it.
func (b *Backdrop) Toggle() Image {
	b.m.Lock()
	defer b.m.Unlock()
	b.isToggled = !b.isToggled
	return b.current()
}

func (b *Backdrop) Current() Image {
	b.m.Lock()
	defer b.m.Unlock()
	return b.current()
}

func (b *Backdrop) current() Image {
	if b.isToggled {
		return b.toggled
	}
	return b.original
}

func (b *Backdrop) IsToggled() bool {
	b.m.Lock()
	defer b.m.Unlock()
	return b.isToggled
}

type registry struct {
	Original string
	Toggled  string
}

// LoadFolder loads the backdrop from a regular folder.
// See Load for more information.
func LoadFolder(folder string, logger *zap.Logger) (*Backdrop, error) {
	return Load(vfs.OS(folder), logger)
}

// Load loads the backdrop from a virtual filesystem.
// At the root of the filesystem there must be a "backdrop.json" file naming
// the original and the toggled image.
func Load(fileSystem vfs.Opener, logger *zap.Logger) (*Backdrop, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	reg, err := loadRegistry(fileSystem, RegistryFile)
	if err != nil {
		return nil, err
	}
	if reg.Original == "" {
		reg.Original = DefaultOriginal
	}
	if reg.Toggled == "" {
		reg.Toggled = DefaultToggled
	}

	original, err := readFile(fileSystem, reg.Original)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", reg.Original, err)
	}
	toggled, err := readFile(fileSystem, reg.Toggled)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", reg.Toggled, err)
	}

	logger.Info("Loaded backdrop",
		zap.String("original", reg.Original),
		zap.String("toggled", reg.Toggled),
		zap.Duration("took", time.Since(start)))
	return New(Image{Path: reg.Original, Data: original}, Image{Path: reg.Toggled, Data: toggled}), nil
}

func readFile(fs vfs.Opener, path string) (data []byte, err error) {
	file, err := fs.Open(path)
	if err != nil {
		return
	}
	data, err = io.ReadAll(file)
	_ = file.Close()
	return
}

func loadRegistry(fs vfs.Opener, path string) (reg registry, err error) {
	data, err := readFile(fs, path)
	if err != nil {
		err = fmt.Errorf("failed to open %s: %w", path, err)
		return
	}
	err = json.Unmarshal(data, &reg)
	if err != nil {
		err = fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return
}
