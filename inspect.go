package placeicon

import (
	"fmt"
	"os"

	"github.com/k1LoW/errors"
)

type State string

const (
	StatePlaceholder State = "placeholder"
	StateReplaced    State = "replaced"
	StateMissing     State = "missing"
	StateUnreadable  State = "unreadable"
)

// IconStatus describes the file found on disk for a size.
// Distance is the perceptual hash distance from the payload for replaced icons, otherwise -1.
type IconStatus struct {
	Size     Size
	Path     string
	State    State
	Distance int
}

// Inspect reports which icons under baseDir are still the payload and which have been replaced.
func Inspect(baseDir string, sizes []Size, payload []byte) (_ []*IconStatus, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	placeholder, err := NewImage(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	statuses := make([]*IconStatus, 0, len(sizes))
	for _, size := range sizes {
		p := IconPath(baseDir, size)
		st := &IconStatus{Size: size, Path: p, Distance: -1}
		statuses = append(statuses, st)
		fi, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				imageCache.delete(p)
				st.State = StateMissing
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if fi.IsDir() {
			st.State = StateUnreadable
			continue
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		i, err := newImageFromFileBytes(p, b)
		if err != nil {
			// Only content that does not decode is unreadable.
			st.State = StateUnreadable
			continue
		}
		if i.Equal(placeholder) {
			st.State = StatePlaceholder
			continue
		}
		st.State = StateReplaced
		d, err := i.Distance(placeholder)
		if err == nil {
			st.Distance = d
		}
	}
	return statuses, nil
}
