package notification

import (
	"errors"

	"github.com/raykavin/coinbot/pkg/core"
)

// Multi fans a broadcast out to every notifier. A failing notifier does not stop the others.
type Multi []core.Notifier

// Notify implements core.Notifier
func (m Multi) Notify(text string) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
