// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"
)

// Named pairs a writer with the name used in error messages.
type Named struct {
	Name   string
	Writer Writer
}

// Multi fans one record out to every writer. A failing writer does not
// stop the others.
type Multi []Named

func (m Multi) Write(rec Record) error {
	var errs []string
	for _, n := range m {
		if err := n.Writer.Write(rec); err != nil {
			errs = append(errs, fmt.Sprintf("writer %s: %v", n.Name, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}
