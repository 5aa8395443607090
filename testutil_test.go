package gt1z

import "github.com/lb3361/gt1z/internal/gtlog"

func newNopLog() gtlog.Logger {
	return gtlog.Nop()
}
