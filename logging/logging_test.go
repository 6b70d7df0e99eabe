package logging

import (
	"testing"

	"github.com/fulldump/biff"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {

	biff.Alternative("Levels", func(a *biff.A) {

		a.Alternative("Default", func(a *biff.A) {
			l, err := New("")
			biff.AssertNil(err)
			biff.AssertTrue(l.Core().Enabled(zapcore.InfoLevel))
			biff.AssertFalse(l.Core().Enabled(zapcore.DebugLevel))
		})

		a.Alternative("Debug", func(a *biff.A) {
			l, err := New("debug")
			biff.AssertNil(err)
			biff.AssertTrue(l.Core().Enabled(zapcore.DebugLevel))
		})

		a.Alternative("Warn", func(a *biff.A) {
			l, err := New("warn")
			biff.AssertNil(err)
			biff.AssertFalse(l.Core().Enabled(zapcore.InfoLevel))
			biff.AssertTrue(l.Core().Enabled(zapcore.WarnLevel))
		})

		a.Alternative("Unknown", func(a *biff.A) {
			l, err := New("loud")
			biff.AssertNotNil(err)
			biff.AssertNil(l)
		})
	})
}
