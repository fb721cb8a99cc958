package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
)

func TestLocalNoon(t *testing.T) {
	zones := []string{"UTC", "America/Los_Angeles", "Pacific/Honolulu", "Asia/Manila", "Pacific/Kiritimati", "Pacific/Pago_Pago"}

	for _, name := range zones {
		t.Run(name, func(t *testing.T) {
			loc, err := time.LoadLocation(name)
			gt.NoError(t, err).Required()

			noon, err := model.LocalNoon("2024-05-20", loc)
			gt.NoError(t, err).Required()

			// Round trip through epoch milliseconds the way the store does
			restored := time.UnixMilli(noon.UnixMilli()).In(loc)
			gt.Value(t, restored.Year()).Equal(2024)
			gt.Value(t, restored.Month()).Equal(time.May)
			gt.Value(t, restored.Day()).Equal(20)
			gt.Value(t, restored.Hour()).Equal(12)
		})
	}

	t.Run("nil location uses local", func(t *testing.T) {
		noon, err := model.LocalNoon("2024-05-20", nil)
		gt.NoError(t, err).Required()
		gt.Value(t, noon.Location()).Equal(time.Local)
	})

	t.Run("invalid date", func(t *testing.T) {
		for _, input := range []string{"", "2024-13-01", "20-05-2024", "yesterday"} {
			_, err := model.LocalNoon(input, time.UTC)
			gt.Value(t, err).NotNil()
			gt.Bool(t, errors.Is(err, model.ErrValidation)).True()
		}
	})
}
