package ircbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type widgetConfig struct {
	Name string
}

func TestDataPutAndGet(t *testing.T) {
	d := NewData()
	d.Put(widgetConfig{Name: "gizmo"})

	got := GetData[widgetConfig](d)
	assert.Equal(t, "gizmo", got.Name)
}

func TestDataGetPanicsOnMissingType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	d := NewData()
	GetData[widgetConfig](d)
}
