package tui

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToastController_Push(t *testing.T) {
	c := NewToastController()

	c.Push(toastInfo, "hello")

	assert.True(t, c.HasToasts())
	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "hello", c.Toasts()[0].message)
	assert.Equal(t, defaultToastTTL, c.Toasts()[0].remaining)
}

func TestToastController_Push_EvictsOldest(t *testing.T) {
	c := NewToastController()

	for i := range defaultMaxToasts + 2 {
		c.Push(toastInfo, fmt.Sprintf("toast %d", i))
	}

	assert.Len(t, c.Toasts(), defaultMaxToasts)
	assert.Equal(t, "toast 2", c.Toasts()[0].message)
}

func TestToastController_Push_RepeatRestartsTTL(t *testing.T) {
	c := NewToastController()
	c.Push(toastError, "Location not found")
	c.Tick(time.Second)

	c.Push(toastError, "Location not found")

	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, defaultToastTTL, c.Toasts()[0].remaining)

	c.Push(toastInfo, "Location not found")
	assert.Len(t, c.Toasts(), 2, "different level stacks")
}

func TestToastController_Tick(t *testing.T) {
	c := NewToastController()
	c.Push(toastInfo, "expires")
	c.Push(toastInfo, "survives")

	c.toasts[0].remaining = 50 * time.Millisecond
	c.Tick(100 * time.Millisecond)

	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "survives", c.Toasts()[0].message)
	assert.Equal(t, defaultToastTTL-100*time.Millisecond, c.Toasts()[0].remaining)
}

func TestToastController_Dismiss(t *testing.T) {
	c := NewToastController()
	c.Push(toastInfo, "first")
	c.Push(toastInfo, "second")

	c.Dismiss()
	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "first", c.Toasts()[0].message)

	c.Dismiss()
	c.Dismiss()
	assert.False(t, c.HasToasts())
}
