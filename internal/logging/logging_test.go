package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsToInfoOnBadLevel(t *testing.T) {
	log := New("not-a-level", "text")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewJSONFormatter(t *testing.T) {
	log := New("debug", "json")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestComponentAddsField(t *testing.T) {
	log := New("info", "text")
	entry := Component(log, "radio")
	assert.Equal(t, "radio", entry.Data["component"])
}
