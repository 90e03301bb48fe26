// ABOUTME: Tests for the logrus process logger
// ABOUTME: Checks level parsing and the app name prefix hook
package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewParsesLevelAndPrefixes(t *testing.T) {
	var buf bytes.Buffer
	l := New("crmdesk", "debug", &buf)

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.Info("fetched contacts")
	assert.Contains(t, buf.String(), "[crmdesk] fetched contacts")
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New("crmdesk", "chatty", &buf)

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level 'chatty'")
}
