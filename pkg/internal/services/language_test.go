package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, UnknownLanguage, DetectLanguage(""))
	assert.Equal(t, UnknownLanguage, DetectLanguage("   "))
	assert.Equal(t, "en", DetectLanguage("The weather is lovely today and we are going for a long walk in the park."))
	assert.Equal(t, "de", DetectLanguage("Das Wetter ist heute wunderschön und wir gehen im Park spazieren."))
}
