package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestMissingPermissionNames(t *testing.T) {
	var required int64 = discordgo.PermissionSendMessages | discordgo.PermissionManageMessages
	var held int64 = discordgo.PermissionSendMessages

	assert.Equal(t, []string{"Manage Messages"}, missingPermissionNames(required, held))
	assert.Nil(t, missingPermissionNames(required, required), "superset means nothing missing")
	assert.Nil(t, missingPermissionNames(0, 0))
}

func TestMissingPermissionNames_Multiple(t *testing.T) {
	var required int64 = discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak
	names := missingPermissionNames(required, 0)
	assert.ElementsMatch(t, []string{"Connect to Voice Channel", "Speak"}, names)
}

func TestIsPlatformPermissionError(t *testing.T) {
	permErr := &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
	}
	assert.True(t, isPlatformPermissionError(permErr))

	otherErr := &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel},
	}
	assert.False(t, isPlatformPermissionError(otherErr))
	assert.False(t, isPlatformPermissionError(assert.AnError))
}
