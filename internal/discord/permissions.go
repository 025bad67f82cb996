package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// permissionNames covers the flags deckhand commands declare. Unknown bits
// render as "unknown" rather than being dropped, so a miss is visible.
var permissionNames = map[int64]string{
	discordgo.PermissionAdministrator:      "Administrator",
	discordgo.PermissionManageChannels:     "Manage Channels",
	discordgo.PermissionManageGuild:        "Manage Server",
	discordgo.PermissionViewChannel:        "View Channel",
	discordgo.PermissionSendMessages:       "Send Messages",
	discordgo.PermissionManageMessages:     "Manage Messages",
	discordgo.PermissionEmbedLinks:         "Embed Links",
	discordgo.PermissionAttachFiles:        "Attach Files",
	discordgo.PermissionReadMessageHistory: "Read Message History",
	discordgo.PermissionVoiceConnect:       "Connect to Voice Channel",
	discordgo.PermissionVoiceSpeak:         "Speak",
	discordgo.PermissionModerateMembers:    "Moderate Members",
}

// missingPermissionNames lists the named flags in required that held lacks.
func missingPermissionNames(required, held int64) []string {
	missing := required &^ held
	if missing == 0 {
		return nil
	}
	var names []string
	for bit := int64(1); bit != 0 && bit <= missing; bit <<= 1 {
		if missing&bit == 0 {
			continue
		}
		if name, ok := permissionNames[bit]; ok {
			names = append(names, name)
		} else {
			names = append(names, "unknown")
		}
	}
	return names
}

func formatPermissionList(names []string) string {
	return strings.Join(names, ", ")
}
