package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

const (
	msgUnknownCommand = "No conozco ese comando."
	msgResetDone      = "Listo, empezamos de nuevo. ¿En qué puedo ayudarte?"
	msgResetNothing   = "No teníamos ninguna conversación abierta. ¿En qué puedo ayudarte?"
)

// RespondEphemeral sends a text response only the caller can see.
func RespondEphemeral(r InteractionResponder, i *discordgo.InteractionCreate, content string) {
	err := r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Warn("discord: failed to send ephemeral response", "err", err)
	}
}

// interactionUser returns the invoking user in guilds and in direct messages.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
