package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

var resetCommand = &discordgo.ApplicationCommand{
	Name:        "reiniciar",
	Description: "Olvida la conversación actual y empieza de nuevo",
}

func (f *FrontDesk) handleReset(ctx context.Context, r InteractionResponder, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		RespondEphemeral(r, i, msgResetNothing)
		return
	}
	if f.Reset(ctx, i.ChannelID, user.ID) {
		RespondEphemeral(r, i, msgResetDone)
		return
	}
	RespondEphemeral(r, i, msgResetNothing)
}
