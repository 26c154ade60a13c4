package discord

import "github.com/bwmarrin/discordgo"

const (
	cmdScores = "scores"
	cmdOT     = "ot"

	subStart      = "start"
	subStop       = "stop"
	subScoreboard = "scoreboard"
	subScore      = "score"
	subGuess      = "guess"
	subStandings  = "standings"
	subRollover   = "rollover"

	optTeam   = "team"
	optPlayer = "player"
)

var manageChannels int64 = discordgo.PermissionManageChannels

func teamOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optTeam,
		Description: "Team code or nickname, e.g. TOR or leafs",
		Required:    required,
	}
}

func subcommand(name, description string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     opts,
	}
}

// Commands returns the slash command definitions registered at startup.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        cmdScores,
			Description: "Live NHL scoreboard",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand(subStart, "Post live game events in this channel"),
				subcommand(subStop, "Stop posting live game events in this server"),
				subcommand(subScoreboard, "Show today's scoreboard"),
				subcommand(subScore, "Show one team's game today", teamOption(true)),
			},
		},
		{
			Name:        cmdOT,
			Description: "Overtime winner challenge",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand(subGuess, "Guess who scores the overtime winner",
					teamOption(true),
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        optPlayer,
						Description: "Player name or id",
						Required:    true,
					},
				),
				subcommand(subStandings, "Show this server's OT challenge standings"),
				subcommand(subRollover, "Resolve guesses and reset for a new day (admin)"),
			},
		},
	}
}

// adminOnly reports whether a subcommand needs Manage Channels.
func adminOnly(name, sub string) bool {
	switch {
	case name == cmdScores && (sub == subStart || sub == subStop):
		return true
	case name == cmdOT && sub == subRollover:
		return true
	}
	return false
}
